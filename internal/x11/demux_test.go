package x11

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// minimalClientSetup builds a no-auth little-endian setup request:
// byte-order byte, 1 pad byte, major/minor version, zero-length auth name
// and data.
func minimalClientSetup() []byte {
	b := []byte{0x6C, 0}
	b = append(b, le16(11)...) // major version
	b = append(b, le16(0)...)  // minor version
	b = append(b, le16(0)...)  // auth-name length
	b = append(b, le16(0)...)  // auth-data length
	return b
}

// minimalAcceptedSetupReply builds an accepted setup reply with a 32-byte
// body (zero-length vendor string, zero pixmap formats) — the smallest
// body applySetupAccepted will parse successfully.
func minimalAcceptedSetupReply() []byte {
	body := make([]byte, 32)
	copy(body[4:8], le32(0x01000000))  // ResourceIDBase
	copy(body[8:12], le32(0x001FFFFF)) // ResourceIDMask
	copy(body[16:18], le16(0))         // vendor length
	body[21] = 0                       // numFormats
	body[22] = 0                       // ImageByteOrder: LSBFirst
	body[24] = 32                      // BitmapScanlineUnit
	body[25] = 32                      // BitmapScanlinePad

	hdr := []byte{1, 0}
	hdr = append(hdr, le16(11)...)
	hdr = append(hdr, le16(0)...)
	hdr = append(hdr, le16(uint16(len(body)/4))...)
	return append(hdr, body...)
}

func TestFeedClientToServerHandshakeThenRequest(t *testing.T) {
	c := NewConnection("t1", ModeFull)

	pkts, err := c.FeedClientToServer(minimalClientSetup())
	require.NoError(t, err)
	assert.Empty(t, pkts)
	assert.Equal(t, LittleEndian, c.ByteOrder)
	assert.Equal(t, HandshakeAwaitingSetup, c.Handshake)

	// A 4-byte-only request: opcode 127 (NoOperation), length=1 (one
	// 4-byte unit total, i.e. no extra body).
	req := []byte{127, 0}
	req = append(req, le16(1)...)

	pkts, err = c.FeedClientToServer(req)
	require.NoError(t, err)
	require.Len(t, pkts, 1)
	assert.Equal(t, PacketRequest, pkts[0].Kind)
	assert.Equal(t, req, pkts[0].Data)
	assert.False(t, pkts[0].BigRequest)
}

func TestFeedClientToServerSplitAcrossCalls(t *testing.T) {
	c := NewConnection("t1", ModeFull)
	setup := minimalClientSetup()

	pkts, err := c.FeedClientToServer(setup[:5])
	require.NoError(t, err)
	assert.Empty(t, pkts)

	pkts, err = c.FeedClientToServer(setup[5:])
	require.NoError(t, err)
	assert.Empty(t, pkts)
	assert.Equal(t, HandshakeAwaitingSetup, c.Handshake)
}

func TestFeedClientToServerUnknownByteOrder(t *testing.T) {
	c := NewConnection("t1", ModeFull)
	_, err := c.FeedClientToServer([]byte{0x00})
	require.Error(t, err)
	assert.Equal(t, HandshakeErrored, c.Handshake)
}

func TestFeedClientToServerBigRequest(t *testing.T) {
	c := NewConnection("t1", ModeFull)
	_, err := c.FeedClientToServer(minimalClientSetup())
	require.NoError(t, err)

	// length field is 0 to signal BIG-REQUESTS; the next 4 bytes carry the
	// true word count, body is (trueLen*4 - 8) bytes.
	const trueLen = 4 // 16 bytes total: 4 header + 4 length word + 8 body
	req := []byte{100, 0}
	req = append(req, le16(0)...)
	req = append(req, le32(trueLen)...)
	req = append(req, make([]byte, trueLen*4-8)...)

	pkts, err := c.FeedClientToServer(req)
	require.NoError(t, err)
	require.Len(t, pkts, 1)
	assert.True(t, pkts[0].BigRequest)
	assert.Equal(t, uint32(trueLen), pkts[0].TrueLength)
	assert.Equal(t, 4+(trueLen*4-8), len(pkts[0].Data))
}

func TestFeedServerToClientAcceptedSetup(t *testing.T) {
	c := NewConnection("t1", ModeFull)
	pkts, err := c.FeedServerToClient(minimalAcceptedSetupReply())
	require.NoError(t, err)
	require.Len(t, pkts, 1)
	assert.Equal(t, PacketSetupAccepted, pkts[0].Kind)
	assert.Equal(t, HandshakeEstablished, c.Handshake)
	assert.Equal(t, uint32(0x01000000), c.ResourceIDBase)
	assert.Equal(t, uint8(32), c.BitmapScanlineUnit)
}

func TestFeedServerToClientDeniedSetup(t *testing.T) {
	c := NewConnection("t1", ModeFull)
	reason := "go away"
	body := []byte(reason)
	body = append(body, make([]byte, pad4(len(body))-len(body))...)

	hdr := []byte{0, byte(len(reason))}
	hdr = append(hdr, le16(11)...)
	hdr = append(hdr, le16(0)...)
	hdr = append(hdr, le16(uint16(len(body)/4))...)

	pkts, err := c.FeedServerToClient(append(hdr, body...))
	require.NoError(t, err)
	require.Len(t, pkts, 1)
	assert.Equal(t, PacketSetupDenied, pkts[0].Kind)
	assert.Equal(t, HandshakeErrored, c.Handshake)
	assert.Equal(t, "go away", setupFailureReason(pkts[0].Data))
}

func TestFeedServerToClientReplyErrorEventFraming(t *testing.T) {
	c := NewConnection("t1", ModeFull)
	_, err := c.FeedServerToClient(minimalAcceptedSetupReply())
	require.NoError(t, err)

	reply := make([]byte, 32)
	reply[0] = 1 // reply

	errPkt := make([]byte, 32)
	errPkt[0] = 0 // error
	errPkt[1] = 3 // BadWindow

	event := make([]byte, 32)
	event[0] = 2 // KeyPress

	pkts, err := c.FeedServerToClient(append(append(reply, errPkt...), event...))
	require.NoError(t, err)
	require.Len(t, pkts, 3)
	assert.Equal(t, PacketReply, pkts[0].Kind)
	assert.Equal(t, PacketError, pkts[1].Kind)
	assert.Equal(t, PacketEvent, pkts[2].Kind)
}
