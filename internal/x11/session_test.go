package x11

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildRequest frames a request packet: a 1-byte opcode, a 1-byte detail,
// and body (whose length plus the 4-byte header must be a multiple of 4).
func buildRequest(opcode, detail byte, body []byte) []byte {
	total := 4 + len(body)
	if total%4 != 0 {
		panic("buildRequest: misaligned body")
	}
	pkt := []byte{opcode, detail}
	pkt = append(pkt, le16(uint16(total/4))...)
	pkt = append(pkt, body...)
	return pkt
}

// buildReply frames a reply packet: fixedBody must be exactly 24 bytes
// (the fixed part after the 8-byte header); extra is the trailing
// variable-length data, whose length must be a multiple of 4.
func buildReply(detail byte, seq uint16, fixedBody, extra []byte) []byte {
	if len(fixedBody) != 24 {
		panic("buildReply: fixedBody must be 24 bytes")
	}
	if len(extra)%4 != 0 {
		panic("buildReply: misaligned extra")
	}
	pkt := []byte{1, detail}
	pkt = append(pkt, le16(seq)...)
	pkt = append(pkt, le32(uint32(len(extra)/4))...)
	pkt = append(pkt, fixedBody...)
	pkt = append(pkt, extra...)
	return pkt
}

func pad24(fields ...[]byte) []byte {
	var b []byte
	for _, f := range fields {
		b = append(b, f...)
	}
	if len(b) > 24 {
		panic("pad24: fields exceed 24 bytes")
	}
	return append(b, make([]byte, 24-len(b))...)
}

func buildErrorPacket(code byte, seq uint16, value uint32, minorOpcode uint16, majorOpcode byte) []byte {
	pkt := []byte{0, code}
	pkt = append(pkt, le16(seq)...)
	pkt = append(pkt, le32(value)...)
	pkt = append(pkt, le16(minorOpcode)...)
	pkt = append(pkt, majorOpcode)
	pkt = append(pkt, make([]byte, 32-len(pkt))...)
	return pkt
}

func buildEventPacket(code, detail byte, seq uint16, body28 []byte) []byte {
	if len(body28) != 28 {
		panic("buildEventPacket: body28 must be 28 bytes")
	}
	pkt := []byte{code, detail}
	pkt = append(pkt, le16(seq)...)
	pkt = append(pkt, body28...)
	return pkt
}

// newEstablishedSession runs a minimal no-auth handshake on both
// directions and returns a Session plus the buffer its Formatter writes
// decoded text to.
func newEstablishedSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	formatter := NewFormatter(buf)
	s := New("conn-1", ModeFull, formatter)

	require.NoError(t, s.FeedClientToServer(minimalClientSetup()))
	require.NoError(t, s.FeedServerToClient(minimalAcceptedSetupReply()))
	return s, buf
}

func TestSessionInternAtomRequestReply(t *testing.T) {
	s, buf := newEstablishedSession(t)

	body := le16(3) // name length
	body = append(body, 0, 0)
	body = append(body, []byte("FOO")...)
	body = append(body, 0) // pad to 4
	require.NoError(t, s.FeedClientToServer(buildRequest(16, 0, body)))

	require.Equal(t, `InternAtom(name="FOO", only-if-exists=False)`, buf.String())

	reply := buildReply(0, 1, pad24(le32(65)), nil)
	require.NoError(t, s.FeedServerToClient(reply))

	require.Equal(t, `InternAtom(name="FOO", only-if-exists=False) = (atom=a#65)`+"\n", buf.String())
}

func TestSessionLateArrivingReplyInterleaving(t *testing.T) {
	s, buf := newEstablishedSession(t)

	// GetGeometry (seq 1) stays pending...
	require.NoError(t, s.FeedClientToServer(buildRequest(14, 0, le32(0x10))))
	// ...until QueryPointer (seq 2) takes over the formatter's single
	// pending slot, orphaning GetGeometry's unterminated line.
	require.NoError(t, s.FeedClientToServer(buildRequest(38, 0, le32(0x20))))

	require.Equal(t, "GetGeometry(drawable=wp#10)QueryPointer(window=w#20)", buf.String())

	// GetGeometry's reply arrives first even though it's no longer the
	// pending record: its line is stitched in on its own "... = " line,
	// and the dangling QueryPointer line is closed as unfinished.
	ggReply := pad24(le32(1), le16(0), le16(0), le16(100), le16(200), le16(1))
	require.NoError(t, s.FeedServerToClient(buildReply(24, 1, ggReply, nil)))

	want := "GetGeometry(drawable=wp#10)QueryPointer(window=w#20)" +
		" = <unfinished>\n" +
		"... GetGeometry(drawable=wp#10) = (depth=24, root=w#1, x=0, y=0, width=100, height=200, border-width=1)\n"
	require.Equal(t, want, buf.String())

	qpReply := pad24(le32(1), le32(0), le16(5), le16(6), le16(7), le16(8), le16(0x0010))
	require.NoError(t, s.FeedServerToClient(buildReply(1, 2, qpReply, nil)))

	want += "... QueryPointer(window=w#20) = (same-screen=True, root=w#1, child=None, root-x=5, root-y=6, win-x=7, win-y=8, mask=Mod2)\n"
	require.Equal(t, want, buf.String())
}

func TestSessionUnmatchedReply(t *testing.T) {
	s, buf := newEstablishedSession(t)

	reply := buildReply(0, 99, pad24(), nil)
	require.NoError(t, s.FeedServerToClient(reply))

	require.Equal(t, "--- reply received for unknown request sequence number 99\n", buf.String())
}

func TestSessionBigRequestsExtensionEndToEnd(t *testing.T) {
	s, buf := newEstablishedSession(t)

	// QueryExtension("BIG-REQUESTS"), seq 1.
	qeBody := le16(12)
	qeBody = append(qeBody, 0, 0)
	qeBody = append(qeBody, []byte("BIG-REQUESTS")...)
	require.NoError(t, s.FeedClientToServer(buildRequest(98, 0, qeBody)))

	qeReply := pad24([]byte{1, 130, 0, 0})
	require.NoError(t, s.FeedServerToClient(buildReply(0, 1, qeReply, nil)))

	want := `QueryExtension(name="BIG-REQUESTS")` +
		" = (present=True, major-opcode=130, first-event=0, first-error=0)\n"
	require.Equal(t, want, buf.String())

	// BigReqEnable, seq 2, dispatched through the newly registered
	// extension's opcode (130).
	require.NoError(t, s.FeedClientToServer(buildRequest(130, 0, nil)))
	beReply := pad24(le32(65535))
	require.NoError(t, s.FeedServerToClient(buildReply(0, 2, beReply, nil)))

	want += "BigReqEnable() = (maximum-request-length=65535)\n"
	require.Equal(t, want, buf.String())

	// A BIG-REQUESTS-framed NoOperation: length word 0 signals the
	// extended-length form, true length 3 words (12 bytes total).
	bigReq := []byte{127, 0}
	bigReq = append(bigReq, le16(0)...)
	bigReq = append(bigReq, le32(3)...)
	bigReq = append(bigReq, 0, 0, 0, 0)
	require.NoError(t, s.FeedClientToServer(bigReq))

	want += "NoOperation(big-request-length=3)\n"
	require.Equal(t, want, buf.String())
}

func TestSessionFilterSuppressedRequestStillTracksSequence(t *testing.T) {
	s, buf := newEstablishedSession(t)

	reqFilter, eventFilter, err := ParseFilterTokens(nil, nil, "AllocColor")
	require.NoError(t, err)
	s.formatter.SetFilters(reqFilter, eventFilter)

	acBody := le32(1)
	acBody = append(acBody, le16(0x1111)...)
	acBody = append(acBody, le16(0x2222)...)
	acBody = append(acBody, le16(0x3333)...)
	acBody = append(acBody, 0, 0)
	require.NoError(t, s.FeedClientToServer(buildRequest(84, 0, acBody)))
	require.Empty(t, buf.String())

	acReply := pad24(le16(0x1111), le16(0x2222), le16(0x3333), []byte{0, 0}, le32(0xAB))
	require.NoError(t, s.FeedServerToClient(buildReply(0, 1, acReply, nil)))
	require.Empty(t, buf.String())

	require.NoError(t, s.FeedClientToServer(buildRequest(14, 0, le32(0x99))))
	ggReply := pad24(le32(2), le16(1), le16(2), le16(3), le16(4), le16(5))
	require.NoError(t, s.FeedServerToClient(buildReply(1, 2, ggReply, nil)))

	require.Equal(t, "GetGeometry(drawable=wp#99) = (depth=1, root=w#2, x=1, y=2, width=3, height=4, border-width=5)\n", buf.String())
}

func TestSessionSizeLimitTruncatesLine(t *testing.T) {
	s, buf := newEstablishedSession(t)
	s.formatter.SetSizeLimit(20)

	body := le32(0x30) // window
	body = append(body, le32(5)...)   // property atom
	body = append(body, le32(31)...)  // type atom
	body = append(body, 8, 0, 0, 0)   // format=8, pad
	body = append(body, le32(10)...)  // data length
	body = append(body, []byte("HELLOWORLD")...)
	body = append(body, 0, 0) // pad to 4

	require.NoError(t, s.FeedClientToServer(buildRequest(18, 0, body)))
	require.Equal(t, "ChangeProperty(mode=Replace...)\n", buf.String())
}

func TestSessionEventDispatch(t *testing.T) {
	s, buf := newEstablishedSession(t)

	body := le32(1000) // time
	body = append(body, le32(1)...)   // root
	body = append(body, le32(2)...)   // event
	body = append(body, le32(0)...)   // child
	body = append(body, le16(10)...)  // root-x
	body = append(body, le16(20)...)  // root-y
	body = append(body, le16(1)...)   // event-x
	body = append(body, le16(2)...)   // event-y
	body = append(body, le16(1)...)   // state
	body = append(body, 1, 0)         // same-screen, pad

	require.NoError(t, s.FeedServerToClient(buildEventPacket(2, 38, 7, body)))

	want := "--- KeyPress(detail=38, time=1000, root=w#1, event=w#2, child=None, root-x=10, root-y=20, event-x=1, event-y=2, state=Shift, same-screen=True)\n"
	require.Equal(t, want, buf.String())
}

func TestSessionErrorDispatchUnmatched(t *testing.T) {
	s, buf := newEstablishedSession(t)

	require.NoError(t, s.FeedServerToClient(buildErrorPacket(3, 77, 0x55, 1, 8)))

	want := "--- error received for unknown request: BadWindow(major-opcode=8, minor-opcode=1, bad-resource-id=w#55)\n"
	require.Equal(t, want, buf.String())
}
