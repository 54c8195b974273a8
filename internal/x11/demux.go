package x11

import "fmt"

// phase enumerates the stages a per-direction demultiplexer passes
// through. c2s and s2c share the enum but interpret most values
// differently; each demuxState instance belongs to exactly one direction,
// fixed at construction, so there is no ambiguity at runtime.
type phase int

const (
	phaseByteOrder     phase = iota // c2s only: first setup byte
	phaseSetupFixed                 // c2s: pad+8 header bytes; s2c: 8-byte setup-reply header
	phaseSetupVariable              // c2s: auth payload; s2c: setup-reply trailing body
	phaseMain                       // steady-state request/reply/error/event loop
	phaseBigRequestLen              // c2s sub-phase: reading the 4-byte extended length word
)

// demuxState is the resumable state of one direction's demultiplexer: an
// accumulation buffer plus enough scalar state to know what to do with
// the next bytes that arrive. Feed calls are cooperative — each call
// consumes everything it can from the buffer and returns, never blocking.
type demuxState struct {
	phase phase
	buf   []byte

	// c2s setup scratch
	authNameLen int
	authDataLen int

	// s2c setup scratch
	setupBodyLen int // trailing bytes still to accumulate after the 8-byte header

	// c2s main-loop scratch: the 4-byte header read before deciding
	// whether this is a BIG-REQUESTS extended request.
	pendingHeader []byte
}

func newDemuxState(mode Mode) *demuxState {
	if mode == ModeAttached {
		return &demuxState{phase: phaseMain}
	}
	return &demuxState{phase: phaseByteOrder}
}

// PacketKind distinguishes the framed units the demultiplexer emits.
type PacketKind int

const (
	PacketSetupDenied PacketKind = iota
	PacketSetupUnsupported
	PacketSetupAccepted
	PacketRequest
	PacketReply
	PacketError
	PacketEvent
)

// Packet is one framed unit emitted by the demultiplexer: Data holds the
// packet's bytes starting at its opcode/type byte (for requests) — for
// BIG-REQUESTS, the inserted length word has already been removed and
// TrueLength carries the real word count.
type Packet struct {
	Kind       PacketKind
	Data       []byte
	BigRequest bool
	TrueLength uint32 // BIG-REQUESTS word count, only set when BigRequest
}

func readU16(b []byte, order ByteOrder) uint16 {
	if order == BigEndian {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[1])<<8 | uint16(b[0])
}

func readU32(b []byte, order ByteOrder) uint32 {
	if order == BigEndian {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

func pad4(n int) int {
	if r := n % 4; r != 0 {
		return n + (4 - r)
	}
	return n
}

// FeedClientToServer accepts the next slice of client→server bytes, in
// arrival order, and returns every packet fully framed as a result. A
// slice that ends mid-packet is buffered; the remainder arrives on a
// later call.
func (c *Connection) FeedClientToServer(data []byte) ([]Packet, error) {
	s := c.c2s
	s.buf = append(s.buf, data...)
	var out []Packet

	for {
		switch s.phase {
		case phaseByteOrder:
			if len(s.buf) < 1 {
				return out, nil
			}
			switch s.buf[0] {
			case 0x42:
				c.ByteOrder = BigEndian
			case 0x6C:
				c.ByteOrder = LittleEndian
			default:
				c.Handshake = HandshakeErrored
				return out, fmt.Errorf("protocol error: unknown byte order byte 0x%02x", s.buf[0])
			}
			s.buf = s.buf[1:]
			s.phase = phaseSetupFixed

		case phaseSetupFixed:
			// 1 pad byte + 8 header bytes.
			if len(s.buf) < 9 {
				return out, nil
			}
			hdr := s.buf[:9]
			s.authNameLen = int(readU16(hdr[5:7], c.ByteOrder))
			s.authDataLen = int(readU16(hdr[7:9], c.ByteOrder))
			s.buf = s.buf[9:]
			s.phase = phaseSetupVariable

		case phaseSetupVariable:
			skip := pad4(s.authNameLen) + pad4(s.authDataLen)
			if len(s.buf) < skip {
				return out, nil
			}
			s.buf = s.buf[skip:]
			s.phase = phaseMain
			c.Handshake = HandshakeAwaitingSetup

		case phaseMain:
			if len(s.buf) < 4 {
				return out, nil
			}
			hdr := s.buf[:4]
			length := readU16(hdr[2:4], c.ByteOrder)
			if length == 0 {
				s.pendingHeader = append([]byte(nil), hdr...)
				s.buf = s.buf[4:]
				s.phase = phaseBigRequestLen
				continue
			}
			total := int(length)*4 - 4
			if len(s.buf) < 4+total {
				return out, nil
			}
			pkt := append([]byte(nil), s.buf[:4+total]...)
			s.buf = s.buf[4+total:]
			out = append(out, Packet{Kind: PacketRequest, Data: pkt})

		case phaseBigRequestLen:
			if len(s.buf) < 4 {
				return out, nil
			}
			trueLen := readU32(s.buf[:4], c.ByteOrder)
			if trueLen < 2 {
				c.Handshake = HandshakeErrored
				return out, fmt.Errorf("protocol error: BIG-REQUESTS length %d too small", trueLen)
			}
			body := int(trueLen)*4 - 8
			if len(s.buf) < 4+body {
				return out, nil
			}
			payload := append([]byte(nil), s.buf[4:4+body]...)
			s.buf = s.buf[4+body:]
			s.phase = phaseMain

			pkt := make([]byte, 0, 4+len(payload))
			pkt = append(pkt, s.pendingHeader...)
			pkt = append(pkt, payload...)
			out = append(out, Packet{Kind: PacketRequest, Data: pkt, BigRequest: true, TrueLength: trueLen})
			s.pendingHeader = nil
		}
	}
}

// FeedServerToClient accepts the next slice of server→client bytes and
// returns every packet fully framed as a result, exactly like
// FeedClientToServer.
func (c *Connection) FeedServerToClient(data []byte) ([]Packet, error) {
	s := c.s2c
	s.buf = append(s.buf, data...)
	var out []Packet

	for {
		switch s.phase {
		case phaseSetupFixed:
			if len(s.buf) < 8 {
				return out, nil
			}
			hdr := s.buf[:8]
			result := hdr[0]
			length := readU16(hdr[6:8], c.ByteOrder)
			s.setupBodyLen = int(length) * 4
			if len(s.buf) < 8+s.setupBodyLen {
				return out, nil
			}
			body := append([]byte(nil), s.buf[8:8+s.setupBodyLen]...)
			s.buf = s.buf[8+s.setupBodyLen:]

			switch result {
			case 0:
				c.Handshake = HandshakeErrored
				// The reason's length lives in header byte 1; keep it in
				// front of the body so the reason can be recovered.
				out = append(out, Packet{Kind: PacketSetupDenied, Data: append([]byte{hdr[1]}, body...)})
				return out, nil
			case 2:
				c.Handshake = HandshakeErrored
				out = append(out, Packet{Kind: PacketSetupUnsupported, Data: body})
				return out, nil
			case 1:
				if err := c.applySetupAccepted(body); err != nil {
					c.Handshake = HandshakeErrored
					return out, err
				}
				c.Handshake = HandshakeEstablished
				s.phase = phaseMain
				out = append(out, Packet{Kind: PacketSetupAccepted, Data: body})
			default:
				c.Handshake = HandshakeErrored
				return out, fmt.Errorf("protocol error: unknown setup result byte 0x%02x", result)
			}

		case phaseMain:
			if len(s.buf) < 32 {
				return out, nil
			}
			hdr := s.buf[:32]
			switch hdr[0] {
			case 1: // reply
				extra := int(readU32(hdr[4:8], c.ByteOrder)) * 4
				if len(s.buf) < 32+extra {
					return out, nil
				}
				pkt := append([]byte(nil), s.buf[:32+extra]...)
				s.buf = s.buf[32+extra:]
				out = append(out, Packet{Kind: PacketReply, Data: pkt})
			case 0: // error
				pkt := append([]byte(nil), hdr...)
				s.buf = s.buf[32:]
				out = append(out, Packet{Kind: PacketError, Data: pkt})
			default: // event
				pkt := append([]byte(nil), hdr...)
				s.buf = s.buf[32:]
				out = append(out, Packet{Kind: PacketEvent, Data: pkt})
			}

		default:
			// ModeAttached connections start in phaseMain; phaseByteOrder/
			// phaseSetupVariable/phaseBigRequestLen never apply to s2c.
			return out, nil
		}
	}
}

// applySetupAccepted extracts the connection state carried by an accepted
// setup reply: image byte order, bitmap scanline geometry, resource id
// base/mask, and the pixmap format table. Root-window/screen/visual
// structures are intentionally not parsed: nothing downstream needs them,
// per spec.md's WINDOW values rendering as a bare resource id.
func (c *Connection) applySetupAccepted(body []byte) error {
	if len(body) < 32 {
		return fmt.Errorf("protocol error: setup-accepted body too short (%d bytes)", len(body))
	}
	c.ResourceIDBase = readU32(body[4:8], c.ByteOrder)
	c.ResourceIDMask = readU32(body[8:12], c.ByteOrder)
	vendorLen := int(readU16(body[16:18], c.ByteOrder))
	numFormats := int(body[21])
	if body[22] == 0 {
		c.ImageByteOrder = LittleEndian
	} else {
		c.ImageByteOrder = BigEndian
	}
	c.BitmapScanlineUnit = body[24]
	c.BitmapScanlinePad = body[25]

	off := 32 + pad4(vendorLen)
	formats := make([]PixmapFormat, 0, numFormats)
	for i := 0; i < numFormats; i++ {
		start := off + i*8
		if start+3 > len(body) {
			break
		}
		formats = append(formats, PixmapFormat{
			Depth:        body[start],
			BitsPerPixel: body[start+1],
			ScanlinePad:  body[start+2],
		})
	}
	c.PixmapFormats = formats
	return nil
}
