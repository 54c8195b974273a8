// Package record implements the control-channel side of X RECORD
// extension attachment: a dedicated connection to the real X server used
// solely to request and receive a stream of another client's protocol
// traffic, which is then fed into an internal/x11 session in attached
// mode. Grounded on original_source/unix/uxxtrace.c's
// start_xrecord/xrecord_gotdata.
package record

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/xtrace11/xtrace/internal/logger"
	"github.com/xtrace11/xtrace/internal/proxy"
	"github.com/xtrace11/xtrace/internal/x11"
)

// Pseudo client-spec values defined by the RECORD extension protocol, in
// place of a concrete client resource id.
const (
	CurrentClients uint32 = 1
	FutureClients  uint32 = 2
)

const (
	recordCreateContext = 1
	recordEnableContext = 5
)

// Context is a live RECORD attachment.
type Context struct {
	conn   net.Conn
	opcode byte
	ctxID  uint32
}

// Attach opens a fresh connection to display, confirms the server
// advertises the RECORD extension, and creates+enables a recording
// context covering the given client specs (concrete resource ids, or the
// CurrentClients/FutureClients pseudo-values).
func Attach(display string, clientSpecs []uint32) (*Context, error) {
	conn, err := proxy.DialUpstream(display)
	if err != nil {
		return nil, fmt.Errorf("record: dial %s: %w", display, err)
	}

	rbase, rmask, err := handshake(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	opcode, err := queryExtension(conn, "RECORD")
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := queryVersion(conn, opcode); err != nil {
		_ = conn.Close()
		return nil, err
	}

	ctxID := rbase | (rmask & 0x33333333)
	if err := createContext(conn, opcode, ctxID, clientSpecs); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := enableContext(conn, opcode, ctxID); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Context{conn: conn, opcode: opcode, ctxID: ctxID}, nil
}

// Close tears down the RECORD control connection.
func (c *Context) Close() error {
	return c.conn.Close()
}

// Run reads the indefinite stream of RecordEnableContext replies and
// feeds each one's payload into session, until the recorded client exits
// or the connection fails.
func (c *Context) Run(session *x11.Session) error {
	byteOrderSet := false
	header := make([]byte, 32)

	for {
		if _, err := io.ReadFull(c.conn, header); err != nil {
			return fmt.Errorf("record: read data record: %w", err)
		}

		var payload []byte
		if header[0] == 1 {
			extra := int(binary.BigEndian.Uint32(header[4:8])) * 4
			payload = make([]byte, extra)
			if extra > 0 {
				if _, err := io.ReadFull(c.conn, payload); err != nil {
					return fmt.Errorf("record: read data record body: %w", err)
				}
			}
		} else {
			// Not a reply-shaped record: an interleaved core event on the
			// control connection itself. Nothing to do with it.
			continue
		}

		if !byteOrderSet {
			if header[9] != 0 {
				session.Conn.ByteOrder = x11.LittleEndian
			} else {
				session.Conn.ByteOrder = x11.BigEndian
			}
			byteOrderSet = true
		}

		switch header[1] {
		case 4: // StartOfData
		case 1: // FromClientXXX: request data
			if err := session.FeedClientToServer(payload); err != nil {
				logger.Warn("record: decode error on client data", "error", err)
			}
		case 0: // FromServerXXX: reply/error/event data
			if err := session.FeedServerToClient(payload); err != nil {
				logger.Warn("record: decode error on server data", "error", err)
			}
		case 3: // client exited
			return nil
		default:
			logger.Warn("record: unexpected data record category", "category", header[1])
		}
	}
}

func handshake(conn net.Conn) (rbase, rmask uint32, err error) {
	req := make([]byte, 12)
	req[0] = 'B'
	binary.BigEndian.PutUint16(req[2:4], 11)
	if _, err = conn.Write(req); err != nil {
		return 0, 0, fmt.Errorf("record: send setup: %w", err)
	}

	head := make([]byte, 8)
	if _, err = io.ReadFull(conn, head); err != nil {
		return 0, 0, fmt.Errorf("record: read setup header: %w", err)
	}
	extra := int(binary.BigEndian.Uint16(head[6:8])) * 4
	body := make([]byte, extra)
	if extra > 0 {
		if _, err = io.ReadFull(conn, body); err != nil {
			return 0, 0, fmt.Errorf("record: read setup body: %w", err)
		}
	}
	if head[0] != 1 {
		n := int(head[1])
		if n > len(body) {
			n = len(body)
		}
		return 0, 0, fmt.Errorf("record: X server denied connection: %s", body[:n])
	}
	if len(body) < 12 {
		return 0, 0, fmt.Errorf("record: setup reply too short")
	}
	rbase = binary.BigEndian.Uint32(body[4:8])
	rmask = binary.BigEndian.Uint32(body[8:12])
	return rbase, rmask, nil
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

func queryExtension(conn net.Conn, name string) (byte, error) {
	padded := pad4(len(name))
	buf := make([]byte, 8+padded)
	buf[0] = 98 // QueryExtension
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(buf)/4))
	binary.BigEndian.PutUint16(buf[4:6], uint16(len(name)))
	copy(buf[8:], name)
	if _, err := conn.Write(buf); err != nil {
		return 0, fmt.Errorf("record: send QueryExtension: %w", err)
	}

	reply := make([]byte, 32)
	if _, err := io.ReadFull(conn, reply); err != nil {
		return 0, fmt.Errorf("record: read QueryExtension reply: %w", err)
	}
	if extra := int(binary.BigEndian.Uint32(reply[4:8])) * 4; extra > 0 {
		if _, err := io.ReadFull(conn, make([]byte, extra)); err != nil {
			return 0, fmt.Errorf("record: drain QueryExtension reply: %w", err)
		}
	}
	if reply[0] != 1 {
		return 0, fmt.Errorf("record: QueryExtension failed (response code %d)", reply[0])
	}
	if reply[8] != 1 {
		return 0, fmt.Errorf("record: X server does not support the RECORD extension")
	}
	return reply[9], nil
}

func queryVersion(conn net.Conn, opcode byte) error {
	buf := make([]byte, 8)
	buf[0] = opcode
	buf[1] = 0 // RecordQueryVersion
	binary.BigEndian.PutUint16(buf[2:4], 2)
	binary.BigEndian.PutUint16(buf[4:6], 1)  // major version
	binary.BigEndian.PutUint16(buf[6:8], 13) // minor version
	if _, err := conn.Write(buf); err != nil {
		return fmt.Errorf("record: send RecordQueryVersion: %w", err)
	}

	reply := make([]byte, 32)
	if _, err := io.ReadFull(conn, reply); err != nil {
		return fmt.Errorf("record: read RecordQueryVersion reply: %w", err)
	}
	if extra := int(binary.BigEndian.Uint32(reply[4:8])) * 4; extra > 0 {
		if _, err := io.ReadFull(conn, make([]byte, extra)); err != nil {
			return fmt.Errorf("record: drain RecordQueryVersion reply: %w", err)
		}
	}
	if reply[0] != 1 {
		return fmt.Errorf("record: RecordQueryVersion failed (response code %d)", reply[0])
	}
	return nil
}

// createContext builds and sends a RecordCreateContext request covering
// all core requests/replies, all extension opcodes, all delivered
// events, all errors, and client-died notifications, for the given
// client specs.
func createContext(conn net.Conn, opcode byte, ctxID uint32, clientSpecs []uint32) error {
	if len(clientSpecs) == 0 {
		clientSpecs = []uint32{CurrentClients, FutureClients}
	}

	const rangeSize = 24
	total := 20 + 4*len(clientSpecs) + rangeSize
	buf := make([]byte, total)

	buf[0] = opcode
	buf[1] = recordCreateContext
	binary.BigEndian.PutUint16(buf[2:4], uint16(total/4))
	binary.BigEndian.PutUint32(buf[4:8], ctxID)
	buf[8] = 0 // element header: no headers wanted
	binary.BigEndian.PutUint32(buf[12:16], uint32(len(clientSpecs)))
	binary.BigEndian.PutUint32(buf[16:20], 1) // one range

	off := 20
	for _, spec := range clientSpecs {
		binary.BigEndian.PutUint32(buf[off:off+4], spec)
		off += 4
	}

	r := buf[off:]
	r[0], r[1] = 0, 127 // core requests
	r[2], r[3] = 0, 127 // core replies
	r[4], r[5] = 128, 255
	binary.BigEndian.PutUint16(r[6:8], 0)
	binary.BigEndian.PutUint16(r[8:10], 65535) // ext requests, all minors
	r[10], r[11] = 128, 255
	binary.BigEndian.PutUint16(r[12:14], 0)
	binary.BigEndian.PutUint16(r[14:16], 65535) // ext replies, all minors
	r[16], r[17] = 2, 255                       // delivered events
	r[18], r[19] = 0, 0                         // device events: none
	r[20], r[21] = 0, 255                       // errors
	r[22] = 0                                   // client-started: no
	r[23] = 1                                   // client-died: yes

	if _, err := conn.Write(buf); err != nil {
		return fmt.Errorf("record: send RecordCreateContext: %w", err)
	}
	return nil
}

func enableContext(conn net.Conn, opcode byte, ctxID uint32) error {
	buf := make([]byte, 8)
	buf[0] = opcode
	buf[1] = recordEnableContext
	binary.BigEndian.PutUint16(buf[2:4], 2)
	binary.BigEndian.PutUint32(buf[4:8], ctxID)
	if _, err := conn.Write(buf); err != nil {
		return fmt.Errorf("record: send RecordEnableContext: %w", err)
	}
	return nil
}
