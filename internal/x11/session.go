package x11

import (
	"fmt"

	"github.com/xtrace11/xtrace/internal/logger"
)

// Session is the external entry point this package exposes to the rest of
// the tool (proxy, RECORD attachment, CLI): one Connection plus the
// process-wide Formatter it writes through.
type Session struct {
	Conn      *Connection
	formatter *Formatter
}

// New starts tracing a connection in the given mode, writing decoded text
// through formatter (shared across every Session so interleaving and
// client-id prefixing work across multiple simultaneous connections, per
// spec.md §3).
func New(id string, mode Mode, formatter *Formatter) *Session {
	return &Session{Conn: NewConnection(id, mode), formatter: formatter}
}

// FeedClientToServer demultiplexes and decodes the next chunk of
// client-to-server bytes.
func (s *Session) FeedClientToServer(data []byte) error {
	packets, err := s.Conn.FeedClientToServer(data)
	for _, pkt := range packets {
		s.handleClientPacket(pkt)
	}
	if err != nil {
		s.formatter.ProtocolError(s.Conn, err.Error())
	}
	return err
}

// FeedServerToClient demultiplexes and decodes the next chunk of
// server-to-client bytes.
func (s *Session) FeedServerToClient(data []byte) error {
	packets, err := s.Conn.FeedServerToClient(data)
	for _, pkt := range packets {
		s.handleServerPacket(pkt)
	}
	if err != nil {
		s.formatter.ProtocolError(s.Conn, err.Error())
	}
	return err
}

// Close finalises this connection's share of the Formatter's interleaving
// state. It does not close any underlying transport — the caller (proxy or
// RECORD attachment) owns that.
func (s *Session) Close() {
	s.formatter.Close(s.Conn)
}

func (s *Session) handleClientPacket(pkt Packet) {
	switch pkt.Kind {
	case PacketRequest:
		s.decodeRequest(pkt)
	}
}

func (s *Session) handleServerPacket(pkt Packet) {
	switch pkt.Kind {
	case PacketSetupDenied:
		s.formatter.writeLine(fmt.Sprintf("setup failed: %s\n", setupFailureReason(pkt.Data)))
	case PacketSetupUnsupported:
		s.formatter.writeLine("setup failed: unsupported authorization protocol\n")
	case PacketSetupAccepted:
		if len(pkt.Data) >= 16 {
			s.Conn.ClientID = s.Conn.ResourceIDBase
			s.Conn.ClientIDKnown = true
		}
	case PacketReply:
		s.decodeReply(pkt)
	case PacketError:
		s.decodeErrorPacket(pkt)
	case PacketEvent:
		s.decodeEventPacket(pkt)
	}
}

// setupFailureReason renders the textual reason a denied setup carries.
// body is a PacketSetupDenied packet's Data: the reason-length byte from
// the reply header, followed by the reply body that holds the reason.
func setupFailureReason(body []byte) string {
	if len(body) < 1 {
		return "<no reason>"
	}
	n := int(body[0])
	if 1+n > len(body) {
		n = len(body) - 1
	}
	return string(body[1 : 1+n])
}

func (s *Session) decodeRequest(pkt Packet) {
	data := pkt.Data
	if len(data) < 4 {
		return
	}
	opcode := int(data[0])
	detail := data[1]
	c := s.Conn
	seq := c.NextSeq()

	var name string
	var reply ReplyExpectation
	var decodeFn requestDecodeFunc

	ext := c.ExtensionForOpcode(opcode)
	if ext != nil {
		if info, ok := extensionRequestTable(ext)[int(detail)]; ok {
			name, reply, decodeFn = info.Name, info.Reply, info.Decode
		} else {
			name, reply = fmt.Sprintf("%s:UnknownRequest%d", ext.Name, detail), ReplyNone
		}
	} else if info, ok := CoreRequestTable[opcode]; ok {
		name, reply, decodeFn = info.Name, info.Reply, info.Decode
	} else {
		name, reply = fmt.Sprintf("UnknownRequest%d", opcode), ReplyNone
	}

	pb := s.formatter.Begin(name)
	r := newReader(data[4:], c.ByteOrder, pb)
	var payload any
	if decodeFn != nil {
		payload = decodeFn(c, pb, r, detail)
	} else {
		pb.Param("length", TypeDecU, len(data))
	}
	if pkt.BigRequest {
		pb.Param("big-request-length", TypeDecU, pkt.TrueLength)
	}

	recOpcode := opcode
	if ext != nil {
		recOpcode = ext.InternalID<<8 | int(detail)
	}
	req := &Request{Seq: seq, Opcode: recOpcode, Reply: reply, Payload: payload}
	s.formatter.RequestName(c, req, name)
	s.formatter.RequestDone(c, req, pb.End())
	c.Requests.Record(req)
}

func (s *Session) decodeReply(pkt Packet) {
	data := pkt.Data
	if len(data) < 8 {
		return
	}
	c := s.Conn
	detail := data[1]
	seq := readU16(data[2:4], c.ByteOrder)

	req, released := c.Requests.MatchReplyOrError(seq)
	for _, rel := range released {
		if rel.NoReply {
			s.formatter.NoReplyReceived(c, rel.Req)
		}
	}
	if req == nil {
		s.formatter.UnmatchedReply(c, seq)
		return
	}

	pb := s.formatter.Begin("")
	r := newReader(data[8:], c.ByteOrder, pb)

	if fn, ok := CoreReplyTable[req.Opcode]; ok {
		fn(c, pb, req, detail, r)
	} else if fn, ok := extReplyByName[req.Name]; ok {
		fn(c, pb, req, detail, r)
	} else {
		decodeUnknownReply(c, pb, r.remaining())
	}

	s.formatter.RespondTo(c, req, pb.End(), req.Name, false)
}

func (s *Session) decodeErrorPacket(pkt Packet) {
	data := pkt.Data
	if len(data) < 32 {
		return
	}
	c := s.Conn
	seq := readU16(data[2:4], c.ByteOrder)
	code := int(data[1])
	value := readU32(data[4:8], c.ByteOrder)
	minorOpcode := readU16(data[8:10], c.ByteOrder)
	majorOpcode := data[10]

	req, released := c.Requests.MatchReplyOrError(seq)
	for _, rel := range released {
		if rel.NoReply {
			s.formatter.NoReplyReceived(c, rel.Req)
		}
	}

	name, info, ok := lookupErrorInfo(c, code)
	pb := s.formatter.Begin(name)
	renderError(pb, code, majorOpcode, minorOpcode, value, info, ok)
	text := pb.End()

	if req == nil {
		s.formatter.UnmatchedError(c, name, text)
		return
	}
	s.formatter.RespondTo(c, req, text, name, true)
}

func (s *Session) decodeEventPacket(pkt Packet) {
	data := pkt.Data
	if len(data) < 32 {
		return
	}
	c := s.Conn
	rawCode := data[0]
	synthetic := rawCode&0x80 != 0
	code := int(rawCode &^ 0x80)
	detail := data[1]

	// KeymapNotify carries no sequence number field at all; it must not
	// touch the request table.
	if code != 11 {
		seq := readU16(data[2:4], c.ByteOrder)
		released := c.Requests.FlushUpTo(seq)
		for _, rel := range released {
			if rel.NoReply {
				s.formatter.NoReplyReceived(c, rel.Req)
			}
		}
	}

	var name string
	var decodeFn eventDecodeFunc
	if ext, sub := c.ExtensionForEvent(code); ext != nil {
		var table map[int]struct {
			Name   string
			Decode eventDecodeFunc
		}
		switch ext.InternalID {
		case extMitShm:
			table = shmEventTable
		}
		if info, ok := table[sub]; ok {
			name, decodeFn = ext.Name+info.Name, info.Decode
		} else {
			name = fmt.Sprintf("%s:UnknownEvent%d", ext.Name, code)
		}
	} else if info, ok := CoreEventTable[code]; ok {
		name, decodeFn = info.Name, info.Decode
	} else {
		name = fmt.Sprintf("UnknownEvent%d", code)
	}

	displayName := name
	if synthetic {
		displayName = "(synthetic) " + name
	}
	pb := s.formatter.Begin(displayName)
	r := newReader(data[4:], c.ByteOrder, pb)
	if decodeFn != nil {
		decodeFn(c, pb, detail, r)
	} else {
		pb.Param("code", TypeDecU, code)
	}

	text := pb.End()
	s.formatter.Event(c, name, text)
	logger.DebugCtx(nil, "event decoded", logger.ConnectionID(c.ID), logger.Component("x11"))
}
