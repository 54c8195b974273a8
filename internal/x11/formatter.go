package x11

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/xtrace11/xtrace/internal/logger"
)

// Formatter is the process-wide output sink and interleaving state
// described by spec.md §3/§4.4 and Design Notes §9 ("a single explicit
// LogContext value threaded to the formatter"). One Formatter instance is
// shared by every traced connection, exactly as the original tracer's
// global log sink and pending-request pointer are process-wide.
type Formatter struct {
	mu   sync.Mutex
	out  io.Writer
	size int // 0 = unlimited

	reqFilter   *Filter
	eventFilter *Filter

	pending     *Request
	pendingConn *Connection

	seenConns   map[string]bool
	forcePrefix bool

	metrics MetricsSink
}

// MetricsSink receives one observation per decoded request/reply/error/
// event, labelled by name and connection id. internal/metrics.Collector
// satisfies this interface; Formatter works with a nil sink (the default)
// at zero overhead.
type MetricsSink interface {
	ObserveRequest(name, connectionID string)
	ObserveReply(name, connectionID string)
	ObserveError(name, connectionID string)
	ObserveEvent(name, connectionID string)
}

// SetMetricsSink attaches sink so every subsequent decoded packet is also
// reported there. Pass nil to disable.
func (f *Formatter) SetMetricsSink(sink MetricsSink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metrics = sink
}

// NewFormatter builds a Formatter writing to out with no size limit and
// no filters (everything passes).
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{
		out:         out,
		reqFilter:   NewFilter(),
		eventFilter: NewFilter(),
		seenConns:   make(map[string]bool),
	}
}

// SetSizeLimit bounds the length of any single accumulated line; 0 means
// unlimited.
func (f *Formatter) SetSizeLimit(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.size = n
}

// RequestFilterMatches reports whether name currently passes the request
// filter, for callers (config live-reload, tests) that need to observe the
// effect of SetFilters without reaching into Formatter internals.
func (f *Formatter) RequestFilterMatches(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reqFilter.Matches(name)
}

// SetFilters installs the request and event filter sets, replacing any
// previous ones. Safe to call while a trace is running (live reload);
// per spec.md's "printed decided once" rule, requests already dispatched
// keep whatever Printed value they were given.
func (f *Formatter) SetFilters(reqFilter, eventFilter *Filter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqFilter = reqFilter
	f.eventFilter = eventFilter
}

// ForcePrefix forces the client-id prefix mode on even with a single
// connection.
func (f *Formatter) ForcePrefix() {
	f.mu.Lock()
	f.forcePrefix = true
	f.mu.Unlock()
}

func (f *Formatter) writeLine(s string) {
	io.WriteString(f.out, s)
}

func (f *Formatter) prefix(c *Connection) string {
	f.seenConns[c.ID] = true
	if !f.forcePrefix && len(f.seenConns) < 2 {
		return ""
	}
	if !c.ClientIDKnown {
		return "new-conn: "
	}
	return fmt.Sprintf("%08x: ", c.ClientID)
}

// RequestName is called once per request, at decode time, to set its
// Name/Printed fields per spec.md's "printed decided once at dispatch"
// rule — mirrors the original's xlog_request_name.
func (f *Formatter) RequestName(c *Connection, req *Request, name string) {
	req.Name = name
	f.mu.Lock()
	req.Printed = f.reqFilter.Matches(name)
	f.mu.Unlock()
}

// RequestDone is called when a request's decoded text is complete. It
// implements the interleaving protocol: a request expecting a reply is
// printed without a trailing newline and becomes the pending record; one
// that expects nothing prints immediately with a newline.
func (f *Formatter) RequestDone(c *Connection, req *Request, text string) {
	req.Text = text
	if !req.Printed {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.metrics != nil {
		f.metrics.ObserveRequest(req.Name, c.ID)
	}

	line := f.prefix(c) + text
	if req.Reply == ReplyNone {
		f.writeLine(line + "\n")
		return
	}
	f.writeLine(line)
	f.pending = req
	f.pendingConn = c
}

// newLineLocked terminates whatever line is pending with " = <unfinished>"
// and clears the pending pointer. Caller must hold f.mu.
func (f *Formatter) newLineLocked() {
	if f.pending != nil {
		f.writeLine(" = <unfinished>\n")
		f.pending = nil
		f.pendingConn = nil
	}
}

// RespondTo prints a reply/error's text for req, joining it onto the
// pending request's line if this is the record the pending pointer
// names, or opening a new "... reqtext = replytext" line otherwise.
func (f *Formatter) RespondTo(c *Connection, req *Request, replyText, metricsName string, isError bool) {
	if req == nil || !req.Printed {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.metrics != nil {
		if isError {
			f.metrics.ObserveError(metricsName, c.ID)
		} else {
			f.metrics.ObserveReply(metricsName, c.ID)
		}
	}

	if f.pending == req && f.pendingConn == c {
		f.writeLine(" = " + replyText + "\n")
		f.pending = nil
		f.pendingConn = nil
		return
	}
	f.newLineLocked()
	f.writeLine(fmt.Sprintf("%s... %s = %s\n", f.prefix(c), req.Text, replyText))
}

// UnmatchedError logs an error with no outstanding request record.
func (f *Formatter) UnmatchedError(c *Connection, name, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.metrics != nil {
		f.metrics.ObserveError(name, c.ID)
	}
	f.newLineLocked()
	f.writeLine(fmt.Sprintf("%s--- error received for unknown request: %s\n", f.prefix(c), text))
}

// UnmatchedReply logs a reply whose sequence number matched no record.
func (f *Formatter) UnmatchedReply(c *Connection, seq uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newLineLocked()
	f.writeLine(fmt.Sprintf("%s--- reply received for unknown request sequence number %d\n", f.prefix(c), seq))
}

// NoReplyReceived logs a request that was overtaken by sequence number
// before its reply arrived.
func (f *Formatter) NoReplyReceived(c *Connection, req *Request) {
	if !req.Printed {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == req && f.pendingConn == c {
		f.writeLine(" = <no reply received?!>\n")
		f.pending = nil
		f.pendingConn = nil
		return
	}
	f.newLineLocked()
	f.writeLine(fmt.Sprintf("%s... %s = <no reply received?!>\n", f.prefix(c), req.Text))
}

// Event prints an event's text on its own "--- " line, subject to the
// event filter.
func (f *Formatter) Event(c *Connection, name, text string) {
	f.mu.Lock()
	printed := f.eventFilter.Matches(name)
	defer f.mu.Unlock()
	if !printed {
		return
	}
	if f.metrics != nil {
		f.metrics.ObserveEvent(name, c.ID)
	}
	f.newLineLocked()
	f.writeLine(fmt.Sprintf("%s--- %s\n", f.prefix(c), text))
}

// Close finalises a connection that is going away: if it owns the
// in-flight interleaved line, that line is terminated as unfinished rather
// than left dangling.
func (f *Formatter) Close(c *Connection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pendingConn == c {
		f.newLineLocked()
	}
}

// ProtocolError logs a fatal per-connection framing error.
func (f *Formatter) ProtocolError(c *Connection, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newLineLocked()
	f.writeLine(fmt.Sprintf("%sprotocol error: %s\n", f.prefix(c), msg))
	logger.ErrorCtx(nil, "protocol error", logger.ConnectionID(c.ID), logger.Err(fmt.Errorf("%s", msg)))
}

// ParamBuilder accumulates one request/reply/event's text, honouring the
// size limit and SETBEGIN/SETEND nesting per spec.md §4.4.
type ParamBuilder struct {
	f          *Formatter
	buf        strings.Builder
	name       string
	count      int // params emitted at current nesting depth, top of stack
	countStack []int
	overflowed bool
	limited    bool
}

// Begin starts building a line for the named request/reply/event.
func (f *Formatter) Begin(name string) *ParamBuilder {
	pb := &ParamBuilder{f: f, name: name}
	pb.buf.WriteString(name)
	pb.buf.WriteByte('(')
	return pb
}

func (pb *ParamBuilder) limitRemaining() int {
	if pb.f.size <= 0 {
		return -1
	}
	return pb.f.size - pb.buf.Len()
}

func (pb *ParamBuilder) checkLimit() bool {
	if pb.limited || pb.overflowed {
		return false
	}
	if pb.f.size > 0 && pb.buf.Len() >= pb.f.size {
		pb.buf.WriteString("...")
		pb.limited = true
		logger.Debug("formatter: line truncated to size limit", "limit", humanize.Bytes(uint64(pb.f.size)))
		return false
	}
	return true
}

func (pb *ParamBuilder) sep() {
	if pb.count > 0 {
		pb.buf.WriteString(", ")
	}
	pb.count++
}

// Overflow marks the packet as truncated: emits "<packet ends
// prematurely>" once and suppresses all further parameters.
func (pb *ParamBuilder) Overflow() *ParamBuilder {
	if pb.overflowed || pb.limited {
		return pb
	}
	pb.sep()
	pb.buf.WriteString("<packet ends prematurely>")
	pb.overflowed = true
	return pb
}

// Overflowed reports whether Overflow has already fired for this packet.
func (pb *ParamBuilder) Overflowed() bool {
	return pb.overflowed
}

// Limited reports whether the size limit has already truncated this line.
func (pb *ParamBuilder) Limited() bool {
	return pb.limited
}

// SetBegin opens a nested {...} group, e.g. for a list of rectangles.
func (pb *ParamBuilder) SetBegin(name string) *ParamBuilder {
	if pb.overflowed || pb.limited {
		return pb
	}
	pb.sep()
	if name != "" {
		pb.buf.WriteString(name)
		pb.buf.WriteByte('=')
	}
	pb.buf.WriteByte('{')
	pb.countStack = append(pb.countStack, pb.count)
	pb.count = 0
	return pb
}

// SetEnd closes a nested {...} group.
func (pb *ParamBuilder) SetEnd() *ParamBuilder {
	if pb.overflowed || pb.limited {
		return pb
	}
	pb.buf.WriteByte('}')
	if n := len(pb.countStack); n > 0 {
		pb.count = pb.countStack[n-1]
		pb.countStack = pb.countStack[:n-1]
	}
	return pb
}

// Param emits name=value, formatted according to tc, unless the line has
// already overflowed or hit the size limit.
func (pb *ParamBuilder) Param(name string, tc TypeCode, value any) *ParamBuilder {
	if pb.overflowed || !pb.checkLimit() {
		return pb
	}
	pb.sep()
	pb.buf.WriteString(name)
	rendered := renderValue(tc, value)
	if rendered != "" {
		pb.buf.WriteByte('=')
		pb.buf.WriteString(rendered)
	}
	return pb
}

// ParamSentinel is like Param but checks a SPECVAL sentinel list first.
func (pb *ParamBuilder) ParamSentinel(name string, tc TypeCode, value uint32, sentinels []SentinelName) *ParamBuilder {
	for _, s := range sentinels {
		if s.Value == value {
			if pb.overflowed || !pb.checkLimit() {
				return pb
			}
			pb.sep()
			pb.buf.WriteString(name)
			pb.buf.WriteByte('=')
			pb.buf.WriteString(s.Name)
			return pb
		}
	}
	return pb.Param(name, tc, value)
}

// LimitHit allows a decoding loop to check the size limit after each item
// of a variable-length sub-structure, per spec.md §4.3's truncation rule.
func (pb *ParamBuilder) LimitHit() bool {
	return pb.f.size > 0 && pb.buf.Len() >= pb.f.size
}

// End closes the parameter list and returns the finished text.
func (pb *ParamBuilder) End() string {
	if !pb.overflowed {
		pb.buf.WriteByte(')')
	}
	return pb.buf.String()
}

func renderValue(tc TypeCode, value any) string {
	base := tc &^ SpecVal
	switch base {
	case TypeNothing:
		return ""
	case TypeBoolean:
		if b, _ := value.(bool); b {
			return "True"
		}
		return "False"
	case TypeDecU, TypeDec8, TypeDec16, TypeDec32:
		return fmt.Sprintf("%d", toInt64(value))
	case TypeHex8:
		return fmt.Sprintf("0x%02x", toUint64(value))
	case TypeHex16:
		return fmt.Sprintf("0x%04x", toUint64(value))
	case TypeHex32:
		return fmt.Sprintf("0x%08x", toUint64(value))
	case TypeRational16:
		r, _ := value.([2]int)
		return fmt.Sprintf("%d/%d", r[0], r[1])
	case TypeFixed:
		f, _ := value.(int32)
		return strconv.FormatFloat(float64(f)/65536.0, 'f', 5, 64)
	case TypeWindow:
		return fmt.Sprintf("w#%x", toUint64(value))
	case TypePixmap:
		return fmt.Sprintf("p#%x", toUint64(value))
	case TypeFont:
		return fmt.Sprintf("f#%x", toUint64(value))
	case TypeGContext:
		return fmt.Sprintf("g#%x", toUint64(value))
	case TypeCursor:
		return fmt.Sprintf("cur#%x", toUint64(value))
	case TypeColormap:
		return fmt.Sprintf("col#%x", toUint64(value))
	case TypeDrawable:
		return fmt.Sprintf("wp#%x", toUint64(value))
	case TypeFontable:
		return fmt.Sprintf("fg#%x", toUint64(value))
	case TypeVisualID:
		return fmt.Sprintf("v#%x", toUint64(value))
	case TypeAtom:
		return fmt.Sprintf("a#%d", toUint64(value))
	case TypePicture:
		return fmt.Sprintf("pic#%x", toUint64(value))
	case TypePictFormat:
		return fmt.Sprintf("pf#%x", toUint64(value))
	case TypeGlyphSet:
		return fmt.Sprintf("gs#%x", toUint64(value))
	case TypeGlyphable:
		return fmt.Sprintf("gb#%x", toUint64(value))
	case TypeString:
		s, _ := value.(string)
		return `"` + escapeCString(s) + `"`
	case TypeHexString:
		b, _ := value.([]byte)
		return hexDump(b)
	case TypeHexString2, TypeHexString4:
		hv, _ := value.(hexElemValue)
		return hexDumpElements(hv.data, hv.width, hv.order)
	case TypeHexString2B:
		hv, _ := value.(hexElemValue)
		return hexDumpElements(hv.data, 2, BigEndian)
	case TypeEventMask, TypeKeyMask, TypeGenMask:
		bits := value.(maskValue)
		return writeMask(bits.value, bits.table)
	case TypeEnum:
		e := value.(enumValue)
		for _, n := range e.table {
			if n.Value == e.value {
				return n.Name
			}
		}
		return fmt.Sprintf("%d", e.value)
	case TypeSetBegin, TypeSetEnd:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

// maskValue/enumValue carry both the raw value and the caller-supplied
// decode table through the any-typed Param path.
type maskValue struct {
	value uint32
	table []BitName
}

type enumValue struct {
	value uint32
	table []EnumName
}

// MaskParam is Param specialised for EVENTMASK/KEYMASK/GENMASK.
func (pb *ParamBuilder) MaskParam(name string, tc TypeCode, value uint32, table []BitName) *ParamBuilder {
	return pb.Param(name, tc, maskValue{value: value, table: table})
}

// hexElemValue carries a HEXSTRING2/HEXSTRING2B/HEXSTRING4 payload through
// the any-typed Param path: the raw bytes, the element width, and (for the
// connection-endian forms) the byte order to read each element in.
type hexElemValue struct {
	data  []byte
	width int
	order ByteOrder
}

// HexElemParam is Param specialised for HEXSTRING2/HEXSTRING2B/HEXSTRING4:
// data is grouped into width-byte elements, each read in order (ignored for
// TypeHexString2B, which is always big-endian per CHAR2B's wire layout) and
// printed zero-padded hex, colon-separated.
func (pb *ParamBuilder) HexElemParam(name string, tc TypeCode, data []byte, width int, order ByteOrder) *ParamBuilder {
	return pb.Param(name, tc, hexElemValue{data: data, width: width, order: order})
}

// EnumParam is Param specialised for ENUM.
func (pb *ParamBuilder) EnumParam(name string, value uint32, table []EnumName) *ParamBuilder {
	return pb.Param(name, TypeEnum, enumValue{value: value, table: table})
}

func writeMask(v uint32, table []BitName) string {
	var names []string
	for _, bn := range table {
		if v&bn.Bit != 0 {
			names = append(names, bn.Name)
		}
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	default:
		return 0
	}
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case int:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	default:
		return 0
	}
}

// escapeCString renders bytes 32..126 verbatim and C-escapes everything
// else, matching the original tracer's print_c_string.
func escapeCString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			if c >= 32 && c <= 126 {
				b.WriteByte(c)
			} else {
				fmt.Fprintf(&b, `\%03o`, c)
			}
		}
	}
	return b.String()
}

func hexDump(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		fmt.Fprintf(&sb, "%02x", c)
	}
	return sb.String()
}

// hexDumpElements groups b into width-byte elements (a trailing partial
// element, if any, is dumped byte-at-a-time) and prints each element as
// zero-padded hex, colon-separated, matching the original tracer's
// HEXSTRING2/HEXSTRING4 rendering.
func hexDumpElements(b []byte, width int, order ByteOrder) string {
	if width <= 1 {
		return hexDump(b)
	}
	var sb strings.Builder
	i := 0
	for ; i+width <= len(b); i += width {
		if i > 0 {
			sb.WriteByte(':')
		}
		var v uint64
		switch width {
		case 2:
			v = uint64(readU16(b[i:], order))
		case 4:
			v = uint64(readU32(b[i:], order))
		default:
			v = 0
		}
		fmt.Fprintf(&sb, "%0*x", width*2, v)
	}
	for ; i < len(b); i++ {
		if i > 0 {
			sb.WriteByte(':')
		}
		fmt.Fprintf(&sb, "%02x", b[i])
	}
	return sb.String()
}
