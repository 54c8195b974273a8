package logger

import (
	"log/slog"
)

// Standard field keys for structured logging. These keys cover the tool's
// own operational events (connection lifecycle, decode failures, proxy
// I/O) — not the decoded wire trace itself, which the formatter writes to
// a separate stream.
const (
	// ========================================================================
	// Connection & Session
	// ========================================================================
	KeyConnectionID = "connection_id" // identifier assigned to a traced connection
	KeyClientAddr   = "client_addr"   // client-side peer address
	KeyServerAddr   = "server_addr"   // upstream X server address
	KeyDisplay      = "display"       // display string (e.g. ":1", "unix:1.0")

	// ========================================================================
	// Protocol & Operation
	// ========================================================================
	KeyDirection = "direction" // "c2s" or "s2c"
	KeyOpcode    = "opcode"    // core or extension request/event opcode
	KeySeqNum    = "seqnum"    // 16-bit request sequence number
	KeyReqName   = "req_name"  // decoded request/reply/event name

	// ========================================================================
	// I/O & Framing
	// ========================================================================
	KeyBytesRead    = "bytes_read"    // bytes consumed from a stream
	KeyBytesWritten = "bytes_written" // bytes written to a stream
	KeyOverflow     = "overflow"      // malformed/truncated-packet indicator

	// ========================================================================
	// Extensions
	// ========================================================================
	KeyExtName  = "ext_name"  // extension name (e.g. "BIG-REQUESTS")
	KeyExtMajor = "ext_major" // extension's allocated major opcode

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // operation duration in milliseconds
	KeyError      = "error"       // error message
	KeyErrorCode  = "error_code"  // numeric error code
	KeyComponent  = "component"   // subsystem emitting the log line
)

// ============================================================================
// Field constructors for type safety
// ============================================================================

// ConnectionID returns a slog.Attr for the connection identifier.
func ConnectionID(id string) slog.Attr {
	return slog.String(KeyConnectionID, id)
}

// ClientAddr returns a slog.Attr for the client-side peer address.
func ClientAddr(addr string) slog.Attr {
	return slog.String(KeyClientAddr, addr)
}

// ServerAddr returns a slog.Attr for the upstream X server address.
func ServerAddr(addr string) slog.Attr {
	return slog.String(KeyServerAddr, addr)
}

// Display returns a slog.Attr for the display string.
func Display(d string) slog.Attr {
	return slog.String(KeyDisplay, d)
}

// Direction returns a slog.Attr for message direction ("c2s" or "s2c").
func Direction(dir string) slog.Attr {
	return slog.String(KeyDirection, dir)
}

// Opcode returns a slog.Attr for a request/event opcode.
func Opcode(op int) slog.Attr {
	return slog.Int(KeyOpcode, op)
}

// SeqNum returns a slog.Attr for a 16-bit sequence number.
func SeqNum(seq uint16) slog.Attr {
	return slog.Any(KeySeqNum, seq)
}

// ReqName returns a slog.Attr for a decoded request/reply/event name.
func ReqName(name string) slog.Attr {
	return slog.String(KeyReqName, name)
}

// BytesRead returns a slog.Attr for bytes consumed from a stream.
func BytesRead(n int) slog.Attr {
	return slog.Int(KeyBytesRead, n)
}

// BytesWritten returns a slog.Attr for bytes written to a stream.
func BytesWritten(n int) slog.Attr {
	return slog.Int(KeyBytesWritten, n)
}

// Overflow returns a slog.Attr for a malformed/truncated-packet indicator.
func Overflow(overflow bool) slog.Attr {
	return slog.Bool(KeyOverflow, overflow)
}

// ExtName returns a slog.Attr for an extension name.
func ExtName(name string) slog.Attr {
	return slog.String(KeyExtName, name)
}

// ExtMajor returns a slog.Attr for an extension's allocated major opcode.
func ExtMajor(major int) slog.Attr {
	return slog.Int(KeyExtMajor, major)
}

// DurationMs returns a slog.Attr for duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric error code.
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}

// Component returns a slog.Attr for the subsystem emitting the log line.
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}
