package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context.
var logContextKey = contextKey{}

// LogContext holds connection-scoped logging context threaded through a
// traced X11 connection's lifetime.
type LogContext struct {
	ConnectionID string    // identifier assigned to the traced connection
	Direction    string    // "c2s" or "s2c"
	Opcode       int       // core or extension opcode of the request/event in flight
	ClientAddr   string    // client-side peer address
	StartTime    time.Time // for duration calculation
}

// WithContext returns a new context with the given LogContext.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for a connection.
func NewLogContext(connectionID, clientAddr string) *LogContext {
	return &LogContext{
		ConnectionID: connectionID,
		ClientAddr:   clientAddr,
		StartTime:    time.Now(),
	}
}

// Clone creates a copy of the LogContext.
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		ConnectionID: lc.ConnectionID,
		Direction:    lc.Direction,
		Opcode:       lc.Opcode,
		ClientAddr:   lc.ClientAddr,
		StartTime:    lc.StartTime,
	}
}

// WithDirection returns a copy with the direction set.
func (lc *LogContext) WithDirection(direction string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Direction = direction
	}
	return clone
}

// WithOpcode returns a copy with the opcode set.
func (lc *LogContext) WithOpcode(opcode int) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Opcode = opcode
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
