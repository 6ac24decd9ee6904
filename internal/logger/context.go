package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context for a single transfer connection.
type LogContext struct {
	TransactionID string    // Staging directory / transaction identifier, once known
	Filename      string    // Transfer filename, once the header is decoded
	ClientAddr    string    // Remote address of the accepted connection
	StartTime     time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for a freshly accepted connection.
func NewLogContext(clientAddr string) *LogContext {
	return &LogContext{
		ClientAddr: clientAddr,
		StartTime:  time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TransactionID: lc.TransactionID,
		Filename:      lc.Filename,
		ClientAddr:    lc.ClientAddr,
		StartTime:     lc.StartTime,
	}
}

// WithTransaction returns a copy with the transaction ID and filename set.
func (lc *LogContext) WithTransaction(id, filename string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TransactionID = id
		clone.Filename = filename
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
