package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation
// and querying.
const (
	// ========================================================================
	// Transfer identity
	// ========================================================================
	KeyTransactionID = "transaction_id" // Staging directory / transaction identifier
	KeyFilename      = "filename"       // Transfer filename
	KeyFinalPath      = "final_path"    // Destination path on commit
	KeyTmpPath        = "tmp_path"      // Staging directory path

	// ========================================================================
	// Progress & integrity
	// ========================================================================
	KeyWrittenBytes = "written_bytes" // Bytes persisted so far
	KeyTotalSize    = "total_size"    // Declared total payload size
	KeyExpectedSHA  = "expected_sha"  // Sender-declared digest (hex)
	KeyActualSHA    = "actual_sha"    // Computed digest (hex)

	// ========================================================================
	// Connection
	// ========================================================================
	KeyClientAddr = "client_addr" // Remote address of the connection

	// ========================================================================
	// Operation metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyResumed    = "resumed"     // Whether the transfer resumed existing staging
)

// TransactionID returns a slog.Attr for the transaction identifier.
func TransactionID(id string) slog.Attr {
	return slog.String(KeyTransactionID, id)
}

// Filename returns a slog.Attr for the transfer filename.
func Filename(name string) slog.Attr {
	return slog.String(KeyFilename, name)
}

// FinalPath returns a slog.Attr for the destination path.
func FinalPath(p string) slog.Attr {
	return slog.String(KeyFinalPath, p)
}

// TmpPath returns a slog.Attr for the staging directory path.
func TmpPath(p string) slog.Attr {
	return slog.String(KeyTmpPath, p)
}

// WrittenBytes returns a slog.Attr for bytes persisted so far.
func WrittenBytes(n uint64) slog.Attr {
	return slog.Uint64(KeyWrittenBytes, n)
}

// TotalSize returns a slog.Attr for the declared total payload size.
func TotalSize(n uint64) slog.Attr {
	return slog.Uint64(KeyTotalSize, n)
}

// ExpectedSHA returns a slog.Attr for the sender-declared digest.
func ExpectedSHA(hex string) slog.Attr {
	return slog.String(KeyExpectedSHA, hex)
}

// ActualSHA returns a slog.Attr for the computed digest.
func ActualSHA(hex string) slog.Attr {
	return slog.String(KeyActualSHA, hex)
}

// ClientAddr returns a slog.Attr for the connection's remote address.
func ClientAddr(addr string) slog.Attr {
	return slog.String(KeyClientAddr, addr)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Resumed returns a slog.Attr for whether the transfer resumed existing staging.
func Resumed(resumed bool) slog.Attr {
	return slog.Bool(KeyResumed, resumed)
}
