// Package ingest implements the bounded stream copy that moves payload
// bytes from a transfer connection into a staged transaction, and the
// sender-side helpers used by the CLI to push files at a server.
package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/celaltas/lanshare-go/pkg/ferr"
	"github.com/celaltas/lanshare-go/pkg/wire"
)

// DefaultBufferSize is the copy buffer size used when the caller does not
// specify one.
const DefaultBufferSize = 8192

// Receive copies exactly size bytes from r into w, using a bufferSize-sized
// intermediate buffer. It stops as soon as size bytes have been copied. If
// the connection is closed before that, it returns ferr.ErrShortRead
// reporting how many bytes actually arrived.
//
// ctx is checked between reads so a caller can cancel a stalled transfer.
func Receive(ctx context.Context, r io.Reader, w io.Writer, size uint64, bufferSize int) error {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	buf := make([]byte, bufferSize)
	var remaining, written uint64 = size, 0

	for remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		chunkSize := uint64(len(buf))
		if remaining < chunkSize {
			chunkSize = remaining
		}

		n, err := r.Read(buf[:chunkSize])
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return ferr.NewFilesystemError("", werr)
			}
			written += uint64(n)
			remaining -= uint64(n)
		}

		if err != nil {
			if err == io.EOF {
				if remaining > 0 {
					return ferr.NewShortReadError("", written, size)
				}
				break
			}
			return ferr.NewFilesystemError("", err)
		}

		if n == 0 && err == nil {
			return ferr.NewShortReadError("", written, size)
		}
	}

	return nil
}

// Send streams the named file to w, preceded by its header (filename and
// declared size). The caller's expectedSHA becomes part of the header so
// the receiver can verify integrity once the transfer completes.
func Send(w io.Writer, path string, expectedSHA [32]byte) error {
	f, err := os.Open(path)
	if err != nil {
		return ferr.NewFilesystemError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ferr.NewFilesystemError(path, err)
	}

	header := wire.Header{
		Name:        filepath.Base(path),
		Size:        uint64(info.Size()),
		ExpectedSHA: expectedSHA,
	}
	if err := wire.WriteTo(w, header); err != nil {
		return err
	}

	if _, err := io.Copy(w, f); err != nil {
		return ferr.NewFilesystemError(path, err)
	}

	return nil
}

// SendPartial behaves like Send but stops after cutoff payload bytes have
// been written, leaving the connection open with the remainder unsent. It
// exists to exercise resume: the receiver is left with a transaction that
// is short of its declared total size.
func SendPartial(w io.Writer, path string, expectedSHA [32]byte, cutoff uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return ferr.NewFilesystemError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ferr.NewFilesystemError(path, err)
	}
	total := uint64(info.Size())
	if cutoff > total {
		cutoff = total
	}

	header := wire.Header{
		Name:        filepath.Base(path),
		Size:        total,
		ExpectedSHA: expectedSHA,
	}
	if err := wire.WriteTo(w, header); err != nil {
		return err
	}

	if _, err := io.CopyN(w, f, int64(cutoff)); err != nil && err != io.EOF {
		return ferr.NewFilesystemError(path, err)
	}

	return nil
}
