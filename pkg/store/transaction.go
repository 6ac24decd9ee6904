package store

import (
	"io"
	"os"
	"path/filepath"

	"github.com/celaltas/lanshare-go/pkg/digest"
	"github.com/celaltas/lanshare-go/pkg/ferr"
)

// Transaction is a single resumable, commit-or-rollback write operation.
// Bytes written through Write land in a staging file under the store's
// tmp/ tree; Commit atomically renames that file into final/, while
// Rollback discards the staging directory entirely.
type Transaction struct {
	meta *TransactionMeta

	file        *os.File
	digest      *digest.Digest
	expectedSHA [32]byte

	metaPersistInterval   uint64
	bytesSinceMetaPersist uint64

	closed bool
}

// ID returns the transaction's identifier (its staging directory name).
func (t *Transaction) ID() string { return t.meta.ID }

// Filename returns the transfer's declared filename.
func (t *Transaction) Filename() string { return t.meta.Filename }

// WrittenBytes returns how many payload bytes have been persisted so far.
func (t *Transaction) WrittenBytes() uint64 { return t.meta.WrittenBytes }

// TotalSize returns the declared total payload size.
func (t *Transaction) TotalSize() uint64 { return t.meta.TotalSize }

// Remaining returns how many payload bytes are still expected.
func (t *Transaction) Remaining() uint64 {
	if t.meta.WrittenBytes >= t.meta.TotalSize {
		return 0
	}
	return t.meta.TotalSize - t.meta.WrittenBytes
}

func newTransaction(id, filename, tmpPath, finalPath string, totalSize uint64, expectedSHA [32]byte, metaPersistInterval uint64, resumed bool) (*Transaction, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if resumed {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(tmpPath, flags, 0644)
	if err != nil {
		return nil, ferr.NewFilesystemError(tmpPath, err)
	}

	meta := &TransactionMeta{
		ID:          id,
		Filename:    filename,
		TmpPath:     tmpPath,
		FinalPath:   finalPath,
		ExpectedSHA: digest.EncodeHex(expectedSHA),
		TotalSize:   totalSize,
	}
	if err := meta.save(); err != nil {
		f.Close()
		return nil, err
	}

	return &Transaction{
		meta:                meta,
		file:                f,
		digest:              digest.New(),
		expectedSHA:         expectedSHA,
		metaPersistInterval: metaPersistInterval,
	}, nil
}

// resumeTransaction reopens a transaction whose sidecar metadata was found
// on disk. It rehashes the bytes already staged so the running digest stays
// correct for the remainder of the transfer.
func resumeTransaction(meta *TransactionMeta, expectedSHA [32]byte, metaPersistInterval uint64) (*Transaction, error) {
	d := digest.New()

	existing, err := os.Open(meta.TmpPath)
	if err != nil {
		return nil, ferr.NewFilesystemError(meta.TmpPath, err)
	}
	n, err := io.Copy(d, existing)
	existing.Close()
	if err != nil {
		return nil, ferr.NewFilesystemError(meta.TmpPath, err)
	}
	if uint64(n) != meta.WrittenBytes {
		// Sidecar and staged bytes disagree; trust what is actually on disk.
		meta.WrittenBytes = uint64(n)
	}
	if meta.WrittenBytes > meta.TotalSize {
		return nil, ferr.NewInvalidDataError("store: staged bytes exceed declared total size")
	}

	f, err := os.OpenFile(meta.TmpPath, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, ferr.NewFilesystemError(meta.TmpPath, err)
	}

	return &Transaction{
		meta:                meta,
		file:                f,
		digest:              d,
		expectedSHA:         expectedSHA,
		metaPersistInterval: metaPersistInterval,
	}, nil
}

// Write appends p to the staging file, feeds it into the running digest,
// and persists the sidecar metadata once metaPersistInterval bytes have
// accumulated since the last persist, or once written_bytes reaches
// total_size — guaranteeing a final, accurate meta at completion even if
// the last write doesn't itself cross a persistence boundary.
func (t *Transaction) Write(p []byte) (int, error) {
	n, err := t.file.Write(p)
	if n > 0 {
		_, _ = t.digest.Write(p[:n])
		t.meta.WrittenBytes += uint64(n)
		t.bytesSinceMetaPersist += uint64(n)

		if t.bytesSinceMetaPersist >= t.metaPersistInterval || t.meta.WrittenBytes == t.meta.TotalSize {
			if saveErr := t.meta.save(); saveErr != nil {
				return n, saveErr
			}
			t.bytesSinceMetaPersist = 0
		}
	}
	if err != nil {
		return n, ferr.NewFilesystemError(t.meta.TmpPath, err)
	}
	return n, nil
}

// Flush persists the sidecar metadata unconditionally, then flushes the
// payload file to stable storage. Progress reporting that calls Flush
// implies the on-disk metadata is flushed too.
func (t *Transaction) Flush() error {
	if err := t.meta.save(); err != nil {
		return err
	}
	t.bytesSinceMetaPersist = 0

	if err := t.file.Sync(); err != nil {
		return ferr.NewFilesystemError(t.meta.TmpPath, err)
	}
	return nil
}

// Commit verifies the computed digest against the expected one, flushes and
// closes the staging file, atomically renames it into place, and removes
// the staging directory along with its sidecar. On digest mismatch the transaction is
// rolled back (staging directory removed) before the error is returned:
// the sender is assumed malicious or the channel corrupted, so there is
// nothing worth resuming.
func (t *Transaction) Commit() error {
	if t.closed {
		return ferr.NewAlreadyCommittedError(t.meta.TmpPath)
	}

	if t.meta.WrittenBytes < t.meta.TotalSize {
		return ferr.NewIncompleteError(t.meta.TmpPath, t.meta.WrittenBytes, t.meta.TotalSize)
	}

	if err := t.file.Sync(); err != nil {
		return ferr.NewFilesystemError(t.meta.TmpPath, err)
	}

	sum, err := t.digest.Sum()
	if err != nil {
		return err
	}
	if sum != t.expectedSHA {
		mismatchErr := ferr.NewDigestMismatchError(t.meta.TmpPath, digest.EncodeHex(t.expectedSHA), digest.EncodeHex(sum))
		_ = t.Rollback()
		return mismatchErr
	}

	if err := t.file.Close(); err != nil {
		return ferr.NewFilesystemError(t.meta.TmpPath, err)
	}
	t.closed = true

	if err := os.MkdirAll(filepath.Dir(t.meta.FinalPath), 0755); err != nil {
		return ferr.NewFilesystemError(filepath.Dir(t.meta.FinalPath), err)
	}
	if err := os.Rename(t.meta.TmpPath, t.meta.FinalPath); err != nil {
		return ferr.NewFilesystemError(t.meta.FinalPath, err)
	}

	return t.removeStagingDir()
}

// Rollback discards the transaction's staging directory without touching
// final/.
func (t *Transaction) Rollback() error {
	if !t.closed {
		t.file.Close()
		t.closed = true
	}
	return t.removeStagingDir()
}

func (t *Transaction) removeStagingDir() error {
	dir := filepath.Dir(t.meta.TmpPath)
	if err := os.RemoveAll(dir); err != nil {
		return ferr.NewFilesystemError(dir, err)
	}
	return nil
}
