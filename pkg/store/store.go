// Package store implements the transactional, resumable write path for
// incoming transfers: a base directory split into a final/ tree holding
// completed files and a tmp/ tree holding in-flight staging directories,
// one per transaction.
package store

import (
	"os"
	"path/filepath"

	"github.com/celaltas/lanshare-go/pkg/digest"
	"github.com/celaltas/lanshare-go/pkg/ferr"
	"github.com/google/uuid"
)

const (
	finalDirName = "final"
	tmpDirName   = "tmp"
)

// Store owns the on-disk layout for staged and committed transfers.
type Store struct {
	baseDir  string
	finalDir string
	tmpDir   string

	// metaPersistInterval is how many newly-written payload bytes may
	// accumulate before a transaction re-persists its sidecar metadata.
	metaPersistInterval uint64
}

// Config controls how a Store lays out and tunes its staging directories.
type Config struct {
	// BaseDir is the root directory; final/ and tmp/ are created beneath it.
	BaseDir string

	// MetaPersistInterval is the byte threshold between sidecar metadata
	// writes. Zero selects the 1 MiB default.
	MetaPersistInterval uint64
}

// Open creates (if necessary) the final/ and tmp/ subdirectories under
// cfg.BaseDir and returns a Store ready to create or resume transactions.
func Open(cfg Config) (*Store, error) {
	if cfg.BaseDir == "" {
		return nil, ferr.NewInvalidDataError("store: base dir must not be empty")
	}

	interval := cfg.MetaPersistInterval
	if interval == 0 {
		interval = 1 << 20
	}

	finalDir := filepath.Join(cfg.BaseDir, finalDirName)
	tmpDir := filepath.Join(cfg.BaseDir, tmpDirName)

	if err := os.MkdirAll(finalDir, 0755); err != nil {
		return nil, ferr.NewFilesystemError(finalDir, err)
	}
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return nil, ferr.NewFilesystemError(tmpDir, err)
	}

	return &Store{
		baseDir:             cfg.BaseDir,
		finalDir:            finalDir,
		tmpDir:              tmpDir,
		metaPersistInterval: interval,
	}, nil
}

// BaseDir returns the store's root directory.
func (s *Store) BaseDir() string { return s.baseDir }

// CreateTransaction starts a fresh transaction for filename, staging it in a
// new tx_<uuid> directory under tmp/.
func (s *Store) CreateTransaction(filename string, totalSize uint64, expectedSHA [32]byte) (*Transaction, error) {
	id := "tx_" + uuid.NewString()
	txDir := filepath.Join(s.tmpDir, id)

	if err := os.MkdirAll(txDir, 0755); err != nil {
		return nil, ferr.NewFilesystemError(txDir, err)
	}

	tmpPath := filepath.Join(txDir, filename+partSuffix)
	finalPath := filepath.Join(s.finalDir, filename)

	return newTransaction(id, filename, tmpPath, finalPath, totalSize, expectedSHA, s.metaPersistInterval, false)
}

// ResumeTransaction looks for an existing staged transaction for filename
// and reopens it for appending. It returns ferr.ErrNotFound if no staged
// transaction exists for that filename.
func (s *Store) ResumeTransaction(filename string) (*Transaction, error) {
	meta, err := s.findExistingMeta(filename)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, ferr.NewNotFoundError(filename)
	}

	expectedSHA, err := decodeSHA(meta.ExpectedSHA)
	if err != nil {
		return nil, err
	}

	return resumeTransaction(meta, expectedSHA, s.metaPersistInterval)
}

// findExistingMeta scans tmp/ for a staging directory whose sidecar names
// filename, returning the first match.
func (s *Store) findExistingMeta(filename string) (*TransactionMeta, error) {
	entries, err := os.ReadDir(s.tmpDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, ferr.NewFilesystemError(s.tmpDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		txDir := filepath.Join(s.tmpDir, entry.Name())
		metaPath := filepath.Join(txDir, filename+metaSuffix)
		if _, err := os.Stat(metaPath); err != nil {
			continue
		}

		meta, err := loadMeta(metaPath)
		if err != nil {
			return nil, err
		}
		if meta.Filename == filename {
			return meta, nil
		}
	}

	return nil, nil
}

func decodeSHA(hexStr string) ([32]byte, error) {
	sum, err := digest.DecodeHex(hexStr)
	if err != nil {
		return [32]byte{}, ferr.NewInvalidDataError("store: expected_sha is not valid hex: " + err.Error())
	}
	return sum, nil
}
