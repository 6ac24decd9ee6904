package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/celaltas/lanshare-go/pkg/ferr"
	"gopkg.in/yaml.v3"
)

// metaSuffix is appended to the filename inside a transaction's staging
// directory to name its persisted sidecar file.
const metaSuffix = ".meta"

// partSuffix is appended to the filename inside a transaction's staging
// directory to name the file receiving payload bytes.
const partSuffix = ".part"

// TransactionMeta is the persistable state of an in-flight transaction.
// It is written as YAML next to the staged payload so that a restarted
// server can rediscover and resume an interrupted transfer.
type TransactionMeta struct {
	ID           string `yaml:"id"`
	Filename     string `yaml:"filename"`
	TmpPath      string `yaml:"tmp_path"`
	FinalPath    string `yaml:"final_path"`
	ExpectedSHA  string `yaml:"expected_sha"`
	WrittenBytes uint64 `yaml:"written_bytes"`
	TotalSize    uint64 `yaml:"total_size"`
}

// path is the sidecar's on-disk location: the payload's .part path with
// that suffix swapped for .meta, so "<filename>.part" sits next to
// "<filename>.meta" rather than "<filename>.part.meta".
func (m *TransactionMeta) path() string {
	return strings.TrimSuffix(m.TmpPath, partSuffix) + metaSuffix
}

// save persists the metadata to its sidecar path, overwriting any existing
// file. Called at construction and at every persistence boundary.
func (m *TransactionMeta) save() error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("store: marshal transaction meta: %w", err)
	}
	if err := os.WriteFile(m.path(), data, 0644); err != nil {
		return ferr.NewFilesystemError(m.path(), err)
	}
	return nil
}

// loadMeta reads a sidecar metadata file from disk.
func loadMeta(path string) (*TransactionMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferr.NewFilesystemError(path, err)
	}

	var m TransactionMeta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, ferr.NewInvalidDataError(fmt.Sprintf("corrupt transaction meta at %s: %v", path, err))
	}
	return &m, nil
}
