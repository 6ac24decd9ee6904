// Package digest computes a streaming SHA-256 over payload bytes as they
// are written to disk, and supports reading the running hash state without
// disturbing it so that progress can be reported mid-transfer.
package digest

import (
	"encoding/hex"
	"fmt"
	"hash"

	sha256simd "github.com/minio/sha256-simd"
)

// Size is the length in bytes of a SHA-256 digest.
const Size = sha256simd.Size

// Digest wraps a streaming SHA-256 hasher. The zero value is not usable;
// construct one with New.
type Digest struct {
	h hash.Hash
}

// New returns a Digest ready to accept Write calls.
func New() *Digest {
	return &Digest{h: sha256simd.New()}
}

// Write feeds bytes into the running hash. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum returns the 32-byte digest of everything written so far. Per the
// hash.Hash contract, Sum appends to its argument without resetting or
// otherwise mutating the underlying state, so the receiver stays writable
// and a later Sum reflects any bytes written in between. This is the same
// guarantee crypto/sha256 documents for its hash.Hash implementation;
// sha256-simd is a drop-in replacement for it and upholds the same contract.
func (d *Digest) Sum() ([Size]byte, error) {
	var out [Size]byte
	copy(out[:], d.h.Sum(nil))
	return out, nil
}

// SumHex is Sum encoded as a lowercase hex string.
func (d *Digest) SumHex() (string, error) {
	sum, err := d.Sum()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}

// DecodeHex parses a hex-encoded SHA-256 digest into its 32-byte form.
func DecodeHex(s string) ([Size]byte, error) {
	var out [Size]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("digest: invalid hex: %w", err)
	}
	if len(b) != Size {
		return out, fmt.Errorf("digest: expected %d bytes, got %d", Size, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// EncodeHex renders a 32-byte digest as a lowercase hex string.
func EncodeHex(sum [Size]byte) string {
	return hex.EncodeToString(sum[:])
}
