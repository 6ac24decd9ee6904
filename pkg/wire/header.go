// Package wire implements the fixed-layout framing used at the start of
// every transfer connection: a 296-byte little-endian header carrying the
// filename, declared payload size, and expected SHA-256 digest.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/celaltas/lanshare-go/pkg/ferr"
)

const (
	nameFieldSize   = 256
	sizeFieldSize   = 8
	digestFieldSize = 32

	// HeaderSize is the total on-wire length of an encoded Header.
	HeaderSize = nameFieldSize + sizeFieldSize + digestFieldSize
)

// Header is the decoded form of the 296-byte frame every sender writes
// before streaming payload bytes.
type Header struct {
	// Name is the transfer's filename, trimmed of trailing NUL padding.
	Name string

	// Size is the declared total payload length in bytes.
	Size uint64

	// ExpectedSHA is the sender-declared SHA-256 digest of the payload.
	ExpectedSHA [32]byte
}

// Encode renders a Header as its 296-byte wire representation.
// Name longer than 256 bytes is truncated to fit the fixed field.
func Encode(h Header) []byte {
	buf := make([]byte, HeaderSize)

	nameBytes := []byte(h.Name)
	n := copy(buf[:nameFieldSize], nameBytes)
	_ = n // remaining bytes stay zero (NUL padding)

	binary.LittleEndian.PutUint64(buf[nameFieldSize:nameFieldSize+sizeFieldSize], h.Size)

	copy(buf[nameFieldSize+sizeFieldSize:], h.ExpectedSHA[:])

	return buf
}

// WriteTo encodes h and writes it to w.
func WriteTo(w io.Writer, h Header) error {
	_, err := w.Write(Encode(h))
	if err != nil {
		return ferr.NewFilesystemError("", err)
	}
	return nil
}

// Decode reads exactly HeaderSize bytes from r and parses them into a
// Header. A short read before the header is fully received is reported as
// ferr.ErrShortRead.
func Decode(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	if n, err := io.ReadFull(r, buf); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return Header{}, ferr.NewShortReadError("", uint64(n), HeaderSize)
		}
		return Header{}, ferr.NewFilesystemError("", err)
	}
	return decodeBytes(buf)
}

func decodeBytes(buf []byte) (Header, error) {
	if len(buf) != HeaderSize {
		return Header{}, ferr.NewInvalidDataError(
			fmt.Sprintf("header must be %d bytes, got %d", HeaderSize, len(buf)))
	}

	nameRaw := buf[:nameFieldSize]
	name := strings.TrimRight(string(nameRaw), "\x00")

	size := binary.LittleEndian.Uint64(buf[nameFieldSize : nameFieldSize+sizeFieldSize])

	var sha [32]byte
	copy(sha[:], buf[nameFieldSize+sizeFieldSize:])

	return Header{Name: name, Size: size, ExpectedSHA: sha}, nil
}
