// Package source opens the byte streams the command-line tools decode:
// files or stdin, optionally zstd or lz4 compressed, behind a buffered
// reader that hands out single bytes cheaply.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/philhofer/fwd"
	"github.com/pierrec/lz4/v4"
)

// Compression names the framing applied to the input.
type Compression string

const (
	CompressionAuto Compression = "auto"
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// ParseCompression accepts the names of the Compression constants; the
// empty string means auto.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CompressionAuto, nil
	case CompressionAuto, CompressionNone, CompressionZstd, CompressionLZ4:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q", s)
	}
}

// Source is a decompressed, buffered input. It implements io.ByteReader.
type Source struct {
	*fwd.Reader

	// Compression is the framing actually applied, after auto detection.
	Compression Compression

	closers []func() error
}

// Close releases decompressors and the underlying file, if any.
func (s *Source) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Open opens path, or stdin for "-" and "", and wraps it with c.
func Open(path string, c Compression) (*Source, error) {
	if path == "" || path == "-" {
		return Wrap(os.Stdin, c)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	s, err := Wrap(f, c)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closers = append([]func() error{f.Close}, s.closers...)
	return s, nil
}

// Wrap layers decompression and buffering over r. With CompressionAuto
// the zstd and lz4 frame magics are sniffed from the first bytes.
func Wrap(r io.Reader, c Compression) (*Source, error) {
	raw := fwd.NewReader(r)
	if c == CompressionAuto || c == "" {
		c = sniff(raw)
	}
	s := &Source{Compression: c}
	switch c {
	case CompressionNone:
		s.Reader = raw
	case CompressionZstd:
		zr, err := zstd.NewReader(raw)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		s.closers = append(s.closers, func() error { zr.Close(); return nil })
		s.Reader = fwd.NewReader(zr)
	case CompressionLZ4:
		s.Reader = fwd.NewReader(lz4.NewReader(raw))
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
	return s, nil
}

func sniff(r *fwd.Reader) Compression {
	magic, _ := r.Peek(4)
	switch {
	case bytes.Equal(magic, zstdMagic):
		return CompressionZstd
	case bytes.Equal(magic, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}
