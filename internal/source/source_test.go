package source

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

var payload = []byte{0x83, 0x01, 0x02, 0x03} // [1, 2, 3]

func zstdFrame(t *testing.T, p []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(p, nil)
}

func lz4Frame(t *testing.T, p []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(p)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{
		"":      CompressionAuto,
		"auto":  CompressionAuto,
		"none":  CompressionNone,
		"ZSTD":  CompressionZstd,
		" lz4 ": CompressionLZ4,
	} {
		got, err := ParseCompression(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseCompression("gzip")
	require.Error(t, err)
}

func TestWrap(t *testing.T) {
	cases := []struct {
		name  string
		input []byte
		c     Compression
		want  Compression
	}{
		{"plain", payload, CompressionNone, CompressionNone},
		{"plain-auto", payload, CompressionAuto, CompressionNone},
		{"zstd", zstdFrame(t, payload), CompressionZstd, CompressionZstd},
		{"zstd-auto", zstdFrame(t, payload), CompressionAuto, CompressionZstd},
		{"lz4", lz4Frame(t, payload), CompressionLZ4, CompressionLZ4},
		{"lz4-auto", lz4Frame(t, payload), CompressionAuto, CompressionLZ4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Wrap(bytes.NewReader(tc.input), tc.c)
			require.NoError(t, err)
			defer s.Close()
			require.Equal(t, tc.want, s.Compression)

			got, err := io.ReadAll(s)
			require.NoError(t, err)
			require.Equal(t, payload, got)
		})
	}
}

func TestWrapShortInput(t *testing.T) {
	s, err := Wrap(bytes.NewReader([]byte{0xf6}), CompressionAuto)
	require.NoError(t, err)
	require.Equal(t, CompressionNone, s.Compression)
	b, err := s.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xf6), b)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.cbor.zst")
	require.NoError(t, os.WriteFile(path, zstdFrame(t, payload), 0o600))

	s, err := Open(path, CompressionAuto)
	require.NoError(t, err)
	got, err := io.ReadAll(s)
	require.NoError(t, err)
	require.Equal(t, payload, got)
	require.NoError(t, s.Close())

	_, err = Open(filepath.Join(t.TempDir(), "missing"), CompressionNone)
	require.Error(t, err)
}
