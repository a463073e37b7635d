package pointio

import (
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression defines the compression algorithm of a file.
type Compression uint8

const (
	// CompressionNone indicates plain text.
	CompressionNone Compression = 0
	// CompressionGzip indicates gzip streams.
	CompressionGzip Compression = 1
	// CompressionZSTD indicates zstd streams (better ratio, good for large sets).
	CompressionZSTD Compression = 2
	// CompressionLZ4 indicates LZ4 frames (fast).
	CompressionLZ4 Compression = 3
)

// String returns the canonical file extension without the dot, or "none".
func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gz"
	case CompressionZSTD:
		return "zst"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// CompressionFor returns the compression implied by the extension of name.
func CompressionFor(name string) Compression {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZSTD
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// NewReader wraps r in a decompressor chosen by the extension of name.
// Closing the returned reader does not close r.
func NewReader(r io.Reader, name string) (io.ReadCloser, error) {
	switch CompressionFor(name) {
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// NewWriter wraps w in a compressor chosen by the extension of name.
// The returned writer must be closed to flush; closing does not close w.
func NewWriter(w io.Writer, name string) (io.WriteCloser, error) {
	switch CompressionFor(name) {
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZSTD:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
