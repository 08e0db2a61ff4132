package serializer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Compression selects the compression wrapped around an encoded cuboid.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGZip Compression = "gzip"
	CompressionZLib Compression = "zlib"
)

// ParseCompression parses a compression name, the empty string is none.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(s); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionGZip, CompressionZLib:
		return c, nil
	default:
		return "", fmt.Errorf("%w: compression %q", ErrUnknownFormat, s)
	}
}

// compress writes the output of encode through the configured compressor
func (c Compression) compress(encode func(w io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch c {
	case CompressionGZip:
		w = gzip.NewWriter(&buf)
	case CompressionZLib:
		w = zlib.NewWriter(&buf)
	default:
		if err := encode(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if err := encode(w); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// reader returns a reader yielding the uncompressed content of b
func (c Compression) reader(b []byte) (io.ReadCloser, error) {
	switch c {
	case CompressionGZip:
		return gzip.NewReader(bytes.NewReader(b))
	case CompressionZLib:
		return zlib.NewReader(bytes.NewReader(b))
	default:
		return io.NopCloser(bytes.NewReader(b)), nil
	}
}
