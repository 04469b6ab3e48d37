package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// ZlibLevel is the compression level used for Deflate bundles.
const ZlibLevel = zlib.BestCompression

// zlibWriterPool pools zlib writers; Reset rebinds a writer to a new destination.
var zlibWriterPool = sync.Pool{
	New: func() any {
		w, err := zlib.NewWriterLevel(io.Discard, ZlibLevel)
		if err != nil {
			panic(fmt.Sprintf("failed to create zlib writer for pool: %v", err))
		}

		return w
	},
}

// ZlibCompressor produces and consumes zlib streams (RFC 1950), the format of
// "B1" bundle lines.
//
// Streams are written at maximum compression; any conforming zlib stream is
// accepted on decompression.
type ZlibCompressor struct{}

var _ Codec = (*ZlibCompressor)(nil)

// NewZlibCompressor creates a new zlib compressor.
func NewZlibCompressor() ZlibCompressor {
	return ZlibCompressor{}
}

// Compress compresses data into a new zlib stream.
func (c ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.CompressTo(data, &buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// CompressTo writes a complete zlib stream for data to w.
func (c ZlibCompressor) CompressTo(data []byte, w io.Writer) (int, error) {
	cw := &countingWriter{w: w}

	zw, _ := zlibWriterPool.Get().(*zlib.Writer)
	defer zlibWriterPool.Put(zw)
	zw.Reset(cw)

	if _, err := zw.Write(data); err != nil {
		return cw.n, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("zlib compression failed: %w", err)
	}

	return cw.n, nil
}

// Decompress inflates data into exactly size bytes.
//
// The stream must end, checksum included, after exactly size bytes of output.
func (c ZlibCompressor) Decompress(data []byte, size int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib header invalid: %w", err)
	}
	defer zr.Close()

	out := make([]byte, size)
	n, err := io.ReadFull(zr, out)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, checkSize(n, size)
		}

		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	// Reading past the expected size drives the reader to EOF, which also
	// verifies the trailing adler32 checksum.
	var extra [1]byte
	m, err := io.ReadFull(zr, extra[:])
	if m > 0 {
		return nil, fmt.Errorf("decompressed size mismatch: stream exceeds expected %d bytes", size)
	}
	if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return out, nil
}

type countingWriter struct {
	w io.Writer
	n int
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += n

	return n, err
}
