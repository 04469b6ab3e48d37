package compress

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.CompressorHC instances for reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.CompressorHC{Level: lz4.Level9}
	},
}

type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor for extended bundle lines (tag '5').
//
// Returns:
//   - LZ4Compressor: New LZ4 compressor instance
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data as a single LZ4 block.
//
// Uses a pooled high-compression lz4 compressor.
//
// Parameters:
//   - data: Input data to compress
//
// Returns:
//   - []byte: Compressed block (nil if input is empty)
//   - error: Compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.CompressorHC)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// CompressTo compresses data and writes the block to w.
func (c LZ4Compressor) CompressTo(data []byte, w io.Writer) (int, error) {
	return writeCompressed(c, data, w)
}

// Decompress decompresses an LZ4 block into exactly size bytes.
//
// The destination buffer is exactly size bytes, so a block that would expand
// past it fails with lz4.ErrInvalidSourceShortBuffer.
func (c LZ4Compressor) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		if size == 0 {
			return []byte{}, nil
		}

		return nil, checkSize(0, size)
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, fmt.Errorf("decompressed size mismatch: block exceeds expected %d bytes", size)
		}

		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}

	if err := checkSize(n, size); err != nil {
		return nil, err
	}

	return buf, nil
}
