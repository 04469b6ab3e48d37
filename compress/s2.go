package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
)

type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor for extended bundle lines (tag '4').
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data using S2 block compression.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	return s2.EncodeBest(nil, data), nil
}

// CompressTo compresses data and writes the block to w.
func (c S2Compressor) CompressTo(data []byte, w io.Writer) (int, error) {
	return writeCompressed(c, data, w)
}

// Decompress decodes an S2 block into exactly size bytes.
//
// The block header carries the decoded length, so a mismatch is detected
// before any output is produced.
func (c S2Compressor) Decompress(data []byte, size int) ([]byte, error) {
	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if err := checkSize(n, size); err != nil {
		return nil, err
	}

	out, err := s2.Decode(make([]byte, size), data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
