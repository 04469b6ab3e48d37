package compress

import "io"

// NoOpCompressor passes data through unchanged. It backs "B2" bundle lines.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
//
// Returns:
//   - NoOpCompressor: New no-op compressor instance
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input data directly without copying.
//
// Note: The returned slice shares the same underlying memory as the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// CompressTo writes data to w unchanged.
func (c NoOpCompressor) CompressTo(data []byte, w io.Writer) (int, error) {
	return w.Write(data)
}

// Decompress returns data unchanged after checking that it is exactly size bytes.
//
// Note: The returned slice shares the same underlying memory as the input.
func (c NoOpCompressor) Decompress(data []byte, size int) ([]byte, error) {
	if err := checkSize(len(data), size); err != nil {
		return nil, err
	}

	return data, nil
}
