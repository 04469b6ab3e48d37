package compress

import (
	"fmt"
	"io"

	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/format"
)

// Compressor compresses a bundle payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller (except NoOp)
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)

	// CompressTo compresses data and writes the result to w, returning the
	// number of bytes written.
	//
	// The envelope uses this to compress straight into a pooled buffer that
	// was pre-grown to the compression bound.
	CompressTo(data []byte, w io.Writer) (int, error)
}

// Decompressor decompresses a bundle payload.
//
// Bundle records always declare the exact uncompressed length, so the
// decompressor is asked for exactly that many bytes. Implementations must fail
// when the stream produces fewer or more bytes than size.
type Decompressor interface {
	// Decompress decompresses data into a newly allocated slice of exactly
	// size bytes.
	//
	// Error conditions:
	//   - Returns error if input data is corrupted or invalid
	//   - Returns error if the stream decodes to a length other than size
	Decompress(data []byte, size int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Deflate, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionDeflate:
		return NewZlibCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: invalid %s compression: %s", errs.ErrUnsupportedCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:    NewNoOpCompressor(),
	format.CompressionDeflate: NewZlibCompressor(),
	format.CompressionZstd:    NewZstdCompressor(),
	format.CompressionS2:      NewS2Compressor(),
	format.CompressionLZ4:     NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// writeCompressed is the CompressTo fallback for codecs that compress into
// a fresh slice.
func writeCompressed(c Compressor, data []byte, w io.Writer) (int, error) {
	compressed, err := c.Compress(data)
	if err != nil {
		return 0, err
	}

	return w.Write(compressed)
}

func checkSize(got, want int) error {
	if got != want {
		return fmt.Errorf("decompressed size mismatch: expected %d, got %d", want, got)
	}

	return nil
}
