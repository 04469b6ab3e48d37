// Package compress provides the compression half of the bundle envelope.
//
// A bundle payload is serialized, optionally compressed, and then base64
// encoded for transport inside a text line. This package implements the
// compression step; package envelope adds the text encoding.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	    CompressTo(data []byte, w io.Writer) (int, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte, size int) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Bundle records carry the exact uncompressed payload length in their header,
// so Decompress always takes the expected size and fails when the stream
// decodes to anything else. A stream that inflates cleanly but to the wrong
// length is an error, never a silent truncation.
//
// # Supported Algorithms
//
// **NoOp** (format.CompressionNone, line tag '2')
//
//	codec := compress.NewNoOpCompressor()
//	compressed, _ := codec.Compress(data)              // Returns data unchanged
//	original, _ := codec.Decompress(compressed, size)  // Checks the length only
//
// **Zlib** (format.CompressionDeflate, line tag '1')
//
//	codec := compress.NewZlibCompressor()
//	compressed, _ := codec.Compress(data)  // zlib stream, level 9
//	original, _ := codec.Decompress(compressed, len(data))
//
// This is the format produced by existing bundle producers. Writers are pooled.
//
// **Extended algorithms** (line tags '3', '4', '5')
//
// Zstd, S2, and LZ4 are available for producers and consumers that both
// enable extended compression tags. They are never selected by default.
//
//	| Tag | Type                       | Notes                          |
//	|-----|----------------------------|--------------------------------|
//	| 3   | format.CompressionZstd     | best ratio, pooled coders      |
//	| 4   | format.CompressionS2       | fastest, length in block head  |
//	| 5   | format.CompressionLZ4      | single HC block                |
//
// # Thread Safety
//
// All codec implementations are stateless values and safe for concurrent use.
//
// # Error Handling
//
// Decompression errors include:
//   - Corrupted compressed data or checksum failure
//   - Decoded length differs from the expected size
//
// Errors are returned with context but without a sentinel kind; package
// envelope classifies them as errs.ErrCompressionFailed or
// errs.ErrDecompressionFailed.
package compress
