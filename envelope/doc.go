// Package envelope implements the reversible transport wrapper around bundle
// payloads: raw bytes are optionally compressed and then base64 encoded so
// they can travel inside a tab-delimited text line.
//
// # Format
//
//	raw payload --compress--> compressed --base64 (std, padded)--> text
//
// The compression step is selected by format.CompressionType. The record
// header declares the uncompressed length, and Decode enforces it exactly:
// a stream that decodes to any other length fails, even when the
// decompressor itself reports success.
//
// # Buffers
//
// Intermediate buffers (compressed bytes on encode, base64-decoded bytes on
// decode) come from a pool and are released on every return path. Sizes are
// derived from CompressBound, EncodedLen, and DecodedCap. Returned slices
// never alias pooled memory.
package envelope
