package envelope

// CompressBound returns the worst-case zlib stream size for n input bytes.
// It matches zlib's compressBound().
func CompressBound(n int) int {
	return n + (n >> 12) + (n >> 14) + (n >> 25) + 13
}

// EncodedLen returns the padded base64 length of n bytes: ceil(n/3)*4.
func EncodedLen(n int) int {
	return (n + 2) / 3 * 4
}

// DecodedCap returns the buffer size needed to base64 decode n encoded
// bytes: floor(n/4)*3. Padding makes this an upper bound, not an exact size.
func DecodedCap(n int) int {
	return n / 4 * 3
}

// MaxCompressedLen bounds the compressed size of n input bytes across every
// supported codec. S2 has the loosest worst case (n + n/6 + 32).
func MaxCompressedLen(n int) int {
	return n + n/6 + 64
}
