package envelope

import (
	"encoding/base64"
	"fmt"

	"github.com/arloliu/checklog/compress"
	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/format"
	"github.com/arloliu/checklog/internal/pool"
)

// DefaultMaxPayloadSize is the largest uncompressed payload accepted by default.
const DefaultMaxPayloadSize = 64 * 1024 * 1024 // 64MiB

// Envelope encodes and decodes payloads with a fixed size limit.
//
// An Envelope is immutable and safe for concurrent use.
type Envelope struct {
	maxPayloadSize int
}

var defaultEnvelope = New(DefaultMaxPayloadSize)

// New creates an Envelope that rejects payloads larger than maxPayloadSize
// bytes. A non-positive limit selects DefaultMaxPayloadSize.
func New(maxPayloadSize int) *Envelope {
	if maxPayloadSize <= 0 {
		maxPayloadSize = DefaultMaxPayloadSize
	}

	return &Envelope{maxPayloadSize: maxPayloadSize}
}

// Encode compresses raw according to kind and base64 encodes the result.
//
// Returns:
//   - []byte: Base64 text, EncodedLen(compressed length) bytes
//   - error: ErrAllocationFailed, ErrCompressionFailed, ErrEncodingFailed,
//     or ErrUnsupportedCompression
func (e *Envelope) Encode(kind format.CompressionType, raw []byte) ([]byte, error) {
	if len(raw) > e.maxPayloadSize {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds limit %d",
			errs.ErrAllocationFailed, len(raw), e.maxPayloadSize)
	}

	codec, err := compress.GetCodec(kind)
	if err != nil {
		return nil, err
	}

	data := raw
	if kind != format.CompressionNone {
		buf, release := pool.GetEnvelopeBuffer()
		defer release()

		buf.Grow(CompressBound(len(raw)))
		if _, err := codec.CompressTo(raw, buf); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", errs.ErrCompressionFailed, kind, err)
		}
		data = buf.Bytes()
	}

	out := make([]byte, EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	if len(data) > 0 && len(out) == 0 {
		return nil, fmt.Errorf("%w: empty output for %d input bytes", errs.ErrEncodingFailed, len(data))
	}

	return out, nil
}

// Decode reverses Encode. expectedLen is the uncompressed length declared
// by the record header.
//
// Returns:
//   - []byte: Exactly expectedLen bytes owned by the caller
//   - error: ErrAllocationFailed, ErrDecodingFailed, ErrDecompressionFailed,
//     ErrLengthMismatch, or ErrUnsupportedCompression
func (e *Envelope) Decode(kind format.CompressionType, encoded []byte, expectedLen int) ([]byte, error) {
	if expectedLen < 0 || expectedLen > e.maxPayloadSize {
		return nil, fmt.Errorf("%w: declared payload length %d outside limit %d",
			errs.ErrAllocationFailed, expectedLen, e.maxPayloadSize)
	}

	decodedCap := DecodedCap(len(encoded))
	if decodedCap > MaxCompressedLen(e.maxPayloadSize) {
		return nil, fmt.Errorf("%w: encoded payload of %d bytes exceeds limit",
			errs.ErrAllocationFailed, len(encoded))
	}

	codec, err := compress.GetCodec(kind)
	if err != nil {
		return nil, err
	}

	buf, release := pool.GetEnvelopeBuffer()
	defer release()

	buf.Grow(decodedCap)
	buf.SetLength(decodedCap)

	n, err := base64.StdEncoding.Decode(buf.B, encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecodingFailed, err)
	}
	if n == 0 && len(encoded) > 0 {
		return nil, fmt.Errorf("%w: no output for %d input bytes", errs.ErrDecodingFailed, len(encoded))
	}
	decoded := buf.B[:n]

	if kind == format.CompressionNone {
		if n != expectedLen {
			return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", errs.ErrLengthMismatch, n, expectedLen)
		}

		out := make([]byte, n)
		copy(out, decoded)

		return out, nil
	}

	raw, err := codec.Decompress(decoded, expectedLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrDecompressionFailed, kind, err)
	}

	return raw, nil
}

// Encode encodes raw with the default Envelope.
func Encode(kind format.CompressionType, raw []byte) ([]byte, error) {
	return defaultEnvelope.Encode(kind, raw)
}

// Decode decodes encoded with the default Envelope.
func Decode(kind format.CompressionType, encoded []byte, expectedLen int) ([]byte, error) {
	return defaultEnvelope.Decode(kind, encoded, expectedLen)
}
