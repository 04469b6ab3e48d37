// Package errs defines the error kinds reported by the bundle decode pipeline.
//
// Every failure is local to a single input line. Components wrap one of the
// sentinel errors below with context using fmt.Errorf("%w: ...") so callers can
// classify failures with errors.Is:
//
//	lines, ok, err := dec.DecodeLine(line)
//	if errors.Is(err, errs.ErrDecompressionFailed) {
//	    // skip the line, count it, ...
//	}
//
// A line that is not a bundle line at all is not an error; see record.Parse.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord indicates a bundle line with a missing or invalid header field.
	ErrMalformedRecord = errors.New("malformed bundle record")

	// ErrAllocationFailed indicates a buffer size above the configured limit.
	ErrAllocationFailed = errors.New("buffer allocation failed")

	ErrEncodingFailed      = errors.New("base64 encoding failed")
	ErrDecodingFailed      = errors.New("base64 decoding failed")
	ErrCompressionFailed   = errors.New("compression failed")
	ErrDecompressionFailed = errors.New("decompression failed")

	// ErrLengthMismatch indicates an uncompressed payload whose decoded length
	// differs from the length declared in the record header.
	ErrLengthMismatch = errors.New("payload length mismatch")

	// ErrPayloadInvalid indicates a structured payload that cannot be decoded.
	ErrPayloadInvalid = errors.New("bundle payload invalid")

	ErrUnsupportedCompression = errors.New("unsupported compression type")

	// Producer-side errors.
	ErrInvalidMetricName = errors.New("invalid metric name")
	ErrDuplicateMetric   = errors.New("duplicate metric name")
	ErrInvalidMetricType = errors.New("invalid metric type")
	ErrInvalidHeader     = errors.New("invalid bundle header")
)

// MalformedRecordError names the header field that failed to parse.
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrMalformedRecord, e.Reason, e.Field)
}

// Unwrap lets errors.Is match ErrMalformedRecord.
func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// Malformed returns a *MalformedRecordError for field.
func Malformed(field, reason string) error {
	return &MalformedRecordError{Field: field, Reason: reason}
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrMalformedRecord, "malformed_record"},
	{ErrAllocationFailed, "allocation_failed"},
	{ErrEncodingFailed, "encoding_failed"},
	{ErrDecodingFailed, "decoding_failed"},
	{ErrCompressionFailed, "compression_failed"},
	{ErrDecompressionFailed, "decompression_failed"},
	{ErrLengthMismatch, "length_mismatch"},
	{ErrPayloadInvalid, "payload_invalid"},
	{ErrUnsupportedCompression, "unsupported_compression"},
	{ErrInvalidMetricName, "invalid_metric_name"},
	{ErrDuplicateMetric, "duplicate_metric"},
	{ErrInvalidMetricType, "invalid_metric_type"},
	{ErrInvalidHeader, "invalid_header"},
}

// Kind returns a short stable name for the most specific error kind in err's
// chain, or "unknown".
func Kind(err error) string {
	if err == nil {
		return ""
	}

	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}

	return "unknown"
}
