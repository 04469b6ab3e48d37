// Package checklog decodes bundle records, the compact line format used to
// ship monitoring check results, into canonical check-log lines.
//
// A bundle line carries a compression tag, a small tab-separated header, and a
// base64 envelope around a protobuf-encoded bundle of one status observation
// and zero or more metric samples:
//
//	B<tag>\t[source_ip\t]timestamp\tcheck_id\ttarget\tmodule\tcheck_name\tpayload_length\tpayload
//
// Decoding re-expands the bundle into one "S" line and one "M" line per metric:
//
//	S\ttimestamp\tcheck_id\tstate\tavailable\tduration_ms\tstatus_text
//	M\ttimestamp\tcheck_id\tname\ttype\tvalue
//
// # Basic Usage
//
// Decoding lines:
//
//	dec, err := checklog.NewDecoder(checklog.WithLogger(logger))
//	lines, ok, err := dec.DecodeLine(input)
//	switch {
//	case !ok:
//	    // not a bundle line; pass it through or skip it
//	case err != nil:
//	    // already logged; skip the line
//	default:
//	    for _, l := range lines { ... }
//	}
//
// Encoding a bundle:
//
//	bld := payload.NewBuilder()
//	bld.SetStatus(payload.Status{State: 'G', Available: 'A', DurationMs: 12})
//	_ = bld.AddMetric(payload.Int32Metric("code", 200))
//
//	enc, _ := checklog.NewEncoder()
//	line, err := enc.EncodeLine(checklog.Header{...}, bld.Bundle())
//
// Decoding many lines at once with ordered results:
//
//	results, err := checklog.DecodeBatch(ctx, dec, lines, checklog.BatchOptions{})
//
// # Package Structure
//
//   - record: header framing (parse and append)
//   - envelope: compression and base64 layer
//   - compress: Deflate and the extended Zstd, S2, LZ4 codecs
//   - payload: bundle model and protobuf wire codec
//   - canonical: value formatting and canonical lines
//   - errs: error kinds shared by all stages
package checklog

import (
	"github.com/arloliu/checklog/internal/hash"
)

var defaultDecoder = newDecoder(newDecoderConfig())

// DecodeLine decodes line with default settings, logging failures to
// slog.Default(). See Decoder.DecodeLine.
func DecodeLine(line string) ([]string, bool, error) {
	return defaultDecoder.DecodeLine(line)
}

// MetricID returns the 64-bit xxHash key of a metric name, the key
// payload.Builder uses to detect duplicates.
func MetricID(name string) uint64 {
	return hash.MetricID(name)
}
