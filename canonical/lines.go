package canonical

import (
	"io"
	"strconv"

	"github.com/arloliu/checklog/format"
	"github.com/arloliu/checklog/internal/pool"
	"github.com/arloliu/checklog/payload"
	"github.com/arloliu/checklog/record"
)

// Options tunes line building.
type Options struct {
	// EmitNullNumeric renders null numeric metrics as NullToken lines instead
	// of dropping them.
	EmitNullNumeric bool
}

// Lines is the ordered canonical output for one bundle: at most one leading
// status line followed by one line per emitted metric.
type Lines []string

// Count returns the number of lines, status line included.
func (l Lines) Count() int {
	return len(l)
}

// WriteTo writes each line followed by a newline.
func (l Lines) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range l {
		n, err := io.WriteString(w, line)
		total += int64(n)
		if err != nil {
			return total, err
		}
		n, err = io.WriteString(w, "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// Build renders the canonical lines for a decoded bundle.
//
// Metrics whose value renders as nothing are omitted: those of unknown type
// and, unless opts.EmitNullNumeric is set, null values of non-string type.
// A null string renders as NullToken and an empty string is kept.
func Build(rec *record.Record, bundle *payload.Bundle, opts Options) Lines {
	if bundle == nil {
		return nil
	}

	n := len(bundle.Metrics)
	if bundle.Status != nil {
		n++
	}
	if n == 0 {
		return nil
	}
	lines := make(Lines, 0, n)

	buf, release := pool.GetLineBuffer()
	defer release()

	if bundle.Status != nil {
		buf.Reset()
		buf.B = appendStatusLine(buf.B, rec, bundle.Status)
		lines = append(lines, buf.String())
	}

	for i := range bundle.Metrics {
		m := &bundle.Metrics[i]
		if !emits(m, opts) {
			continue
		}

		buf.Reset()
		buf.B = appendMetricLine(buf.B, rec, m)
		lines = append(lines, buf.String())
	}

	return lines
}

func emits(m *payload.Metric, opts Options) bool {
	if !m.Type.Valid() {
		return false
	}
	if m.Value.IsNull() && m.Type != format.MetricString {
		return opts.EmitNullNumeric
	}

	return true
}

// appendStatusLine appends "S\tts\tcheck_id\tstate\tavailable\tduration\tmessage".
func appendStatusLine(dst []byte, rec *record.Record, s *payload.Status) []byte {
	dst = append(dst, 'S', '\t')
	dst = append(dst, rec.Timestamp...)
	dst = append(dst, '\t')
	dst = append(dst, rec.CheckID...)
	dst = append(dst, '\t', s.State, '\t', s.Available, '\t')
	dst = strconv.AppendInt(dst, int64(s.DurationMs), 10)
	dst = append(dst, '\t')
	if s.Message == nil {
		return append(dst, NullToken...)
	}

	return append(dst, *s.Message...)
}

// appendMetricLine appends "M\tts\tcheck_id\tname\ttype\tvalue".
func appendMetricLine(dst []byte, rec *record.Record, m *payload.Metric) []byte {
	dst = append(dst, 'M', '\t')
	dst = append(dst, rec.Timestamp...)
	dst = append(dst, '\t')
	dst = append(dst, rec.CheckID...)
	dst = append(dst, '\t')
	dst = append(dst, m.Name...)
	dst = append(dst, '\t', byte(m.Type), '\t')
	dst, _ = AppendValue(dst, *m)

	return dst
}
