package canonical

import (
	"math"
	"strconv"

	"github.com/arloliu/checklog/format"
	"github.com/arloliu/checklog/payload"
)

// NullToken is the text rendered for an absent value.
const NullToken = "[[null]]"

// FormatValue renders the value of m as canonical text.
//
// Integers are base-10, doubles use C "%.12e" notation, strings pass through
// unescaped, and a null value of any known type renders as NullToken.
// ok is false when m has an unknown type.
func FormatValue(m payload.Metric) (string, bool) {
	if m.Value.IsNull() {
		return NullToken, m.Type.Valid()
	}
	if m.Type == format.MetricString {
		return m.Value.Text(), true
	}

	var buf [32]byte
	b, ok := AppendValue(buf[:0], m)

	return string(b), ok
}

// AppendValue appends the canonical text of m's value to dst. dst is returned
// unchanged when m has an unknown type.
func AppendValue(dst []byte, m payload.Metric) ([]byte, bool) {
	if !m.Type.Valid() {
		return dst, false
	}
	if m.Value.IsNull() {
		return append(dst, NullToken...), true
	}

	switch m.Type {
	case format.MetricInt32, format.MetricInt64:
		return strconv.AppendInt(dst, m.Value.Int64(), 10), true
	case format.MetricUint32, format.MetricUint64:
		return strconv.AppendUint(dst, m.Value.Uint64(), 10), true
	case format.MetricDouble:
		return appendDouble(dst, m.Value.Float64()), true
	default:
		return append(dst, m.Value.Text()...), true
	}
}

// appendDouble matches C printf("%.12e"), including its spelling of the
// non-finite values.
func appendDouble(dst []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		if math.Signbit(v) {
			return append(dst, "-nan"...)
		}

		return append(dst, "nan"...)
	case math.IsInf(v, 1):
		return append(dst, "inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-inf"...)
	}

	return strconv.AppendFloat(dst, v, 'e', 12, 64)
}
