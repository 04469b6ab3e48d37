package payload

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/format"
)

// Marshal serializes b in the bundle wire format.
//
// Null values are omitted. A metric with an unknown type may be written only
// with a null value.
func Marshal(b *Bundle) ([]byte, error) {
	return AppendMarshal(nil, b)
}

// AppendMarshal appends the serialized form of b to dst.
func AppendMarshal(dst []byte, b *Bundle) ([]byte, error) {
	if b == nil {
		return dst, nil
	}

	if b.Status != nil {
		dst = protowire.AppendTag(dst, bundleStatus, protowire.BytesType)
		dst = protowire.AppendBytes(dst, appendStatus(nil, b.Status))
	}

	var scratch []byte
	for i := range b.Metrics {
		var err error
		scratch, err = appendMetric(scratch[:0], &b.Metrics[i])
		if err != nil {
			return dst, err
		}
		dst = protowire.AppendTag(dst, bundleMetrics, protowire.BytesType)
		dst = protowire.AppendBytes(dst, scratch)
	}

	if b.Period != nil {
		dst = protowire.AppendTag(dst, bundlePeriod, protowire.VarintType)
		dst = protowire.AppendVarint(dst, uint64(*b.Period))
	}
	if b.Timeout != nil {
		dst = protowire.AppendTag(dst, bundleTimeout, protowire.VarintType)
		dst = protowire.AppendVarint(dst, uint64(*b.Timeout))
	}

	return dst, nil
}

func appendStatus(dst []byte, s *Status) []byte {
	dst = appendInt32(dst, statusAvailable, int32(s.Available))
	dst = appendInt32(dst, statusState, int32(s.State))
	dst = appendInt32(dst, statusDuration, s.DurationMs)
	if s.Message != nil {
		dst = protowire.AppendTag(dst, statusMessage, protowire.BytesType)
		dst = protowire.AppendString(dst, *s.Message)
	}

	return dst
}

func appendMetric(dst []byte, m *Metric) ([]byte, error) {
	dst = protowire.AppendTag(dst, metricName, protowire.BytesType)
	dst = protowire.AppendString(dst, m.Name)
	dst = appendInt32(dst, metricType, int32(m.Type))

	if m.Value.IsNull() {
		return dst, nil
	}

	field, ok := valueField(m.Type)
	if !ok {
		return dst, fmt.Errorf("%w: metric %q has type %q", errs.ErrInvalidMetricType, m.Name, byte(m.Type))
	}

	switch m.Type {
	case format.MetricDouble:
		dst = protowire.AppendTag(dst, field, protowire.Fixed64Type)
		dst = protowire.AppendFixed64(dst, m.Value.Uint64())
	case format.MetricString:
		dst = protowire.AppendTag(dst, field, protowire.BytesType)
		dst = protowire.AppendString(dst, m.Value.Text())
	default:
		// Signed values are stored sign-extended, which is also the
		// protobuf varint encoding of a negative int32.
		dst = protowire.AppendTag(dst, field, protowire.VarintType)
		dst = protowire.AppendVarint(dst, m.Value.Uint64())
	}

	return dst, nil
}

func appendInt32(dst []byte, num protowire.Number, v int32) []byte {
	dst = protowire.AppendTag(dst, num, protowire.VarintType)
	return protowire.AppendVarint(dst, uint64(int64(v))) //nolint:gosec
}
