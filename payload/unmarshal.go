package payload

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/arloliu/checklog/format"
)

// Unmarshal decodes a serialized bundle.
//
// The status fields available, state, and duration are required when a
// status is present, as are a metric's name and type. A missing required
// field or a truncated message fails with errs.ErrPayloadInvalid. Unknown
// fields are skipped.
//
// A metric's value is present only when the value field matching its
// declared type is present; any other value field is ignored. Metrics with
// an unknown type are kept with a null value.
func Unmarshal(data []byte) (*Bundle, error) {
	bundle := &Bundle{}

	var (
		status    rawStatus
		hasStatus bool
	)

	err := walkMessage("bundle", data, bundleFields, func(num protowire.Number, v uint64, raw []byte) error {
		switch num {
		case bundleStatus:
			// Repeated occurrences of a message field merge.
			hasStatus = true
			return status.unmarshal(raw)
		case bundleMetrics:
			m, err := unmarshalMetric(raw, len(bundle.Metrics))
			if err != nil {
				return err
			}
			bundle.Metrics = append(bundle.Metrics, m)
		case bundlePeriod:
			p := uint32(v) //nolint:gosec
			bundle.Period = &p
		case bundleTimeout:
			t := uint32(v) //nolint:gosec
			bundle.Timeout = &t
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if hasStatus {
		s, err := status.resolve()
		if err != nil {
			return nil, err
		}
		bundle.Status = s
	}

	return bundle, nil
}

type rawStatus struct {
	available, state, duration          int32
	hasAvailable, hasState, hasDuration bool
	message                             *string
}

func (s *rawStatus) unmarshal(data []byte) error {
	return walkMessage("status", data, statusFields, func(num protowire.Number, v uint64, raw []byte) error {
		switch num {
		case statusAvailable:
			s.available, s.hasAvailable = int32(v), true //nolint:gosec
		case statusState:
			s.state, s.hasState = int32(v), true //nolint:gosec
		case statusDuration:
			s.duration, s.hasDuration = int32(v), true //nolint:gosec
		case statusMessage:
			msg := string(raw)
			s.message = &msg
		}

		return nil
	})
}

func (s *rawStatus) resolve() (*Status, error) {
	switch {
	case !s.hasAvailable:
		return nil, invalid("status: missing required field available")
	case !s.hasState:
		return nil, invalid("status: missing required field state")
	case !s.hasDuration:
		return nil, invalid("status: missing required field duration")
	}

	return &Status{
		State:      byte(s.state),     //nolint:gosec
		Available:  byte(s.available), //nolint:gosec
		DurationMs: s.duration,
		Message:    s.message,
	}, nil
}

// rawMetric records every value field seen, since the declared type may
// arrive after the values.
type rawMetric struct {
	name    string
	typ     int32
	hasName bool
	hasType bool

	present [metricValueStr + 1]bool
	values  [metricValueStr + 1]uint64
	str     string
}

func unmarshalMetric(data []byte, index int) (Metric, error) {
	var rm rawMetric

	err := walkMessage("metric", data, metricFields, func(num protowire.Number, v uint64, raw []byte) error {
		switch num {
		case metricName:
			rm.name, rm.hasName = string(raw), true
		case metricType:
			rm.typ, rm.hasType = int32(v), true //nolint:gosec
		case metricValueStr:
			rm.str = string(raw)
			rm.present[num] = true
		default:
			rm.values[num] = v
			rm.present[num] = true
		}

		return nil
	})
	if err != nil {
		return Metric{}, err
	}

	if !rm.hasName {
		return Metric{}, invalid("metric %d: missing required field name", index)
	}
	if !rm.hasType {
		return Metric{}, invalid("metric %q: missing required field metricType", rm.name)
	}

	m := Metric{Name: rm.name}
	if rm.typ < 0 || rm.typ > math.MaxUint8 {
		return m, nil
	}
	m.Type = format.MetricType(rm.typ)

	field, ok := valueField(m.Type)
	if !ok || !rm.present[field] {
		return m, nil
	}

	switch m.Type {
	case format.MetricInt32:
		m.Value = intValue(int64(int32(rm.values[field]))) //nolint:gosec
	case format.MetricUint32:
		m.Value = uintValue(uint64(uint32(rm.values[field]))) //nolint:gosec
	case format.MetricString:
		m.Value = Value{valid: true, str: rm.str}
	default:
		m.Value = uintValue(rm.values[field])
	}

	return m, nil
}

// valueField returns the field number carrying values of type t.
func valueField(t format.MetricType) (protowire.Number, bool) {
	switch t {
	case format.MetricInt32:
		return metricValueI32, true
	case format.MetricUint32:
		return metricValueUI32, true
	case format.MetricInt64:
		return metricValueI64, true
	case format.MetricUint64:
		return metricValueUI64, true
	case format.MetricDouble:
		return metricValueDbl, true
	case format.MetricString:
		return metricValueStr, true
	default:
		return 0, false
	}
}
