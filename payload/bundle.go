package payload

import (
	"math"

	"github.com/arloliu/checklog/format"
)

// Bundle is one decoded unit of check data: an optional status record and
// the check's metric samples in payload order.
type Bundle struct {
	Status  *Status
	Metrics []Metric
	// Period and Timeout are the check's scheduling parameters in
	// milliseconds, when the producer supplied them.
	Period  *uint32
	Timeout *uint32
}

// Status is a check-level observation.
type Status struct {
	State      byte
	Available  byte
	DurationMs int32
	// Message is nil when the producer sent no status text.
	Message *string
}

// Metric is one named, typed sample.
type Metric struct {
	Name  string
	Type  format.MetricType
	Value Value
}

// Value holds a metric sample value, or an explicit null.
//
// The zero Value is null. A null value is distinct from a zero number or an
// empty string.
type Value struct {
	valid bool
	num   uint64
	str   string
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

func intValue(v int64) Value {
	return Value{valid: true, num: uint64(v)} //nolint:gosec
}

func uintValue(v uint64) Value {
	return Value{valid: true, num: v}
}

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool {
	return !v.valid
}

// Int64 returns the value as a signed integer. Int32 values are sign-extended.
func (v Value) Int64() int64 {
	return int64(v.num) //nolint:gosec
}

// Uint64 returns the value as an unsigned integer.
func (v Value) Uint64() uint64 {
	return v.num
}

// Float64 returns the value of a Double sample.
func (v Value) Float64() float64 {
	return math.Float64frombits(v.num)
}

// Text returns the value of a String sample.
func (v Value) Text() string {
	return v.str
}

// Int32Metric returns a present Int32 sample.
func Int32Metric(name string, v int32) Metric {
	return Metric{Name: name, Type: format.MetricInt32, Value: intValue(int64(v))}
}

// Uint32Metric returns a present Uint32 sample.
func Uint32Metric(name string, v uint32) Metric {
	return Metric{Name: name, Type: format.MetricUint32, Value: uintValue(uint64(v))}
}

// Int64Metric returns a present Int64 sample.
func Int64Metric(name string, v int64) Metric {
	return Metric{Name: name, Type: format.MetricInt64, Value: intValue(v)}
}

// Uint64Metric returns a present Uint64 sample.
func Uint64Metric(name string, v uint64) Metric {
	return Metric{Name: name, Type: format.MetricUint64, Value: uintValue(v)}
}

// DoubleMetric returns a present Double sample.
func DoubleMetric(name string, v float64) Metric {
	return Metric{Name: name, Type: format.MetricDouble, Value: uintValue(math.Float64bits(v))}
}

// StringMetric returns a present String sample. An empty string is a value,
// not a null.
func StringMetric(name string, v string) Metric {
	return Metric{Name: name, Type: format.MetricString, Value: Value{valid: true, str: v}}
}

// NullMetric returns a sample of type t with no value.
func NullMetric(name string, t format.MetricType) Metric {
	return Metric{Name: name, Type: t}
}

// Interface returns the sample value as a Go value of the type's natural
// width, or nil for a null value or unknown type.
func (m Metric) Interface() any {
	if m.Value.IsNull() {
		return nil
	}

	switch m.Type {
	case format.MetricInt32:
		return int32(m.Value.Int64()) //nolint:gosec
	case format.MetricUint32:
		return uint32(m.Value.Uint64()) //nolint:gosec
	case format.MetricInt64:
		return m.Value.Int64()
	case format.MetricUint64:
		return m.Value.Uint64()
	case format.MetricDouble:
		return m.Value.Float64()
	case format.MetricString:
		return m.Value.Text()
	default:
		return nil
	}
}
