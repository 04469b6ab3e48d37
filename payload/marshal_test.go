package payload

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/format"
)

func ptr[T any](v T) *T {
	return &v
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := &Bundle{
		Status: &Status{State: 'G', Available: 'A', DurationMs: 17, Message: ptr("code=200,rt=0.017s")},
		Metrics: []Metric{
			Int32Metric("code", -200),
			Uint32Metric("bytes", math.MaxUint32),
			Int64Metric("offset", math.MinInt64),
			Uint64Metric("counter", math.MaxUint64),
			DoubleMetric("rt", 0.017),
			StringMetric("version", "1.2.3"),
			StringMetric("empty", ""),
			NullMetric("missing", format.MetricDouble),
			NullMetric("missing.text", format.MetricString),
		},
		Period:  ptr(uint32(60000)),
		Timeout: ptr(uint32(5000)),
	}

	raw, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(raw)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestMarshal_StatusOnly(t *testing.T) {
	in := &Bundle{Status: &Status{State: 'B', Available: 'U', DurationMs: -1}}

	raw, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(raw)
	require.NoError(t, err)
	require.Equal(t, in.Status, out.Status)
	require.Nil(t, out.Status.Message)
	require.Empty(t, out.Metrics)
}

func TestMarshal_Nil(t *testing.T) {
	raw, err := Marshal(nil)
	require.NoError(t, err)
	require.Empty(t, raw)
}

func TestMarshal_UnknownType(t *testing.T) {
	t.Run("null value allowed", func(t *testing.T) {
		raw, err := Marshal(&Bundle{Metrics: []Metric{NullMetric("odd", format.MetricType('x'))}})
		require.NoError(t, err)

		out, err := Unmarshal(raw)
		require.NoError(t, err)
		require.Equal(t, format.MetricType('x'), out.Metrics[0].Type)
	})

	t.Run("value rejected", func(t *testing.T) {
		m := Int32Metric("odd", 1)
		m.Type = format.MetricType('x')
		_, err := Marshal(&Bundle{Metrics: []Metric{m}})
		require.ErrorIs(t, err, errs.ErrInvalidMetricType)
	})
}

func TestAppendMarshal_KeepsPrefix(t *testing.T) {
	prefix := []byte{0xAA, 0xBB}
	raw, err := AppendMarshal(prefix, &Bundle{Metrics: []Metric{Int32Metric("a", 1)}})
	require.NoError(t, err)
	require.Equal(t, prefix, raw[:2])

	out, err := Unmarshal(raw[2:])
	require.NoError(t, err)
	require.Len(t, out.Metrics, 1)
}
