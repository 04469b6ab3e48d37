package canonical

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/checklog/format"
	"github.com/arloliu/checklog/payload"
	"github.com/arloliu/checklog/record"
)

const testCheckID = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

func testRecord() *record.Record {
	return &record.Record{
		Compression: format.CompressionNone,
		Timestamp:   "2024-01-01T00:00:00Z",
		CheckID:     testCheckID,
		Target:      "10.0.0.1",
		Module:      "http",
		CheckName:   "homepage",
	}
}

func strPtr(s string) *string {
	return &s
}

func TestBuild_StatusAndMetrics(t *testing.T) {
	bundle := &payload.Bundle{
		Status: &payload.Status{State: 'G', Available: 'A', DurationMs: 17, Message: strPtr("code=200")},
		Metrics: []payload.Metric{
			payload.Int32Metric("code", 200),
			payload.DoubleMetric("rt", 0.017),
			payload.StringMetric("server", "nginx"),
		},
	}

	lines := Build(testRecord(), bundle, Options{})
	require.Equal(t, Lines{
		"S\t2024-01-01T00:00:00Z\t" + testCheckID + "\tG\tA\t17\tcode=200",
		"M\t2024-01-01T00:00:00Z\t" + testCheckID + "\tcode\ti\t200",
		"M\t2024-01-01T00:00:00Z\t" + testCheckID + "\trt\tn\t1.700000000000e-02",
		"M\t2024-01-01T00:00:00Z\t" + testCheckID + "\tserver\ts\tnginx",
	}, lines)
	require.Equal(t, 4, lines.Count())
}

func TestBuild_StatusWithoutMessage(t *testing.T) {
	bundle := &payload.Bundle{Status: &payload.Status{State: 'B', Available: 'U', DurationMs: -3}}

	lines := Build(testRecord(), bundle, Options{})
	require.Equal(t, Lines{"S\t2024-01-01T00:00:00Z\t" + testCheckID + "\tB\tU\t-3\t[[null]]"}, lines)
}

func TestBuild_NullSemantics(t *testing.T) {
	bundle := &payload.Bundle{
		Metrics: []payload.Metric{
			payload.NullMetric("absent.int", format.MetricInt32),
			payload.NullMetric("absent.double", format.MetricDouble),
			payload.StringMetric("empty", ""),
			payload.NullMetric("absent.text", format.MetricString),
			payload.Int64Metric("kept", 5),
		},
	}

	t.Run("null numerics dropped", func(t *testing.T) {
		lines := Build(testRecord(), bundle, Options{})
		require.Equal(t, Lines{
			"M\t2024-01-01T00:00:00Z\t" + testCheckID + "\tempty\ts\t",
			"M\t2024-01-01T00:00:00Z\t" + testCheckID + "\tabsent.text\ts\t[[null]]",
			"M\t2024-01-01T00:00:00Z\t" + testCheckID + "\tkept\tl\t5",
		}, lines)
	})

	t.Run("null numerics emitted", func(t *testing.T) {
		lines := Build(testRecord(), bundle, Options{EmitNullNumeric: true})
		require.Len(t, lines, 5)
		require.Equal(t, "M\t2024-01-01T00:00:00Z\t"+testCheckID+"\tabsent.int\ti\t[[null]]", lines[0])
		require.Equal(t, "M\t2024-01-01T00:00:00Z\t"+testCheckID+"\tabsent.double\tn\t[[null]]", lines[1])
	})
}

func TestBuild_UnknownTypeDropped(t *testing.T) {
	odd := payload.NullMetric("odd", format.MetricType('z'))
	bundle := &payload.Bundle{Metrics: []payload.Metric{odd, payload.Uint32Metric("n", 1)}}

	lines := Build(testRecord(), bundle, Options{EmitNullNumeric: true})
	require.Equal(t, Lines{"M\t2024-01-01T00:00:00Z\t" + testCheckID + "\tn\tI\t1"}, lines)
}

func TestBuild_Empty(t *testing.T) {
	require.Nil(t, Build(testRecord(), nil, Options{}))
	require.Nil(t, Build(testRecord(), &payload.Bundle{}, Options{}))
	require.Empty(t, Build(testRecord(), &payload.Bundle{
		Metrics: []payload.Metric{payload.NullMetric("x", format.MetricUint64)},
	}, Options{}))
}

func TestBuild_LinesAreIndependent(t *testing.T) {
	bundle := &payload.Bundle{Metrics: []payload.Metric{
		payload.StringMetric("a", "first"),
		payload.StringMetric("b", "second"),
	}}

	lines := Build(testRecord(), bundle, Options{})
	again := Build(testRecord(), &payload.Bundle{Metrics: []payload.Metric{payload.StringMetric("c", "zzzzzz")}}, Options{})

	require.Contains(t, lines[0], "\tfirst")
	require.Contains(t, lines[1], "\tsecond")
	require.Contains(t, again[0], "\tzzzzzz")
}

func TestLines_WriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := Lines{"S\ta", "M\tb"}.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.Equal(t, "S\ta\nM\tb\n", buf.String())
}

func BenchmarkBuild(b *testing.B) {
	rec := testRecord()
	bundle := &payload.Bundle{
		Status: &payload.Status{State: 'G', Available: 'A', DurationMs: 17},
		Metrics: []payload.Metric{
			payload.Int32Metric("code", 200),
			payload.DoubleMetric("rt", 0.017),
			payload.StringMetric("server", "nginx"),
			payload.Uint64Metric("bytes", 1<<20),
		},
	}

	for b.Loop() {
		_ = Build(rec, bundle, Options{})
	}
}
