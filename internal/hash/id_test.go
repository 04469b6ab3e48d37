package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetricID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty name", "", 0xef46db3751d8e999},
		{"short name", "test", 0x4fdcca5ddb678139},
		{"dotted name", "another test string", 0x212a22f593810bec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.id, MetricID(tt.data))
		})
	}
}

func TestMetricID_Distinct(t *testing.T) {
	names := []string{"cpu.idle", "cpu.user", "cpu.system", "mem.free", "duration"}
	seen := make(map[uint64]string, len(names))
	for _, n := range names {
		id := MetricID(n)
		prev, dup := seen[id]
		require.False(t, dup, "%q collides with %q", n, prev)
		seen[id] = n
	}
}

func BenchmarkMetricID(b *testing.B) {
	name := "http.response.duration_ms"
	for b.Loop() {
		MetricID(name)
	}
}
