package record

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/format"
)

func sampleRecord() Record {
	return Record{
		Compression:   format.CompressionDeflate,
		Timestamp:     "1700000000.123",
		CheckID:       testCheckID,
		Target:        "192.0.2.10",
		Module:        "http",
		CheckName:     "homepage",
		PayloadLength: 5,
		Payload:       []byte(testPayload),
	}
}

func TestAppendLine(t *testing.T) {
	line, err := AppendLine(nil, sampleRecord())
	require.NoError(t, err)
	require.Equal(t, "B1\t1700000000.123\t"+testCheckID+"\t192.0.2.10\thttp\thomepage\t5\t"+testPayload, string(line))
}

func TestAppendLine_RoundTrip(t *testing.T) {
	for _, withIP := range []bool{false, true} {
		rec := sampleRecord()
		if withIP {
			rec.HasSourceIP = true
			rec.SourceIP = "10.0.0.7"
		}

		line, err := AppendLine([]byte("prefix:"), rec)
		require.NoError(t, err)

		parsed, ok, err := Parse(line[len("prefix:"):], Config{})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, rec, parsed)
	}
}

func TestAppendLine_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
		target error
	}{
		{"empty timestamp", func(r *Record) { r.Timestamp = "" }, errs.ErrInvalidHeader},
		{"tab in target", func(r *Record) { r.Target = "a\tb" }, errs.ErrInvalidHeader},
		{"newline in name", func(r *Record) { r.CheckName = "a\nb" }, errs.ErrInvalidHeader},
		{"empty source ip", func(r *Record) { r.HasSourceIP = true }, errs.ErrInvalidHeader},
		{"negative length", func(r *Record) { r.PayloadLength = -1 }, errs.ErrInvalidHeader},
		{"payload with tab", func(r *Record) { r.Payload = []byte("a\tb") }, errs.ErrInvalidHeader},
		{"unknown compression", func(r *Record) { r.Compression = 0 }, errs.ErrUnsupportedCompression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sampleRecord()
			tt.mutate(&rec)

			dst := []byte("keep")
			out, err := AppendLine(dst, rec)
			require.ErrorIs(t, err, tt.target)
			require.Equal(t, "keep", string(out))
		})
	}
}
