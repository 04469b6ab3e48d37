package checklog

import (
	"bytes"
	"encoding/base64"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/format"
	"github.com/arloliu/checklog/payload"
	"github.com/arloliu/checklog/record"
)

// ==============================================================================
// Helpers
// ==============================================================================

const testTimestamp = "2024-01-01T00:00:00Z"

var testCheckID = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8").String()

func testHeader() Header {
	return Header{
		Timestamp: testTimestamp,
		CheckID:   testCheckID,
		Target:    "10.1.2.3",
		Module:    "http",
		CheckName: "homepage",
	}
}

func strPtr(s string) *string {
	return &s
}

// scenarioBundle has a status, a present Int32, and an absent Double.
func scenarioBundle() *payload.Bundle {
	return &payload.Bundle{
		Status: &payload.Status{State: 'G', Available: 'A', DurationMs: 17, Message: strPtr("code=200")},
		Metrics: []payload.Metric{
			payload.Int32Metric("code", 200),
			payload.NullMetric("rt", format.MetricDouble),
		},
	}
}

func encodeLine(t *testing.T, bundle *payload.Bundle, opts ...EncoderOption) string {
	t.Helper()

	enc, err := NewEncoder(opts...)
	require.NoError(t, err)

	line, err := enc.EncodeLine(testHeader(), bundle)
	require.NoError(t, err)

	return line
}

// rawLine frames an arbitrary payload without going through the envelope.
func rawLine(tag byte, length int, encoded string) string {
	return strings.Join([]string{
		"B" + string(tag), testTimestamp, testCheckID, "10.1.2.3", "http", "homepage",
		strconv.Itoa(length), encoded,
	}, "\t")
}

type logRecord struct {
	Level     string `json:"level"`
	Msg       string `json:"msg"`
	Component string `json:"component"`
	Kind      string `json:"kind"`
	CheckID   string `json:"check_id"`
	Error     string `json:"error"`
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func parseLogs(t *testing.T, buf *bytes.Buffer) []logRecord {
	t.Helper()

	var out []logRecord
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec logRecord
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}

	return out
}

func newTestDecoder(t *testing.T, opts ...DecoderOption) (*Decoder, *bytes.Buffer) {
	t.Helper()

	logger, buf := captureLogger()
	dec, err := NewDecoder(append([]DecoderOption{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)

	return dec, buf
}

// ==============================================================================
// DecodeLine
// ==============================================================================

func TestDecoder_DecodeLine_Scenario(t *testing.T) {
	line := encodeLine(t, scenarioBundle(), WithCompression(format.CompressionNone))
	require.True(t, strings.HasPrefix(line, "B2\t"+testTimestamp+"\t"))

	dec, logs := newTestDecoder(t)
	lines, ok, err := dec.DecodeLine(line)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{
		"S\t" + testTimestamp + "\t" + testCheckID + "\tG\tA\t17\tcode=200",
		"M\t" + testTimestamp + "\t" + testCheckID + "\tcode\ti\t200",
	}, lines)
	require.Empty(t, logs.String())
}

func TestDecoder_DecodeLine_AllCompressions(t *testing.T) {
	kinds := []format.CompressionType{
		format.CompressionNone,
		format.CompressionDeflate,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
	dec, _ := newTestDecoder(t, WithExtendedCompression(true))

	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			line := encodeLine(t, scenarioBundle(), WithCompression(kind))
			require.Equal(t, kind.Tag(), line[1])

			lines, ok, err := dec.DecodeLine(line)
			require.NoError(t, err)
			require.True(t, ok)
			require.Len(t, lines, 2)
		})
	}
}

func TestDecoder_DecodeLine_NotABundleLine(t *testing.T) {
	valid := encodeLine(t, scenarioBundle())
	dec, logs := newTestDecoder(t)

	tests := []struct {
		name string
		line string
	}{
		{"invalid tag", "B9" + valid[2:]},
		{"extended tag disabled", encodeLine(t, scenarioBundle(), WithCompression(format.CompressionZstd))},
		{"plain log line", "S\t" + testTimestamp + "\tcheck\tG\tA\t1\tok"},
		{"empty", ""},
		{"short", "B1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, ok, err := dec.DecodeLine(tt.line)
			require.False(t, ok)
			require.NoError(t, err)
			require.Nil(t, lines)
		})
	}
	require.Empty(t, logs.String())
}

func TestDecoder_DecodeLine_Failures(t *testing.T) {
	garbageDeflate := base64.StdEncoding.EncodeToString([]byte("definitely not zlib"))

	tests := []struct {
		name      string
		line      string
		sentinel  error
		component string
		kind      string
	}{
		{
			name:      "malformed length",
			line:      strings.Replace(rawLine('2', 1, "AA=="), "\t1\tAA==", "\tone\tAA==", 1),
			sentinel:  errs.ErrMalformedRecord,
			component: componentFraming,
			kind:      "malformed_record",
		},
		{
			name:      "truncated header",
			line:      "B1\t" + testTimestamp + "\t" + testCheckID,
			sentinel:  errs.ErrMalformedRecord,
			component: componentFraming,
			kind:      "malformed_record",
		},
		{
			name:      "length mismatch",
			line:      rawLine('2', 2, "AA=="),
			sentinel:  errs.ErrLengthMismatch,
			component: componentEnvelope,
			kind:      "length_mismatch",
		},
		{
			name:      "bad base64",
			line:      rawLine('2', 3, "!!!!"),
			sentinel:  errs.ErrDecodingFailed,
			component: componentEnvelope,
			kind:      "decoding_failed",
		},
		{
			name:      "corrupt deflate",
			line:      rawLine('1', 64, garbageDeflate),
			sentinel:  errs.ErrDecompressionFailed,
			component: componentEnvelope,
			kind:      "decompression_failed",
		},
		{
			name:      "oversized declared length",
			line:      rawLine('2', 1<<20, "AA=="),
			sentinel:  errs.ErrAllocationFailed,
			component: componentEnvelope,
			kind:      "allocation_failed",
		},
		{
			name:      "invalid payload",
			line:      rawLine('2', 1, "AA=="),
			sentinel:  errs.ErrPayloadInvalid,
			component: componentPayload,
			kind:      "payload_invalid",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, buf := newTestDecoder(t, WithMaxPayloadSize(1024))

			lines, ok, err := dec.DecodeLine(tt.line)
			require.True(t, ok)
			require.ErrorIs(t, err, tt.sentinel)
			require.Nil(t, lines)

			logs := parseLogs(t, buf)
			require.Len(t, logs, 1)
			require.Equal(t, "WARN", logs[0].Level)
			require.Equal(t, tt.component, logs[0].Component)
			require.Equal(t, tt.kind, logs[0].Kind)
			require.Equal(t, err.Error(), logs[0].Error)
			if tt.component != componentFraming {
				require.Equal(t, testCheckID, logs[0].CheckID)
			}
		})
	}
}

func TestDecoder_DecodeLine_NullNumeric(t *testing.T) {
	bundle := &payload.Bundle{Metrics: []payload.Metric{
		payload.NullMetric("absent", format.MetricInt32),
		payload.StringMetric("empty", ""),
	}}
	line := encodeLine(t, bundle)

	t.Run("dropped by default", func(t *testing.T) {
		dec, _ := newTestDecoder(t)
		lines, _, err := dec.DecodeLine(line)
		require.NoError(t, err)
		require.Equal(t, []string{"M\t" + testTimestamp + "\t" + testCheckID + "\tempty\ts\t"}, lines)
	})

	t.Run("emitted on request", func(t *testing.T) {
		dec, _ := newTestDecoder(t, WithEmitNullNumeric(true))
		lines, _, err := dec.DecodeLine(line)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		require.Equal(t, "M\t"+testTimestamp+"\t"+testCheckID+"\tabsent\ti\t[[null]]", lines[0])
	})
}

func TestDecoder_DecodeLine_SourceIP(t *testing.T) {
	line := encodeLine(t, scenarioBundle(), WithSourceIP("192.0.2.10"))
	require.True(t, strings.HasPrefix(line, "B1\t192.0.2.10\t"))

	dec, _ := newTestDecoder(t)
	rec, bundle, ok, err := dec.DecodeBundle(line)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, rec.HasSourceIP)
	require.Equal(t, "192.0.2.10", rec.SourceIP)
	require.Equal(t, testTimestamp, rec.Timestamp)
	require.Len(t, bundle.Metrics, 2)

	t.Run("forced absent misreads the header", func(t *testing.T) {
		dec, _ := newTestDecoder(t, WithIPFieldMode(record.IPFieldAbsent))
		_, ok, err := dec.DecodeLine(line)
		require.True(t, ok)
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
	})
}

func TestDecoder_DecodeLine_CheckIDValidation(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	hdr := testHeader()
	hdr.CheckID = "not-a-uuid"
	line, err := enc.EncodeLine(hdr, scenarioBundle())
	require.NoError(t, err)

	dec, _ := newTestDecoder(t)
	_, _, err = dec.DecodeLine(line)
	require.NoError(t, err)

	strict, _ := newTestDecoder(t, WithCheckIDValidation(true))
	_, _, err = strict.DecodeLine(line)
	var mre *errs.MalformedRecordError
	require.ErrorAs(t, err, &mre)
	require.Equal(t, record.FieldCheckID, mre.Field)
}

func TestDecoder_TimestampPredicate(t *testing.T) {
	line := encodeLine(t, scenarioBundle())

	// A predicate that accepts nothing makes every first field a source IP.
	dec, _ := newTestDecoder(t, WithTimestampPredicate(func([]byte) bool { return false }))
	_, ok, err := dec.DecodeLine(line)
	require.True(t, ok)
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
}

func TestDecoder_DecodeBundle(t *testing.T) {
	in := scenarioBundle()
	in.Period = new(uint32)
	*in.Period = 60000
	line := encodeLine(t, in)

	dec, _ := newTestDecoder(t)
	rec, out, ok, err := dec.DecodeBundle(line)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, format.CompressionDeflate, rec.Compression)
	require.Equal(t, "homepage", rec.CheckName)
	require.Equal(t, in, out)
}

// ==============================================================================
// Options
// ==============================================================================

func TestNewDecoder_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  DecoderOption
	}{
		{"nil logger", WithLogger(nil)},
		{"nil predicate", WithTimestampPredicate(nil)},
		{"bad ip mode", WithIPFieldMode(record.IPFieldMode(9))},
		{"zero max payload", WithMaxPayloadSize(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := NewDecoder(tt.opt)
			require.Error(t, err)
			require.Nil(t, dec)
		})
	}
}
