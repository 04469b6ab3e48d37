package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "checklog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
decode:
  ip_field: present
  extended_compression: true
  validate_check_id: true
  max_payload_size: 1024
  emit_null_numeric: true
encode:
  compression: lz4
  source_ip: 192.0.2.1
batch:
  policy: fail-fast
  workers: 3
output: msgpack
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Config{
		Log:    LogConfig{Level: "debug", Format: "json"},
		Decode: DecodeConfig{IPField: "present", ExtendedCompression: true, ValidateCheckID: true, MaxPayloadSize: 1024, EmitNullNumeric: true},
		Encode: EncodeConfig{Compression: "lz4", SourceIP: "192.0.2.1"},
		Batch:  BatchConfig{Policy: "fail-fast", Workers: 3},
		Output: OutputMsgpack,
	}, cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "output: json\n"))
	require.NoError(t, err)
	require.Equal(t, OutputJSON, cfg.Output)
	require.Equal(t, "deflate", cfg.Encode.Compression)
	require.Equal(t, 64<<20, cfg.Decode.MaxPayloadSize)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CHECKLOG_LOG_LEVEL", "ERROR")
	t.Setenv("CHECKLOG_EXTENDED_COMPRESSION", "yes")
	t.Setenv("CHECKLOG_MAX_PAYLOAD_SIZE", "2048")
	t.Setenv("CHECKLOG_WORKERS", "not-a-number")
	t.Setenv("CHECKLOG_OUTPUT", "json")

	cfg, err := Load(writeConfig(t, "batch:\n  workers: 2\n"))
	require.NoError(t, err)
	require.Equal(t, "error", cfg.Log.Level)
	require.True(t, cfg.Decode.ExtendedCompression)
	require.Equal(t, 2048, cfg.Decode.MaxPayloadSize)
	require.Equal(t, 2, cfg.Batch.Workers)
	require.Equal(t, OutputJSON, cfg.Output)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "decode:\n  ipfield: auto\n"))
		require.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := Load(writeConfig(t, "encode:\n  compression: gzip\n"))
		require.ErrorContains(t, err, "encode.compression")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "trace" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"ip field", func(c *Config) { c.Decode.IPField = "maybe" }},
		{"max payload", func(c *Config) { c.Decode.MaxPayloadSize = 0 }},
		{"compression", func(c *Config) { c.Encode.Compression = "" }},
		{"batch policy", func(c *Config) { c.Batch.Policy = "retry" }},
		{"workers", func(c *Config) { c.Batch.Workers = -1 }},
		{"output", func(c *Config) { c.Output = "csv" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Validate())
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "kind", "length_mismatch")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"kind":"length_mismatch"`)
}
