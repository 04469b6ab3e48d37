// Package config loads the checklog command configuration from an optional
// YAML file and CHECKLOG_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/checklog/format"
	"github.com/arloliu/checklog/record"
)

// Output formats of the decode command.
const (
	OutputLines   = "lines"
	OutputJSON    = "json"
	OutputMsgpack = "msgpack"
)

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Decode DecodeConfig `yaml:"decode"`
	Encode EncodeConfig `yaml:"encode"`
	Batch  BatchConfig  `yaml:"batch"`
	Output string       `yaml:"output"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DecodeConfig struct {
	IPField             string `yaml:"ip_field"`
	ExtendedCompression bool   `yaml:"extended_compression"`
	ValidateCheckID     bool   `yaml:"validate_check_id"`
	MaxPayloadSize      int    `yaml:"max_payload_size"`
	EmitNullNumeric     bool   `yaml:"emit_null_numeric"`
}

type EncodeConfig struct {
	Compression string `yaml:"compression"`
	SourceIP    string `yaml:"source_ip"`
}

type BatchConfig struct {
	Policy  string `yaml:"policy"`
	Workers int    `yaml:"workers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "warn", Format: "text"},
		Decode: DecodeConfig{IPField: "auto", MaxPayloadSize: 64 << 20},
		Encode: EncodeConfig{Compression: "deflate"},
		Batch:  BatchConfig{Policy: "skip"},
		Output: OutputLines,
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides, and validates
// the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func (c *Config) applyEnv() {
	c.Log.Level = strings.ToLower(env("CHECKLOG_LOG_LEVEL", c.Log.Level))
	c.Log.Format = strings.ToLower(env("CHECKLOG_LOG_FORMAT", c.Log.Format))
	c.Decode.IPField = strings.ToLower(env("CHECKLOG_IP_FIELD", c.Decode.IPField))
	c.Decode.ExtendedCompression = envBool("CHECKLOG_EXTENDED_COMPRESSION", c.Decode.ExtendedCompression)
	c.Decode.ValidateCheckID = envBool("CHECKLOG_VALIDATE_CHECK_ID", c.Decode.ValidateCheckID)
	c.Decode.MaxPayloadSize = envInt("CHECKLOG_MAX_PAYLOAD_SIZE", c.Decode.MaxPayloadSize)
	c.Decode.EmitNullNumeric = envBool("CHECKLOG_EMIT_NULL_NUMERIC", c.Decode.EmitNullNumeric)
	c.Encode.Compression = env("CHECKLOG_COMPRESSION", c.Encode.Compression)
	c.Encode.SourceIP = env("CHECKLOG_SOURCE_IP", c.Encode.SourceIP)
	c.Batch.Policy = strings.ToLower(env("CHECKLOG_BATCH_POLICY", c.Batch.Policy))
	c.Batch.Workers = envInt("CHECKLOG_WORKERS", c.Batch.Workers)
	c.Output = strings.ToLower(env("CHECKLOG_OUTPUT", c.Output))
}

func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	if _, err := record.ParseIPFieldMode(c.Decode.IPField); err != nil {
		return err
	}
	if c.Decode.MaxPayloadSize <= 0 {
		return errors.New("decode.max_payload_size must be > 0")
	}
	if _, err := format.ParseCompressionType(c.Encode.Compression); err != nil {
		return fmt.Errorf("encode.compression: %w", err)
	}
	switch c.Batch.Policy {
	case "skip", "fail-fast":
	default:
		return fmt.Errorf("unsupported batch policy %q", c.Batch.Policy)
	}
	if c.Batch.Workers < 0 {
		return errors.New("batch.workers must be >= 0")
	}
	switch c.Output {
	case OutputLines, OutputJSON, OutputMsgpack:
	default:
		return fmt.Errorf("unsupported output format %q", c.Output)
	}

	return nil
}

// NewLogger builds the diagnostic logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch c.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}

	hOpts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hOpts))
	}

	return slog.New(slog.NewTextHandler(w, hOpts))
}

func env(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return i
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
