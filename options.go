package checklog

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/arloliu/checklog/canonical"
	"github.com/arloliu/checklog/envelope"
	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/format"
	"github.com/arloliu/checklog/internal/options"
	"github.com/arloliu/checklog/record"
)

// DecoderConfig holds the immutable settings of a Decoder.
type DecoderConfig struct {
	logger         *slog.Logger
	record         record.Config
	maxPayloadSize int
	lines          canonical.Options
}

func newDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		maxPayloadSize: envelope.DefaultMaxPayloadSize,
	}
}

// DecoderOption configures a Decoder.
type DecoderOption = options.Option[*DecoderConfig]

// WithLogger sets the diagnostic sink. Each failed line is reported once at
// warn level. Without it failures go to the slog.Default() current at the
// time of the failure.
func WithLogger(logger *slog.Logger) DecoderOption {
	return options.New("WithLogger", func(c *DecoderConfig) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger

		return nil
	})
}

// WithIPFieldMode selects how the optional source-IP field is detected.
func WithIPFieldMode(mode record.IPFieldMode) DecoderOption {
	return options.New("WithIPFieldMode", func(c *DecoderConfig) error {
		switch mode {
		case record.IPFieldAuto, record.IPFieldPresent, record.IPFieldAbsent:
			c.record.IPField = mode
			return nil
		default:
			return fmt.Errorf("invalid ip field mode: %d", mode)
		}
	})
}

// WithTimestampPredicate replaces the predicate used by IPFieldAuto to tell a
// timestamp from a source IP.
func WithTimestampPredicate(fn record.TimestampPredicate) DecoderOption {
	return options.New("WithTimestampPredicate", func(c *DecoderConfig) error {
		if fn == nil {
			return errors.New("timestamp predicate must not be nil")
		}
		c.record.IsTimestamp = fn

		return nil
	})
}

// WithExtendedCompression accepts the Zstd, S2, and LZ4 tags '3', '4', '5'.
// Without it those lines are not bundle lines.
func WithExtendedCompression(enabled bool) DecoderOption {
	return options.NoError("WithExtendedCompression", func(c *DecoderConfig) {
		c.record.ExtendedTags = enabled
	})
}

// WithCheckIDValidation rejects lines whose check_id is not a UUID.
func WithCheckIDValidation(enabled bool) DecoderOption {
	return options.NoError("WithCheckIDValidation", func(c *DecoderConfig) {
		c.record.ValidateCheckID = enabled
	})
}

// WithMaxPayloadSize limits the declared uncompressed payload length.
func WithMaxPayloadSize(n int) DecoderOption {
	return options.New("WithMaxPayloadSize", func(c *DecoderConfig) error {
		if n <= 0 {
			return fmt.Errorf("max payload size must be positive, got %d", n)
		}
		c.maxPayloadSize = n

		return nil
	})
}

// WithEmitNullNumeric renders null numeric metrics as "[[null]]" lines
// instead of dropping them.
func WithEmitNullNumeric(enabled bool) DecoderOption {
	return options.NoError("WithEmitNullNumeric", func(c *DecoderConfig) {
		c.lines.EmitNullNumeric = enabled
	})
}

// EncoderConfig holds the immutable settings of an Encoder.
type EncoderConfig struct {
	compression    format.CompressionType
	sourceIP       string
	hasSourceIP    bool
	maxPayloadSize int
	isTimestamp    record.TimestampPredicate
}

func newEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		compression:    format.CompressionDeflate,
		maxPayloadSize: envelope.DefaultMaxPayloadSize,
		isTimestamp:    record.IsTimestamp,
	}
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithCompression selects the payload compression. The default is Deflate.
// Extended types produce lines only decoders with WithExtendedCompression
// accept.
func WithCompression(kind format.CompressionType) EncoderOption {
	return options.New("WithCompression", func(c *EncoderConfig) error {
		if kind.Tag() == 0 {
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, kind)
		}
		c.compression = kind

		return nil
	})
}

// WithSourceIP writes ip as the leading source-IP field of every line.
func WithSourceIP(ip string) EncoderOption {
	return options.New("WithSourceIP", func(c *EncoderConfig) error {
		if ip == "" {
			return errors.New("source ip must not be empty")
		}
		c.sourceIP = ip
		c.hasSourceIP = true

		return nil
	})
}

// WithEncoderMaxPayloadSize limits the serialized payload size.
func WithEncoderMaxPayloadSize(n int) EncoderOption {
	return options.New("WithEncoderMaxPayloadSize", func(c *EncoderConfig) error {
		if n <= 0 {
			return fmt.Errorf("max payload size must be positive, got %d", n)
		}
		c.maxPayloadSize = n

		return nil
	})
}

// WithEncoderTimestampPredicate replaces record.IsTimestamp as the check a
// header timestamp must pass. It should match the predicate of the decoders
// reading the lines, which use it to tell timestamps from source IPs.
func WithEncoderTimestampPredicate(pred record.TimestampPredicate) EncoderOption {
	return options.New("WithEncoderTimestampPredicate", func(c *EncoderConfig) error {
		if pred == nil {
			return errors.New("timestamp predicate must not be nil")
		}
		c.isTimestamp = pred

		return nil
	})
}
