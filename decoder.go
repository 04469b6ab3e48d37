package checklog

import (
	"log/slog"

	"github.com/arloliu/checklog/canonical"
	"github.com/arloliu/checklog/envelope"
	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/internal/options"
	"github.com/arloliu/checklog/payload"
	"github.com/arloliu/checklog/record"
)

// Diagnostic attribute values for the failing pipeline stage.
const (
	componentFraming  = "framing"
	componentEnvelope = "envelope"
	componentPayload  = "payload"
)

// Decoder turns bundle lines into canonical lines.
//
// A Decoder is immutable after construction and safe for concurrent use.
type Decoder struct {
	cfg *DecoderConfig
	env *envelope.Envelope
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...DecoderOption) (*Decoder, error) {
	cfg := newDecoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return newDecoder(cfg), nil
}

func newDecoder(cfg *DecoderConfig) *Decoder {
	return &Decoder{
		cfg: cfg,
		env: envelope.New(cfg.maxPayloadSize),
	}
}

// DecodeLine decodes one input line into its canonical lines.
//
// Returns:
//   - ok == false: the line is not a bundle line; lines and err are nil
//   - err != nil: the bundle line failed to decode; lines is nil and one
//     diagnostic has been logged
//   - otherwise the status line, if any, followed by one line per emitted metric
func (d *Decoder) DecodeLine(line string) ([]string, bool, error) {
	rec, bundle, ok, err := d.DecodeBundle(line)
	if !ok || err != nil {
		return nil, ok, err
	}

	return d.Render(&rec, bundle), true, nil
}

// Render builds the canonical lines of a decoded bundle with the decoder's
// line options.
func (d *Decoder) Render(rec *record.Record, bundle *payload.Bundle) []string {
	return canonical.Build(rec, bundle, d.cfg.lines)
}

// DecodeBundle decodes one input line into its header and structured payload.
// Results follow the same rules as DecodeLine.
func (d *Decoder) DecodeBundle(line string) (record.Record, *payload.Bundle, bool, error) {
	rec, ok, err := record.ParseString(line, d.cfg.record)
	if !ok {
		return record.Record{}, nil, false, nil
	}
	if err != nil {
		d.report(componentFraming, "", err)
		return record.Record{}, nil, true, err
	}

	raw, err := d.env.Decode(rec.Compression, rec.Payload, rec.PayloadLength)
	if err != nil {
		d.report(componentEnvelope, rec.CheckID, err)
		return record.Record{}, nil, true, err
	}

	bundle, err := payload.Unmarshal(raw)
	if err != nil {
		d.report(componentPayload, rec.CheckID, err)
		return record.Record{}, nil, true, err
	}

	return rec, bundle, true, nil
}

func (d *Decoder) report(component, checkID string, err error) {
	attrs := []any{
		slog.String("component", component),
		slog.String("kind", errs.Kind(err)),
	}
	if checkID != "" {
		attrs = append(attrs, slog.String("check_id", checkID))
	}
	attrs = append(attrs, slog.Any("error", err))

	logger := d.cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("bundle line rejected", attrs...)
}
