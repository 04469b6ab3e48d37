package checklog

import (
	"fmt"

	"github.com/arloliu/checklog/envelope"
	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/internal/options"
	"github.com/arloliu/checklog/payload"
	"github.com/arloliu/checklog/record"
)

// Header carries the per-check fields written in front of the payload.
type Header struct {
	Timestamp string
	CheckID   string
	Target    string
	Module    string
	CheckName string
}

// Encoder produces bundle lines, the inverse of Decoder.
//
// An Encoder is immutable after construction and safe for concurrent use.
type Encoder struct {
	cfg *EncoderConfig
	env *envelope.Envelope
}

// NewEncoder creates an Encoder. Lines are Deflate-compressed ("B1") unless
// WithCompression says otherwise.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	cfg := newEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.hasSourceIP && cfg.isTimestamp([]byte(cfg.sourceIP)) {
		return nil, fmt.Errorf("%w: source ip %q reads as a timestamp", errs.ErrInvalidHeader, cfg.sourceIP)
	}

	return &Encoder{
		cfg: cfg,
		env: envelope.New(cfg.maxPayloadSize),
	}, nil
}

// EncodeLine serializes bundle and frames it as a single bundle line without a
// trailing newline.
//
// Header fields must be non-empty and free of tabs and newlines, and the
// timestamp must pass the encoder's timestamp predicate (errs.ErrInvalidHeader).
func (e *Encoder) EncodeLine(hdr Header, bundle *payload.Bundle) (string, error) {
	if !e.cfg.isTimestamp([]byte(hdr.Timestamp)) {
		return "", fmt.Errorf("%w: invalid timestamp %q", errs.ErrInvalidHeader, hdr.Timestamp)
	}

	raw, err := payload.Marshal(bundle)
	if err != nil {
		return "", err
	}

	encoded, err := e.env.Encode(e.cfg.compression, raw)
	if err != nil {
		return "", fmt.Errorf("encode check %s: %w", hdr.CheckID, err)
	}

	rec := record.Record{
		Compression:   e.cfg.compression,
		HasSourceIP:   e.cfg.hasSourceIP,
		SourceIP:      e.cfg.sourceIP,
		Timestamp:     hdr.Timestamp,
		CheckID:       hdr.CheckID,
		Target:        hdr.Target,
		Module:        hdr.Module,
		CheckName:     hdr.CheckName,
		PayloadLength: len(raw),
		Payload:       encoded,
	}

	line, err := record.AppendLine(make([]byte, 0, 64+len(encoded)), rec)
	if err != nil {
		return "", err
	}

	return string(line), nil
}
