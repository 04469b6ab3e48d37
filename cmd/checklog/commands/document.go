package commands

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/arloliu/checklog"
	"github.com/arloliu/checklog/canonical"
	"github.com/arloliu/checklog/format"
	"github.com/arloliu/checklog/payload"
	"github.com/arloliu/checklog/record"
)

// bundleDoc is the structured form of one bundle record, shared by the
// json and msgpack outputs of decode and the input of encode.
type bundleDoc struct {
	SourceIP    string      `json:"source_ip,omitempty"`
	Timestamp   string      `json:"timestamp"`
	CheckID     string      `json:"check_id"`
	Target      string      `json:"target"`
	Module      string      `json:"module"`
	CheckName   string      `json:"check_name"`
	Compression string      `json:"compression,omitempty"`
	Status      *statusDoc  `json:"status,omitempty"`
	Metrics     []metricDoc `json:"metrics"`
	PeriodMs    *uint32     `json:"period_ms,omitempty"`
	TimeoutMs   *uint32     `json:"timeout_ms,omitempty"`
}

type statusDoc struct {
	State      string  `json:"state"`
	Available  string  `json:"available"`
	DurationMs int32   `json:"duration_ms"`
	Message    *string `json:"message"`
}

type metricDoc struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func newBundleDoc(rec *record.Record, b *payload.Bundle) bundleDoc {
	doc := bundleDoc{
		SourceIP:    rec.SourceIP,
		Timestamp:   rec.Timestamp,
		CheckID:     rec.CheckID,
		Target:      rec.Target,
		Module:      rec.Module,
		CheckName:   rec.CheckName,
		Compression: rec.Compression.String(),
		Metrics:     make([]metricDoc, 0, len(b.Metrics)),
		PeriodMs:    b.Period,
		TimeoutMs:   b.Timeout,
	}
	if s := b.Status; s != nil {
		doc.Status = &statusDoc{
			State:      string(rune(s.State)),
			Available:  string(rune(s.Available)),
			DurationMs: s.DurationMs,
			Message:    s.Message,
		}
	}
	for _, m := range b.Metrics {
		doc.Metrics = append(doc.Metrics, metricDoc{
			Name:  m.Name,
			Type:  string(rune(m.Type)),
			Value: m.Interface(),
		})
	}

	return doc
}

func (d *bundleDoc) header() checklog.Header {
	return checklog.Header{
		Timestamp: d.Timestamp,
		CheckID:   d.CheckID,
		Target:    d.Target,
		Module:    d.Module,
		CheckName: d.CheckName,
	}
}

// bundle converts the document into a payload bundle. Numeric values must
// have been decoded as json.Number.
func (d *bundleDoc) bundle() (*payload.Bundle, error) {
	bld := payload.NewBuilder()

	if s := d.Status; s != nil {
		state, ok1 := statusByte(s.State)
		available, ok2 := statusByte(s.Available)
		if !ok1 || !ok2 {
			return nil, errors.New("status state and available must be single characters")
		}
		bld.SetStatus(payload.Status{
			State:      state,
			Available:  available,
			DurationMs: s.DurationMs,
			Message:    s.Message,
		})
	}

	for _, md := range d.Metrics {
		m, err := md.metric()
		if err != nil {
			return nil, err
		}
		if err := bld.AddMetric(m); err != nil {
			return nil, err
		}
	}

	b := bld.Bundle()
	b.Period = d.PeriodMs
	b.Timeout = d.TimeoutMs

	return b, nil
}

func (md metricDoc) metric() (payload.Metric, error) {
	if len(md.Type) != 1 || !format.MetricType(md.Type[0]).Valid() {
		return payload.Metric{}, fmt.Errorf("metric %q: invalid type %q", md.Name, md.Type)
	}
	typ := format.MetricType(md.Type[0])

	if md.Value == nil {
		return payload.NullMetric(md.Name, typ), nil
	}

	if typ == format.MetricString {
		s, ok := md.Value.(string)
		if !ok {
			return payload.Metric{}, fmt.Errorf("metric %q: string value expected", md.Name)
		}

		return payload.StringMetric(md.Name, s), nil
	}

	if text, ok := md.Value.(string); ok && typ == format.MetricDouble {
		v, ok := nonFinite(text)
		if !ok {
			return payload.Metric{}, fmt.Errorf("metric %q: invalid double %q", md.Name, text)
		}

		return payload.DoubleMetric(md.Name, v), nil
	}

	num, ok := md.Value.(json.Number)
	if !ok {
		return payload.Metric{}, fmt.Errorf("metric %q: numeric value expected", md.Name)
	}

	var err error
	switch typ {
	case format.MetricInt32:
		var v int64
		if v, err = strconv.ParseInt(num.String(), 10, 32); err == nil {
			return payload.Int32Metric(md.Name, int32(v)), nil
		}
	case format.MetricUint32:
		var v uint64
		if v, err = strconv.ParseUint(num.String(), 10, 32); err == nil {
			return payload.Uint32Metric(md.Name, uint32(v)), nil
		}
	case format.MetricInt64:
		var v int64
		if v, err = strconv.ParseInt(num.String(), 10, 64); err == nil {
			return payload.Int64Metric(md.Name, v), nil
		}
	case format.MetricUint64:
		var v uint64
		if v, err = strconv.ParseUint(num.String(), 10, 64); err == nil {
			return payload.Uint64Metric(md.Name, v), nil
		}
	default:
		var v float64
		if v, err = strconv.ParseFloat(num.String(), 64); err == nil {
			return payload.DoubleMetric(md.Name, v), nil
		}
	}

	return payload.Metric{}, fmt.Errorf("metric %q: %w", md.Name, err)
}

// statusByte reverses string(rune(b)): a single code point up to U+00FF.
func statusByte(s string) (byte, bool) {
	r := []rune(s)
	if len(r) != 1 || r[0] > 0xFF {
		return 0, false
	}

	return byte(r[0]), true
}

// nonFinite parses the canonical spelling of a NaN or infinite double.
func nonFinite(s string) (float64, bool) {
	switch s {
	case "nan":
		return math.NaN(), true
	case "-nan":
		return math.Copysign(math.NaN(), -1), true
	case "inf":
		return math.Inf(1), true
	case "-inf":
		return math.Inf(-1), true
	default:
		return 0, false
	}
}

// jsonSafe replaces non-finite doubles with their canonical text, since JSON
// has no literal for them.
func (d *bundleDoc) jsonSafe() {
	for i := range d.Metrics {
		md := &d.Metrics[i]
		if f, ok := md.Value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			md.Value, _ = canonical.FormatValue(payload.DoubleMetric(md.Name, f))
		}
	}
}
