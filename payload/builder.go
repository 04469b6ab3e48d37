package payload

import (
	"fmt"

	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/internal/collision"
)

// Builder assembles a Bundle on the producer side.
//
// Metric names must be non-empty and unique within a bundle. A Builder is not
// safe for concurrent use; call Reset to reuse it for the next bundle.
type Builder struct {
	bundle  Bundle
	tracker *collision.Tracker
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{tracker: collision.NewTracker()}
}

// SetStatus sets the bundle's status record, replacing any earlier one.
func (b *Builder) SetStatus(s Status) {
	b.bundle.Status = &s
}

// SetSchedule records the check's period and timeout in milliseconds.
func (b *Builder) SetSchedule(period, timeout uint32) {
	b.bundle.Period = &period
	b.bundle.Timeout = &timeout
}

// AddMetric appends a metric sample.
//
// Returns errs.ErrInvalidMetricName for an empty name, errs.ErrDuplicateMetric
// for a name already in the bundle, and errs.ErrInvalidMetricType for a type
// outside the known set.
func (b *Builder) AddMetric(m Metric) error {
	if !m.Type.Valid() {
		return fmt.Errorf("%w: metric %q has type %q", errs.ErrInvalidMetricType, m.Name, byte(m.Type))
	}
	if err := b.tracker.Track(m.Name); err != nil {
		return err
	}

	b.bundle.Metrics = append(b.bundle.Metrics, m)

	return nil
}

// Len returns the number of metrics added so far.
func (b *Builder) Len() int {
	return len(b.bundle.Metrics)
}

// Bundle returns a copy of the bundle built so far.
func (b *Builder) Bundle() *Bundle {
	out := b.bundle
	out.Metrics = append([]Metric(nil), b.bundle.Metrics...)
	if b.bundle.Status != nil {
		s := *b.bundle.Status
		out.Status = &s
	}

	return &out
}

// Marshal serializes the bundle built so far.
func (b *Builder) Marshal() ([]byte, error) {
	return Marshal(&b.bundle)
}

// Reset clears the builder for the next bundle.
func (b *Builder) Reset() {
	b.bundle = Bundle{Metrics: b.bundle.Metrics[:0]}
	b.tracker.Reset()
}
