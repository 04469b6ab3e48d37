// Package collision tracks metric names added to a bundle and rejects
// duplicates.
package collision

import (
	"fmt"

	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/internal/hash"
)

// Tracker indexes metric names by their xxHash64 key.
//
// Names that share a key are kept in a per-key bucket, so a hash collision
// is never mistaken for a duplicate.
type Tracker struct {
	buckets map[uint64][]string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		buckets: make(map[uint64][]string),
	}
}

// Track records name.
//
// Returns errs.ErrInvalidMetricName for an empty name and
// errs.ErrDuplicateMetric when name was already tracked.
func (t *Tracker) Track(name string) error {
	return t.trackID(name, hash.MetricID(name))
}

// Reset clears the tracker, keeping allocated capacity.
func (t *Tracker) Reset() {
	clear(t.buckets)
}

func (t *Tracker) trackID(name string, id uint64) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", errs.ErrInvalidMetricName)
	}

	bucket := t.buckets[id]
	for _, existing := range bucket {
		if existing == name {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateMetric, name)
		}
	}

	t.buckets[id] = append(bucket, name)

	return nil
}
