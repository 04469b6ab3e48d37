// Package hash provides the xxHash64 keys used to index metric names.
package hash

import "github.com/cespare/xxhash/v2"

// MetricID returns the 64-bit key of a metric name.
func MetricID(name string) uint64 {
	return xxhash.Sum64String(name)
}
