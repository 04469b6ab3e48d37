package checklog

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/checklog/payload"
	"github.com/arloliu/checklog/record"
)

// BatchPolicy decides what a batch does with a line that fails to decode.
type BatchPolicy uint8

const (
	// SkipInvalid records the error and keeps decoding the other lines.
	SkipInvalid BatchPolicy = iota
	// FailFast cancels the batch at the first failed line.
	FailFast
)

func (p BatchPolicy) String() string {
	switch p {
	case SkipInvalid:
		return "skip"
	case FailFast:
		return "fail-fast"
	default:
		return "unknown"
	}
}

// ParseBatchPolicy parses "skip" or "fail-fast".
func ParseBatchPolicy(s string) (BatchPolicy, error) {
	switch s {
	case "skip", "":
		return SkipInvalid, nil
	case "fail-fast":
		return FailFast, nil
	default:
		return 0, fmt.Errorf("invalid batch policy %q", s)
	}
}

// BatchOptions tunes DecodeBatch.
type BatchOptions struct {
	Policy BatchPolicy
	// Workers bounds concurrent decodes; zero or less uses GOMAXPROCS.
	Workers int
}

// LineResult is the outcome for one input line of a batch.
type LineResult struct {
	Lines []string
	// Bundle is false for lines that are not bundle lines.
	Bundle bool
	Err    error

	// Record and Payload are set for lines that decoded successfully.
	Record  record.Record
	Payload *payload.Bundle
}

// LineError reports the first failed line of a FailFast batch.
type LineError struct {
	// Index is the zero-based position of the line in the batch.
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Index+1, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// DecodeBatch decodes lines concurrently and returns one result per input
// line, in input order.
//
// Under SkipInvalid the returned error is nil unless ctx ends; failures are
// reported per line. Under FailFast the returned error is a *LineError for
// the lowest-index failed line. Every line before it is decoded; lines after
// it may be left empty.
func DecodeBatch(ctx context.Context, dec *Decoder, lines []string, opts BatchOptions) ([]LineResult, error) {
	results := make([]LineResult, len(lines))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	failFast := opts.Policy == FailFast

	// firstFail holds the lowest failed index seen so far.
	var firstFail atomic.Int64
	firstFail.Store(int64(len(lines)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range lines {
		if gctx.Err() != nil {
			break
		}
		if failFast && int64(i) > firstFail.Load() {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if failFast && int64(i) > firstFail.Load() {
				return nil
			}

			rec, bundle, ok, err := dec.DecodeBundle(lines[i])
			res := LineResult{Bundle: ok, Err: err}
			if ok && err == nil {
				res.Record = rec
				res.Payload = bundle
				res.Lines = dec.Render(&rec, bundle)
			}
			results[i] = res

			if err != nil && failFast {
				lowerTo(&firstFail, int64(i))
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	if idx := int(firstFail.Load()); idx < len(lines) {
		return results, &LineError{Index: idx, Err: results[idx].Err}
	}

	return results, nil
}

func lowerTo(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n >= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}
