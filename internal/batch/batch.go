// Package batch executes independent per-item lookups in fixed-size batches
// with an inter-batch pause, to stay inside upstream rate limits.
package batch

import (
	"context"
	"sync"
	"time"
)

// Defaults tuned for the risk providers' public rate limits.
const (
	DefaultSize  = 5
	DefaultDelay = 500 * time.Millisecond
)

// Result is the outcome for one input item. Exactly one of Value or Err is
// meaningful; a failed item never removes its entry from the output.
type Result[K comparable, T any] struct {
	Item  K
	Value T
	Err   error
}

// Runner executes per-item operations with bounded concurrency.
// Items within a batch run concurrently and are all awaited (settle-all);
// batches run strictly one after another.
type Runner[K comparable, T any] struct {
	size  int
	delay time.Duration

	// pause is swapped out in tests to count inter-batch delays.
	pause func(ctx context.Context, d time.Duration) error
}

// New creates a Runner. Non-positive size or negative delay fall back to the
// defaults.
func New[K comparable, T any](size int, delay time.Duration) *Runner[K, T] {
	if size <= 0 {
		size = DefaultSize
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Runner[K, T]{
		size:  size,
		delay: delay,
		pause: sleep,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Run executes op for every item and returns one result per item, in input
// order regardless of completion order. A failing item is recorded and never
// cancels its batch siblings. If the context is cancelled between batches,
// the remaining items are filled with the context error so the result count
// always matches the input count.
func (r *Runner[K, T]) Run(ctx context.Context, items []K, op func(ctx context.Context, item K) (T, error)) []Result[K, T] {
	if len(items) == 0 {
		return nil
	}

	results := make([]Result[K, T], len(items))
	for i, item := range items {
		results[i].Item = item
	}

	for start := 0; start < len(items); start += r.size {
		end := min(start+r.size, len(items))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i].Value, results[i].Err = op(ctx, items[i])
			}(i)
		}
		wg.Wait()

		// No pause after the final batch.
		if end < len(items) {
			if err := r.pause(ctx, r.delay); err != nil {
				for i := end; i < len(items); i++ {
					results[i].Err = err
				}
				return results
			}
		}
	}

	return results
}
