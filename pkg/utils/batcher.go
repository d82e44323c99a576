package utils

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Batch calls fn for every item, size items at a time.
//
// The items of a window run concurrently. The next window starts once the
// whole window has returned and delay has elapsed. There is no delay after
// the last window. A size of 0 or less processes one item at a time.
//
// fn is given the item's index in items. Once ctx is cancelled no further
// windows start and ctx.Err() is returned; calls already running are not
// interrupted by Batch itself.
func Batch[T any](ctx context.Context, items []T, size int, delay time.Duration, fn func(ctx context.Context, index int, item T)) error {
	if size <= 0 {
		size = 1
	}

	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+size, len(items))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				fn(ctx, i, items[i])
				return nil
			})
		}
		_ = g.Wait()

		if end == len(items) || delay <= 0 {
			continue
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return nil
}
