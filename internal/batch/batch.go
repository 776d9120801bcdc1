// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs independent work items in fixed-size batches and
// settles every item: one item failing never affects its siblings.
package batch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Policy controls how items are grouped and paced.
type Policy struct {
	// Size is the number of items run concurrently in one batch. Values
	// below 1 run items one at a time.
	Size int

	// Delay is the pause inserted between consecutive batches. It is the
	// only rate limiting applied toward the downstream service.
	Delay time.Duration
}

// Result is the settled outcome of one item. Index is the item's position
// in the input slice.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// Run applies fn to every item, Size items at a time, waiting Delay between
// batches. Results come back in input order. A panic in fn is captured as
// that item's error. When ctx is cancelled, items not yet started settle
// with ctx.Err().
func Run[I, T any](ctx context.Context, items []I, p Policy, fn func(context.Context, I) (T, error)) []Result[T] {
	size := p.Size
	if size < 1 {
		size = 1
	}
	results := make([]Result[T], len(items))

	for start := 0; start < len(items); start += size {
		if start > 0 && p.Delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(p.Delay):
			}
		}
		end := min(start+size, len(items))

		if err := ctx.Err(); err != nil {
			for i := start; i < len(items); i++ {
				results[i] = Result[T]{Index: i, Err: err}
			}
			return results
		}

		// Workers never return an error to the group, so one failure
		// cannot cancel its siblings.
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = settle(ctx, i, items[i], fn)
				return nil
			})
		}
		g.Wait()
	}
	return results
}

func settle[I, T any](ctx context.Context, i int, item I, fn func(context.Context, I) (T, error)) (r Result[T]) {
	r.Index = i
	defer func() {
		if rec := recover(); rec != nil {
			r.Err = fmt.Errorf("panic: %v", rec)
		}
	}()
	r.Value, r.Err = fn(ctx, item)
	return r
}

// Succeeded returns the values of all items that settled without error.
func Succeeded[T any](results []Result[T]) []T {
	var out []T
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Value)
		}
	}
	return out
}
