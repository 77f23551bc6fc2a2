package cache

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Deduplicator collapses concurrent calls that share a key into one
// execution. The in-flight entry is dropped as soon as that execution
// returns, whether it failed or not, so the next call starts fresh.
type Deduplicator struct {
	group  singleflight.Group
	calls  atomic.Int64
	shared atomic.Int64
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Calls reports how many times fn actually ran.
func (d *Deduplicator) Calls() int64 {
	return d.calls.Load()
}

// Shared reports how many callers received another caller's result.
func (d *Deduplicator) Shared() int64 {
	return d.shared.Load()
}

// Dedupe runs fn for key unless a call for key is already in flight, in which
// case it waits for that call and returns its result. A caller whose ctx ends
// first returns ctx.Err() while the execution keeps running for the others.
func Dedupe[T any](ctx context.Context, d *Deduplicator, key string, fn func() (T, error)) (T, error) {
	var zero T
	ran := false
	ch := d.group.DoChan(key, func() (any, error) {
		ran = true
		d.calls.Add(1)
		return fn()
	})

	select {
	case res := <-ch:
		if !ran {
			d.shared.Add(1)
		}
		if res.Err != nil {
			return zero, res.Err
		}
		val, _ := res.Val.(T)
		return val, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
