package book

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// readyGate runs a setup step until it succeeds once. Concurrent callers share
// the attempt in flight instead of queueing behind it.
type readyGate struct {
	setup func(context.Context) error
	done  atomic.Bool
	group singleflight.Group
}

func (g *readyGate) ensure(ctx context.Context) error {
	if g.setup == nil || g.done.Load() {
		return nil
	}
	_, err, _ := g.group.Do("setup", func() (any, error) {
		if g.done.Load() {
			return nil, nil
		}
		if err := g.setup(ctx); err != nil {
			return nil, err
		}
		g.done.Store(true)
		return nil, nil
	})
	return err
}
