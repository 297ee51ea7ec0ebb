package focus

import (
	"context"
	"time"
)

// Hooks are called from Run's goroutine after each tick.
type Hooks struct {
	OnTick   func(m *Machine)
	OnCommit func(c Commit)
}

// Run feeds ticks into m until ctx is done or ticks is closed. The caller must
// not touch m from other goroutines while Run is active.
func Run(ctx context.Context, m *Machine, ticks <-chan time.Time, h Hooks) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			c, committed := m.Tick()
			if h.OnTick != nil {
				h.OnTick(m)
			}
			if committed && h.OnCommit != nil {
				h.OnCommit(c)
			}
		}
	}
}
