package render

import (
	"context"
	"time"
)

// Stagger reveals items one at a time with a fixed gap. Cancelling the
// context stops the remaining reveals.
type Stagger struct {
	Interval time.Duration
}

// Run calls fn for i in [0, n). The first call is immediate; each later
// call waits Interval. It stops at the first error from fn or when ctx is
// done.
func (s Stagger) Run(ctx context.Context, n int, fn func(i int) error) error {
	for i := 0; i < n; i++ {
		if i > 0 && s.Interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.Interval):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}
