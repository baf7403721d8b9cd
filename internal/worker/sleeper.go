package worker

import (
	"context"
	"time"
)

// Sleeper blocks for d. It returns ctx.Err() when the context ends first and
// nil when the full duration elapsed or the sleep was cut short on purpose.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleeper waits on a timer, ctx and an optional wake channel. A nil
// or closed wake channel never cuts the sleep short.
func ContextSleeper(wake <-chan struct{}) Sleeper {
	return func(ctx context.Context, d time.Duration) error {
		timer := time.NewTimer(d)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			case _, ok := <-wake:
				if ok {
					return nil
				}
				wake = nil
			}
		}
	}
}
