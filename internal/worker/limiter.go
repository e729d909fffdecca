package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle caps how many files per second the pool starts processing, for
// batches whose output lands on shared or remote storage. A zero rate means
// no throttling.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a throttle admitting filesPerSecond with the given
// burst. Non-positive filesPerSecond disables throttling.
func NewThrottle(filesPerSecond float64, burst int) *Throttle {
	if filesPerSecond <= 0 {
		return &Throttle{}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(filesPerSecond), burst)}
}

// Wait blocks until the throttle admits one more file or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}
