package resilience

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces calls to one upstream at least interval apart.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer returns a pacer; a non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
