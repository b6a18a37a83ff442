package resilience

import (
	"github.com/cockroachdb/errors"
	"github.com/sony/gobreaker"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// Breaker guards one upstream. Only errors accepted by countsAsFailure trip it, so a
// 404 for a single player does not take the whole provider offline.
type Breaker struct {
	cb      *gobreaker.CircuitBreaker
	enabled bool
}

func NewBreaker(name string, cfg CircuitBreakerConfig, countsAsFailure func(error) bool) *Breaker {
	cfg = NormalizeCircuitBreakerConfig(cfg)
	if countsAsFailure == nil {
		countsAsFailure = func(err error) bool { return err != nil }
	}
	threshold := uint32(cfg.FailureThreshold)

	return &Breaker{
		enabled: cfg.Enabled,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: uint32(cfg.HalfOpenMaxReq),
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				return err == nil || !countsAsFailure(err)
			},
		}),
	}
}

// Do runs fn through the breaker. A rejected call returns ErrCircuitOpen without running fn.
func (b *Breaker) Do(fn func() ([]byte, error)) ([]byte, error) {
	if b == nil || !b.enabled {
		return fn()
	}

	out, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errors.Wrapf(ErrCircuitOpen, "%s", b.cb.Name())
	}
	raw, _ := out.([]byte)
	return raw, err
}

func (b *Breaker) State() string {
	if b == nil || !b.enabled {
		return "disabled"
	}
	return b.cb.State().String()
}
