package resilience

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

var errTransient = errors.New("transient")

func TestBreaker_OpensAfterConsecutiveTransientFailures(t *testing.T) {
	t.Parallel()

	b := NewBreaker("sofascore", CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	}, func(err error) bool { return errors.Is(err, errTransient) })

	fail := func() ([]byte, error) { return nil, errTransient }
	for i := 0; i < 2; i++ {
		if _, err := b.Do(fail); !errors.Is(err, errTransient) {
			t.Fatalf("attempt %d: expected transient error, got %v", i, err)
		}
	}

	calls := 0
	_, err := b.Do(func() ([]byte, error) {
		calls++
		return []byte("ok"), nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected rejected call not to run")
	}
	if b.State() != "open" {
		t.Fatalf("expected open state, got %s", b.State())
	}
}

func TestBreaker_IgnoresNonTransientFailures(t *testing.T) {
	t.Parallel()

	notFound := errors.New("status=404")
	b := NewBreaker("sofascore", CircuitBreakerConfig{Enabled: true, FailureThreshold: 1}, func(err error) bool {
		return errors.Is(err, errTransient)
	})

	for i := 0; i < 3; i++ {
		if _, err := b.Do(func() ([]byte, error) { return nil, notFound }); !errors.Is(err, notFound) {
			t.Fatalf("expected passthrough error, got %v", err)
		}
	}
	if b.State() != "closed" {
		t.Fatalf("expected closed state, got %s", b.State())
	}
}

func TestBreaker_DisabledRunsDirectly(t *testing.T) {
	t.Parallel()

	b := NewBreaker("apifootball", CircuitBreakerConfig{Enabled: false}, nil)
	raw, err := b.Do(func() ([]byte, error) { return []byte("payload"), nil })
	if err != nil || string(raw) != "payload" {
		t.Fatalf("unexpected result: %q %v", raw, err)
	}
}
