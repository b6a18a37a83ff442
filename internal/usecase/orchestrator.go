package usecase

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/canmnt-live/internal/platform/logging"
	"github.com/riskibarqy/canmnt-live/internal/platform/metrics"
)

// fetchOrchestrator runs one unit of upstream work per player or match. Pacing between
// calls lives in the provider clients, so any worker count respects it.
type fetchOrchestrator struct {
	workers int
	logger  *logging.Logger
	metrics *metrics.Recorder
}

type unitResult[T any] struct {
	value T
	ok    bool
}

// fanOut calls fn for every unit. A unit that errors or panics is logged and left empty;
// the rest carry on. Results keep input order regardless of worker count.
func fanOut[U, T any](
	ctx context.Context,
	o fetchOrchestrator,
	stage string,
	units []U,
	label func(U) string,
	fn func(context.Context, U) (T, error),
) []unitResult[T] {
	results := make([]unitResult[T], len(units))

	run := func(i int) {
		defer func() {
			if rec := recover(); rec != nil {
				o.logger.ErrorContext(ctx, "unit panicked, skipping", "stage", stage, "unit", label(units[i]), "panic", rec)
				o.metrics.Skipped(stage, "panic")
			}
		}()

		value, err := fn(ctx, units[i])
		if err != nil {
			o.logger.WarnContext(ctx, "unit failed, skipping", "stage", stage, "unit", label(units[i]), "error", err)
			o.metrics.Skipped(stage, "fetch_failed")
			return
		}
		results[i] = unitResult[T]{value: value, ok: true}
	}

	if o.workers <= 1 || len(units) <= 1 {
		for i := range units {
			run(i)
		}
		return results
	}

	size := o.workers
	if size > len(units) {
		size = len(units)
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		o.logger.WarnContext(ctx, "create worker pool failed, running sequentially", "stage", stage, "error", err)
		for i := range units {
			run(i)
		}
		return results
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range units {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			run(i)
		}); err != nil {
			wg.Done()
			run(i)
		}
	}
	wg.Wait()

	return results
}
