package sim

import (
	"context"
	"sync"

	"github.com/san-kum/gravbox/internal/physics"
)

// Sweep runs independent copies of a scene with different tick times over
// the same simulated span, one goroutine per copy. Comparing the results
// shows how sensitive a scene is to the step size.
type Sweep struct {
	base      *physics.World
	tickTimes []float64
	metrics   func() []Metric
}

// SweepResult is the outcome of one copy.
type SweepResult struct {
	TickTime float64
	World    *physics.World
	*Result
}

// NewSweep prepares a sweep. metrics is called once per copy so that no
// metric state is shared between goroutines; it may be nil.
func NewSweep(base *physics.World, tickTimes []float64, metrics func() []Metric) *Sweep {
	return &Sweep{base: base, tickTimes: tickTimes, metrics: metrics}
}

// Run simulates days on every copy. Results are in tickTimes order. The
// base world is not modified.
func (s *Sweep) Run(ctx context.Context, days float64) ([]SweepResult, error) {
	results := make([]SweepResult, len(s.tickTimes))
	errs := make([]error, len(s.tickTimes))

	var wg sync.WaitGroup
	for i, dt := range s.tickTimes {
		wg.Add(1)
		go func(idx int, dt float64) {
			defer wg.Done()

			w := s.base.Clone()
			w.TickTime = dt
			r := New(w)
			if s.metrics != nil {
				for _, m := range s.metrics() {
					r.AddMetric(m)
				}
			}

			res, err := r.RunFor(ctx, days)
			results[idx] = SweepResult{TickTime: dt, World: w, Result: res}
			errs[idx] = err
		}(i, dt)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
