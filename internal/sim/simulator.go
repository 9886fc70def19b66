package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravbox/internal/physics"
)

// Runner advances a world headlessly, feeding metrics and observers.
type Runner struct {
	world     *physics.World
	metrics   []Metric
	observers []Observer
}

func New(w *physics.World) *Runner {
	return &Runner{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) World() *physics.World { return r.world }

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run performs ticks updates. The context is checked before every tick; on
// cancellation the partial result is returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, ticks int) (*Result, error) {
	if err := r.validate(ticks); err != nil {
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
	}
	result := &Result{Metrics: make(map[string]float64)}
	w := r.world

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			r.collect(result)
			return result, ctx.Err()
		default:
		}

		if err := r.observe(); err != nil {
			r.collect(result)
			return result, &SimulationError{Tick: i, TimePassed: w.TimePassed, Wrapped: err}
		}

		w.Update()
		result.Ticks++

		if !w.Valid() {
			r.collect(result)
			return result, &SimulationError{Tick: i, TimePassed: w.TimePassed, Wrapped: physics.ErrInvalidState}
		}
	}

	if err := r.observe(); err != nil {
		r.collect(result)
		return result, &SimulationError{Tick: ticks, TimePassed: w.TimePassed, Wrapped: err}
	}
	r.collect(result)
	return result, nil
}

// RunFor runs enough ticks to cover days of simulated time.
func (r *Runner) RunFor(ctx context.Context, days float64) (*Result, error) {
	return r.Run(ctx, TicksFor(days, r.world.TickTime))
}

// TicksFor is the number of ticks of length tickTime needed to cover days.
func TicksFor(days, tickTime float64) int {
	if tickTime <= 0 || days <= 0 {
		return 0
	}
	return int(math.Ceil(days/tickTime - 1e-9))
}

func (r *Runner) validate(ticks int) error {
	if r.world == nil {
		return fmt.Errorf("%w: no world", ErrInvalidConfig)
	}
	if ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidConfig, ticks)
	}
	if r.world.TickTime <= 0 || math.IsNaN(r.world.TickTime) {
		return fmt.Errorf("%w: tick time must be positive, got %g", ErrInvalidConfig, r.world.TickTime)
	}
	return nil
}

func (r *Runner) observe() error {
	for _, m := range r.metrics {
		m.Observe(r.world)
	}
	for _, o := range r.observers {
		if err := o.OnTick(r.world); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) collect(result *Result) {
	result.TimePassed = r.world.TimePassed
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
