package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/gravbox/internal/physics"
)

// ErrInvalidConfig indicates a run that cannot start: no ticks or a
// non-positive tick time.
var ErrInvalidConfig = errors.New("sim: invalid run configuration")

// Metric reduces a run to a single number.
type Metric interface {
	Name() string
	Observe(w *physics.World)
	Value() float64
	Reset()
}

// Observer sees the world before every tick and once after the last one.
// A non-nil error stops the run.
type Observer interface {
	OnTick(w *physics.World) error
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(w *physics.World) error

func (f ObserverFunc) OnTick(w *physics.World) error { return f(w) }

type Result struct {
	Ticks      int
	TimePassed float64
	Metrics    map[string]float64
}

// SimulationError wraps an error with the tick it happened on.
type SimulationError struct {
	Tick       int
	TimePassed float64
	Wrapped    error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (day %g): %v", e.Tick, e.TimePassed, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
