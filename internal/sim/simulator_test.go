package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/physics"
)

type countMetric struct {
	count int
}

func (c *countMetric) Name() string             { return "count" }
func (c *countMetric) Observe(w *physics.World) { c.count++ }
func (c *countMetric) Value() float64           { return float64(c.count) }
func (c *countMetric) Reset()                   { c.count = 0 }

func TestRunnerRun(t *testing.T) {
	w := physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)
	r := New(w)

	result, err := r.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Ticks != 10 {
		t.Errorf("expected 10 ticks, got %d", result.Ticks)
	}
	if result.TimePassed != 10 {
		t.Errorf("expected 10 days passed, got %g", result.TimePassed)
	}
	if w.TimePassed != 10 {
		t.Errorf("world time not advanced: %g", w.TimePassed)
	}
}

func TestRunnerMatchesManualUpdates(t *testing.T) {
	a := physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)
	b := a.Clone()

	if _, err := New(a).Run(context.Background(), 25); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 25; i++ {
		b.Update()
	}
	for i := range a.Bodies {
		if *a.Bodies[i] != *b.Bodies[i] {
			t.Errorf("body %d differs: %v vs %v", i, a.Bodies[i], b.Bodies[i])
		}
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		tickTime float64
		ticks    int
	}{
		{"zero ticks", 1, 0},
		{"negative ticks", 1, -3},
		{"zero tick time", 0, 10},
		{"negative tick time", -1, 10},
		{"nan tick time", math.NaN(), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := physics.NewWorld(tt.tickTime)
			_, err := New(w).Run(context.Background(), tt.ticks)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRunnerMetrics(t *testing.T) {
	r := New(physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight))
	m := &countMetric{}
	r.AddMetric(m)

	result, err := r.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got, ok := result.Metrics["count"]; !ok || got != 11 {
		t.Errorf("expected 11 observations, got %v (present %v)", got, ok)
	}

	// metrics are reset between runs
	result, _ = r.Run(context.Background(), 2)
	if result.Metrics["count"] != 3 {
		t.Errorf("expected 3 observations after reset, got %v", result.Metrics["count"])
	}
}

func TestRunnerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight))
	r.AddObserver(ObserverFunc(func(w *physics.World) error {
		if w.TimePassed >= 5 {
			cancel()
		}
		return nil
	}))

	result, err := r.Run(ctx, 1000)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Ticks != 6 {
		t.Errorf("expected a partial result of 6 ticks, got %+v", result)
	}
}

func TestRunnerInvalidState(t *testing.T) {
	b := physics.NewBody(geom.Vec(0, 0), 1, "broken")
	b.Vel = geom.Vec(math.NaN(), 0)
	r := New(physics.NewWorld(1, b))

	result, err := r.Run(context.Background(), 10)
	if !errors.Is(err, physics.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	var simErr *SimulationError
	if !errors.As(err, &simErr) || simErr.Tick != 0 {
		t.Errorf("expected a SimulationError at tick 0, got %v", err)
	}
	if result.Ticks != 1 {
		t.Errorf("expected the run to stop after 1 tick, got %d", result.Ticks)
	}
}

func TestRunnerObserverError(t *testing.T) {
	boom := errors.New("boom")
	r := New(physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight))
	calls := 0
	r.AddObserver(ObserverFunc(func(*physics.World) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	}))

	result, err := r.Run(context.Background(), 10)
	if !errors.Is(err, boom) {
		t.Fatalf("expected observer error, got %v", err)
	}
	if result.Ticks != 2 {
		t.Errorf("expected 2 ticks before the failure, got %d", result.Ticks)
	}
}

func TestTicksFor(t *testing.T) {
	tests := []struct {
		days, dt float64
		want     int
	}{
		{10, 1, 10},
		{10, 0.25, 40},
		{1, 0.3, 4},
		{0, 1, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TicksFor(tt.days, tt.dt); got != tt.want {
			t.Errorf("TicksFor(%g, %g) = %d, want %d", tt.days, tt.dt, got, tt.want)
		}
	}
}

func TestSweep(t *testing.T) {
	base := physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)
	before := base.Clone()

	sweep := NewSweep(base, []float64{1, 0.5, 0.25}, func() []Metric {
		return []Metric{&countMetric{}}
	})
	results, err := sweep.Run(context.Background(), 20)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []int{20, 40, 80} {
		res := results[i]
		if res.Ticks != want {
			t.Errorf("tick time %g: expected %d ticks, got %d", res.TickTime, want, res.Ticks)
		}
		if math.Abs(res.TimePassed-20) > 1e-9 {
			t.Errorf("tick time %g: expected 20 days, got %g", res.TickTime, res.TimePassed)
		}
		if res.Metrics["count"] != float64(want+1) {
			t.Errorf("tick time %g: unexpected metric %v", res.TickTime, res.Metrics["count"])
		}
	}
	for i := range base.Bodies {
		if *base.Bodies[i] != *before.Bodies[i] {
			t.Errorf("base world modified")
		}
	}
}
