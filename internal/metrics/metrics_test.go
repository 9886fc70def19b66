package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/physics"
)

func TestBoundedTable(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		xs     []float64
		want   float64
	}{
		{"always inside", 100, []float64{10, 20, 30}, 1},
		{"escapes once", 25, []float64{10, 20, 30, 40}, 0.5},
		{"never inside", 1, []float64{10, 20}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBounded(tt.radius)
			for _, x := range tt.xs {
				// two equal masses, centre of mass at the origin
				w := physics.NewWorld(1,
					physics.NewBody(geom.Vec(-x, 0), 1, "a"),
					physics.NewBody(geom.Vec(x, 0), 1, "b"),
				)
				m.Observe(w)
			}
			if got := m.Value(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
			m.Reset()
			if m.Value() != 1 {
				t.Errorf("after Reset Value() = %v, want 1", m.Value())
			}
		})
	}
}

func TestDistanceSeries(t *testing.T) {
	d := NewDistance(0, 1)
	if d.Name() != "distance_0_1" {
		t.Errorf("name %q", d.Name())
	}
	if d.Value() != 0 {
		t.Errorf("empty Value() = %v", d.Value())
	}

	for _, x := range []float64{5, 3, 4} {
		d.Observe(physics.NewWorld(1,
			physics.NewBody(geom.Vec(0, 0), 1, "a"),
			physics.NewBody(geom.Vec(x, 0), 1, "b"),
		))
	}
	d.Observe(physics.NewWorld(1, physics.NewBody(geom.Vec(0, 0), 1, "a")))

	if got := d.Value(); got != 3 {
		t.Errorf("closest approach %v, want 3", got)
	}
	if s := d.Series(); len(s) != 3 || s[0] != 5 || s[2] != 4 {
		t.Errorf("series %v", s)
	}
}

func TestMomentumConservedYear(t *testing.T) {
	w := physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)
	m := NewMomentum()
	m.Observe(w)
	start := m.Value()

	for i := 0; i < 365; i++ {
		w.Update()
	}
	m.Observe(w)
	if math.Abs(m.Value()-start) > 1e-9*start {
		t.Errorf("momentum changed from %g to %g", start, m.Value())
	}
}
