package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/sim"
	"github.com/san-kum/gravbox/internal/units"
)

func TestKineticEnergy(t *testing.T) {
	b := physics.NewBody(geom.Vec(0, 0), 2, "a")
	b.Vel = geom.Vec(3, 4)
	w := physics.NewWorld(1, b)

	if got := KineticEnergy(w); math.Abs(got-25) > 1e-12 {
		t.Errorf("expected 25, got %g", got)
	}
}

func TestPotentialEnergy(t *testing.T) {
	w := physics.NewWorld(1,
		physics.NewBody(geom.Vec(0, 0), 2, "a"),
		physics.NewBody(geom.Vec(10, 0), 3, "b"),
	)
	expected := -units.GSim * 6 / 10
	if got := PotentialEnergy(w); math.Abs(got-expected) > 1e-12*math.Abs(expected) {
		t.Errorf("expected %g, got %g", expected, got)
	}

	single := physics.NewWorld(1, physics.NewBody(geom.Vec(0, 0), 2, "a"))
	if got := TotalEnergy(single); got != 0 {
		t.Errorf("expected zero energy for a body at rest, got %g", got)
	}
}

func TestPotentialMatchesPull(t *testing.T) {
	// the force implied by the potential must agree with the pull used by
	// the integrator
	src := physics.NewBody(geom.Vec(0, 0), units.SunMass, "sun")
	r := 150.0
	pull := src.GravPull(geom.Vec(r, 0), 1).Len()
	expected := units.GSim * units.SunMass / (r * r)
	if math.Abs(pull-expected) > 1e-9*expected {
		t.Errorf("pull %g does not match GSim*M/r^2 = %g", pull, expected)
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()
	w := physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)

	m.Observe(w)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	w := physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)
	r := sim.New(w)
	drift := NewEnergyDrift()
	r.AddMetric(drift)

	res, err := r.Run(context.Background(), 100)
	if err != nil {
		t.Fatal(err)
	}
	v := res.Metrics["energy_drift"]
	if v <= 0 || math.IsNaN(v) {
		t.Errorf("expected a small positive drift for explicit Euler, got %g", v)
	}
	if v > 0.5 {
		t.Errorf("drift %g too large for 100 days of a near-circular orbit", v)
	}

	drift.Reset()
	if drift.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestMomentumConserved(t *testing.T) {
	w := physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)
	p0 := TotalMomentum(w)

	for i := 0; i < 200; i++ {
		w.Update()
	}
	p1 := TotalMomentum(w)
	if geom.Dist(p0, p1) > 1e-6*p0.Len() {
		t.Errorf("momentum changed from %v to %v", p0, p1)
	}

	m := NewMomentum()
	m.Observe(w)
	if math.Abs(m.Value()-p1.Len()) > 1e-12 {
		t.Errorf("Momentum.Value() = %g, want %g", m.Value(), p1.Len())
	}
}

func TestBounded(t *testing.T) {
	w := physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)

	tests := []struct {
		radius float64
		want   float64
	}{
		{1, 0},
		{1000, 1},
	}
	for _, tt := range tests {
		m := NewBounded(tt.radius)
		if m.Value() != 1 {
			t.Errorf("expected 1 before any observation, got %g", m.Value())
		}
		m.Observe(w)
		m.Observe(w)
		if m.Value() != tt.want {
			t.Errorf("radius %g: expected %g, got %g", tt.radius, tt.want, m.Value())
		}
	}
}

func TestDistance(t *testing.T) {
	w := physics.NewWorld(1,
		physics.NewBody(geom.Vec(0, 0), 1, "a"),
		physics.NewBody(geom.Vec(3, 4), 1, "b"),
	)
	d := NewDistance(0, 1)
	if d.Name() != "distance_0_1" {
		t.Errorf("unexpected name %q", d.Name())
	}

	d.Observe(w)
	w.Bodies[1].Pos = geom.Vec(0, 2)
	d.Observe(w)
	w.Bodies[1].Pos = geom.Vec(0, 7)
	d.Observe(w)

	if got := d.Series(); len(got) != 3 || got[0] != 5 || got[1] != 2 || got[2] != 7 {
		t.Errorf("unexpected series %v", got)
	}
	if d.Value() != 2 {
		t.Errorf("expected closest approach 2, got %g", d.Value())
	}

	out := NewDistance(0, 5)
	out.Observe(w)
	if len(out.Series()) != 0 || out.Value() != 0 {
		t.Errorf("out of range pair should record nothing")
	}

	d.Reset()
	if len(d.Series()) != 0 {
		t.Error("expected empty series after reset")
	}
}
