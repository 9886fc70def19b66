package metrics

import (
	"math"

	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/units"
)

// KineticEnergy is sum(m v^2 / 2) in simulation units.
func KineticEnergy(w *physics.World) float64 {
	e := 0.0
	for _, b := range w.Bodies {
		v := b.AbsVel()
		e += 0.5 * b.Mass * v * v
	}
	return e
}

// PotentialEnergy is the pairwise Newtonian potential in simulation units.
// Coincident pairs are skipped.
func PotentialEnergy(w *physics.World) float64 {
	e := 0.0
	for i, a := range w.Bodies {
		for _, b := range w.Bodies[i+1:] {
			r := a.Dist(b.Pos)
			if r == 0 {
				continue
			}
			e -= units.GSim * a.Mass * b.Mass / r
		}
	}
	return e
}

func TotalEnergy(w *physics.World) float64 {
	return KineticEnergy(w) + PotentialEnergy(w)
}

// Energy reports the total energy at the last observation.
type Energy struct {
	name    string
	current float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *physics.World) {
	e.current = TotalEnergy(w)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.current
}

func (e *Energy) Reset() {
	e.current = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative departure of the total energy
// from its first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(w *physics.World) {
	energy := TotalEnergy(w)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
