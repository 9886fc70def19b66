// Package metrics provides run metrics for the sim runner: energy, energy
// drift, momentum, boundedness and pair distances.
package metrics

import "github.com/san-kum/gravbox/internal/sim"

var (
	_ sim.Metric = (*Energy)(nil)
	_ sim.Metric = (*EnergyDrift)(nil)
	_ sim.Metric = (*Momentum)(nil)
	_ sim.Metric = (*Bounded)(nil)
	_ sim.Metric = (*Distance)(nil)
)

// Standard is the set reported by a headless run.
func Standard() []sim.Metric {
	return []sim.Metric{NewEnergy(), NewEnergyDrift(), NewMomentum()}
}
