package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravbox/internal/physics"
)

// ErrBadBody indicates a body index outside the world.
var ErrBadBody = errors.New("analysis: body index out of range")

// Divergence estimates the largest Lyapunov exponent of a scene, in 1/day,
// using the trajectory separation method:
//
//  1. shift body index by perturbation along x in a copy of the scene
//  2. advance both copies tick by tick
//  3. λ ≈ mean of ln(|δ(t)| / |δ(0)|) per day, renormalising δ when it grows
//
// A clearly positive value marks a chaotic scene. base is not modified.
func Divergence(base *physics.World, index int, perturbation float64, ticks int) (float64, error) {
	if index < 0 || index >= len(base.Bodies) {
		return 0, fmt.Errorf("%w: %d", ErrBadBody, index)
	}
	if ticks <= 0 || perturbation <= 0 || base.TickTime <= 0 {
		return 0, nil
	}

	w := base.Clone()
	wp := base.Clone()
	wp.Bodies[index].Pos[0] += perturbation

	d0 := perturbation
	sumLog := 0.0
	count := 0

	for i := 0; i < ticks; i++ {
		w.Update()
		wp.Update()

		sep := separation(w, wp)
		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		// renormalise to keep the displacement in the linear regime
		if sep > 1.0 {
			scale := d0 / sep
			for j, b := range wp.Bodies {
				ref := w.Bodies[j]
				b.Pos = ref.Pos.Add(b.Pos.Sub(ref.Pos).Mul(scale))
				b.Vel = ref.Vel.Add(b.Vel.Sub(ref.Vel).Mul(scale))
			}
		}
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / (float64(count) * base.TickTime), nil
}

func separation(a, b *physics.World) float64 {
	sum := 0.0
	for i := range a.Bodies {
		dp := b.Bodies[i].Pos.Sub(a.Bodies[i].Pos)
		dv := b.Bodies[i].Vel.Sub(a.Bodies[i].Vel)
		sum += dp.Dot(dp) + dv.Dot(dv)
	}
	return math.Sqrt(sum)
}
