package metrics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravbox/internal/physics"
)

// TotalMomentum is sum(m v) in Earth masses times units per day.
func TotalMomentum(w *physics.World) mgl64.Vec2 {
	var p mgl64.Vec2
	for _, b := range w.Bodies {
		p = p.Add(b.Vel.Mul(b.Mass))
	}
	return p
}

// Momentum reports the magnitude of the total momentum at the last
// observation. Pairwise pulls only depend on positions, so it stays
// constant up to rounding.
type Momentum struct {
	name    string
	current float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(w *physics.World) {
	m.current = TotalMomentum(w).Len()
}

func (m *Momentum) Value() float64 { return m.current }

func (m *Momentum) Reset() { m.current = 0 }
