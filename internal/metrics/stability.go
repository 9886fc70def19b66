package metrics

import (
	"github.com/san-kum/gravbox/internal/physics"
)

// Bounded is the fraction of observations in which every body stayed within
// radius of the centre of mass. An orbit that escapes drives it below 1.
type Bounded struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewBounded(radius float64) *Bounded {
	return &Bounded{
		name:   "bounded",
		radius: radius,
	}
}

func (s *Bounded) Name() string {
	return s.name
}

func (s *Bounded) Observe(w *physics.World) {
	s.samples++
	com := w.CenterOfMass()
	for _, b := range w.Bodies {
		if b.Dist(com) > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Bounded) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Bounded) Reset() {
	s.violations = 0
	s.samples = 0
}
