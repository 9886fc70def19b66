package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/gravbox/internal/physics"
)

// Distance records the separation of two bodies, addressed by index, at
// every observation. Observations where either index is out of range are
// skipped. Value is the closest approach seen.
type Distance struct {
	name   string
	i, j   int
	series []float64
	min    float64
}

func NewDistance(i, j int) *Distance {
	return &Distance{
		name: fmt.Sprintf("distance_%d_%d", i, j),
		i:    i,
		j:    j,
		min:  math.Inf(1),
	}
}

func (d *Distance) Name() string { return d.name }

func (d *Distance) Observe(w *physics.World) {
	if d.i < 0 || d.j < 0 || d.i >= len(w.Bodies) || d.j >= len(w.Bodies) {
		return
	}
	r := w.Bodies[d.i].Dist(w.Bodies[d.j].Pos)
	d.series = append(d.series, r)
	d.min = math.Min(d.min, r)
}

func (d *Distance) Value() float64 {
	if len(d.series) == 0 {
		return 0
	}
	return d.min
}

func (d *Distance) Reset() {
	d.series = nil
	d.min = math.Inf(1)
}

// Series returns the recorded distances in observation order.
func (d *Distance) Series() []float64 {
	return append([]float64(nil), d.series...)
}
