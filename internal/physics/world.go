package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravbox/internal/units"
)

const (
	DefaultTickTime = 1.0
	DefaultMargin   = 75
	DefaultWidth    = 800
	DefaultHeight   = 600
)

// World is the owning container of all bodies plus the simulation-wide
// scalars.
type World struct {
	Bodies       []*Body
	TickTime     float64
	TimePassed   float64
	RendersField bool
	Margin       int
}

func NewWorld(tickTime float64, bodies ...*Body) *World {
	return &World{
		Bodies:   append([]*Body(nil), bodies...),
		TickTime: tickTime,
		Margin:   DefaultMargin,
	}
}

// DefaultWorld is the start-up scene: an Earth on a roughly circular orbit
// around a Sun-mass star in the middle of a w by h viewport.
func DefaultWorld(w, h int) *World {
	earth := NewBody(mgl64.Vec2{float64(w/2 - 148), float64(h/2 + 10)}, 1, "Earth")
	earth.Vel = mgl64.Vec2{0, units.EarthOrbitalSpeed}
	sun := NewBody(mgl64.Vec2{float64(w / 2), float64(h/2 - 10)}, units.SunMass, "Sun")

	world := NewWorld(DefaultTickTime, earth, sun)
	world.Margin = MarginFor(w, h)
	return world
}

// MarginFor scales the field grid spacing with the viewport; 800x600 gives
// the default 75 pixels.
func MarginFor(w, h int) int {
	m := int(math.Round(DefaultMargin * float64(w+h) / float64(DefaultWidth+DefaultHeight)))
	if m < 10 {
		return 10
	}
	return m
}

// Update advances the world by one tick.
func (w *World) Update() {
	for i, a := range w.Bodies {
		for j, b := range w.Bodies {
			if i == j {
				continue
			}
			a.Gravitate(b, w.TickTime)
		}
	}
	for _, b := range w.Bodies {
		b.Update(w.TickTime)
	}
	w.TimePassed += w.TickTime
}

// Add appends bodies to the world.
func (w *World) Add(bodies ...*Body) {
	w.Bodies = append(w.Bodies, bodies...)
}

// AddBody creates a body at pos and appends it.
func (w *World) AddBody(pos mgl64.Vec2, mass float64, name string) *Body {
	b := NewBody(pos, mass, name)
	w.Add(b)
	return b
}

// BodyAt returns the first body containing point, or nil.
func (w *World) BodyAt(point mgl64.Vec2) *Body {
	for _, b := range w.Bodies {
		if b.IsOnBody(point) {
			return b
		}
	}
	return nil
}

// Index returns the position of b in Bodies, or -1.
func (w *World) Index(b *Body) int {
	for i, o := range w.Bodies {
		if o == b {
			return i
		}
	}
	return -1
}

// RemoveBodies removes every listed body that belongs to the world and
// returns how many were removed.
func (w *World) RemoveBodies(list ...*Body) int {
	if len(list) == 0 {
		return 0
	}
	drop := make(map[*Body]struct{}, len(list))
	for _, b := range list {
		drop[b] = struct{}{}
	}
	kept := w.Bodies[:0]
	for _, b := range w.Bodies {
		if _, ok := drop[b]; !ok {
			kept = append(kept, b)
		}
	}
	removed := len(w.Bodies) - len(kept)
	for i := len(kept); i < len(w.Bodies); i++ {
		w.Bodies[i] = nil
	}
	w.Bodies = kept
	return removed
}

// Replace swaps the whole content of w for that of other.
func (w *World) Replace(other *World) {
	*w = *other
}

// Clone returns a deep copy.
func (w *World) Clone() *World {
	c := *w
	c.Bodies = make([]*Body, len(w.Bodies))
	for i, b := range w.Bodies {
		c.Bodies[i] = b.Clone()
	}
	return &c
}

// Valid reports whether every body has a finite state.
func (w *World) Valid() bool {
	for _, b := range w.Bodies {
		if !b.Valid() {
			return false
		}
	}
	return true
}

func (w *World) TotalMass() float64 {
	m := 0.0
	for _, b := range w.Bodies {
		m += b.Mass
	}
	return m
}

// CenterOfMass returns the mass-weighted mean position, or the zero vector
// for an empty or massless world.
func (w *World) CenterOfMass() mgl64.Vec2 {
	total := w.TotalMass()
	if total == 0 {
		return mgl64.Vec2{}
	}
	var c mgl64.Vec2
	for _, b := range w.Bodies {
		c = c.Add(b.Pos.Mul(b.Mass))
	}
	return c.Mul(1 / total)
}
