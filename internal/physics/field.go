package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravbox/internal/geom"
)

// Viewport is the visible area in pixels; one pixel is one length unit.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// FieldSample is the combined pull at one grid point.
type FieldSample struct {
	Point     mgl64.Vec2
	Pull      mgl64.Vec2
	Intensity float64
}

// arrow is the field arrow polygon, pointing along +x and centred on the
// origin.
var arrow = func() []mgl64.Vec2 {
	pts := [][2]float64{{0, 100}, {0, 200}, {200, 200}, {200, 300}, {300, 150}, {200, 0}, {200, 100}}
	out := make([]mgl64.Vec2, len(pts))
	for i, p := range pts {
		out[i] = mgl64.Vec2{(p[0] - 150) * 1.35 / 5, (p[1] - 150) * 0.65 / 5}
	}
	return out
}()

// FieldAt sums the pull of every body at point over one tick.
func (w *World) FieldAt(point mgl64.Vec2) mgl64.Vec2 {
	var total mgl64.Vec2
	for _, b := range w.Bodies {
		total = total.Add(b.GravPull(point, w.TickTime))
	}
	return total
}

// SampleField samples the field on a grid margin pixels apart. Points
// closer to a body than margin minus its radius are left out. The world is
// not modified.
func (w *World) SampleField(vp Viewport, margin int) []FieldSample {
	if margin <= 0 {
		return nil
	}
	capIntensity := CapIntensity(margin)
	var out []FieldSample
	for i := 0; i < vp.Width; i += margin {
		for j := 0; j < vp.Height; j += margin {
			p := mgl64.Vec2{float64(i), float64(j)}
			if w.nearBody(p, margin) {
				continue
			}
			pull := w.FieldAt(p)
			intensity := capIntensity
			if w.TickTime > 0 {
				intensity = math.Min(1.35*pull.Len()/w.TickTime, capIntensity)
			}
			out = append(out, FieldSample{Point: p, Pull: pull, Intensity: intensity})
		}
	}
	return out
}

func (w *World) nearBody(p mgl64.Vec2, margin int) bool {
	for _, b := range w.Bodies {
		if b.Dist(p) < float64(margin-b.Radius) {
			return true
		}
	}
	return false
}

// CapIntensity is the largest intensity a sample on a margin spaced grid
// reports.
func CapIntensity(margin int) float64 { return 3.5 * float64(margin) / 150 }

// ArrowScale maps an intensity to the arrow polygon scale.
func ArrowScale(intensity float64) float64 {
	return math.Min(math.Log(intensity*2+1), 30)
}

// Arrow returns the polygon drawn for s: scaled by its intensity, rotated
// along the pull and translated to the sample point.
func (s FieldSample) Arrow() []mgl64.Vec2 {
	scale := ArrowScale(s.Intensity)
	angle := geom.Angle(s.Pull)
	out := make([]mgl64.Vec2, len(arrow))
	for i, v := range arrow {
		out[i] = geom.Rotate(v.Mul(scale), angle).Add(s.Point)
	}
	return out
}
