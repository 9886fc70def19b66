package physics

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/units"
)

// MaxNameLen bounds body names, counted in runes.
const MaxNameLen = 16

// DefaultName is given to bodies added without a name.
const DefaultName = "Body"

// Body is a gravitating point mass. Pos is in units of 10^6 km, Vel in
// units per day and Mass in Earth masses.
type Body struct {
	Name        string
	Pos         mgl64.Vec2
	Vel         mgl64.Vec2
	Mass        float64
	Radius      int
	Highlighted bool
}

// NewBody creates a body at rest with a radius derived from mass.
func NewBody(pos mgl64.Vec2, mass float64, name string) *Body {
	b := &Body{Pos: pos, Mass: mass, Radius: RadiusFor(mass)}
	b.SetName(name)
	return b
}

// RadiusFor returns max(int(log(mass*20+1)), 1). A non-positive log argument
// yields the floor radius.
func RadiusFor(mass float64) int {
	arg := mass*20 + 1
	if arg <= 0 || math.IsNaN(arg) {
		return 1
	}
	r := int(math.Log(arg))
	if r < 1 {
		return 1
	}
	return r
}

// SetMass assigns the mass and, when changeRadius is set, recomputes the
// radius.
func (b *Body) SetMass(mass float64, changeRadius bool) {
	b.Mass = mass
	if changeRadius {
		b.Radius = RadiusFor(mass)
	}
}

func (b *Body) SetRadius(r int) {
	if r < 1 {
		r = 1
	}
	b.Radius = r
}

// SetName truncates name to MaxNameLen runes and replaces control
// characters with spaces. An empty name becomes DefaultName.
func (b *Body) SetName(name string) {
	name = cleanName(name)
	if name == "" {
		name = DefaultName
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		name = string([]rune(name)[:MaxNameLen])
	}
	b.Name = name
}

// cleanName keeps a name on a single save-file line.
func cleanName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
}

func (b *Body) MassKG() float64 { return units.EarthToKg(b.Mass) }

// pull is the velocity change over dt days imparted at point by a mass
// (Earth masses) located at src. The cube of the distance folds the
// normalisation of the direction vector into the magnitude.
func pull(point, src mgl64.Vec2, mass, dt float64) mgl64.Vec2 {
	if point == src {
		return geom.Zero
	}
	d := geom.Dist(point, src) * units.KmPerUnit
	acc := units.G * (mass * units.EarthMassKG) / (d * d * d)
	return src.Sub(point).Mul(acc).Mul(units.SecondsPerDay * units.SecondsPerDay).Mul(dt)
}

// Gravitate accelerates b towards other over dt days.
func (b *Body) Gravitate(other *Body, dt float64) {
	b.Vel = b.Vel.Add(pull(b.Pos, other.Pos, other.Mass, dt))
}

// GravPull returns the velocity change b would impart over dt days on a
// test particle at point. It is zero at b's own position.
func (b *Body) GravPull(point mgl64.Vec2, dt float64) mgl64.Vec2 {
	return pull(point, b.Pos, b.Mass, dt)
}

// Update integrates the position with an explicit Euler step.
func (b *Body) Update(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))
}

func (b *Body) Dist(point mgl64.Vec2) float64 { return geom.Dist(b.Pos, point) }

// IsOnBody reports whether point lies inside the body's display circle.
func (b *Body) IsOnBody(point mgl64.Vec2) bool {
	return b.Dist(point) <= float64(b.Radius)
}

func (b *Body) AbsVel() float64   { return b.Vel.Len() }
func (b *Body) VelAngle() float64 { return geom.Angle(b.Vel) }

// SetAbsVel changes the speed and keeps the direction. A body at rest is
// launched along angle 0.
func (b *Body) SetAbsVel(v float64) {
	b.Vel = geom.FromPolar(v, b.VelAngle())
}

// SetVelAngle changes the direction and keeps the speed.
func (b *Body) SetVelAngle(angle float64) {
	b.Vel = geom.FromPolar(b.AbsVel(), angle)
}

// MassString formats the mass in kilograms, e.g. "5.97*10^24 kg".
func (b *Body) MassString() string { return units.MassString(b.Mass) }

// VelString formats the speed in km/s.
func (b *Body) VelString() string { return units.SpeedString(b.AbsVel()) }

// AngleString formats the velocity direction in whole degrees.
func (b *Body) AngleString() string { return fmt.Sprintf("%d°", geom.Degrees(b.VelAngle())) }

// SetMassString parses a mass typed in kilograms. On error the body is left
// unchanged.
func (b *Body) SetMassString(s string) error {
	m, err := units.ParseMass(s)
	if err != nil {
		return err
	}
	b.SetMass(m, true)
	return nil
}

// SetVelString parses a speed typed in km/s. On error the body is left
// unchanged.
func (b *Body) SetVelString(s string) error {
	v, err := units.ParseSpeed(s)
	if err != nil {
		return err
	}
	b.SetAbsVel(v)
	return nil
}

// Valid reports whether position and velocity are finite.
func (b *Body) Valid() bool {
	for _, f := range [...]float64{b.Pos[0], b.Pos[1], b.Vel[0], b.Vel[1]} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (b *Body) Clone() *Body {
	c := *b
	return &c
}

func (b *Body) String() string {
	return fmt.Sprintf("%s m=%s p=%s v=%s", b.Name, geom.FormatFloat(b.Mass), geom.FormatTuple(b.Pos), geom.FormatTuple(b.Vel))
}
