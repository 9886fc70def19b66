package geom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrBadTuple = errors.New("geom: malformed vector tuple")

// Zero is the zero vector.
var Zero = mgl64.Vec2{}

// Vec builds a vector from its components.
func Vec(x, y float64) mgl64.Vec2 { return mgl64.Vec2{x, y} }

// Dist returns the euclidean distance between a and b.
func Dist(a, b mgl64.Vec2) float64 { return a.Sub(b).Len() }

// Normalize returns v scaled to unit length, or the zero vector when v is zero.
func Normalize(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l == 0 {
		return Zero
	}
	return v.Mul(1 / l)
}

// Angle returns the direction of v in (-π, π], with the y axis inverted so
// that "up" on screen is a positive angle. The zero vector has angle 0.
func Angle(v mgl64.Vec2) float64 {
	l := v.Len()
	if l == 0 {
		return 0
	}
	c := v[0] / l
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	a := math.Acos(c)
	if v[1] > 0 {
		return -a
	}
	return a
}

// FromPolar is the inverse of Angle and Len.
func FromPolar(mag, angle float64) mgl64.Vec2 {
	s, c := math.Sincos(angle)
	return mgl64.Vec2{mag * c, -mag * s}
}

// Rotate rotates v by angle radians using the row-vector convention of the
// arrow polygons drawn for field samples.
func Rotate(v mgl64.Vec2, angle float64) mgl64.Vec2 {
	s, c := math.Sincos(angle)
	return mgl64.Vec2{v[0]*c + v[1]*s, -v[0]*s + v[1]*c}
}

// Degrees converts an angle in [-π, π] to whole degrees in [0, 360).
func Degrees(rad float64) int {
	deg := rad * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	d := int(math.Round(deg))
	if d == 360 {
		d = 0
	}
	return d
}

// Radians converts degrees in [0, 360] to radians in (-π, π].
func Radians(deg float64) float64 {
	rad := deg * math.Pi / 180
	if rad > math.Pi {
		rad -= 2 * math.Pi
	}
	return rad
}

// FormatFloat renders f with the shortest text that parses back to f.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatTuple renders v as "(x, y)".
func FormatTuple(v mgl64.Vec2) string {
	return "(" + FormatFloat(v[0]) + ", " + FormatFloat(v[1]) + ")"
}

// ParseTuple parses text produced by FormatTuple. The parentheses are
// optional.
func ParseTuple(s string) (mgl64.Vec2, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Zero, fmt.Errorf("%w: %q", ErrBadTuple, s)
	}
	var v mgl64.Vec2
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Zero, fmt.Errorf("%w: %q", ErrBadTuple, s)
		}
		v[i] = f
	}
	return v, nil
}
