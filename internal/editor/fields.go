package editor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/units"
)

// Field names used in InputError.
const (
	FieldMass     = "mass"
	FieldVelocity = "velocity"
	FieldAngle    = "angle"
	FieldPosX     = "x"
	FieldPosY     = "y"
	FieldName     = "name"
)

func (s *Session) target() (*physics.Body, error) {
	b := s.Current()
	if b == nil {
		return nil, ErrNoSelection
	}
	return b, nil
}

func (s *Session) invalid(field, input string, err error) error {
	return &InputError{Field: field, Input: input, Err: err}
}

// SetMass applies a mass typed in kilograms. Masses below the Moon's are
// raised to it. The radius follows the mass.
func (s *Session) SetMass(text string) error {
	b, err := s.target()
	if err != nil {
		return err
	}
	m, err := units.ParseMass(text)
	if err != nil {
		return s.invalid(FieldMass, text, err)
	}
	b.SetMass(math.Max(m, units.MoonMass), true)
	return nil
}

// SetMassValue applies a mass in Earth masses from a slider. The radius is
// kept, as dragging the mass slider does.
func (s *Session) SetMassValue(m float64) error {
	b, err := s.target()
	if err != nil {
		return err
	}
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return s.invalid(FieldMass, geom.FormatFloat(m), units.ErrInvalidNumber)
	}
	b.SetMass(math.Max(m, units.MoonMass), false)
	return nil
}

// SetRadius sets the drawn radius, clamped to 1..MaxRadius.
func (s *Session) SetRadius(r int) error {
	b, err := s.target()
	if err != nil {
		return err
	}
	b.SetRadius(clampRadius(r))
	return nil
}

// SetVelocity applies a speed typed in km/s and keeps the direction.
// Negative speeds are rejected.
func (s *Session) SetVelocity(text string) error {
	b, err := s.target()
	if err != nil {
		return err
	}
	v, err := units.ParseSpeed(text)
	if err != nil {
		return s.invalid(FieldVelocity, text, err)
	}
	if v < 0 {
		return s.invalid(FieldVelocity, text, units.ErrInvalidNumber)
	}
	b.SetAbsVel(v)
	return nil
}

// SetAngle applies a direction typed in degrees, rounded to a whole degree
// in [0, 360).
func (s *Session) SetAngle(text string) error {
	b, err := s.target()
	if err != nil {
		return err
	}
	deg, err := units.ParseNumber(text)
	if err != nil {
		return s.invalid(FieldAngle, text, err)
	}
	whole := math.Mod(math.Round(deg), 360)
	if whole < 0 {
		whole += 360
	}
	b.SetVelAngle(geom.Radians(whole))
	return nil
}

// SetPosX applies a typed x coordinate.
func (s *Session) SetPosX(text string) error {
	return s.setPos(FieldPosX, 0, text)
}

// SetPosY applies a typed y coordinate.
func (s *Session) SetPosY(text string) error {
	return s.setPos(FieldPosY, 1, text)
}

func (s *Session) setPos(field string, axis int, text string) error {
	b, err := s.target()
	if err != nil {
		return err
	}
	v, err := units.ParseNumber(text)
	if err != nil {
		return s.invalid(field, text, err)
	}
	b.Pos[axis] = v
	return nil
}

// SetName renames the current body.
func (s *Session) SetName(text string) error {
	b, err := s.target()
	if err != nil {
		return err
	}
	b.SetName(text)
	return nil
}

// SetSelectionX moves the highlighted bodies so their mean x is the typed
// value.
func (s *Session) SetSelectionX(text string) error {
	return s.setSelection(FieldPosX, 0, text)
}

// SetSelectionY moves the highlighted bodies so their mean y is the typed
// value.
func (s *Session) SetSelectionY(text string) error {
	return s.setSelection(FieldPosY, 1, text)
}

func (s *Session) setSelection(field string, axis int, text string) error {
	center, ok := s.SelectionCenter()
	if !ok {
		return ErrNoSelection
	}
	v, err := units.ParseNumber(text)
	if err != nil {
		return s.invalid(field, text, err)
	}
	var offset mgl64.Vec2
	offset[axis] = v - center[axis]
	s.MoveSelection(offset)
	return nil
}
