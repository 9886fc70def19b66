package api

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravbox/internal/editor"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/physics"
)

type bodyView struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	VX          float64 `json:"vx"`
	VY          float64 `json:"vy"`
	Mass        float64 `json:"mass"`
	MassKG      string  `json:"mass_kg"`
	Speed       string  `json:"speed"`
	Angle       int     `json:"angle"`
	Radius      int     `json:"radius"`
	Highlighted bool    `json:"highlighted"`
}

func newBodyView(i int, b *physics.Body) bodyView {
	return bodyView{
		Index:       i,
		Name:        b.Name,
		X:           b.Pos[0],
		Y:           b.Pos[1],
		VX:          b.Vel[0],
		VY:          b.Vel[1],
		Mass:        b.Mass,
		MassKG:      b.MassString(),
		Speed:       b.VelString(),
		Angle:       geom.Degrees(b.VelAngle()),
		Radius:      b.Radius,
		Highlighted: b.Highlighted,
	}
}

func bodyViews(w *physics.World) []bodyView {
	out := make([]bodyView, len(w.Bodies))
	for i, b := range w.Bodies {
		out[i] = newBodyView(i, b)
	}
	return out
}

type clockView struct {
	Running    bool    `json:"running"`
	Rate       float64 `json:"rate"`
	DaysPassed int     `json:"days_passed"`
}

func newClockView(s *editor.Session) clockView {
	return clockView{
		Running:    s.Time.Running(),
		Rate:       s.Time.Rate(),
		DaysPassed: s.Time.DaysPassed(),
	}
}

type worldView struct {
	clockView
	TimePassed   float64      `json:"time_passed"`
	RendersField bool         `json:"renders_field"`
	Margin       int          `json:"margin"`
	Trail        []mgl64.Vec2 `json:"trail,omitempty"`
	Bodies       []bodyView   `json:"bodies"`
}

func newWorldView(s *editor.Session) worldView {
	return worldView{
		clockView:    newClockView(s),
		TimePassed:   s.World.TimePassed,
		RendersField: s.World.RendersField,
		Margin:       s.World.Margin,
		Trail:        s.Trail(),
		Bodies:       bodyViews(s.World),
	}
}

type fieldView struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	PullX     float64 `json:"pull_x"`
	PullY     float64 `json:"pull_y"`
	Intensity float64 `json:"intensity"`
}

func newFieldView(f physics.FieldSample) fieldView {
	return fieldView{
		X:         f.Point[0],
		Y:         f.Point[1],
		PullX:     f.Pull[0],
		PullY:     f.Pull[1],
		Intensity: f.Intensity,
	}
}

type saveView struct {
	Name    string    `json:"name"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

// bodyRequest carries the fields a client may set. Mass, velocity and angle
// are free-form text, as typed into the editor: kilograms, km/s and
// degrees.
type bodyRequest struct {
	Name     *string  `json:"name"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Mass     *string  `json:"mass"`
	Velocity *string  `json:"velocity"`
	Angle    *string  `json:"angle"`
}

// apply sets the requested fields on b. When one of them is invalid b is
// restored, so a request applies completely or not at all.
func (r *bodyRequest) apply(s *editor.Session, b *physics.Body) error {
	saved := *b
	err := s.With(b, func() error {
		if r.X != nil {
			b.Pos[0] = *r.X
		}
		if r.Y != nil {
			b.Pos[1] = *r.Y
		}
		if r.Mass != nil {
			if err := s.SetMass(*r.Mass); err != nil {
				return err
			}
		}
		if r.Velocity != nil {
			if err := s.SetVelocity(*r.Velocity); err != nil {
				return err
			}
		}
		if r.Angle != nil {
			if err := s.SetAngle(*r.Angle); err != nil {
				return err
			}
		}
		if r.Name != nil {
			return s.SetName(*r.Name)
		}
		return nil
	})
	if err != nil {
		*b = saved
	}
	return err
}
