package editor

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravbox/internal/physics"
)

const (
	// A drag only becomes a throw when the body was held this long and the
	// pointer moved with a speed strictly between the two limits.
	MinClickThrow = 300 * time.Millisecond
	MinThrowVel   = 0.4
	MaxThrowVel   = 30.0

	// MinClickChangeVel is how long a body must be held before dragging it
	// stops it.
	MinClickChangeVel = 100 * time.Millisecond

	MaxTrailLen = 500
	MaxRadius   = 17

	// NewBodyMass is the mass of bodies added by hand.
	NewBodyMass = 1.0
)

// Session is one user's editing state over a world.
type Session struct {
	World *physics.World
	Time  *TimeControl

	current    *physics.Body
	dragging   bool
	clickStart time.Time

	trailOn bool
	trail   []mgl64.Vec2

	notices []Notice
}

func NewSession(w *physics.World) *Session {
	return &Session{World: w, Time: NewTimeControl(w)}
}

// Current is the body being edited, or nil.
func (s *Session) Current() *physics.Body {
	if s.current != nil && s.World.Index(s.current) < 0 {
		s.current = nil
	}
	return s.current
}

// Select makes the body under point current and the only highlighted body.
// A miss releases the current body. It returns the new current body.
func (s *Session) Select(point mgl64.Vec2) *physics.Body {
	b := s.World.BodyAt(point)
	if b == nil {
		s.Release()
		return nil
	}
	s.SelectBody(b)
	return b
}

// SelectBody makes b current. The trail starts over.
func (s *Session) SelectBody(b *physics.Body) {
	s.current = b
	s.dragging = false
	s.trailOn = false
	s.trail = nil
	s.World.Highlight([]*physics.Body{b}, true)
}

// SelectNext cycles the current body through the world in order.
func (s *Session) SelectNext() *physics.Body {
	n := len(s.World.Bodies)
	if n == 0 {
		s.Release()
		return nil
	}
	i := s.World.Index(s.Current())
	b := s.World.Bodies[(i+1)%n]
	s.SelectBody(b)
	return b
}

// With runs fn with b as the current body and then restores the previous
// one. Highlights and the trail are left alone.
func (s *Session) With(b *physics.Body, fn func() error) error {
	prev := s.current
	s.current = b
	defer func() { s.current = prev }()
	return fn()
}

// Release drops the current body and clears the selection.
func (s *Session) Release() {
	s.current = nil
	s.dragging = false
	s.trailOn = false
	s.trail = nil
	s.World.Highlight(nil, true)
}

// BeginDrag starts dragging the current body when point lies on it.
func (s *Session) BeginDrag(point mgl64.Vec2, now time.Time) bool {
	b := s.Current()
	if b == nil || !b.IsOnBody(point) {
		return false
	}
	s.dragging = true
	s.clickStart = now
	return true
}

func (s *Session) Dragging() bool { return s.dragging }

// DragTo moves the dragged body to point. Once it has been held for
// MinClickChangeVel the body also loses its velocity.
func (s *Session) DragTo(point mgl64.Vec2, now time.Time) {
	b := s.Current()
	if !s.dragging || b == nil {
		return
	}
	b.Pos = point
	if b.AbsVel() != 0 && now.Sub(s.clickStart) > MinClickChangeVel {
		b.Vel = mgl64.Vec2{}
	}
}

// EndDrag releases the body. When it was held longer than MinClickThrow and
// the pointer velocity lies strictly between MinThrowVel and MaxThrowVel
// the body is thrown with that velocity. It reports whether a throw
// happened.
func (s *Session) EndDrag(pointerVel mgl64.Vec2, now time.Time) bool {
	b := s.Current()
	if !s.dragging || b == nil {
		s.dragging = false
		return false
	}
	s.dragging = false
	if now.Sub(s.clickStart) <= MinClickThrow {
		return false
	}
	if v := pointerVel.Len(); v > MinThrowVel && v < MaxThrowVel {
		b.Vel = pointerVel
		return true
	}
	return false
}

// SetTrail turns the orbit trail of the current body on or off. Turning it
// on starts an empty trail.
func (s *Session) SetTrail(on bool) {
	if on && !s.trailOn {
		s.trail = nil
	}
	s.trailOn = on
}

func (s *Session) TrailEnabled() bool { return s.trailOn }

// Trail returns a copy of the recorded positions, oldest first.
func (s *Session) Trail() []mgl64.Vec2 {
	return append([]mgl64.Vec2(nil), s.trail...)
}

// Tick records the current body's position on the trail. It keeps at most
// MaxTrailLen points.
func (s *Session) Tick() {
	b := s.Current()
	if !s.trailOn || b == nil {
		return
	}
	if len(s.trail) >= MaxTrailLen {
		copy(s.trail, s.trail[1:])
		s.trail = s.trail[:len(s.trail)-1]
	}
	s.trail = append(s.trail, b.Pos)
}

// Step advances the world when the clock runs and then records the trail.
// It reports whether the world moved.
func (s *Session) Step() bool {
	moved := false
	if s.Time.Running() {
		s.World.Update()
		moved = true
	}
	s.Tick()
	return moved
}

// AddBodyAt adds a body of NewBodyMass at point and makes it current.
func (s *Session) AddBodyAt(point mgl64.Vec2, now time.Time) *physics.Body {
	b := s.World.AddBody(point, NewBodyMass, physics.DefaultName)
	s.SelectBody(b)
	s.Notify(MsgBodyAdded, now)
	return b
}

// SelectArea highlights the bodies inside the rectangle. A single hit
// becomes the current body; several hits leave no current body.
func (s *Session) SelectArea(x, y, w, h float64) []*physics.Body {
	bodies := s.World.BodiesInArea(x, y, w, h)
	if len(bodies) == 1 {
		s.SelectBody(bodies[0])
		return bodies
	}
	s.current = nil
	s.dragging = false
	s.trailOn = false
	s.trail = nil
	s.World.Highlight(bodies, true)
	return bodies
}

// Selection returns the highlighted bodies.
func (s *Session) Selection() []*physics.Body { return s.World.Highlighted() }

// RemoveSelected removes the highlighted bodies and the current body. It
// returns how many bodies were removed.
func (s *Session) RemoveSelected() int {
	victims := s.World.Highlighted()
	if b := s.Current(); b != nil && !b.Highlighted {
		victims = append(victims, b)
	}
	n := s.World.RemoveBodies(victims...)
	if s.Current() == nil {
		s.Release()
	}
	return n
}

// SelectionCenter is the mean position of the highlighted bodies.
func (s *Session) SelectionCenter() (mgl64.Vec2, bool) {
	sel := s.World.Highlighted()
	if len(sel) == 0 {
		return mgl64.Vec2{}, false
	}
	var c mgl64.Vec2
	for _, b := range sel {
		c = c.Add(b.Pos)
	}
	return c.Mul(1 / float64(len(sel))), true
}

// MoveSelection shifts every highlighted body by offset.
func (s *Session) MoveSelection(offset mgl64.Vec2) {
	for _, b := range s.World.Highlighted() {
		b.Pos = b.Pos.Add(offset)
	}
}

// Restore resets the session after the world was replaced, for example by
// loading a save.
func (s *Session) Restore() {
	s.Release()
	s.notices = s.notices[:0]
}

func clampRadius(r int) int {
	return int(math.Min(math.Max(float64(r), 1), MaxRadius))
}
