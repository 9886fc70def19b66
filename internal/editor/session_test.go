package editor

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/units"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newSession() (*Session, *physics.Body, *physics.Body) {
	w := physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)
	return NewSession(w), w.Bodies[0], w.Bodies[1]
}

func TestSelect(t *testing.T) {
	s, earth, sun := newSession()

	if got := s.Select(sun.Pos); got != sun {
		t.Fatalf("expected the sun, got %v", got)
	}
	if s.Current() != sun || !sun.Highlighted || earth.Highlighted {
		t.Error("selecting should highlight exactly the hit body")
	}

	if got := s.Select(geom.Vec(-100, -100)); got != nil {
		t.Errorf("expected a miss, got %v", got)
	}
	if s.Current() != nil || sun.Highlighted {
		t.Error("a miss should release the selection")
	}
}

func TestSelectNext(t *testing.T) {
	s, earth, sun := newSession()
	if s.SelectNext() != earth {
		t.Error("expected the first body")
	}
	if s.SelectNext() != sun {
		t.Error("expected the second body")
	}
	if s.SelectNext() != earth {
		t.Error("expected to wrap around")
	}
}

func TestDragAndThrow(t *testing.T) {
	tests := []struct {
		name     string
		held     time.Duration
		vel      [2]float64
		thrown   bool
		expected [2]float64
	}{
		{"quick click", 200 * time.Millisecond, [2]float64{3, 4}, false, [2]float64{0, 0}},
		{"throw", 500 * time.Millisecond, [2]float64{3, 4}, true, [2]float64{3, 4}},
		{"too slow", 500 * time.Millisecond, [2]float64{0.2, 0.2}, false, [2]float64{0, 0}},
		{"lower bound", 500 * time.Millisecond, [2]float64{0.4, 0}, false, [2]float64{0, 0}},
		{"too fast", 500 * time.Millisecond, [2]float64{30, 0}, false, [2]float64{0, 0}},
		{"just inside", 500 * time.Millisecond, [2]float64{29.9, 0}, true, [2]float64{29.9, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, earth, _ := newSession()
			s.SelectBody(earth)

			if !s.BeginDrag(earth.Pos, t0) {
				t.Fatal("drag should start on the body")
			}
			// held long enough to stop the body
			s.DragTo(geom.Vec(100, 100), t0.Add(150*time.Millisecond))
			if earth.Pos != geom.Vec(100, 100) {
				t.Errorf("body not moved: %v", earth.Pos)
			}
			if earth.AbsVel() != 0 {
				t.Errorf("dragging should stop the body, vel %v", earth.Vel)
			}

			thrown := s.EndDrag(geom.Vec(tt.vel[0], tt.vel[1]), t0.Add(tt.held))
			if thrown != tt.thrown {
				t.Errorf("thrown = %v, want %v", thrown, tt.thrown)
			}
			if earth.Vel != geom.Vec(tt.expected[0], tt.expected[1]) {
				t.Errorf("vel = %v, want %v", earth.Vel, tt.expected)
			}
			if s.Dragging() {
				t.Error("drag should be over")
			}
		})
	}
}

func TestShortDragKeepsVelocity(t *testing.T) {
	s, earth, _ := newSession()
	s.SelectBody(earth)
	vel := earth.Vel

	s.BeginDrag(earth.Pos, t0)
	s.DragTo(geom.Vec(10, 10), t0.Add(50*time.Millisecond))
	if earth.Vel != vel {
		t.Errorf("velocity changed after a short hold: %v", earth.Vel)
	}
}

func TestBeginDragOffBody(t *testing.T) {
	s, earth, _ := newSession()
	if s.BeginDrag(earth.Pos, t0) {
		t.Error("drag without a current body")
	}
	s.SelectBody(earth)
	if s.BeginDrag(geom.Vec(0, 0), t0) {
		t.Error("drag started away from the body")
	}
	s.DragTo(geom.Vec(1, 1), t0)
	if earth.Pos == geom.Vec(1, 1) {
		t.Error("body moved without a drag")
	}
}

func TestTrail(t *testing.T) {
	s, earth, _ := newSession()
	s.SelectBody(earth)

	s.Tick()
	if len(s.Trail()) != 0 {
		t.Error("trail recorded while disabled")
	}

	s.SetTrail(true)
	for i := 0; i < MaxTrailLen+20; i++ {
		s.Step()
	}
	trail := s.Trail()
	if len(trail) != MaxTrailLen {
		t.Fatalf("expected %d points, got %d", MaxTrailLen, len(trail))
	}
	if trail[len(trail)-1] != earth.Pos {
		t.Error("last trail point should be the current position")
	}

	s.SelectBody(earth)
	if s.TrailEnabled() || len(s.Trail()) != 0 {
		t.Error("selecting a body should reset the trail")
	}
}

func TestStepPaused(t *testing.T) {
	s, _, _ := newSession()
	s.Time.Pause()
	if s.Step() || s.World.TimePassed != 0 {
		t.Error("paused session should not advance")
	}
	s.Time.Toggle()
	if !s.Step() || s.World.TimePassed != 1 {
		t.Error("running session should advance one tick")
	}
}

func TestAddAndRemove(t *testing.T) {
	s, earth, sun := newSession()

	b := s.AddBodyAt(geom.Vec(50, 50), t0)
	if len(s.World.Bodies) != 3 || s.Current() != b || b.Mass != NewBodyMass {
		t.Fatalf("unexpected add result %v", b)
	}
	if n := s.Notices(t0); len(n) != 1 || n[0].Text != MsgBodyAdded {
		t.Errorf("expected an add notice, got %v", n)
	}

	sel := s.SelectArea(0, 0, 600, 600)
	if len(sel) != 3 {
		t.Fatalf("expected 3 bodies in area, got %d", len(sel))
	}
	if s.Current() != nil {
		t.Error("a multi selection has no current body")
	}

	sel = s.SelectArea(60, 60, -20, -20)
	if len(sel) != 1 || s.Current() != b {
		t.Errorf("single hit should become current, got %v", sel)
	}

	if n := s.RemoveSelected(); n != 1 {
		t.Errorf("expected 1 removed, got %d", n)
	}
	if s.Current() != nil || len(s.World.Bodies) != 2 {
		t.Error("removed body still around")
	}
	if s.World.Bodies[0] != earth || s.World.Bodies[1] != sun {
		t.Error("remaining bodies reordered")
	}
}

func TestMoveSelection(t *testing.T) {
	s, earth, sun := newSession()
	s.SelectArea(0, 0, 800, 600)

	if err := s.SetSelectionX("0"); err != nil {
		t.Fatal(err)
	}
	c, ok := s.SelectionCenter()
	if !ok || math.Abs(c[0]) > 1e-9 {
		t.Errorf("expected centre x 0, got %v", c)
	}
	if math.Abs((sun.Pos[0]-earth.Pos[0])-148) > 1e-9 {
		t.Error("relative positions changed")
	}

	var inErr *InputError
	if err := s.SetSelectionY("nope"); !errors.As(err, &inErr) {
		t.Errorf("expected InputError, got %v", err)
	}

	s.Release()
	if err := s.SetSelectionX("1"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
}

func TestNotices(t *testing.T) {
	s, _, _ := newSession()
	s.Notify(MsgSaved, t0)
	s.Notify(MsgLoaded, t0.Add(2*time.Second))

	if n := s.Notices(t0.Add(time.Second)); len(n) != 2 {
		t.Errorf("expected 2 live notices, got %d", len(n))
	}
	n := s.Notices(t0.Add(4 * time.Second))
	if len(n) != 1 || n[0].Text != MsgLoaded {
		t.Errorf("expected only the later notice, got %v", n)
	}
	if n := s.Notices(t0.Add(10 * time.Second)); len(n) != 0 {
		t.Errorf("expected no notices, got %v", n)
	}
}

func TestRestoreAfterLoad(t *testing.T) {
	s, earth, _ := newSession()
	s.SelectBody(earth)
	s.World.Replace(physics.NewWorld(1, physics.NewBody(geom.Vec(0, 0), units.MoonMass, "moon")))
	if s.Current() != nil {
		t.Error("current body from the old world should be gone")
	}
	s.Restore()
	if len(s.World.Highlighted()) != 0 {
		t.Error("selection should be cleared")
	}
}

func TestWithRestoresCurrent(t *testing.T) {
	s, earth, sun := newSession()
	s.SelectBody(sun)

	err := s.With(earth, func() error { return s.SetName("Terra") })
	if err != nil {
		t.Fatal(err)
	}
	if earth.Name != "Terra" {
		t.Errorf("name = %q", earth.Name)
	}
	if s.Current() != sun || !sun.Highlighted || earth.Highlighted {
		t.Error("With changed the selection")
	}
}
