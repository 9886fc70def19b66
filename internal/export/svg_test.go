package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/units"
	"github.com/san-kum/gravbox/internal/viz"
)

func TestSceneSVG(t *testing.T) {
	vp := physics.Viewport{Width: 800, Height: 600}
	w := physics.DefaultWorld(vp.Width, vp.Height)
	w.Bodies[1].Highlighted = true

	tests := []struct {
		name     string
		opts     Options
		contains []string
		missing  []string
	}{
		{
			name:     "bodies only",
			opts:     Options{},
			contains: []string{`width="800"`, "<circle", `stroke="#ffffff"`},
			missing:  []string{"<polygon", "<polyline", "<text"},
		},
		{
			name:     "field",
			opts:     Options{Field: true},
			contains: []string{"<polygon"},
		},
		{
			name:     "trail and labels",
			opts:     Options{Trail: []mgl64.Vec2{{1, 1}, {2, 2}, {3, 1}}, Labels: true},
			contains: []string{"<polyline", ">Earth</text>", ">Sun</text>"},
			missing:  []string{"<polygon"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := SceneSVG(w, vp, tt.opts)
			if !strings.HasSuffix(svg, "</svg>") {
				t.Error("svg not closed")
			}
			if n := strings.Count(svg, "<circle"); n != len(w.Bodies) {
				t.Errorf("%d circles, want %d", n, len(w.Bodies))
			}
			for _, s := range tt.contains {
				if !strings.Contains(svg, s) {
					t.Errorf("missing %q", s)
				}
			}
			for _, s := range tt.missing {
				if strings.Contains(svg, s) {
					t.Errorf("unexpected %q", s)
				}
			}
		})
	}
}

func TestSceneSVGEscapesNames(t *testing.T) {
	w := physics.NewWorld(1, physics.NewBody(mgl64.Vec2{10, 10}, 1, "a<b"))
	svg := SceneSVG(w, physics.Viewport{Width: 100, Height: 100}, Options{Labels: true})
	if !strings.Contains(svg, "a&lt;b") {
		t.Errorf("name not escaped: %s", svg)
	}
}

func TestColours(t *testing.T) {
	if BodyColor(1) == BodyColor(units.SunMass) {
		t.Error("planet and star share a colour")
	}
	if BodyColor(0) != BodyColor(units.MoonMass) {
		t.Error("masses below the floor should share the floor colour")
	}
	if FieldColor(0, 75) == FieldColor(physics.CapIntensity(75), 75) {
		t.Error("field colour ignores intensity")
	}
	if FieldColor(100, 75) != FieldColor(physics.CapIntensity(75), 75) {
		t.Error("field colour not capped")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if got := TrajectoryToSVG([]mgl64.Vec2{{1, 1}}, 100, 100, "#fff"); got != "" {
		t.Errorf("single point gave %q", got)
	}

	pts := []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}}
	svg := TrajectoryToSVG(pts, 200, 100, "#00ffff")
	if !strings.Contains(svg, `stroke="#00ffff"`) {
		t.Error("stroke colour missing")
	}
	if n := strings.Count(svg, " L"); n != 2 {
		t.Errorf("%d segments, want 2", n)
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 4) != "" {
		t.Error("nil canvas should render nothing")
	}
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	svg := CanvasToSVG(c, 4)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("%d dots, want 2", n)
	}
}
