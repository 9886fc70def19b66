package viz

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", c.Grid[0][1])
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != blank {
		t.Errorf("cell 0 = %U after unset", c.Grid[0][0])
	}

	// out of bounds is ignored
	c.Set(-1, 0)
	c.Set(100, 100)
}

func TestCanvasGlyphOverridesDots(t *testing.T) {
	c := NewCanvas(3, 1)
	c.FillCircle(2, 2, 1, "#ffffff")
	c.Put(4, 0, '+', "#00ffff")

	s := c.String()
	if !strings.ContainsRune(s, '+') {
		t.Errorf("glyph missing in %q", s)
	}
	if c.Tint[0][2] != "#00ffff" {
		t.Errorf("tint = %q", c.Tint[0][2])
	}
	if !strings.Contains(c.Render(), "+") {
		t.Error("render lost the glyph")
	}
}

func TestCircleStaysInside(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Circle(10, 10, 4, "#ffffff")
	set := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				set++
			}
		}
	}
	if set == 0 {
		t.Fatal("circle drew nothing")
	}
}

func TestProjection(t *testing.T) {
	p := Fit(800, 600, 80, 30)

	tests := []struct {
		name     string
		in       mgl64.Vec2
		col, row int
	}{
		{"origin", mgl64.Vec2{0, 0}, 0, 0},
		{"centre", mgl64.Vec2{400, 300}, 40, 15},
		{"far corner", mgl64.Vec2{799, 599}, 79, 29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row := p.CellOf(tt.in)
			if col != tt.col || row != tt.row {
				t.Errorf("CellOf(%v) = (%d, %d), want (%d, %d)", tt.in, col, row, tt.col, tt.row)
			}
			back := p.Cell(col, row)
			if bc, br := p.CellOf(back); bc != col || br != row {
				t.Errorf("Cell(%d, %d) maps back to (%d, %d)", col, row, bc, br)
			}
		})
	}
}

func TestBlendClamps(t *testing.T) {
	if got := Blend("#000000", "#ffffff", 2); got != "#ffffff" {
		t.Errorf("Blend(t=2) = %q", got)
	}
	if got := Blend("#000000", "#ffffff", -1); got != "#000000" {
		t.Errorf("Blend(t=-1) = %q", got)
	}
	if got := Blend("bogus", "#ffffff", 0.5); got != "bogus" {
		t.Errorf("Blend(bad hex) = %q", got)
	}
}

func TestNextThemeWraps(t *testing.T) {
	last := Themes[len(Themes)-1].Name
	if got := NextTheme(last); got.Name != Themes[0].Name {
		t.Errorf("NextTheme(%q) = %q", last, got.Name)
	}
	if got := GetTheme("nope"); got.Name != Themes[0].Name {
		t.Errorf("GetTheme fallback = %q", got.Name)
	}
}
