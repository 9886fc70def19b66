package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravbox/internal/editor"
	"github.com/san-kum/gravbox/internal/export"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/viz"
)

func (m *Model) canvasSize() (int, int) {
	return max(m.width-panelWidth-4, minCols), max(m.height-3, minRows)
}

func (m *Model) projection() viz.Projection {
	cols, rows := m.canvasSize()
	return viz.Fit(float64(m.vp.Width), float64(m.vp.Height), cols, rows)
}

func (m *Model) View() string {
	var b strings.Builder

	status := viz.StatusRunning.Render(viz.Spinner(m.frame) + " running")
	if !m.session.Time.Running() {
		status = viz.StatusPaused.Render("‖ paused")
	}
	b.WriteString(viz.GradientText("gravbox", m.theme.Cursor, m.theme.Star))
	b.WriteString("  " + status + "  " + viz.Subtle.Render(m.session.Time.String()) + "\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.drawCanvas().Render(), "  ", m.panel())
	b.WriteString(body + "\n")

	b.WriteString(viz.KeyHint.Render(m.hints()))
	return b.String()
}

func (m *Model) drawCanvas() *viz.Canvas {
	cols, rows := m.canvasSize()
	c := viz.NewCanvas(cols, rows)
	proj := m.projection()
	w := m.session.World

	if w.RendersField {
		capIntensity := physics.CapIntensity(w.Margin)
		for _, s := range w.SampleField(m.vp, w.Margin) {
			m.drawArrow(c, proj, s, capIntensity)
		}
	}

	for _, p := range m.session.Trail() {
		x, y := proj.Point(p)
		c.Set(x, y)
		c.Colour(x, y, m.theme.Trail)
	}

	for _, bd := range w.Bodies {
		x, y := proj.Point(bd.Pos)
		r := proj.Length(float64(bd.Radius))
		c.FillCircle(x, y, r, viz.Blend(m.theme.Body, m.theme.Star, export.MassShade(bd.Mass)))
		if bd.Highlighted {
			c.Circle(x, y, r+2, m.theme.Selected)
		}
	}

	if m.mode == modeArea {
		x0, y0 := proj.Point(m.anchor)
		x1, y1 := proj.Point(m.cursor)
		c.DrawLine(x0, y0, x1, y0)
		c.DrawLine(x1, y0, x1, y1)
		c.DrawLine(x1, y1, x0, y1)
		c.DrawLine(x0, y1, x0, y0)
	}

	x, y := proj.Point(m.cursor)
	cursor := '+'
	if m.mode == modeGrab {
		cursor = '✥'
	}
	c.Put(x, y, cursor, m.theme.Cursor)
	return c
}

// drawArrow draws a field sample as a short stroke along the pull with a
// dot at its head.
func (m *Model) drawArrow(c *viz.Canvas, proj viz.Projection, s physics.FieldSample, capIntensity float64) {
	length := 4 * physics.ArrowScale(s.Intensity)
	head := s.Point.Add(geom.FromPolar(length/proj.ScaleX, geom.Angle(s.Pull)))
	x0, y0 := proj.Point(s.Point)
	x1, y1 := proj.Point(head)
	c.DrawLine(x0, y0, x1, y1)

	t := 0.0
	if capIntensity > 0 {
		t = s.Intensity / capIntensity
	}
	col := viz.Blend(m.theme.FieldLow, m.theme.FieldHi, t)
	c.Colour(x0, y0, col)
	c.Colour(x1, y1, col)
}

func (m *Model) panel() string {
	var b strings.Builder
	s := m.session
	inner := panelWidth - 4

	b.WriteString(viz.Title.Render("SPACE") + "\n")
	b.WriteString(row("days", fmt.Sprint(s.Time.DaysPassed())))
	b.WriteString(row("rate", fmt.Sprintf("%.2f d/tick", s.Time.Rate())))
	b.WriteString(viz.Subtle.Render(rateBar(s.Time.Level(), editor.MaxLevel())) + "\n")
	b.WriteString(row("bodies", fmt.Sprint(len(s.World.Bodies))))
	b.WriteString(row("theme", m.theme.Name))
	b.WriteString(viz.Separator(inner) + "\n")

	if cur := s.Current(); cur != nil {
		b.WriteString(viz.Title.Render(cur.Name) + "\n")
		b.WriteString(row("mass", cur.MassString()))
		b.WriteString(row("velocity", cur.VelString()))
		b.WriteString(row("angle", cur.AngleString()))
		b.WriteString(row("position", geom.FormatTuple(roundVec(cur.Pos))))
		if s.TrailEnabled() {
			b.WriteString(row("trail", fmt.Sprintf("%d pts", len(s.Trail()))))
		}
		if len(m.speeds) > 1 {
			graph := asciigraph.Plot(m.speeds,
				asciigraph.Height(5),
				asciigraph.Width(inner-10),
				asciigraph.Precision(1),
				asciigraph.Caption("km/s"))
			b.WriteString(graph + "\n")
		}
	} else if sel := s.Selection(); len(sel) > 0 {
		b.WriteString(viz.Title.Render(fmt.Sprintf("%d selected", len(sel))) + "\n")
		if c, ok := s.SelectionCenter(); ok {
			b.WriteString(row("centre", geom.FormatTuple(roundVec(c))))
		}
	} else {
		b.WriteString(viz.Subtle.Render("no body selected") + "\n")
	}

	if len(m.energies) > 1 {
		b.WriteString(viz.Separator(inner) + "\n")
		b.WriteString(viz.MetricLabel.Render("energy ") + viz.Sparkline(m.energies, inner-7) + "\n")
	}

	for _, n := range s.Notices(m.now()) {
		b.WriteString(viz.Notice.Render(n.Text) + "\n")
	}

	if m.input != nil {
		b.WriteString("\n" + viz.MetricLabel.Render(m.input.label) + "\n")
		b.WriteString(viz.Input.Width(inner).Render(m.input.buf+"▋") + "\n")
	}

	if m.showHelp {
		b.WriteString("\n" + viz.KeyHint.Render(helpText))
	}

	return viz.Panel.Width(panelWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func row(label, value string) string {
	return viz.MetricLabel.Render(fmt.Sprintf("%-9s", label)) + viz.MetricValue.Render(value) + "\n"
}

func rateBar(level, maxLevel int) string {
	level = max(0, min(level, maxLevel))
	return strings.Repeat("▮", level) + strings.Repeat("▯", maxLevel-level)
}

func roundVec(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{math.Round(v[0]), math.Round(v[1])}
}

func (m *Model) hints() string {
	switch m.mode {
	case modeInput:
		return "enter apply  esc cancel"
	case modeArea:
		return "arrows resize  enter/v select  esc cancel"
	case modeGrab:
		return "arrows move  d drop  esc cancel"
	}
	return "arrows move  a add  enter select  space pause  +/- speed  f field  o trail  ? help  q quit"
}

const helpText = `tab     next body
v       area select
x       remove selection
d       grab / drop
m n g p mass name angle speed
X Y     position
w l D   save load delete
e E     export scene / canvas svg
t       theme`
