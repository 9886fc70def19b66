package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/units"
	"github.com/san-kum/gravbox/internal/viz"
)

const (
	Background = "#000000"
	TrailColor = "#ffffff"
)

var (
	bodyLight = mustHex("#996600")
	bodyHeavy = mustHex("#ffe9a8")
	fieldLow  = mustHex("#2b3a55")
	fieldHigh = mustHex("#ff5a36")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Options selects what SceneSVG draws besides the bodies.
type Options struct {
	Field  bool
	Margin int
	Trail  []mgl64.Vec2
	Labels bool
}

// MassShade places mass on a logarithmic scale from the Moon (0) to the
// Sun (1).
func MassShade(mass float64) float64 {
	t := math.Log10(math.Max(mass, units.MoonMass)/units.MoonMass) / math.Log10(units.SunMass/units.MoonMass)
	return math.Min(math.Max(t, 0), 1)
}

// BodyColor shades from brown for planets to pale yellow for stars.
func BodyColor(mass float64) string {
	return bodyLight.BlendLab(bodyHeavy, MassShade(mass)).Clamped().Hex()
}

// FieldColor maps an arrow intensity, relative to the cap for the margin,
// to a colour.
func FieldColor(intensity float64, margin int) string {
	capIntensity := physics.CapIntensity(margin)
	t := 0.0
	if capIntensity > 0 {
		t = math.Min(intensity/capIntensity, 1)
	}
	return fieldLow.BlendLab(fieldHigh, t).Clamped().Hex()
}

// SceneSVG renders the world as it appears in a vp sized window.
func SceneSVG(w *physics.World, vp physics.Viewport, opts Options) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, vp.Width, vp.Height, vp.Width, vp.Height, Background))

	if opts.Field {
		margin := opts.Margin
		if margin <= 0 {
			margin = w.Margin
		}
		sb.WriteString("<g stroke=\"none\">\n")
		for _, s := range w.SampleField(vp, margin) {
			sb.WriteString(fmt.Sprintf(`<polygon fill="%s" points="%s"/>
`, FieldColor(s.Intensity, margin), points(s.Arrow())))
		}
		sb.WriteString("</g>\n")
	}

	if len(opts.Trail) > 1 {
		sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1" stroke-opacity="0.6" points="%s"/>
`, TrailColor, points(opts.Trail)))
	}

	for _, b := range w.Bodies {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%d" fill="%s"`,
			b.Pos[0], b.Pos[1], b.Radius, BodyColor(b.Mass)))
		if b.Highlighted {
			sb.WriteString(` stroke="#ffffff" stroke-width="1.5"`)
		}
		sb.WriteString("/>\n")
		if opts.Labels {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="#cccccc" font-size="10" font-family="monospace">%s</text>
`, b.Pos[0]+float64(b.Radius)+2, b.Pos[1]-float64(b.Radius)-2, escape(b.Name)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func points(pts []mgl64.Vec2) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p[0], p[1])
	}
	return strings.Join(parts, " ")
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="#e0c068">
`, width, height, width, height, Background))

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws recorded positions as a path scaled to fit, in
// screen orientation.
func TrajectoryToSVG(pts []mgl64.Vec2, width, height int, strokeColor string) string {
	if len(pts) < 2 {
		return ""
	}

	minX, maxX := pts[0][0], pts[0][0]
	minY, maxY := pts[0][1], pts[0][1]
	for _, p := range pts {
		minX = math.Min(minX, p[0])
		maxX = math.Max(maxX, p[0])
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, Background, strokeColor))

	for i, p := range pts {
		x := (p[0] - minX) / rangeX * float64(width)
		y := (p[1] - minY) / rangeY * float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
