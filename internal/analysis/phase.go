package analysis

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// PathToASCII plots points in screen orientation (y grows downwards) on a
// width by height character grid. The first point is marked 'o', the last
// '@'.
func PathToASCII(points []mgl64.Vec2, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	// Find bounds
	minX, maxX := points[0][0], points[0][0]
	minY, maxY := points[0][1], points[0][1]
	for _, p := range points {
		if p[0] < minX {
			minX = p[0]
		}
		if p[0] > maxX {
			maxX = p[0]
		}
		if p[1] < minY {
			minY = p[1]
		}
		if p[1] > maxY {
			maxY = p[1]
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	minY -= rangeY * 0.05
	rangeX *= 1.1
	rangeY *= 1.1

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(p mgl64.Vec2) (int, int, bool) {
		col := int((p[0] - minX) / rangeX * float64(width-1))
		row := int((p[1] - minY) / rangeY * float64(height-1))
		return row, col, row >= 0 && row < height && col >= 0 && col < width
	}

	for _, p := range points {
		if row, col, ok := cell(p); ok {
			canvas[row][col] = '•'
		}
	}
	if row, col, ok := cell(points[0]); ok {
		canvas[row][col] = 'o'
	}
	if row, col, ok := cell(points[len(points)-1]); ok {
		canvas[row][col] = '@'
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
