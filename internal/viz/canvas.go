package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells, each holding 2x4 sub-pixels. A cell may
// carry a colour and an overlay glyph that replaces the dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tint          [][]lipgloss.Color
	Glyph         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Tint:   make([][]lipgloss.Color, h),
		Glyph:  make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tint[i] = make([]lipgloss.Color, w)
		c.Glyph[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in sub-pixels.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set sets a pixel at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &= ^rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// Colour tints the cell holding sub-pixel (x, y).
func (c *Canvas) Colour(x, y int, col lipgloss.Color) {
	if row, cl, ok := c.cell(x, y); ok {
		c.Tint[row][cl] = col
	}
}

// Put writes a glyph over the cell holding sub-pixel (x, y).
func (c *Canvas) Put(x, y int, r rune, col lipgloss.Color) {
	if row, cl, ok := c.cell(x, y); ok {
		c.Glyph[row][cl] = r
		c.Tint[row][cl] = col
	}
}

func (c *Canvas) cell(x, y int) (int, int, bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Tint[i][j] = ""
			c.Glyph[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillCircle sets every sub-pixel within r of (cx, cy) and tints the cells.
func (c *Canvas) FillCircle(cx, cy, r int, col lipgloss.Color) {
	if r < 1 {
		c.Set(cx, cy)
		c.Colour(cx, cy, col)
		return
	}
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.Set(cx+x, cy+y)
				c.Colour(cx+x, cy+y, col)
			}
		}
	}
}

// Circle draws the outline of a circle with the midpoint algorithm.
func (c *Canvas) Circle(cx, cy, r int, col lipgloss.Color) {
	x, y := r, 0
	err := 1 - r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Set(cx+p[0], cy+p[1])
			c.Colour(cx+p[0], cy+p[1], col)
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if g := c.Glyph[i][j]; g != 0 {
				r = g
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the canvas with each cell in its tint.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if g := c.Glyph[i][j]; g != 0 {
				r = g
			}
			if t := c.Tint[i][j]; t != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(t).Render(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Projection maps a world rectangle onto canvas sub-pixels.
type Projection struct {
	ScaleX, ScaleY float64
}

// Fit returns the projection that stretches a width by height world onto
// a canvas of cols by rows cells.
func Fit(width, height float64, cols, rows int) Projection {
	p := Projection{ScaleX: 1, ScaleY: 1}
	if width > 0 && cols > 0 {
		p.ScaleX = float64(cols*2) / width
	}
	if height > 0 && rows > 0 {
		p.ScaleY = float64(rows*4) / height
	}
	return p
}

// Point returns the sub-pixel for a world point.
func (p Projection) Point(v mgl64.Vec2) (int, int) {
	return int(v[0] * p.ScaleX), int(v[1] * p.ScaleY)
}

// Length converts a world length to sub-pixels along x.
func (p Projection) Length(l float64) int {
	return int(l * p.ScaleX)
}

// Cell returns the world point at the centre of the character cell.
func (p Projection) Cell(col, row int) mgl64.Vec2 {
	return mgl64.Vec2{
		(float64(col)*2 + 1) / p.ScaleX,
		(float64(row)*4 + 2) / p.ScaleY,
	}
}

// CellOf returns the character cell holding a world point.
func (p Projection) CellOf(v mgl64.Vec2) (int, int) {
	x, y := p.Point(v)
	return x / 2, y / 4
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
