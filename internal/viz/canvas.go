package viz

import (
	"strings"
)

// brailleBlank is U+2800; each cell adds its dot bits to it.
const brailleBlank = 0x2800

// dotBits[row][col] is the braille bit for a dot within a 2x4 cell.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Width x Height grid of braille cells, giving Width*2 by
// Height*4 addressable dots with (0, 0) at the top left.
type Canvas struct {
	Width, Height int
	cells         [][]uint8
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]uint8, h)}
	for i := range c.cells {
		c.cells[i] = make([]uint8, w)
	}
	return c
}

func (c *Canvas) locate(x, y int) (row, col int, bit uint8, ok bool) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return 0, 0, 0, false
	}
	return y / 4, x / 2, dotBits[y%4][x%2], true
}

// Set turns on the dot at (x, y). Dots off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.locate(x, y); ok {
		c.cells[row][col] |= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	row, col, bit, ok := c.locate(x, y)
	return ok && c.cells[row][col]&bit != 0
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		clear(row)
	}
}

// PixelSize returns the canvas size in dots.
func (c *Canvas) PixelSize() (int, int) {
	return c.Width * 2, c.Height * 4
}

// DrawLine sets every dot on the segment from (x0, y0) to (x1, y1),
// endpoints included.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, sx := span(x0, x1)
	dy, sy := span(y0, y1)
	errTerm := dx - dy

	for x, y := x0, y0; ; {
		c.Set(x, y)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * errTerm
		if e2 > -dy {
			errTerm -= dy
			x += sx
		}
		if e2 < dx {
			errTerm += dx
			y += sy
		}
	}
}

// span returns |b-a| and the unit step from a toward b.
func span(a, b int) (int, int) {
	if b < a {
		return a - b, -1
	}
	return b - a, 1
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		for _, bits := range row {
			b.WriteRune(brailleBlank + rune(bits))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
