package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots; the rune is 0x2800 plus the dot bits.
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a Braille dot grid of Width x Height cells, giving
// (2·Width) x (4·Height) addressable dots with y growing downward.
type Canvas struct {
	Width, Height int
	grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set turns on the dot at (x, y); out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = blank
		}
	}
}

// DrawLine draws with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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

// Extent is a closed data range along one axis.
type Extent struct {
	Min, Max float64
}

func (e Extent) span() float64 {
	if s := e.Max - e.Min; s > 0 {
		return s
	}
	return 1
}

// Polyline maps data points through the x and y extents onto the canvas
// and joins consecutive points. Non-finite points break the line.
func (c *Canvas) Polyline(xs, ys []float64, xr, yr Extent) {
	w, h := float64(2*c.Width-1), float64(4*c.Height-1)
	prevOK := false
	var px, py int
	for i := 0; i < len(xs) && i < len(ys); i++ {
		if math.IsNaN(xs[i]) || math.IsInf(ys[i], 0) || math.IsNaN(ys[i]) {
			prevOK = false
			continue
		}
		x := int(math.Round((xs[i] - xr.Min) / xr.span() * w))
		y := int(math.Round((1 - (ys[i]-yr.Min)/yr.span()) * h))
		if prevOK {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, prevOK = x, y, true
	}
}

func (c *Canvas) Rows() []string {
	rows := make([]string, len(c.grid))
	for i, r := range c.grid {
		rows[i] = string(r)
	}
	return rows
}

func (c *Canvas) String() string {
	return strings.Join(c.Rows(), "\n") + "\n"
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
