package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// canvas is a braille buffer with one color and an optional overriding
// glyph per cell.
type canvas struct {
	w, h  int       // in cells
	mask  [][]uint8 // per-cell 8-bit braille mask
	color [][]string
	glyph [][]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h}
	c.mask = make([][]uint8, h)
	c.color = make([][]string, h)
	c.glyph = make([][]rune, h)
	for i := 0; i < h; i++ {
		c.mask[i] = make([]uint8, w)
		c.color[i] = make([]string, w)
		c.glyph[i] = make([]rune, w)
	}
	return c
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell).
func (c *canvas) setPixel(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.mask[cy][cx] |= brailleBits[mx%2][my%4]
	c.color[cy][cx] = color
}

// setGlyph replaces a whole cell, e.g. for station markers.
func (c *canvas) setGlyph(cx, cy int, r rune, color string) {
	if cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
		return
	}
	c.glyph[cy][cx] = r
	c.color[cy][cx] = color
}

// drawLineMicro draws a line on the microgrid using Bresenham.
func (c *canvas) drawLineMicro(x0, y0, x1, y1 int, color string) {
	if !c.lineMayCross(x0, y0, x1, y1) {
		return
	}
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.setPixel(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// lineMayCross rejects segments lying entirely on one side of the canvas.
func (c *canvas) lineMayCross(x0, y0, x1, y1 int) bool {
	wMic, hMic := c.w*2, c.h*4
	switch {
	case x0 < 0 && x1 < 0, y0 < 0 && y1 < 0:
		return false
	case x0 >= wMic && x1 >= wMic, y0 >= hMic && y1 >= hMic:
		return false
	}
	return true
}

func (c *canvas) cell(x, y int) rune {
	if g := c.glyph[y][x]; g != 0 {
		return g
	}
	if mask := c.mask[y][x]; mask != 0 {
		return rune(0x2800 + int(mask))
	}
	return ' '
}

// lines renders every row, coloring runs of cells that share a color.
func (c *canvas) lines() []string {
	styles := map[string]lipgloss.Style{}
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var b strings.Builder
		var run []rune
		runColor := ""
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(string(run))
			} else {
				st, ok := styles[runColor]
				if !ok {
					st = lipgloss.NewStyle().Foreground(lipgloss.Color(runColor))
					styles[runColor] = st
				}
				b.WriteString(st.Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < c.w; x++ {
			r := c.cell(x, y)
			col := c.color[y][x]
			if r == ' ' {
				col = ""
			}
			if col != runColor {
				flush()
				runColor = col
			}
			run = append(run, r)
		}
		flush()
		out[y] = b.String()
	}
	return out
}

func (c *canvas) String() string {
	return joinLines(c.lines())
}
