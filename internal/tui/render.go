package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Category colours, by toast category or notification urgency.
var categoryColors = map[string]lipgloss.Color{
	"success":  lipgloss.Color("10"),
	"error":    lipgloss.Color("9"),
	"critical": lipgloss.Color("9"),
	"warning":  lipgloss.Color("11"),
	"info":     lipgloss.Color("12"),
	"low":      lipgloss.Color("8"),
}

const defaultColor = lipgloss.Color("7")

// cell is one terminal cell. A wide rune occupies two cells; the second one
// holds continuation.
type cell struct {
	r     rune
	style int
}

const (
	continuation rune = -1
	plain             = -1
)

// canvas is a grid of styled runes that renders to a string.
type canvas struct {
	w, h   int
	cells  [][]cell
	styles []lipgloss.Style
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([][]cell, c.h)
	for y := range c.cells {
		row := make([]cell, c.w)
		for x := range row {
			row[x] = cell{r: ' ', style: plain}
		}
		c.cells[y] = row
	}
	return c
}

// style registers a lipgloss style and returns its index.
func (c *canvas) style(s lipgloss.Style) int {
	c.styles = append(c.styles, s)
	return len(c.styles) - 1
}

// put writes s at (x, y), clipping at the canvas edge.
func (c *canvas) put(x, y int, s string, style int) {
	if y < 0 || y >= c.h {
		return
	}
	row := c.cells[y]
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x >= 0 && x+rw <= c.w {
			// Overwriting half of a wide rune blanks the other half
			if row[x].r == continuation && x > 0 {
				row[x-1] = cell{r: ' ', style: plain}
			}
			if end := x + rw; end < c.w && row[end].r == continuation {
				row[end] = cell{r: ' ', style: plain}
			}
			row[x] = cell{r: r, style: style}
			if rw == 2 {
				row[x+1] = cell{r: continuation, style: style}
			}
		}
		x += rw
	}
}

// fill writes n copies of r starting at (x, y).
func (c *canvas) fill(x, y, n int, r rune, style int) {
	if n > 0 {
		c.put(x, y, strings.Repeat(string(r), n), style)
	}
}

func (c *canvas) String() string {
	var sb strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var run strings.Builder
		current := plain
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == plain {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(c.styles[current].Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.r == continuation {
				continue
			}
			if cl.style != current {
				flush()
				current = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return sb.String()
}

// painter draws toast boxes onto a canvas.
type painter struct {
	bar    progress.Model
	border lipgloss.Border
}

func newPainter() painter {
	return painter{
		bar:    progress.New(progress.WithSolidFill("12"), progress.WithoutPercentage()),
		border: lipgloss.RoundedBorder(),
	}
}

// paint draws b. remaining is the fraction of the toast's lifetime left, or
// a negative value when it has no progress indicator.
func (p painter) paint(c *canvas, b Box, category string, remaining float64) {
	color, ok := categoryColors[category]
	if !ok {
		color = defaultColor
	}

	frame := lipgloss.NewStyle().Foreground(color)
	text := lipgloss.NewStyle()
	if b.Faint {
		frame = frame.Faint(true)
		text = text.Faint(true)
	}
	fs, ts := c.style(frame), c.style(text)

	inner := b.W - 2
	bottom := b.Y + b.H - 1

	c.put(b.X, b.Y, p.border.TopLeft, fs)
	c.fill(b.X+1, b.Y, inner, firstRune(p.border.Top), fs)
	c.put(b.X+b.W-1, b.Y, p.border.TopRight, fs)
	if b.Close != nil {
		cx, cy := b.CloseCell()
		c.put(cx, cy, b.Close.Text(), c.style(frame.Bold(true)))
	}

	for y := b.Y + 1; y < bottom; y++ {
		c.put(b.X, y, p.border.Left, fs)
		c.fill(b.X+1, y, inner, ' ', ts)
		c.put(b.X+b.W-1, y, p.border.Right, fs)
	}
	for i, line := range b.Lines {
		c.put(b.X+2, b.Y+1+i, line, ts)
	}

	if b.Progress != nil && remaining >= 0 {
		p.progress(c, b.X+2, bottom-1, inner-2, remaining, b.Faint)
	}

	c.put(b.X, bottom, p.border.BottomLeft, fs)
	c.fill(b.X+1, bottom, inner, firstRune(p.border.Bottom), fs)
	c.put(b.X+b.W-1, bottom, p.border.BottomRight, fs)
}

func (p painter) progress(c *canvas, x, y, width int, percent float64, faint bool) {
	percent = math.Max(0, math.Min(1, percent))
	filled := int(math.Round(percent * float64(width)))

	full := lipgloss.NewStyle().Foreground(lipgloss.Color(p.bar.FullColor)).Faint(faint)
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color(p.bar.EmptyColor)).Faint(faint)
	c.fill(x, y, filled, p.bar.Full, c.style(full))
	c.fill(x+filled, y, width-filled, p.bar.Empty, c.style(empty))
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}
