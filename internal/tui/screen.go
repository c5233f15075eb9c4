package tui

import (
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jmylchreest/swipetoast/internal/position"
	"github.com/jmylchreest/swipetoast/internal/surface"
	"github.com/jmylchreest/swipetoast/internal/toast"
)

// Pixel size of one terminal cell. Toast styles are in pixels; the screen
// converts them to cells with these factors.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Opacity below which a toast is drawn faint.
const faintOpacity = 0.75

// containerClass marks the position containers toasts are stacked in.
const containerClass = "swipetoast-container"

// Box is where a toast lands on screen, in cells.
type Box struct {
	Toast    *surface.Node
	Message  *surface.Node
	Close    *surface.Node // nil without a close control
	Progress *surface.Node // nil without a progress indicator

	X, Y, W, H int
	Lines      []string
	Faint      bool
	RTL        bool
}

// CloseCell returns the cell of the close control.
func (b Box) CloseCell() (x, y int) {
	return b.X + b.W - 3, b.Y
}

// Contains reports whether the cell lies inside the box.
func (b Box) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Screen is a terminal rendering surface: an in-memory document laid out on
// a grid of cells.
type Screen struct {
	*surface.Document

	cols, rows int
}

// NewScreen creates an empty screen. It has no size until SetSize is called.
func NewScreen() *Screen {
	s := &Screen{Document: surface.NewDocument()}
	s.Measure = s.measure
	return s
}

// Size returns the screen size in cells.
func (s *Screen) Size() (cols, rows int) {
	return s.cols, s.rows
}

// SetSize resizes the screen and delivers a resize to bound handlers.
func (s *Screen) SetSize(cols, rows int) {
	if cols == s.cols && rows == s.rows {
		return
	}
	s.cols, s.rows = cols, rows
	s.Resize()
}

// Layout places every toast. Boxes are returned in paint order: containers
// in creation order, toasts top to bottom within each.
func (s *Screen) Layout() []Box {
	var boxes []Box
	for _, container := range s.FindAll(containerClass) {
		boxes = append(boxes, s.layoutContainer(container)...)
	}
	return boxes
}

// HitTest returns the topmost element at the cell, or nil.
func (s *Screen) HitTest(x, y int) *surface.Node {
	boxes := s.Layout()
	for i := len(boxes) - 1; i >= 0; i-- {
		b := boxes[i]
		if !b.Contains(x, y) {
			continue
		}
		if b.Close != nil {
			cx, cy := b.CloseCell()
			if x >= cx && x <= cx+1 && y == cy {
				return b.Close
			}
		}
		if y > b.Y && y <= b.Y+len(b.Lines) {
			return b.Message
		}
		return b.Toast
	}
	return nil
}

func (s *Screen) layoutContainer(container *surface.Node) []Box {
	style := container.Styles()
	outer, pad := s.containerWidth(style)
	width := outer - 2*pad
	if width < 5 {
		return nil
	}

	var boxes []Box
	height := 0
	for _, n := range container.Nodes() {
		if !n.HasClass(toast.ClassToast) {
			continue
		}
		b := s.layoutToast(n, width)
		b.Y = height
		height += b.H
		boxes = append(boxes, b)
	}

	x, y := s.anchor(style, outer, height)
	for i := range boxes {
		boxes[i].X += x + pad
		boxes[i].Y += y
	}
	return boxes
}

func (s *Screen) layoutToast(n *surface.Node, width int) Box {
	b := Box{Toast: n, W: width, RTL: n.HasClass(toast.ClassRTL)}
	for _, c := range n.Nodes() {
		switch {
		case c.HasClass(toast.ClassMessage):
			b.Message = c
		case c.HasClass(toast.ClassClose):
			b.Close = c
		case c.HasClass(toast.ClassProgress):
			b.Progress = c
		}
	}

	text := ""
	if b.Message != nil {
		text = b.Message.Text()
	}
	inner := width - 4
	wrapped := wordwrap.String(text, inner)
	for _, line := range strings.Split(wrapped, "\n") {
		line = runewidth.Truncate(line, inner, "…")
		if b.RTL {
			line = strings.Repeat(" ", inner-runewidth.StringWidth(line)) + line
		}
		b.Lines = append(b.Lines, line)
	}

	b.H = len(b.Lines) + 2
	if b.Progress != nil {
		b.H++
	}

	if tx, ok := translateX(n.Style("transform")); ok {
		b.X = int(math.Round(tx / CellWidth))
	}
	if v := n.Style("opacity"); v != "" {
		if o, err := strconv.ParseFloat(v, 64); err == nil && o < faintOpacity {
			b.Faint = true
		}
	}
	return b
}

// containerWidth returns the container's outer width and horizontal padding
// in cells.
func (s *Screen) containerWidth(style map[string]string) (outer, pad int) {
	outer = s.cols
	if limit, ok := pixels(style["max-width"]); ok {
		outer = min(outer, int(limit/CellWidth))
	}
	if fields := strings.Fields(style["padding"]); len(fields) == 2 {
		if p, ok := pixels(fields[1]); ok {
			pad = int(p / CellWidth)
		}
	}
	return outer, pad
}

// anchor resolves the container's top-left cell from its placement style.
func (s *Screen) anchor(style map[string]string, w, h int) (x, y int) {
	transform := style["transform"]
	centerX := strings.Contains(transform, "translateX(-50%)") || strings.Contains(transform, "translate(-50%")
	centerY := strings.Contains(transform, "translateY(-50%)") || strings.Contains(transform, "translate(-50%, -50%)")

	switch {
	case style["left"] != "":
		x = s.resolve(style["left"], s.cols, CellWidth)
		if centerX {
			x -= w / 2
		}
	case style["right"] != "":
		x = s.cols - w - s.resolve(style["right"], s.cols, CellWidth)
	}

	switch {
	case style["top"] != "":
		y = s.resolve(style["top"], s.rows, CellHeight)
		if centerY {
			y -= h / 2
		}
	case style["bottom"] != "":
		y = s.rows - h - s.resolve(style["bottom"], s.rows, CellHeight)
	}
	return x, y
}

// resolve converts a px or % length to cells along an axis of size cells.
func (s *Screen) resolve(v string, size int, cell float64) int {
	if p, ok := strings.CutSuffix(v, "%"); ok {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0
		}
		return int(float64(size) * f / 100)
	}
	if px, ok := pixels(v); ok {
		return int(math.Round(px / cell))
	}
	return 0
}

// measure reports a toast's rendered width in pixels.
func (s *Screen) measure(n *surface.Node) float64 {
	for p := n; p != nil; {
		parent, ok := p.Parent().(*surface.Node)
		if !ok {
			break
		}
		if parent.HasClass(containerClass) {
			outer, pad := s.containerWidth(parent.Styles())
			return float64(outer-2*pad) * CellWidth
		}
		p = parent
	}
	w, _ := pixels(position.MaxWidth)
	return w
}

func pixels(v string) (float64, bool) {
	p, ok := strings.CutSuffix(strings.TrimSpace(v), "px")
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func translateX(v string) (float64, bool) {
	inner, ok := strings.CutPrefix(v, "translateX(")
	if !ok {
		return 0, false
	}
	return pixels(strings.TrimSuffix(inner, ")"))
}
