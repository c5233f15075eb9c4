// Package position places toast containers on screen.
//
// Each of the nine positions gets one container, created on first use and
// shared by every toast shown there so that toasts stack inside it.
package position

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jmylchreest/swipetoast/internal/config"
)

// Style is a set of inline style properties.
type Style map[string]string

// Keys returns the style properties in sorted order.
func (s Style) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the style as a CSS declaration list.
func (s Style) String() string {
	var b strings.Builder
	for i, k := range s.Keys() {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(s[k])
		b.WriteString(";")
	}
	return b.String()
}

// Container style constants.
const (
	ZIndex   = "9999"
	MaxWidth = "360px"
)

// Compute returns the container style for pos with the given edge offset in
// pixels. It never fails: an unrecognised position is placed like the parts
// of it that are recognised.
func Compute(pos config.Position, offset int) Style {
	width := "100%"
	if pos == config.PositionCenter {
		width = "auto"
	}
	padding := "0"
	if strings.Contains(string(pos), "center") {
		padding = "0 16px"
	}

	style := Style{
		"position":       "fixed",
		"z-index":        ZIndex,
		"pointer-events": "none",
		"box-sizing":     "border-box",
		"width":          width,
		"max-width":      MaxWidth,
		"padding":        padding,
	}

	if pos == config.PositionCenter {
		style["top"] = "50%"
		style["left"] = "50%"
		style["transform"] = "translate(-50%, -50%)"
		return style
	}

	edge := px(offset)
	vertical, horizontal := pos.Split()

	switch vertical {
	case "top":
		style["top"] = edge
	case "center":
		style["top"] = "50%"
		style["transform"] = "translateY(-50%)"
	case "bottom":
		style["bottom"] = edge
	}

	switch horizontal {
	case "left":
		style["left"] = edge
	case "center":
		style["left"] = "50%"
		if vertical == "center" {
			style["transform"] = "translate(-50%, -50%)"
		} else {
			style["transform"] = "translateX(-50%)"
		}
	case "right":
		style["right"] = edge
	}

	return style
}

func px(v int) string {
	return strconv.Itoa(v) + "px"
}
