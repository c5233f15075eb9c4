package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "4s", "1500ms", "1m", or a string of integer milliseconds.
// A value of "0" means the toast never expires.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Bare integers are milliseconds
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '4s', '1m', '1500ms' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Milliseconds returns the duration in milliseconds.
func (d Duration) Milliseconds() int {
	return int(time.Duration(d).Milliseconds())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Position represents a toast container position on screen.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionTopRight     Position = "top-right"
	PositionCenterLeft   Position = "center-left"
	PositionCenter       Position = "center"
	PositionCenterRight  Position = "center-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomCenter Position = "bottom-center"
	PositionBottomRight  Position = "bottom-right"
)

// DefaultPosition is used when a configured position is not recognised.
const DefaultPosition = PositionBottomCenter

// ValidPositions returns all valid position values in screen order.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopCenter,
		PositionTopRight,
		PositionCenterLeft,
		PositionCenter,
		PositionCenterRight,
		PositionBottomLeft,
		PositionBottomCenter,
		PositionBottomRight,
	}
}

// Valid reports whether p is one of the nine recognised positions.
func (p Position) Valid() bool {
	for _, v := range ValidPositions() {
		if p == v {
			return true
		}
	}
	return false
}

// Split returns the vertical and horizontal parts of the position.
// The single "center" position has an empty horizontal part.
func (p Position) Split() (vertical, horizontal string) {
	vertical, horizontal, _ = strings.Cut(string(p), "-")
	return vertical, horizontal
}

// ParsePosition converts s into a Position, reporting whether it is valid.
func ParsePosition(s string) (Position, bool) {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Default toast values.
const (
	DefaultCategory       = "default"
	DefaultDuration       = Duration(4 * time.Second)
	DefaultOffset         = 24
	DefaultSwipeThreshold = 0.5
)

// Toast is the configuration record for a single toast.
// Only Position is checked; every other value is used as given.
type Toast struct {
	Message        string   `toml:"message"`
	Category       string   `toml:"category"`        // Style tag, added as a class
	Duration       Duration `toml:"duration"`        // "0" = no auto-dismiss
	Swipeable      bool     `toml:"swipeable"`       // Horizontal swipe dismisses
	Position       Position `toml:"position"`        // One of ValidPositions
	RTL            bool     `toml:"rtl"`             // Right-to-left layout
	CloseButton    bool     `toml:"close_button"`    // Show the close control
	ProgressBar    bool     `toml:"progress_bar"`    // Show the progress indicator
	ClassName      string   `toml:"class_name"`      // Extra class on the toast
	Offset         int      `toml:"offset"`          // Pixels from the screen edge
	SwipeThreshold float64  `toml:"swipe_threshold"` // Fraction of width that commits a swipe
}

// DefaultToast returns a Toast with default values.
func DefaultToast() Toast {
	return Toast{
		Message:        "",
		Category:       DefaultCategory,
		Duration:       DefaultDuration,
		Swipeable:      true,
		Position:       DefaultPosition,
		RTL:            false,
		CloseButton:    false,
		ProgressBar:    false,
		ClassName:      "",
		Offset:         DefaultOffset,
		SwipeThreshold: DefaultSwipeThreshold,
	}
}

// Normalize replaces an unrecognised position with DefaultPosition and logs a
// warning. It returns true when a fallback happened.
func (t *Toast) Normalize(logger *slog.Logger) bool {
	if t.Position.Valid() {
		return false
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("invalid position, using default",
		"position", string(t.Position),
		"default", string(DefaultPosition),
	)
	t.Position = DefaultPosition
	return true
}
