// Package gesture implements swipe-to-dismiss for toasts.
//
// Recognizer is the pure state machine: it turns pointer coordinates into
// drag feedback and a commit/cancel decision. Binding wires a Recognizer to
// a surface element, applies the feedback as inline styles and reports a
// committed swipe after the exit animation's grace interval.
package gesture

import "math"

// Phase is the recognizer's state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseCommitted
	PhaseCancelled
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseCommitted:
		return "committed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Direction is the axis a drag was locked to on its first move.
type Direction int

const (
	DirectionUndetermined Direction = iota
	DirectionHorizontal
	DirectionVertical
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionHorizontal:
		return "horizontal"
	case DirectionVertical:
		return "vertical"
	default:
		return "undetermined"
	}
}

// Point is an absolute pointer position in pixels.
type Point struct {
	X, Y float64
}

// State is the data tracked while a drag is active.
type State struct {
	Start     Point
	Current   Point
	Direction Direction
	Width     float64 // Element width captured at pointer-down
}

// Delta returns the displacement from the start point.
func (s State) Delta() (dx, dy float64) {
	return s.Current.X - s.Start.X, s.Current.Y - s.Start.Y
}

// MinOpacity is the opacity a toast fades to when dragged a full width.
const MinOpacity = 0.5

// Feedback is the visual response to a pointer move.
type Feedback struct {
	// Apply is false when the move produces no visual change (not dragging,
	// or the drag is locked vertical).
	Apply bool
	// PreventDefault asks the surface to suppress scrolling and selection.
	PreventDefault bool
	TranslateX     float64
	Opacity        float64
}

// Outcome is the decision taken when a drag ends.
type Outcome struct {
	Commit    bool
	Direction Direction
	DeltaX    float64
	// ExitX is the translation that moves the toast fully off screen in the
	// direction of travel. Zero when the swipe was cancelled.
	ExitX float64
}

// Recognizer is a single-pointer drag-to-dismiss state machine:
// Idle -> Dragging -> {Committed, Cancelled} -> Idle.
type Recognizer struct {
	threshold float64
	phase     Phase
	state     *State
}

// NewRecognizer creates an idle recognizer. threshold is the fraction of the
// element width a horizontal drag must exceed to commit.
func NewRecognizer(threshold float64) *Recognizer {
	return &Recognizer{threshold: threshold}
}

// Phase returns the current phase.
func (r *Recognizer) Phase() Phase {
	return r.phase
}

// State returns the active drag state. ok is false outside a drag.
func (r *Recognizer) State() (state State, ok bool) {
	if r.state == nil {
		return State{}, false
	}
	return *r.state, true
}

// Begin starts a drag at p for an element of the given width. A pointer-down
// during a drag starts a fresh drag. It returns false, ignoring the event,
// while a committed swipe is playing out.
func (r *Recognizer) Begin(p Point, width float64) bool {
	if r.phase == PhaseCommitted {
		return false
	}
	r.phase = PhaseDragging
	r.state = &State{
		Start:     p,
		Current:   p,
		Direction: DirectionUndetermined,
		Width:     width,
	}
	return true
}

// Move records the pointer at p. The first move locks the drag direction.
func (r *Recognizer) Move(p Point) Feedback {
	if r.phase != PhaseDragging || r.state == nil {
		return Feedback{}
	}

	s := r.state
	s.Current = p
	dx, dy := s.Delta()

	if s.Direction == DirectionUndetermined {
		if math.Abs(dx) > math.Abs(dy) {
			s.Direction = DirectionHorizontal
		} else {
			s.Direction = DirectionVertical
		}
	}

	if s.Direction != DirectionHorizontal {
		return Feedback{}
	}

	return Feedback{
		Apply:          true,
		PreventDefault: true,
		TranslateX:     dx,
		Opacity:        opacity(dx, s.Width),
	}
}

// Release ends the drag and decides between commit and cancel. Only a
// horizontal drag further than threshold*width commits. ok is false when no
// drag was active.
func (r *Recognizer) Release() (out Outcome, ok bool) {
	if r.phase != PhaseDragging || r.state == nil {
		return Outcome{}, false
	}

	s := *r.state
	r.state = nil
	dx, _ := s.Delta()

	out = Outcome{Direction: s.Direction, DeltaX: dx}
	if s.Direction == DirectionHorizontal && math.Abs(dx) > s.Width*r.threshold {
		out.Commit = true
		out.ExitX = s.Width
		if dx < 0 {
			out.ExitX = -s.Width
		}
		r.phase = PhaseCommitted
	} else {
		r.phase = PhaseCancelled
	}
	return out, true
}

// Reset returns the recognizer to Idle, discarding any drag state.
func (r *Recognizer) Reset() {
	r.phase = PhaseIdle
	r.state = nil
}

// opacity fades linearly from 1 to MinOpacity as |dx| approaches width.
func opacity(dx, width float64) float64 {
	if width <= 0 {
		if dx == 0 {
			return 1
		}
		return MinOpacity
	}
	o := 1 - math.Abs(dx)/width*0.5
	return math.Max(MinOpacity, o)
}
