// Package surface defines the rendering surface toasts are drawn on.
//
// The surface is a small DOM-like tree: elements carry classes, text and
// inline styles, can be appended and removed, report their rendered width
// and dispatch pointer events that bubble to their ancestors. Document is
// an in-memory implementation used by tests and by hosts that draw the tree
// themselves (see internal/tui).
package surface

// EventKind identifies a surface event.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	PointerCancel
	PointerLeave
	Click
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case PointerCancel:
		return "pointercancel"
	case PointerLeave:
		return "pointerleave"
	case Click:
		return "click"
	default:
		return "unknown"
	}
}

// PointerType is the kind of device that produced a pointer event.
type PointerType int

const (
	PointerMouse PointerType = iota
	PointerTouch
)

// Event is a pointer or click event delivered to element handlers.
// Coordinates are absolute page coordinates in pixels.
type Event struct {
	Kind    EventKind
	Target  Element
	PageX   float64
	PageY   float64
	Pointer PointerType

	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault suppresses the surface's default handling (scrolling,
// text selection).
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation stops the event from bubbling to ancestors.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.propagationStopped
}

// Handler handles an event.
type Handler func(*Event)

// Element is a node on the rendering surface.
type Element interface {
	Tag() string

	// AddClass adds whitespace-separated class names; empty names are ignored.
	AddClass(names ...string)
	RemoveClass(names ...string)
	HasClass(name string) bool
	Classes() []string

	SetText(text string)
	Text() string

	// SetStyle sets an inline style property. An empty value removes it,
	// restoring whatever the stylesheet would apply.
	SetStyle(prop, value string)
	Style(prop string) string

	Append(child Element)
	// Remove detaches the element from its parent. Removing a detached
	// element is a no-op.
	Remove()
	Parent() Element
	Children() []Element

	// Width returns the rendered outer width in pixels.
	Width() float64

	On(kind EventKind, h Handler)
}

// Surface is the host the toast core renders into.
type Surface interface {
	// Root is the element containers are attached to (the document body).
	Root() Element
	CreateElement(tag string) Element
	// Flush forces a layout pass so that a following style change animates
	// instead of being coalesced with the insertion.
	Flush(el Element)
	// BindResize installs fn as the viewport resize handler under slot,
	// replacing any handler already bound to that slot.
	BindResize(slot string, fn func())
	UnbindResize(slot string)
}
