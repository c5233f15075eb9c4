package toast

import (
	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/surface"
)

// Handle is the caller's reference to an open toast.
type Handle struct {
	t *Toast
}

// Close dismisses the toast. Closing an already closed toast does nothing.
func (h *Handle) Close() {
	h.t.close(ReasonClosed)
}

// ID returns the toast's unique identifier.
func (h *Handle) ID() string {
	return h.t.id
}

// Position returns the screen zone the toast was placed in, after fallback.
func (h *Handle) Position() config.Position {
	return h.t.opts.Position
}

// Closed reports whether the toast has closed.
func (h *Handle) Closed() bool {
	return h.t.state == StateClosed
}

// Reason returns why the toast closed.
func (h *Handle) Reason() CloseReason {
	return h.t.reason
}

// Element returns the toast's root element.
func (h *Handle) Element() surface.Element {
	return h.t.el
}

// Toast returns the underlying lifecycle.
func (h *Handle) Toast() *Toast {
	return h.t
}
