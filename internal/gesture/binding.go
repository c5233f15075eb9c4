package gesture

import (
	"strconv"
	"time"

	"github.com/jmylchreest/swipetoast/internal/loop"
	"github.com/jmylchreest/swipetoast/internal/surface"
)

// GraceInterval is how long a committed swipe's exit animation plays before
// dismissal is requested.
const GraceInterval = 150 * time.Millisecond

// SwipingClass is set on the element while a drag is active.
const SwipingClass = "swiping"

// Binding attaches a Recognizer to an element. It never removes the element;
// a committed swipe only calls the dismiss callback.
type Binding struct {
	el        surface.Element
	rec       *Recognizer
	sched     loop.Scheduler
	onDismiss func()
	onRelease func(Outcome)
	grace     loop.Timer
	detached  bool
}

// Attach binds swipe handling to el. onDismiss runs GraceInterval after a
// committed swipe.
func Attach(el surface.Element, sched loop.Scheduler, threshold float64, onDismiss func()) *Binding {
	b := &Binding{
		el:        el,
		rec:       NewRecognizer(threshold),
		sched:     sched,
		onDismiss: onDismiss,
	}

	el.On(surface.PointerDown, b.handleStart)
	el.On(surface.PointerMove, b.handleMove)
	for _, kind := range []surface.EventKind{surface.PointerUp, surface.PointerCancel, surface.PointerLeave} {
		el.On(kind, b.handleEnd)
	}

	return b
}

// SetReleaseCallback sets a callback observing every drag outcome.
func (b *Binding) SetReleaseCallback(cb func(Outcome)) {
	b.onRelease = cb
}

// Recognizer returns the underlying state machine.
func (b *Binding) Recognizer() *Recognizer {
	return b.rec
}

// Detach stops a pending grace timer and ignores further events.
func (b *Binding) Detach() {
	b.detached = true
	if b.grace != nil {
		b.grace.Stop()
		b.grace = nil
	}
	b.rec.Reset()
}

func (b *Binding) handleStart(ev *surface.Event) {
	if b.detached {
		return
	}
	if !b.rec.Begin(Point{X: ev.PageX, Y: ev.PageY}, b.el.Width()) {
		return
	}
	b.el.AddClass(SwipingClass)
	b.el.SetStyle("transition", "none")
}

func (b *Binding) handleMove(ev *surface.Event) {
	if b.detached {
		return
	}
	fb := b.rec.Move(Point{X: ev.PageX, Y: ev.PageY})
	if !fb.Apply {
		return
	}
	if fb.PreventDefault {
		ev.PreventDefault()
	}
	b.el.SetStyle("transform", translateX(fb.TranslateX))
	b.el.SetStyle("opacity", formatFloat(fb.Opacity))
}

func (b *Binding) handleEnd(ev *surface.Event) {
	if b.detached {
		return
	}
	out, ok := b.rec.Release()
	if !ok {
		return
	}

	b.el.RemoveClass(SwipingClass)
	b.el.SetStyle("transition", "")

	if b.onRelease != nil {
		b.onRelease(out)
	}

	if !out.Commit {
		b.el.SetStyle("transform", "")
		b.el.SetStyle("opacity", "")
		b.rec.Reset()
		return
	}

	b.el.SetStyle("transform", translateX(out.ExitX))
	b.grace = b.sched.AfterFunc(GraceInterval, func() {
		b.grace = nil
		b.rec.Reset()
		if b.onDismiss != nil {
			b.onDismiss()
		}
	})
}

func translateX(x float64) string {
	return "translateX(" + formatFloat(x) + "px)"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
