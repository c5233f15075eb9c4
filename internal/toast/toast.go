// Package toast implements the toast lifecycle and the Manager that opens
// toasts.
package toast

import (
	"crypto/rand"
	"log/slog"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/swipetoast/internal/gesture"
	"github.com/jmylchreest/swipetoast/internal/loop"
	"github.com/jmylchreest/swipetoast/internal/position"
	"github.com/jmylchreest/swipetoast/internal/surface"
)

// Version is the toast library version.
const Version = "1.0.0"

// Class names applied to toast elements.
const (
	ClassToast    = "swipetoast"
	ClassMessage  = "swipetoast-message"
	ClassClose    = "swipetoast-close"
	ClassProgress = "swipetoast-progress"
	ClassRTL      = "rtl"
)

// closeGlyph is the label of the close control.
const closeGlyph = "×"

// State is a toast's lifecycle state.
type State int

const (
	StateCreated State = iota
	StateShown
	StateClosed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateShown:
		return "shown"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Observer receives lifecycle notifications. Every method is called on the
// UI goroutine.
type Observer interface {
	ToastOpened(t *Toast)
	ToastClosed(t *Toast)
	SwipeReleased(t *Toast, outcome gesture.Outcome)
}

// env is what a toast needs from its manager.
type env struct {
	surface  surface.Surface
	registry *position.Registry
	sched    loop.Scheduler
	logger   *slog.Logger
	observer Observer
	onClosed func(*Toast)
}

// Toast is one open call: Created -> Shown -> Closed. Closed is terminal and
// closing again is a no-op. A Toast must only be used from the UI goroutine.
type Toast struct {
	id       string
	opts     Options
	env      *env
	handle   *Handle
	openedAt time.Time
	closedAt time.Time

	state  State
	reason CloseReason

	el        surface.Element
	message   surface.Element
	closeBtn  surface.Element
	progress  surface.Element
	container *position.Container

	timer   loop.Timer
	binding *gesture.Binding
}

func newToast(opts Options, e *env) *Toast {
	t := &Toast{
		id:   newID(),
		opts: opts,
		env:  e,
	}
	t.handle = &Handle{t: t}
	return t
}

func newID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}

// ID returns the toast's ULID.
func (t *Toast) ID() string { return t.id }

// Options returns the configuration the toast was opened with.
func (t *Toast) Options() Options { return t.opts }

// State returns the lifecycle state.
func (t *Toast) State() State { return t.state }

// Reason returns why the toast closed, or ReasonNone while it is open.
func (t *Toast) Reason() CloseReason { return t.reason }

// Lifetime returns how long the toast was shown. It keeps growing while the
// toast is open.
func (t *Toast) Lifetime() time.Duration {
	if t.openedAt.IsZero() {
		return 0
	}
	if t.closedAt.IsZero() {
		return time.Since(t.openedAt)
	}
	return t.closedAt.Sub(t.openedAt)
}

// open builds the element, wires its bindings and shows it. Hooks run later
// from announce, so the auto-dismiss timer is armed before OnOpen and a close
// from inside OnOpen cancels it.
func (t *Toast) open() {
	t.build()
	t.bind()

	t.container = t.env.registry.GetOrCreate(t.opts.Position, t.opts.Offset)
	t.container.Element.Append(t.el)
	t.env.surface.Flush(t.el)

	if t.progress != nil && t.opts.Duration > 0 {
		t.progress.SetStyle("animation-duration", strconv.Itoa(t.opts.Duration.Milliseconds())+"ms")
	}

	t.state = StateShown
	t.openedAt = time.Now()

	if t.opts.Duration > 0 {
		t.timer = t.env.sched.AfterFunc(t.opts.Duration.Duration(), func() {
			t.timer = nil
			t.close(ReasonExpired)
		})
	}

	t.env.logger.Debug("toast opened",
		"id", t.id,
		"position", string(t.opts.Position),
		"category", t.opts.Category,
		"duration", t.opts.Duration.Duration(),
	)
}

// announce runs the open hooks once the manager has finished placing the toast.
func (t *Toast) announce() {
	if t.env.observer != nil {
		t.env.observer.ToastOpened(t)
	}
	if t.opts.OnOpen != nil {
		t.opts.OnOpen(t.handle)
	}
}

func (t *Toast) build() {
	s := t.env.surface

	t.el = s.CreateElement("div")
	t.el.AddClass(ClassToast, t.opts.Category, t.opts.ClassName)
	if t.opts.RTL {
		t.el.AddClass(ClassRTL)
	}

	t.message = s.CreateElement("div")
	t.message.AddClass(ClassMessage)
	t.message.SetText(t.opts.Message)
	t.el.Append(t.message)

	if t.opts.CloseButton {
		t.closeBtn = s.CreateElement("button")
		t.closeBtn.AddClass(ClassClose)
		t.closeBtn.SetText(closeGlyph)
		t.el.Append(t.closeBtn)
	}

	if t.opts.ProgressBar {
		t.progress = s.CreateElement("div")
		t.progress.AddClass(ClassProgress)
		t.el.Append(t.progress)
	}
}

func (t *Toast) bind() {
	if t.opts.Swipeable {
		t.binding = gesture.Attach(t.el, t.env.sched, t.opts.SwipeThreshold, func() {
			t.close(ReasonSwiped)
		})
		if t.env.observer != nil {
			t.binding.SetReleaseCallback(func(out gesture.Outcome) {
				t.env.observer.SwipeReleased(t, out)
			})
		}
	}

	if t.closeBtn != nil {
		t.closeBtn.On(surface.Click, func(ev *surface.Event) {
			ev.StopPropagation()
			t.close(ReasonCloseButton)
		})
	}

	t.el.On(surface.Click, func(ev *surface.Event) {
		if ev.Target != nil && ev.Target.HasClass(ClassClose) {
			return
		}
		t.close(ReasonClicked)
	})
}

// close is the single teardown path for every trigger. The pending timer is
// cancelled first, then the toast is marked closed before OnClose runs so a
// close from inside OnClose is a no-op.
func (t *Toast) close(reason CloseReason) {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.state == StateClosed {
		return
	}

	t.state = StateClosed
	t.reason = reason
	t.closedAt = time.Now()

	if t.binding != nil {
		t.binding.Detach()
	}
	if t.el != nil {
		t.el.Remove()
	}

	t.env.logger.Debug("toast closed",
		"id", t.id,
		"position", string(t.opts.Position),
		"reason", string(reason),
	)

	if t.env.onClosed != nil {
		t.env.onClosed(t)
	}
	if t.env.observer != nil {
		t.env.observer.ToastClosed(t)
	}
	if t.opts.OnClose != nil {
		t.opts.OnClose(t.handle)
	}
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

// ToastOpened implements Observer.
func (o Observers) ToastOpened(t *Toast) {
	for _, obs := range o {
		obs.ToastOpened(t)
	}
}

// ToastClosed implements Observer.
func (o Observers) ToastClosed(t *Toast) {
	for _, obs := range o {
		obs.ToastClosed(t)
	}
}

// SwipeReleased implements Observer.
func (o Observers) SwipeReleased(t *Toast, out gesture.Outcome) {
	for _, obs := range o {
		obs.SwipeReleased(t, out)
	}
}
