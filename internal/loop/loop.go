// Package loop provides single-threaded scheduling for UI work.
//
// Everything that mutates toasts, containers or gestures runs on one
// goroutine. A Scheduler delivers timer callbacks and posted work onto that
// goroutine, so none of the callers need locks.
package loop

import "time"

// Timer is a cancellable single-shot callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Scheduler runs callbacks on the UI goroutine.
type Scheduler interface {
	// AfterFunc runs fn on the UI goroutine once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
	// Post runs fn on the UI goroutine as soon as possible.
	// It is safe to call from any goroutine.
	Post(fn func())
}

// Dispatcher is a Scheduler backed by real time. Every callback is handed to
// post, which must deliver it to the UI goroutine in the order posted (a
// channel reader, or NewOrderedDispatcher for a bubbletea Program).
type Dispatcher struct {
	post func(func())
}

// NewDispatcher creates a Dispatcher delivering callbacks through post.
func NewDispatcher(post func(func())) *Dispatcher {
	return &Dispatcher{post: post}
}

// Post hands fn to the UI goroutine.
func (d *Dispatcher) Post(fn func()) {
	d.post(fn)
}

// AfterFunc arms a real-time timer whose callback is posted to the UI goroutine.
func (d *Dispatcher) AfterFunc(dur time.Duration, fn func()) Timer {
	t := &dispatchTimer{fn: fn}
	t.timer = time.AfterFunc(dur, func() {
		d.post(t.fire)
	})
	return t
}

// dispatchTimer state is only touched on the UI goroutine: fire runs there,
// and Stop is only called from there. A callback that was already posted
// when Stop ran is dropped by the stopped check.
type dispatchTimer struct {
	timer   *time.Timer
	fn      func()
	stopped bool
}

func (t *dispatchTimer) fire() {
	if t.stopped {
		return
	}
	t.stopped = true
	t.fn()
}

func (t *dispatchTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}
