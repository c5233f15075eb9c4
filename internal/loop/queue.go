package loop

import "sync"

// Queue keeps posted callbacks in order for hosts whose wake-up path does
// not, such as a bubbletea Program.Send issued from a fresh goroutine. At
// most one wake is outstanding; Drain runs everything queued up to the point
// it finds the queue empty.
type Queue struct {
	wake func()

	mu      sync.Mutex
	pending []func()
	armed   bool
}

// NewQueue creates a queue that calls wake when work arrives on an idle
// queue. wake must eventually cause Drain to run on the UI goroutine.
func NewQueue(wake func()) *Queue {
	return &Queue{wake: wake}
}

// Push appends fn. It is safe to call from any goroutine, including the UI
// goroutine itself.
func (q *Queue) Push(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	wake := !q.armed
	q.armed = true
	q.mu.Unlock()

	if wake {
		q.wake()
	}
}

// Drain runs queued callbacks in the order they were pushed, including any
// pushed while draining. UI goroutine only.
func (q *Queue) Drain() {
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		if len(batch) == 0 {
			q.armed = false
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
	}
}

// Len returns the number of callbacks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// NewOrderedDispatcher returns a Dispatcher for hosts that can only accept
// work by a blocking send, such as bubbletea's Program.Send. Each wake is
// sent from its own goroutine so Post never blocks the UI goroutine, and a
// Queue keeps the callbacks in post order.
func NewOrderedDispatcher(send func(drain func())) *Dispatcher {
	var q *Queue
	q = NewQueue(func() {
		go send(q.Drain)
	})
	return NewDispatcher(q.Push)
}
