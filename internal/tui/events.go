package tui

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/swipetoast/internal/gesture"
	"github.com/jmylchreest/swipetoast/internal/toast"
)

// Event is one entry of the event log.
type Event struct {
	At   time.Time
	Text string
}

// EventLog keeps the most recent toast lifecycle events for display.
// It implements toast.Observer.
type EventLog struct {
	limit   int
	entries []Event
	now     func() time.Time
}

// NewEventLog creates a log holding at most limit entries.
func NewEventLog(limit int) *EventLog {
	return &EventLog{limit: max(limit, 1), now: time.Now}
}

// Add appends an entry, dropping the oldest once full.
func (l *EventLog) Add(format string, args ...any) {
	l.entries = append(l.entries, Event{At: l.now(), Text: fmt.Sprintf(format, args...)})
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = l.entries[over:]
	}
}

// Entries returns the entries, oldest first.
func (l *EventLog) Entries() []Event {
	return l.entries
}

// Lines renders the entries with relative timestamps, newest first.
func (l *EventLog) Lines() []string {
	lines := make([]string, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		lines = append(lines, fmt.Sprintf("%s  %s", humanize.Time(e.At), e.Text))
	}
	return lines
}

func (l *EventLog) ToastOpened(t *toast.Toast) {
	l.Add("opened %s %q", t.Options().Position, t.Options().Message)
}

func (l *EventLog) ToastClosed(t *toast.Toast) {
	l.Add("closed %s (%s) after %s", t.Options().Position, t.Reason(),
		t.Lifetime().Round(100*time.Millisecond))
}

func (l *EventLog) SwipeReleased(_ *toast.Toast, out gesture.Outcome) {
	if out.Commit {
		l.Add("swipe committed at %.0fpx", math.Abs(out.DeltaX))
		return
	}
	l.Add("swipe cancelled (%s, %.0fpx)", out.Direction, math.Abs(out.DeltaX))
}
