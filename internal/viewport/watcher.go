// Package viewport keeps toast containers placed correctly while the
// surface is resized.
package viewport

import (
	"log/slog"
	"time"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/loop"
	"github.com/jmylchreest/swipetoast/internal/position"
	"github.com/jmylchreest/swipetoast/internal/surface"
)

// ResizeSlot is the named surface resize slot the watcher owns.
const ResizeSlot = "resize.swipetoast"

// DebounceInterval is the quiet window a resize burst must settle for
// before containers are recomputed.
const DebounceInterval = 100 * time.Millisecond

// Watcher recomputes the placement of the most recently opened toast's
// container once resize events stop arriving.
type Watcher struct {
	surface  surface.Surface
	registry *position.Registry
	sched    loop.Scheduler
	logger   *slog.Logger

	// Position being tracked
	pos config.Position

	// Pending debounce timer
	timer loop.Timer

	bound bool
}

// NewWatcher creates a watcher. Nothing is bound until Watch is called.
func NewWatcher(s surface.Surface, registry *position.Registry, sched loop.Scheduler, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		surface:  s,
		registry: registry,
		sched:    sched,
		logger:   logger,
	}
}

// Watch switches tracking to pos. The container at pos is retargeted to
// offset right away, any pending recompute is cancelled and the resize
// handler is rebound under ResizeSlot, replacing the previous one.
func (w *Watcher) Watch(pos config.Position, offset int) {
	w.cancel()
	w.pos = pos
	w.registry.Retarget(pos, offset)

	w.surface.BindResize(ResizeSlot, w.onResize)
	w.bound = true
	w.logger.Debug("viewport watching", "position", string(pos), "offset", offset)
}

// Position returns the position currently tracked.
func (w *Watcher) Position() config.Position {
	return w.pos
}

// Stop unbinds the resize handler and drops any pending recompute.
func (w *Watcher) Stop() {
	w.cancel()
	if !w.bound {
		return
	}
	w.surface.UnbindResize(ResizeSlot)
	w.bound = false
	w.logger.Debug("viewport watcher stopped")
}

// onResize re-arms the debounce timer.
func (w *Watcher) onResize() {
	w.cancel()
	pos := w.pos
	w.timer = w.sched.AfterFunc(DebounceInterval, func() {
		w.timer = nil
		w.registry.Recompute(pos)
		w.logger.Debug("viewport recomputed", "position", string(pos))
	})
}

func (w *Watcher) cancel() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
