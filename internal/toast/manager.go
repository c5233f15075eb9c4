package toast

import (
	"log/slog"
	"slices"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/loop"
	"github.com/jmylchreest/swipetoast/internal/position"
	"github.com/jmylchreest/swipetoast/internal/surface"
	"github.com/jmylchreest/swipetoast/internal/viewport"
)

// Manager opens toasts on a surface. It owns the position registry and the
// viewport watcher shared by every toast it opens. A Manager must only be
// used from the UI goroutine; other goroutines go through the scheduler's Post.
type Manager struct {
	surface  surface.Surface
	sched    loop.Scheduler
	logger   *slog.Logger
	registry *position.Registry
	watcher  *viewport.Watcher
	observer Observer

	defaults config.Toast

	// Open toasts in opening order
	active []*Toast
}

// NewManager creates a manager with the default toast configuration.
func NewManager(s surface.Surface, sched loop.Scheduler, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	registry := position.NewRegistry(s, logger)
	return &Manager{
		surface:  s,
		sched:    sched,
		logger:   logger,
		registry: registry,
		watcher:  viewport.NewWatcher(s, registry, sched, logger),
		defaults: config.DefaultToast(),
	}
}

// SetObserver installs an observer for every toast opened afterwards.
func (m *Manager) SetObserver(o Observer) {
	m.observer = o
}

// SetDefaults replaces the configuration new toasts start from.
// Toasts already open keep their configuration.
func (m *Manager) SetDefaults(t config.Toast) {
	m.defaults = t
	m.logger.Debug("toast defaults updated",
		"position", string(t.Position),
		"duration", t.Duration.Duration(),
	)
}

// Defaults returns the configuration new toasts start from.
func (m *Manager) Defaults() config.Toast {
	return m.defaults
}

// Registry returns the position registry.
func (m *Manager) Registry() *position.Registry {
	return m.registry
}

// Scheduler returns the scheduler toasts run on.
func (m *Manager) Scheduler() loop.Scheduler {
	return m.sched
}

// Open applies opts over the defaults, falls back to the default position
// with a warning when the position is not recognised, shows the toast and
// returns its handle.
func (m *Manager) Open(opts ...Option) *Handle {
	o := Options{Toast: m.defaults}
	for _, opt := range opts {
		opt(&o)
	}
	o.Normalize(m.logger)

	t := newToast(o, &env{
		surface:  m.surface,
		registry: m.registry,
		sched:    m.sched,
		logger:   m.logger,
		observer: m.observer,
		onClosed: m.forget,
	})
	m.active = append(m.active, t)

	// The watcher follows this toast before hooks run, so a toast opened from
	// OnOpen is the one left tracked.
	t.open()
	m.watcher.Watch(o.Position, o.Offset)
	t.announce()

	return t.handle
}

// Active returns handles for the open toasts, oldest first.
func (m *Manager) Active() []*Handle {
	out := make([]*Handle, len(m.active))
	for i, t := range m.active {
		out[i] = t.handle
	}
	return out
}

// Lookup returns the open toast with the given ID.
func (m *Manager) Lookup(id string) (*Handle, bool) {
	for _, t := range m.active {
		if t.id == id {
			return t.handle, true
		}
	}
	return nil, false
}

// CloseAll closes every open toast programmatically.
func (m *Manager) CloseAll() {
	for _, t := range slices.Clone(m.active) {
		t.close(ReasonClosed)
	}
}

// Stop closes every toast and stops watching the viewport.
func (m *Manager) Stop() {
	m.CloseAll()
	m.watcher.Stop()
}

func (m *Manager) forget(t *Toast) {
	m.active = slices.DeleteFunc(m.active, func(a *Toast) bool { return a == t })
}
