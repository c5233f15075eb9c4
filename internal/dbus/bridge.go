package dbus

import (
	"log/slog"

	"github.com/jmylchreest/swipetoast/internal/loop"
	"github.com/jmylchreest/swipetoast/internal/toast"
)

// closer reports closed notifications back to the bus.
type closer interface {
	CloseWithReason(id uint32, reason CloseReason) error
}

// Bridge opens a toast for every notification and closes it on request.
// Notify and Close may be called from any goroutine; the work is posted to
// the manager's UI goroutine.
type Bridge struct {
	manager *toast.Manager
	sched   loop.Scheduler
	logger  *slog.Logger
	server  closer

	// Toast IDs by notification ID, UI goroutine only
	toasts map[uint32]string
}

// NewBridge creates a bridge opening toasts through manager.
func NewBridge(manager *toast.Manager, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		manager: manager,
		sched:   manager.Scheduler(),
		logger:  logger,
		toasts:  make(map[uint32]string),
	}
}

// AttachServer routes the server's Notify and CloseNotification calls through
// the bridge and reports closed toasts as NotificationClosed signals.
func (b *Bridge) AttachServer(s *NotificationServer) {
	b.server = s
	s.SetNotifyHandler(b.Notify)
	s.SetCloseHandler(b.Close)
}

// AttachMonitor mirrors eavesdropped notifications as toasts.
func (b *Bridge) AttachMonitor(m *Monitor) {
	m.SetNotifyHandler(b.Notify)
}

// Notify shows n as a toast, replacing the toast already open for id.
func (b *Bridge) Notify(n *Notification, id uint32) {
	b.sched.Post(func() { b.show(n, id) })
}

// Close closes the toast open for id without reporting it back.
func (b *Bridge) Close(id uint32) {
	b.sched.Post(func() { b.dismiss(id) })
}

// Len returns the number of open notification toasts. UI goroutine only.
func (b *Bridge) Len() int {
	return len(b.toasts)
}

// dismiss closes the toast open for id, if any, without reporting it.
func (b *Bridge) dismiss(id uint32) {
	tid, ok := b.toasts[id]
	if !ok {
		return
	}
	delete(b.toasts, id)
	if h, ok := b.manager.Lookup(tid); ok {
		h.Close()
	}
}

func (b *Bridge) show(n *Notification, id uint32) {
	b.dismiss(id)

	opts := append(n.Options(), toast.WithOnClose(func(h *toast.Handle) {
		b.closed(id, h)
	}))
	h := b.manager.Open(opts...)
	if !h.Closed() {
		b.toasts[id] = h.ID()
	}

	b.logger.Debug("notification shown", "id", id, "app", n.AppName, "toast", h.ID())
}

func (b *Bridge) closed(id uint32, h *toast.Handle) {
	if cur, ok := b.toasts[id]; !ok || cur != h.ID() {
		return
	}
	delete(b.toasts, id)

	if b.server == nil {
		return
	}
	reason := CloseReasonFor(h.Reason())
	if err := b.server.CloseWithReason(id, reason); err != nil {
		b.logger.Warn("failed to report closed notification", "id", id, "reason", reason.String(), "error", err)
	}
}
