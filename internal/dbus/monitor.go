package dbus

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strconv"

	"github.com/godbus/dbus/v5"
)

// Monitor passively observes D-Bus notification traffic without claiming
// ownership. It lets toasts mirror another notification daemon (like dunst)
// running on the same bus.
type Monitor struct {
	conn   *dbus.Conn
	logger *slog.Logger

	onNotify NotificationHandler
}

// NewMonitor creates a new notification monitor.
func NewMonitor(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		logger: logger,
	}
}

// SetNotifyHandler sets the callback for received notifications.
func (m *Monitor) SetNotifyHandler(handler NotificationHandler) {
	m.onNotify = handler
}

// notifyRule matches Notify calls addressed to any notification daemon.
const notifyRule = "type='method_call',interface='" + DBusInterface + "',member='Notify'"

// Start opens a private session connection and turns it into an observer
// of Notify calls. BecomeMonitor is tried first; buses without it fall back
// to an eavesdropping match rule, which may need a permissive bus policy.
func (m *Monitor) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	bus := conn.BusObject()
	monitorErr := bus.Call("org.freedesktop.DBus.Monitoring.BecomeMonitor", 0, []string{notifyRule}, uint32(0)).Err
	if monitorErr != nil {
		m.logger.Warn("BecomeMonitor unavailable, falling back to eavesdrop", "error", monitorErr)
		if err := bus.Call("org.freedesktop.DBus.AddMatch", 0, notifyRule+",eavesdrop='true'").Err; err != nil {
			_ = conn.Close()
			return fmt.Errorf("failed to observe notifications: %w", errors.Join(monitorErr, err))
		}
	}

	m.conn = conn
	ch := make(chan *dbus.Message, 64)
	conn.Eavesdrop(ch)
	go m.run(ch)

	m.logger.Info("mirroring notifications from the session bus", "monitor", monitorErr == nil)
	return nil
}

// run turns observed Notify calls into notifications until ch closes.
func (m *Monitor) run(ch <-chan *dbus.Message) {
	for msg := range ch {
		if !isNotifyCall(msg) {
			continue
		}
		n, err := ParseNotify(msg.Body)
		if err != nil {
			m.logger.Warn("ignoring malformed Notify call", "sender", msg.Headers[dbus.FieldSender].Value(), "error", err)
			continue
		}

		id := MonitorID(n)
		m.logger.Debug("observed notification", "id", id, "app", n.AppName)
		if m.onNotify != nil {
			m.onNotify(n, id)
		}
	}
}

func isNotifyCall(msg *dbus.Message) bool {
	if msg.Type != dbus.TypeMethodCall {
		return false
	}
	iface, _ := msg.Headers[dbus.FieldInterface].Value().(string)
	member, _ := msg.Headers[dbus.FieldMember].Value().(string)
	return iface == DBusInterface && member == "Notify"
}

// ParseNotify decodes the arguments of a Notify method call:
// (app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout).
func ParseNotify(body []interface{}) (*Notification, error) {
	if len(body) < 8 {
		return nil, fmt.Errorf("expected 8 arguments, got %d", len(body))
	}

	n := &Notification{}
	var ok bool
	if n.AppName, ok = body[0].(string); !ok {
		return nil, fmt.Errorf("invalid app_name type %T", body[0])
	}
	if n.ReplacesID, ok = body[1].(uint32); !ok {
		return nil, fmt.Errorf("invalid replaces_id type %T", body[1])
	}
	if n.AppIcon, ok = body[2].(string); !ok {
		return nil, fmt.Errorf("invalid app_icon type %T", body[2])
	}
	if n.Summary, ok = body[3].(string); !ok {
		return nil, fmt.Errorf("invalid summary type %T", body[3])
	}
	if n.Body, ok = body[4].(string); !ok {
		return nil, fmt.Errorf("invalid body type %T", body[4])
	}
	if actions, ok := body[5].([]string); ok {
		n.Actions = actions
	}
	if hints, ok := body[6].(map[string]dbus.Variant); ok {
		n.Hints = hints
	}
	if timeout, ok := body[7].(int32); ok {
		n.ExpireTimeout = timeout
	}
	return n, nil
}

// MonitorID derives a stable pseudo-ID for an eavesdropped notification.
// The real ID is only in the owning daemon's reply, which monitors do not see.
// A replacement reuses the ID it replaces.
func MonitorID(n *Notification) uint32 {
	if n.ReplacesID > 0 {
		return n.ReplacesID
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(n.AppName))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(n.Summary))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(n.Body))
	_, _ = h.Write([]byte(strconv.Itoa(int(n.ExpireTimeout))))
	return h.Sum32()
}

// Stop closes the monitor's connection.
func (m *Monitor) Stop() error {
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
