package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the bus name to claim.
	DBusBusName = "org.freedesktop.Notifications"

	closedSignal = DBusInterface + ".NotificationClosed"
)

// introspectXML describes the exported interface. Argument names follow the
// freedesktop notification protocol.
const introspectXML = `
<node>
	<interface name="` + DBusInterface + `">
		<method name="GetCapabilities">
			<arg direction="out" name="capabilities" type="as"/>
		</method>
		<method name="GetServerInformation">
			<arg direction="out" name="name" type="s"/>
			<arg direction="out" name="vendor" type="s"/>
			<arg direction="out" name="version" type="s"/>
			<arg direction="out" name="spec_version" type="s"/>
		</method>
		<method name="Notify">
			<arg direction="in" name="app_name" type="s"/>
			<arg direction="in" name="replaces_id" type="u"/>
			<arg direction="in" name="app_icon" type="s"/>
			<arg direction="in" name="summary" type="s"/>
			<arg direction="in" name="body" type="s"/>
			<arg direction="in" name="actions" type="as"/>
			<arg direction="in" name="hints" type="a{sv}"/>
			<arg direction="in" name="expire_timeout" type="i"/>
			<arg direction="out" name="id" type="u"/>
		</method>
		<method name="CloseNotification">
			<arg direction="in" name="id" type="u"/>
		</method>
		<signal name="NotificationClosed">
			<arg name="id" type="u"/>
			<arg name="reason" type="u"/>
		</signal>
	</interface>` + introspect.IntrospectDataString + `</node>`

// ErrNotConnected is returned when a signal is emitted before Start.
var ErrNotConnected = errors.New("not connected to the session bus")

// NotificationHandler receives a notification and the ID it was given.
// It runs on the D-Bus goroutine.
type NotificationHandler func(notification *Notification, id uint32)

// CloseHandler receives the ID a client asked to close.
// It runs on the D-Bus goroutine.
type CloseHandler func(id uint32)

// signalEmitter is the part of *dbus.Conn used to emit signals.
type signalEmitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// NotificationServer owns org.freedesktop.Notifications on the session bus
// and hands every Notify call to a handler that turns it into a toast.
type NotificationServer struct {
	conn    *dbus.Conn
	signals signalEmitter
	logger  *slog.Logger
	info    ServerInfo

	onNotify NotificationHandler
	onClose  CloseHandler

	lastID atomic.Uint32

	mu     sync.RWMutex
	active map[uint32]string // ID to sending application
}

// NewNotificationServer creates a server that is not yet on the bus.
func NewNotificationServer(logger *slog.Logger) *NotificationServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationServer{
		logger: logger.With("component", "dbus-server"),
		info:   DefaultServerInfo(),
		active: make(map[uint32]string),
	}
}

// SetNotifyHandler sets the handler for Notify calls.
func (s *NotificationServer) SetNotifyHandler(handler NotificationHandler) {
	s.onNotify = handler
}

// SetCloseHandler sets the handler for CloseNotification calls.
func (s *NotificationServer) SetCloseHandler(handler CloseHandler) {
	s.onClose = handler
}

// SetServerInfo replaces what GetServerInformation reports.
func (s *NotificationServer) SetServerInfo(info ServerInfo) {
	s.info = info
}

// Start exports the server and claims the notification bus name. It fails
// when another daemon already owns the name.
func (s *NotificationServer) Start() error {
	s.mu.RLock()
	started := s.conn != nil
	s.mu.RUnlock()
	if started {
		return errors.New("notification server already started")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := export(conn, s); err != nil {
		return err
	}
	if err := claim(conn); err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.signals = conn
	s.mu.Unlock()

	s.logger.Info("claimed notification bus name", "name", DBusBusName, "path", DBusPath)
	return nil
}

func export(conn *dbus.Conn, s *NotificationServer) error {
	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", DBusInterface, err)
	}
	if err := conn.Export(introspect.Introspectable(introspectXML), DBusPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspection: %w", err)
	}
	return nil
}

func claim(conn *dbus.Conn) error {
	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request %s: %w", DBusBusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("%s is owned by another notification daemon", DBusBusName)
	}
	return nil
}

// Stop gives up the bus name. The shared session connection stays open.
func (s *NotificationServer) Stop() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.signals = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	if _, err := conn.ReleaseName(DBusBusName); err != nil {
		s.logger.Warn("failed to release bus name", "name", DBusBusName, "error", err)
	}
	s.logger.Info("released notification bus name", "name", DBusBusName)
	return nil
}

// GetCapabilities implements GetCapabilities() -> as.
func (s *NotificationServer) GetCapabilities() ([]string, *dbus.Error) {
	return ServerCapabilities, nil
}

// GetServerInformation implements GetServerInformation() -> (ssss).
func (s *NotificationServer) GetServerInformation() (string, string, string, string, *dbus.Error) {
	return s.info.Name, s.info.Vendor, s.info.Version, s.info.SpecVersion, nil
}

// Notify implements Notify(susssasa{sv}i) -> u. A non-zero replacesID keeps
// its ID so the bridge swaps the toast in place.
func (s *NotificationServer) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	n := &Notification{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}

	id := replacesID
	if id == 0 {
		id = s.lastID.Add(1)
	}

	s.mu.Lock()
	s.active[id] = appName
	s.mu.Unlock()

	s.logger.Debug("notification received",
		"id", id,
		"app", appName,
		"urgency", UrgencyNames[n.Urgency()],
		"expire_timeout", expireTimeout)

	if s.onNotify != nil {
		s.onNotify(n, id)
	}
	return id, nil
}

// CloseNotification implements CloseNotification(u). Unknown IDs are ignored.
func (s *NotificationServer) CloseNotification(id uint32) *dbus.Error {
	app, ok := s.release(id)
	if !ok {
		return nil
	}

	s.logger.Debug("notification closed by client", "id", id, "app", app)
	if s.onClose != nil {
		s.onClose(id)
	}
	if err := s.EmitNotificationClosed(id, CloseReasonClosed); err != nil {
		s.logger.Warn("failed to report closed notification", "id", id, "error", err)
	}
	return nil
}

// isActive reports whether id has been shown and not yet closed.
func (s *NotificationServer) isActive(id uint32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.active[id]
	return ok
}

// release forgets id and returns the application that sent it.
func (s *NotificationServer) release(id uint32) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.active[id]
	delete(s.active, id)
	return app, ok
}
