package dbus

import "fmt"

// EmitNotificationClosed tells clients that id is gone and why.
func (s *NotificationServer) EmitNotificationClosed(id uint32, reason CloseReason) error {
	s.mu.RLock()
	signals := s.signals
	s.mu.RUnlock()

	if signals == nil {
		return ErrNotConnected
	}
	if err := signals.Emit(DBusPath, closedSignal, id, uint32(reason)); err != nil {
		return fmt.Errorf("emit NotificationClosed(%d, %s): %w", id, reason, err)
	}
	return nil
}

// CloseWithReason reports a toast closed on our side. IDs the client
// already closed, or never sent, are ignored.
func (s *NotificationServer) CloseWithReason(id uint32, reason CloseReason) error {
	if _, ok := s.release(id); !ok {
		return nil
	}
	s.logger.Debug("notification closed", "id", id, "reason", reason.String())
	return s.EmitNotificationClosed(id, reason)
}
