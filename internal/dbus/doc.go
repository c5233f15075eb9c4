// Package dbus bridges org.freedesktop.Notifications to toasts.
//
// NotificationServer claims the notification bus name and turns Notify calls
// into toasts; Monitor eavesdrops on another daemon's traffic and mirrors it.
// Bridge hands both onto the UI goroutine and reports closed toasts back as
// NotificationClosed signals.
package dbus
