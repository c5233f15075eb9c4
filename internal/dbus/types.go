package dbus

import (
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/swipetoast/internal/toast"
)

// CloseReason represents the reason for closing a notification.
// The values are fixed by the freedesktop.org notification protocol.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification expired (timeout reached).
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved by the notification protocol.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// CloseReasonFor maps a toast close reason onto the wire reason.
// Every user gesture counts as a dismissal.
func CloseReasonFor(r toast.CloseReason) CloseReason {
	switch r {
	case toast.ReasonExpired:
		return CloseReasonExpired
	case toast.ReasonSwiped, toast.ReasonClicked, toast.ReasonCloseButton:
		return CloseReasonDismissed
	case toast.ReasonClosed:
		return CloseReasonClosed
	default:
		return CloseReasonUndefined
	}
}

// Urgency levels from the urgency hint.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// UrgencyNames maps urgency levels to the toast category they render with.
var UrgencyNames = map[int]string{
	UrgencyLow:      "low",
	UrgencyNormal:   "normal",
	UrgencyCritical: "critical",
}

// Notification represents an incoming Notify call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Urgency returns the urgency hint, or UrgencyNormal when it is missing or
// out of range. The protocol says byte, but some clients send other integer
// types.
func (n *Notification) Urgency() int {
	v, ok := n.Hints["urgency"]
	if !ok {
		return UrgencyNormal
	}
	var u int64
	switch x := v.Value().(type) {
	case byte:
		u = int64(x)
	case int32:
		u = int64(x)
	case uint32:
		u = int64(x)
	case int64:
		u = x
	default:
		return UrgencyNormal
	}
	if u < UrgencyLow || u > UrgencyCritical {
		return UrgencyNormal
	}
	return int(u)
}

// Category extracts the category hint from the notification.
// Returns empty string if not specified.
func (n *Notification) Category() string {
	if v, ok := n.Hints["category"]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// Message returns the text a toast shows: the summary, then the body on its
// own line when present.
func (n *Notification) Message() string {
	summary := strings.TrimSpace(n.Summary)
	body := strings.TrimSpace(n.Body)
	switch {
	case body == "":
		return summary
	case summary == "":
		return body
	default:
		return summary + "\n" + body
	}
}

// Options returns the toast options for the notification. They are applied
// over the manager defaults, so anything not carried by the notification
// keeps its configured value.
//
// The expire timeout maps as -1 to the default duration (or never for
// critical urgency), 0 to never, and anything else to milliseconds.
func (n *Notification) Options() []toast.Option {
	urgency := n.Urgency()
	opts := []toast.Option{
		toast.WithMessage(n.Message()),
		toast.WithCategory(UrgencyNames[urgency]),
	}

	if cat := n.Category(); cat != "" {
		opts = append(opts, toast.WithClassName("category-"+strings.ReplaceAll(cat, ".", "-")))
	}

	switch {
	case n.ExpireTimeout == 0:
		opts = append(opts, toast.WithDuration(0))
	case n.ExpireTimeout > 0:
		opts = append(opts, toast.WithDuration(time.Duration(n.ExpireTimeout)*time.Millisecond))
	case urgency == UrgencyCritical:
		opts = append(opts, toast.WithDuration(0))
	}

	// Toasts that never expire need a visible way out
	if urgency == UrgencyCritical || n.ExpireTimeout == 0 {
		opts = append(opts, toast.WithCloseButton(true))
	}

	return opts
}

// ServerCapabilities lists the capabilities advertised by the server.
var ServerCapabilities = []string{
	"body", // Support body text
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "swipetoast",
		Vendor:      "swipetoast",
		Version:     toast.Version,
		SpecVersion: "1.2",
	}
}
