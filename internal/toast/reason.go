package toast

// CloseReason records which trigger closed a toast.
type CloseReason string

const (
	ReasonNone        CloseReason = ""
	ReasonExpired     CloseReason = "expired"      // Auto-dismiss timer fired
	ReasonSwiped      CloseReason = "swiped"       // Committed swipe gesture
	ReasonClicked     CloseReason = "clicked"      // Click anywhere on the toast
	ReasonCloseButton CloseReason = "close-button" // Close control clicked
	ReasonClosed      CloseReason = "closed"       // Closed programmatically
)

// Reasons returns every close reason a closed toast can carry.
func Reasons() []CloseReason {
	return []CloseReason{ReasonExpired, ReasonSwiped, ReasonClicked, ReasonCloseButton, ReasonClosed}
}

// String returns the string representation of the reason.
func (r CloseReason) String() string {
	if r == ReasonNone {
		return "none"
	}
	return string(r)
}
