package toast

import (
	"time"

	"github.com/jmylchreest/swipetoast/internal/config"
)

// Callback is an optional lifecycle hook receiving the toast's handle.
// A nil Callback is absent.
type Callback func(*Handle)

// Options is the full configuration of one toast: the persisted record plus
// the lifecycle hooks.
type Options struct {
	config.Toast

	OnOpen  Callback
	OnClose Callback
}

// Option modifies Options. Options are applied over the manager defaults, so
// caller values win.
type Option func(*Options)

// WithConfig replaces every configuration field, keeping any hooks already set.
func WithConfig(t config.Toast) Option {
	return func(o *Options) { o.Toast = t }
}

// WithMessage sets the text shown in the toast.
func WithMessage(msg string) Option {
	return func(o *Options) { o.Message = msg }
}

// WithCategory sets the style tag added as a class, such as "success" or "error".
func WithCategory(category string) Option {
	return func(o *Options) { o.Category = category }
}

// WithDuration sets the auto-dismiss delay. Zero disables auto-dismiss.
func WithDuration(d time.Duration) Option {
	return func(o *Options) { o.Duration = config.Duration(d) }
}

// WithSwipe enables or disables swipe-to-dismiss.
func WithSwipe(enabled bool) Option {
	return func(o *Options) { o.Swipeable = enabled }
}

// WithPosition sets the screen zone.
func WithPosition(pos config.Position) Option {
	return func(o *Options) { o.Position = pos }
}

// WithRTL enables right-to-left layout.
func WithRTL(rtl bool) Option {
	return func(o *Options) { o.RTL = rtl }
}

// WithCloseButton shows or hides the close control.
func WithCloseButton(show bool) Option {
	return func(o *Options) { o.CloseButton = show }
}

// WithProgressBar shows or hides the progress indicator.
func WithProgressBar(show bool) Option {
	return func(o *Options) { o.ProgressBar = show }
}

// WithClassName adds extra classes to the toast element.
func WithClassName(name string) Option {
	return func(o *Options) { o.ClassName = name }
}

// WithOffset sets the container's distance from the screen edge in pixels.
func WithOffset(px int) Option {
	return func(o *Options) { o.Offset = px }
}

// WithSwipeThreshold sets the fraction of the toast width a swipe must
// exceed to dismiss.
func WithSwipeThreshold(fraction float64) Option {
	return func(o *Options) { o.SwipeThreshold = fraction }
}

// WithOnOpen sets the hook run once the toast is shown.
func WithOnOpen(cb Callback) Option {
	return func(o *Options) { o.OnOpen = cb }
}

// WithOnClose sets the hook run once the toast is closed.
func WithOnClose(cb Callback) Option {
	return func(o *Options) { o.OnClose = cb }
}
