package toast

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/gesture"
	"github.com/jmylchreest/swipetoast/internal/loop"
	"github.com/jmylchreest/swipetoast/internal/surface"
	"github.com/jmylchreest/swipetoast/internal/viewport"
)

type recorder struct {
	opened []string
	closed []CloseReason
	swipes []bool
}

func (r *recorder) ToastOpened(t *Toast) { r.opened = append(r.opened, t.ID()) }
func (r *recorder) ToastClosed(t *Toast) { r.closed = append(r.closed, t.Reason()) }
func (r *recorder) SwipeReleased(_ *Toast, out gesture.Outcome) {
	r.swipes = append(r.swipes, out.Commit)
}

type fixture struct {
	doc   *surface.Document
	sched *loop.Manual
	logs  *bytes.Buffer
	mgr   *Manager
	obs   *recorder
}

func newFixture() *fixture {
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	doc := surface.NewDocument()
	sched := loop.NewManual()
	mgr := NewManager(doc, sched, logger)
	obs := &recorder{}
	mgr.SetObserver(obs)
	return &fixture{doc: doc, sched: sched, logs: logs, mgr: mgr, obs: obs}
}

// counter returns an OnClose option counting invocations.
func counter(n *int) Option {
	return WithOnClose(func(*Handle) { *n++ })
}

func (f *fixture) swipe(h *Handle, dx, dy float64) {
	el := h.Element()
	f.doc.Dispatch(el, &surface.Event{Kind: surface.PointerDown, PageX: 500, PageY: 500})
	f.doc.Dispatch(el, &surface.Event{Kind: surface.PointerMove, PageX: 500 + dx/2, PageY: 500 + dy/2})
	f.doc.Dispatch(el, &surface.Event{Kind: surface.PointerMove, PageX: 500 + dx, PageY: 500 + dy})
	f.doc.Dispatch(el, &surface.Event{Kind: surface.PointerUp, PageX: 500 + dx, PageY: 500 + dy})
}

func child(t *testing.T, h *Handle, class string) *surface.Node {
	t.Helper()
	for _, n := range h.Element().(*surface.Node).Nodes() {
		if n.HasClass(class) {
			return n
		}
	}
	require.Failf(t, "child not found", "class %s", class)
	return nil
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "1.0.0", Version)
}

func TestOpen_BuildsElement(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open(
		WithMessage("Saved"),
		WithCategory("success"),
		WithClassName("wide   bold"),
		WithRTL(true),
		WithCloseButton(true),
		WithProgressBar(true),
	)

	el := h.Element().(*surface.Node)
	assert.Equal(t, []string{"swipetoast", "success", "wide", "bold", "rtl"}, el.Classes())
	assert.Equal(t, "Saved", child(t, h, ClassMessage).Text())

	btn := child(t, h, ClassClose)
	assert.Equal(t, "button", btn.Tag())
	assert.Equal(t, "×", btn.Text())

	assert.Equal(t, "4000ms", child(t, h, ClassProgress).Style("animation-duration"))
	assert.Equal(t, StateShown, h.Toast().State())
	assert.Equal(t, 1, f.doc.Flushes())
	assert.Len(t, h.ID(), 26)
}

func TestOpen_Defaults(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open()

	assert.Equal(t, config.PositionBottomCenter, h.Position())
	el := h.Element().(*surface.Node)
	assert.Equal(t, []string{"swipetoast", "default"}, el.Classes())
	assert.Len(t, el.Nodes(), 1, "no close control or progress by default")

	c, ok := f.mgr.Registry().Lookup(config.PositionBottomCenter)
	require.True(t, ok)
	assert.Equal(t, c.Element, el.Parent())
	assert.Equal(t, 24, c.Offset())
}

func TestOpen_ProgressWithoutDurationHasNoAnimation(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open(WithProgressBar(true), WithDuration(0))
	assert.Empty(t, child(t, h, ClassProgress).Style("animation-duration"))

	// A negative duration arms no timer, so the bar stays static too
	h = f.mgr.Open(WithProgressBar(true), WithDuration(-time.Second))
	assert.Empty(t, child(t, h, ClassProgress).Style("animation-duration"))
	assert.Zero(t, f.sched.Pending())
}

func TestAutoDismiss_FiresOnceAtDuration(t *testing.T) {
	f := newFixture()
	var closes int
	h := f.mgr.Open(WithDuration(4000*time.Millisecond), counter(&closes))

	f.sched.Advance(3999 * time.Millisecond)
	assert.False(t, h.Closed())
	assert.Zero(t, closes)

	f.sched.Advance(time.Millisecond)
	assert.True(t, h.Closed())
	assert.Equal(t, ReasonExpired, h.Reason())
	assert.Equal(t, 1, closes)
	assert.False(t, h.Element().(*surface.Node).Attached())

	f.sched.Advance(time.Minute)
	assert.Equal(t, 1, closes)
}

func TestAutoDismiss_ZeroDurationStaysOpen(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open(WithDuration(0))
	f.sched.Advance(time.Hour)
	assert.False(t, h.Closed())
	assert.Zero(t, f.sched.Pending())
}

func TestAutoDismiss_NegativeDurationHasNoTimer(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open(WithDuration(-time.Second))
	f.sched.Advance(time.Hour)
	assert.False(t, h.Closed())
}

func TestClose_Idempotent(t *testing.T) {
	f := newFixture()
	var closes int
	h := f.mgr.Open(counter(&closes))

	h.Close()
	h.Close()
	assert.Equal(t, 1, closes)
	assert.Equal(t, ReasonClosed, h.Reason())
	assert.Zero(t, f.sched.Pending(), "close must cancel the auto-dismiss timer")
}

func TestClose_FromOnCloseDoesNotReenter(t *testing.T) {
	f := newFixture()
	var closes int
	f.mgr.Open(WithOnClose(func(h *Handle) {
		closes++
		h.Close()
	})).Close()
	assert.Equal(t, 1, closes)
}

func TestClose_FromOnOpenCancelsTimer(t *testing.T) {
	f := newFixture()
	var closes int
	h := f.mgr.Open(
		WithOnOpen(func(h *Handle) { h.Close() }),
		counter(&closes),
	)
	assert.True(t, h.Closed())
	assert.Equal(t, 1, closes)

	f.sched.Advance(time.Minute)
	assert.Equal(t, 1, closes)
	assert.Empty(t, f.mgr.Active())
}

func TestOnOpenReceivesHandle(t *testing.T) {
	f := newFixture()
	var got *Handle
	h := f.mgr.Open(WithOnOpen(func(h *Handle) { got = h }))
	assert.Same(t, h, got)
}

func TestSwipe_140pxCancels(t *testing.T) {
	f := newFixture()
	var closes int
	h := f.mgr.Open(WithSwipeThreshold(0.5), counter(&closes))
	h.Element().(*surface.Node).SetWidth(300)

	f.swipe(h, 140, 0)
	f.sched.Advance(gesture.GraceInterval)

	assert.False(t, h.Closed())
	assert.Zero(t, closes)
	assert.Empty(t, h.Element().Style("transform"))
	assert.Equal(t, []bool{false}, f.obs.swipes)
}

func TestSwipe_160pxCommits(t *testing.T) {
	f := newFixture()
	var closes int
	h := f.mgr.Open(WithSwipeThreshold(0.5), counter(&closes))
	h.Element().(*surface.Node).SetWidth(300)

	f.swipe(h, 160, 0)
	assert.False(t, h.Closed(), "exit animation plays before dismissal")

	f.sched.Advance(gesture.GraceInterval)
	assert.True(t, h.Closed())
	assert.Equal(t, ReasonSwiped, h.Reason())
	assert.Equal(t, 1, closes)

	// The auto-dismiss timer was cancelled by the swipe
	f.sched.Advance(time.Minute)
	assert.Equal(t, 1, closes)
}

func TestSwipe_VerticalNeverCommits(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open(WithDuration(0))
	f.swipe(h, 30, 2000)
	f.sched.Advance(time.Second)
	assert.False(t, h.Closed())
}

func TestSwipe_Disabled(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open(WithSwipe(false), WithDuration(0))
	f.swipe(h, 1000, 0)
	f.sched.Advance(time.Second)
	assert.False(t, h.Closed())
	assert.Empty(t, f.obs.swipes)
}

func TestSwipe_TimerExpiresDuringGrace(t *testing.T) {
	f := newFixture()
	var closes int
	h := f.mgr.Open(WithDuration(100*time.Millisecond), counter(&closes))

	f.swipe(h, 250, 0)
	f.sched.Advance(time.Second)

	assert.Equal(t, 1, closes)
	assert.Equal(t, ReasonExpired, h.Reason())
}

func TestClick_Closes(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open(WithCloseButton(true))

	f.doc.Dispatch(child(t, h, ClassMessage), &surface.Event{Kind: surface.Click})
	assert.True(t, h.Closed())
	assert.Equal(t, ReasonClicked, h.Reason())
}

func TestCloseButton_Closes(t *testing.T) {
	f := newFixture()
	var closes int
	h := f.mgr.Open(WithCloseButton(true), counter(&closes))

	ev := f.doc.Dispatch(child(t, h, ClassClose), &surface.Event{Kind: surface.Click})
	assert.True(t, ev.PropagationStopped())
	assert.Equal(t, ReasonCloseButton, h.Reason())
	assert.Equal(t, 1, closes)
}

func TestContainers_SharedPerPosition(t *testing.T) {
	f := newFixture()
	a := f.mgr.Open(WithPosition(config.PositionBottomCenter))
	b := f.mgr.Open(WithPosition(config.PositionBottomCenter))
	assert.Same(t, a.Element().Parent(), b.Element().Parent())

	c, _ := f.mgr.Registry().Lookup(config.PositionBottomCenter)
	assert.Len(t, c.Element.Children(), 2)

	d := f.mgr.Open(WithPosition(config.PositionTopLeft))
	assert.NotSame(t, a.Element().Parent(), d.Element().Parent())
	assert.Equal(t, 2, f.mgr.Registry().Len())
}

func TestContainer_OutlivesToasts(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open()
	h.Close()
	_, ok := f.mgr.Registry().Lookup(config.PositionBottomCenter)
	assert.True(t, ok)
	assert.Len(t, f.doc.Body().Nodes(), 1)
}

func TestOpen_InvalidPositionFallsBack(t *testing.T) {
	f := newFixture()
	var h *Handle
	require.NotPanics(t, func() {
		h = f.mgr.Open(WithPosition("nowhere"))
	})
	assert.Equal(t, config.PositionBottomCenter, h.Position())
	assert.Contains(t, f.logs.String(), "level=WARN")
	assert.Contains(t, f.logs.String(), "position=nowhere")
}

func TestOpen_WatchesMostRecentPosition(t *testing.T) {
	f := newFixture()
	for _, pos := range config.ValidPositions() {
		f.mgr.Open(WithPosition(pos), WithOffset(10))
	}
	assert.Equal(t, 1, f.doc.ResizeBindings())

	first, _ := f.mgr.Registry().Lookup(config.PositionTopLeft)
	last, _ := f.mgr.Registry().Lookup(config.PositionBottomRight)
	first.Element.SetStyle("top", "")
	last.Element.SetStyle("bottom", "")

	f.doc.Resize()
	f.sched.Advance(viewport.DebounceInterval)
	assert.Empty(t, first.Element.Style("top"))
	assert.Equal(t, "10px", last.Element.Style("bottom"))
}

func TestOpen_ToastOpenedFromOnOpenIsTracked(t *testing.T) {
	f := newFixture()
	f.mgr.Open(
		WithPosition(config.PositionTopLeft),
		WithOffset(24),
		WithOnOpen(func(*Handle) {
			f.mgr.Open(WithPosition(config.PositionBottomRight), WithOffset(50))
		}),
	)

	outer, _ := f.mgr.Registry().Lookup(config.PositionTopLeft)
	inner, _ := f.mgr.Registry().Lookup(config.PositionBottomRight)
	assert.Equal(t, "24px", outer.Element.Style("top"))
	assert.Equal(t, "50px", inner.Element.Style("bottom"))

	outer.Element.SetStyle("top", "")
	inner.Element.SetStyle("bottom", "")
	f.doc.Resize()
	f.sched.Advance(viewport.DebounceInterval)

	assert.Empty(t, outer.Element.Style("top"))
	assert.Equal(t, "50px", inner.Element.Style("bottom"))
}

func TestOpen_HooksSeeWatcherBound(t *testing.T) {
	f := newFixture()
	var bindings int
	f.mgr.Open(WithOnOpen(func(*Handle) { bindings = f.doc.ResizeBindings() }))
	assert.Equal(t, 1, bindings)
	require.Len(t, f.obs.opened, 1)
}

func TestOpen_NewerOffsetRetargetsContainer(t *testing.T) {
	f := newFixture()
	f.mgr.Open(WithPosition(config.PositionTopRight))
	f.mgr.Open(WithPosition(config.PositionTopRight), WithOffset(48))

	c, _ := f.mgr.Registry().Lookup(config.PositionTopRight)
	assert.Equal(t, "48px", c.Element.Style("top"))
}

func TestSetDefaults(t *testing.T) {
	f := newFixture()
	d := config.DefaultToast()
	d.Position = config.PositionCenter
	d.Category = "info"
	f.mgr.SetDefaults(d)
	assert.Equal(t, d, f.mgr.Defaults())

	h := f.mgr.Open(WithCategory("error"))
	assert.Equal(t, config.PositionCenter, h.Position())
	assert.True(t, h.Element().HasClass("error"))
	assert.False(t, h.Element().HasClass("info"))
}

func TestWithConfigKeepsHooks(t *testing.T) {
	var closes int
	o := Options{}
	counter(&closes)(&o)
	WithConfig(config.DefaultToast())(&o)
	require.NotNil(t, o.OnClose)
	assert.Equal(t, config.DefaultToast(), o.Toast)
}

func TestManager_ActiveLookupCloseAll(t *testing.T) {
	f := newFixture()
	a := f.mgr.Open(WithMessage("a"))
	b := f.mgr.Open(WithMessage("b"))
	c := f.mgr.Open(WithMessage("c"))

	assert.Equal(t, []*Handle{a, b, c}, f.mgr.Active())

	got, ok := f.mgr.Lookup(b.ID())
	require.True(t, ok)
	assert.Same(t, b, got)

	b.Close()
	assert.Equal(t, []*Handle{a, c}, f.mgr.Active())
	_, ok = f.mgr.Lookup(b.ID())
	assert.False(t, ok)

	f.mgr.CloseAll()
	assert.Empty(t, f.mgr.Active())
	assert.True(t, a.Closed())
	assert.True(t, c.Closed())
	assert.Equal(t, []CloseReason{ReasonClosed, ReasonClosed, ReasonClosed}, f.obs.closed)
	assert.Len(t, f.obs.opened, 3)
}

func TestManager_Stop(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open()
	f.mgr.Stop()
	assert.True(t, h.Closed())
	assert.Zero(t, f.doc.ResizeBindings())
	assert.Zero(t, f.sched.Pending())
}

func TestStateAndReasonString(t *testing.T) {
	assert.Equal(t, "created", StateCreated.String())
	assert.Equal(t, "shown", StateShown.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "none", ReasonNone.String())
	assert.Equal(t, "close-button", ReasonCloseButton.String())
	assert.Len(t, Reasons(), 5)
}

func TestLifetime(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open()
	assert.GreaterOrEqual(t, h.Toast().Lifetime(), time.Duration(0))
	h.Close()
	l := h.Toast().Lifetime()
	assert.Equal(t, l, h.Toast().Lifetime(), "lifetime is frozen after close")
}

func TestObservers_FanOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	f := newFixture()
	f.mgr.SetObserver(Observers{a, b})

	f.mgr.Open().Close()
	assert.Len(t, a.opened, 1)
	assert.Equal(t, a.opened, b.opened)
	assert.Equal(t, []CloseReason{ReasonClosed}, b.closed)
}
