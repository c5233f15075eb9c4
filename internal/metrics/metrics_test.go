package metrics

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/gesture"
	"github.com/jmylchreest/swipetoast/internal/loop"
	"github.com/jmylchreest/swipetoast/internal/surface"
	"github.com/jmylchreest/swipetoast/internal/toast"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	require.NotNil(t, m.Counter)
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	require.NotNil(t, m.Gauge)
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	require.NotNil(t, m.Histogram)
	return m.GetHistogram().GetSampleCount()
}

type fixture struct {
	doc   *surface.Document
	sched *loop.Manual
	mgr   *toast.Manager
	c     *Collector
	reg   *prometheus.Registry
}

func newFixture() *fixture {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg))
	doc := surface.NewDocument()
	sched := loop.NewManual()
	mgr := toast.NewManager(doc, sched, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	mgr.SetObserver(c)
	return &fixture{doc: doc, sched: sched, mgr: mgr, c: c, reg: reg}
}

func TestCollector_OpenedAndActive(t *testing.T) {
	f := newFixture()
	f.mgr.Open(toast.WithPosition(config.PositionTopLeft))
	f.mgr.Open(toast.WithPosition(config.PositionTopLeft))
	f.mgr.Open()

	assert.Equal(t, 2.0, counterValue(t, f.c.opened.WithLabelValues("top-left")))
	assert.Equal(t, 1.0, counterValue(t, f.c.opened.WithLabelValues("bottom-center")))
	assert.Equal(t, 3.0, gaugeValue(t, f.c.active))
}

func TestCollector_ClosedPerReason(t *testing.T) {
	f := newFixture()

	f.mgr.Open(toast.WithDuration(time.Second))
	f.sched.Advance(time.Second)

	f.mgr.Open().Close()

	h := f.mgr.Open(toast.WithDuration(0))
	f.doc.Dispatch(h.Element(), &surface.Event{Kind: surface.Click})

	h = f.mgr.Open(toast.WithDuration(0), toast.WithCloseButton(true))
	btn := h.Element().(*surface.Node).Nodes()[1]
	f.doc.Dispatch(btn, &surface.Event{Kind: surface.Click})

	h = f.mgr.Open(toast.WithDuration(0))
	el := h.Element()
	f.doc.Dispatch(el, &surface.Event{Kind: surface.PointerDown, PageX: 0})
	f.doc.Dispatch(el, &surface.Event{Kind: surface.PointerMove, PageX: 250})
	f.doc.Dispatch(el, &surface.Event{Kind: surface.PointerUp, PageX: 250})
	f.sched.Advance(gesture.GraceInterval)

	for _, reason := range toast.Reasons() {
		assert.Equal(t, 1.0, counterValue(t, f.c.closed.WithLabelValues("bottom-center", reason.String())), reason)
	}
	assert.Equal(t, 0.0, gaugeValue(t, f.c.active))
	assert.Equal(t, uint64(5), histogramCount(t, f.c.lifetime))
	assert.Equal(t, 1.0, counterValue(t, f.c.swipes.WithLabelValues("horizontal", "committed")))
}

func TestCollector_CancelledSwipe(t *testing.T) {
	f := newFixture()
	h := f.mgr.Open()
	el := h.Element()
	f.doc.Dispatch(el, &surface.Event{Kind: surface.PointerDown, PageY: 0})
	f.doc.Dispatch(el, &surface.Event{Kind: surface.PointerMove, PageY: 90})
	f.doc.Dispatch(el, &surface.Event{Kind: surface.PointerUp, PageY: 90})

	assert.Equal(t, 1.0, counterValue(t, f.c.swipes.WithLabelValues("vertical", "cancelled")))
}

func TestCollector_Gather(t *testing.T) {
	f := newFixture()
	f.mgr.Open()

	families, err := f.reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "swipetoast_toasts_opened_total")
	assert.Contains(t, names, "swipetoast_toasts_active")
}

func TestWithNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithNamespace("demo"), WithBuckets([]float64{1}))
	c.active.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "demo_toasts_active")
	assert.Contains(t, names, "demo_toast_lifetime_seconds")
}

func TestCollector_SeriesStartAtZero(t *testing.T) {
	f := newFixture()

	families, err := f.reg.Gather()
	require.NoError(t, err)

	counts := map[string]int{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			counts[mf.GetName()]++
			assert.Zero(t, m.GetCounter().GetValue())
		}
	}
	positions := len(config.ValidPositions())
	assert.Equal(t, positions, counts["swipetoast_toasts_opened_total"])
	assert.Equal(t, positions*len(toast.Reasons()), counts["swipetoast_toasts_closed_total"])
}
