package viewport

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/loop"
	"github.com/jmylchreest/swipetoast/internal/position"
	"github.com/jmylchreest/swipetoast/internal/surface"
)

type fixture struct {
	doc      *surface.Document
	registry *position.Registry
	sched    *loop.Manual
	watcher  *Watcher
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	doc := surface.NewDocument()
	reg := position.NewRegistry(doc, logger)
	sched := loop.NewManual()
	return &fixture{
		doc:      doc,
		registry: reg,
		sched:    sched,
		watcher:  NewWatcher(doc, reg, sched, logger),
	}
}

func TestWatcher_WatchRetargetsImmediately(t *testing.T) {
	f := newFixture()
	c := f.registry.GetOrCreate(config.PositionTopLeft, 24)

	f.watcher.Watch(config.PositionTopLeft, 40)
	assert.Equal(t, 40, c.Offset())
	assert.Equal(t, "40px", c.Element.Style("top"))
	assert.Equal(t, config.PositionTopLeft, f.watcher.Position())
}

func TestWatcher_DebouncesResizeBurst(t *testing.T) {
	f := newFixture()
	c := f.registry.GetOrCreate(config.PositionBottomRight, 24)
	f.watcher.Watch(config.PositionBottomRight, 24)

	c.Element.SetStyle("bottom", "")

	// A burst of resizes 50ms apart never leaves a 100ms quiet window
	for i := 0; i < 5; i++ {
		f.doc.Resize()
		f.sched.Advance(50 * time.Millisecond)
		assert.Empty(t, c.Element.Style("bottom"), "recomputed during burst at step %d", i)
	}
	assert.Equal(t, 1, f.sched.Pending())

	f.sched.Advance(50 * time.Millisecond)
	assert.Equal(t, "24px", c.Element.Style("bottom"))
	assert.Zero(t, f.sched.Pending())
}

func TestWatcher_SlotDoesNotAccumulate(t *testing.T) {
	f := newFixture()
	for i := 0; i < 50; i++ {
		pos := config.ValidPositions()[i%9]
		f.registry.GetOrCreate(pos, 24)
		f.watcher.Watch(pos, 24)
	}
	assert.Equal(t, 1, f.doc.ResizeBindings())
}

func TestWatcher_TracksMostRecentPosition(t *testing.T) {
	f := newFixture()
	first := f.registry.GetOrCreate(config.PositionTopLeft, 24)
	second := f.registry.GetOrCreate(config.PositionTopRight, 24)

	f.watcher.Watch(config.PositionTopLeft, 24)
	f.doc.Resize()
	f.watcher.Watch(config.PositionTopRight, 24)

	first.Element.SetStyle("top", "")
	second.Element.SetStyle("top", "")
	f.doc.Resize()
	f.sched.Advance(time.Second)

	assert.Empty(t, first.Element.Style("top"), "watch must cancel the earlier pending recompute")
	assert.Equal(t, "24px", second.Element.Style("top"))
}

func TestWatcher_MissingContainerIsNoop(t *testing.T) {
	f := newFixture()
	f.watcher.Watch(config.PositionCenter, 24)
	f.doc.Resize()
	f.sched.Advance(time.Second)

	_, ok := f.registry.Lookup(config.PositionCenter)
	assert.False(t, ok)
}

func TestWatcher_Stop(t *testing.T) {
	f := newFixture()
	c := f.registry.GetOrCreate(config.PositionCenter, 24)
	f.watcher.Watch(config.PositionCenter, 24)
	f.doc.Resize()
	require.Equal(t, 1, f.sched.Pending())

	f.watcher.Stop()
	assert.Zero(t, f.doc.ResizeBindings())
	assert.Zero(t, f.sched.Pending())

	c.Element.SetStyle("top", "")
	f.doc.Resize()
	f.sched.Advance(time.Second)
	assert.Empty(t, c.Element.Style("top"))

	f.watcher.Stop()
}
