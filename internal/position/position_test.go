package position

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/surface"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestCompute_BaseStyle(t *testing.T) {
	for _, pos := range config.ValidPositions() {
		t.Run(string(pos), func(t *testing.T) {
			s := Compute(pos, 24)
			assert.Equal(t, "fixed", s["position"])
			assert.Equal(t, "9999", s["z-index"])
			assert.Equal(t, "none", s["pointer-events"])
			assert.Equal(t, "border-box", s["box-sizing"])
			assert.Equal(t, "360px", s["max-width"])
			if pos == config.PositionCenter {
				assert.Equal(t, "auto", s["width"])
			} else {
				assert.Equal(t, "100%", s["width"])
			}
		})
	}
}

func TestCompute_Placement(t *testing.T) {
	tests := []struct {
		pos      config.Position
		expected map[string]string
	}{
		{config.PositionTopLeft, map[string]string{"top": "24px", "left": "24px", "padding": "0"}},
		{config.PositionTopCenter, map[string]string{"top": "24px", "left": "50%", "transform": "translateX(-50%)", "padding": "0 16px"}},
		{config.PositionTopRight, map[string]string{"top": "24px", "right": "24px", "padding": "0"}},
		{config.PositionCenterLeft, map[string]string{"top": "50%", "left": "24px", "transform": "translateY(-50%)", "padding": "0 16px"}},
		{config.PositionCenter, map[string]string{"top": "50%", "left": "50%", "transform": "translate(-50%, -50%)", "padding": "0 16px"}},
		{config.PositionCenterRight, map[string]string{"top": "50%", "right": "24px", "transform": "translateY(-50%)", "padding": "0 16px"}},
		{config.PositionBottomLeft, map[string]string{"bottom": "24px", "left": "24px", "padding": "0"}},
		{config.PositionBottomCenter, map[string]string{"bottom": "24px", "left": "50%", "transform": "translateX(-50%)", "padding": "0 16px"}},
		{config.PositionBottomRight, map[string]string{"bottom": "24px", "right": "24px", "padding": "0"}},
	}

	anchors := []string{"top", "bottom", "left", "right", "transform"}

	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			s := Compute(tt.pos, 24)
			for k, v := range tt.expected {
				assert.Equal(t, v, s[k], "property %s", k)
			}
			// Anchors not listed must be absent
			for _, k := range anchors {
				if _, want := tt.expected[k]; !want {
					_, has := s[k]
					assert.False(t, has, "unexpected property %s", k)
				}
			}
		})
	}
}

func TestCompute_Offset(t *testing.T) {
	s := Compute(config.PositionBottomRight, 0)
	assert.Equal(t, "0px", s["bottom"])
	assert.Equal(t, "0px", s["right"])

	s = Compute(config.PositionTopLeft, -8)
	assert.Equal(t, "-8px", s["top"])
}

func TestStyle_String(t *testing.T) {
	s := Style{"top": "1px", "left": "2px"}
	assert.Equal(t, "left: 2px; top: 1px;", s.String())
}

func TestRegistry_GetOrCreateIsIdempotentPerPosition(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRegistry(doc, quietLogger())

	seen := make(map[*Container]config.Position)
	for _, pos := range config.ValidPositions() {
		c := r.GetOrCreate(pos, 24)
		require.NotNil(t, c)
		assert.Same(t, c, r.GetOrCreate(pos, 24))
		assert.Same(t, c, r.GetOrCreate(pos, 99), "offset must not create a second container")

		_, dup := seen[c]
		assert.False(t, dup, "container for %s reused from another position", pos)
		seen[c] = pos
	}

	assert.Equal(t, 9, r.Len())
	assert.Len(t, doc.Body().Nodes(), 9)
	assert.Equal(t, config.ValidPositions(), r.Positions())
}

func TestRegistry_ContainerElement(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRegistry(doc, quietLogger())

	c := r.GetOrCreate(config.PositionTopRight, 10)
	assert.True(t, c.Element.HasClass("swipetoast-container"))
	assert.True(t, c.Element.HasClass("swipetoast-top-right"))
	assert.Equal(t, "10px", c.Element.Style("top"))
	assert.Equal(t, "10px", c.Element.Style("right"))
	assert.Equal(t, doc.Root(), c.Element.Parent())
	assert.Equal(t, 10, c.Offset())
	assert.Equal(t, Compute(config.PositionTopRight, 10), c.Style())
}

func TestRegistry_RecomputeMissingIsNoop(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRegistry(doc, quietLogger())

	r.Recompute(config.PositionTopLeft)
	r.Retarget(config.PositionTopLeft, 50)

	_, ok := r.Lookup(config.PositionTopLeft)
	assert.False(t, ok)
	assert.Zero(t, r.Len())
	assert.Empty(t, doc.Body().Nodes())
}

func TestRegistry_RecomputeRestoresPlacement(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRegistry(doc, quietLogger())
	c := r.GetOrCreate(config.PositionBottomLeft, 24)

	// Something else clobbered the inline style
	c.Element.SetStyle("bottom", "")
	r.Recompute(config.PositionBottomLeft)
	assert.Equal(t, "24px", c.Element.Style("bottom"))
}

func TestRegistry_Retarget(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRegistry(doc, quietLogger())
	c := r.GetOrCreate(config.PositionBottomLeft, 24)

	r.Retarget(config.PositionBottomLeft, 8)
	assert.Equal(t, 8, c.Offset())
	assert.Equal(t, "8px", c.Element.Style("bottom"))
	assert.Equal(t, "8px", c.Element.Style("left"))
}
