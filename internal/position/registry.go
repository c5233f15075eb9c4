package position

import (
	"log/slog"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/surface"
)

// Container is the shared wrapper holding every toast at one position.
type Container struct {
	Position config.Position
	Element  surface.Element

	offset int
	style  Style
}

// Offset returns the edge offset the container was last placed with.
func (c *Container) Offset() int {
	return c.offset
}

// Style returns the placement style last applied to the container.
func (c *Container) Style() Style {
	return c.style
}

// apply computes the placement for the current offset and writes it to the element.
func (c *Container) apply() {
	c.style = Compute(c.Position, c.offset)
	for _, k := range c.style.Keys() {
		c.Element.SetStyle(k, c.style[k])
	}
}

// Registry maps positions to their containers. Containers are created on
// first use and live as long as the surface; the registry is never cleared.
// It must only be used from the UI goroutine.
type Registry struct {
	surface    surface.Surface
	logger     *slog.Logger
	containers map[config.Position]*Container
}

// NewRegistry creates an empty registry for the given surface.
func NewRegistry(s surface.Surface, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		surface:    s,
		logger:     logger,
		containers: make(map[config.Position]*Container),
	}
}

// GetOrCreate returns the container for pos, creating, placing and attaching
// it to the surface root if it does not exist yet. offset is only used when
// the container is created.
func (r *Registry) GetOrCreate(pos config.Position, offset int) *Container {
	if c, ok := r.containers[pos]; ok {
		return c
	}

	el := r.surface.CreateElement("div")
	el.AddClass("swipetoast-container", "swipetoast-"+string(pos))

	c := &Container{
		Position: pos,
		Element:  el,
		offset:   offset,
	}
	c.apply()

	r.containers[pos] = c
	r.surface.Root().Append(el)

	r.logger.Debug("created toast container", "position", string(pos), "offset", offset)
	return c
}

// Lookup returns the container for pos without creating it.
func (r *Registry) Lookup(pos config.Position) (*Container, bool) {
	c, ok := r.containers[pos]
	return c, ok
}

// Recompute reapplies the placement of the container at pos. It is a no-op
// if no container exists there.
func (r *Registry) Recompute(pos config.Position) {
	c, ok := r.Lookup(pos)
	if !ok {
		return
	}
	c.apply()
}

// Retarget stores a new edge offset for the container at pos and reapplies
// its placement. It is a no-op if no container exists there.
func (r *Registry) Retarget(pos config.Position, offset int) {
	c, ok := r.Lookup(pos)
	if !ok {
		return
	}
	c.offset = offset
	c.apply()
}

// Positions returns the positions that have a container, in screen order.
func (r *Registry) Positions() []config.Position {
	var out []config.Position
	for _, p := range config.ValidPositions() {
		if _, ok := r.containers[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of containers.
func (r *Registry) Len() int {
	return len(r.containers)
}
