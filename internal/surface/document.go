package surface

import (
	"slices"
	"sort"
	"strings"
)

// DefaultWidth is the width reported by nodes that have no explicit width
// and no measure function.
const DefaultWidth = 300

// Document is an in-memory Surface. It is not safe for concurrent use; like
// a browser document it belongs to the UI goroutine.
type Document struct {
	root    *Node
	resize  map[string]func()
	flushes int

	// Measure, if set, computes the rendered width of nodes without an
	// explicit width.
	Measure func(*Node) float64
}

// NewDocument creates an empty document with a "body" root.
func NewDocument() *Document {
	d := &Document{resize: make(map[string]func())}
	d.root = d.newNode("body")
	return d
}

// Root returns the document body.
func (d *Document) Root() Element {
	return d.root
}

// Body returns the document body as a *Node.
func (d *Document) Body() *Node {
	return d.root
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) Element {
	return d.newNode(tag)
}

func (d *Document) newNode(tag string) *Node {
	return &Node{
		doc:      d,
		tag:      tag,
		styles:   make(map[string]string),
		handlers: make(map[EventKind][]Handler),
	}
}

// Flush records a forced layout pass.
func (d *Document) Flush(el Element) {
	d.flushes++
}

// Flushes returns the number of forced layout passes.
func (d *Document) Flushes() int {
	return d.flushes
}

// BindResize installs fn under slot, replacing the previous handler.
func (d *Document) BindResize(slot string, fn func()) {
	d.resize[slot] = fn
}

// UnbindResize removes the handler bound to slot.
func (d *Document) UnbindResize(slot string) {
	delete(d.resize, slot)
}

// ResizeBindings returns the number of bound resize handlers.
func (d *Document) ResizeBindings() int {
	return len(d.resize)
}

// Resize delivers a viewport resize to every bound handler in slot order.
func (d *Document) Resize() {
	slots := make([]string, 0, len(d.resize))
	for slot := range d.resize {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	for _, slot := range slots {
		if fn, ok := d.resize[slot]; ok {
			fn()
		}
	}
}

// Dispatch delivers ev to target and then to each ancestor until a handler
// stops propagation. It returns ev for inspection.
func (d *Document) Dispatch(target Element, ev *Event) *Event {
	ev.Target = target
	n, ok := target.(*Node)
	for ok && n != nil {
		for _, h := range slices.Clone(n.handlers[ev.Kind]) {
			h(ev)
		}
		if ev.propagationStopped {
			break
		}
		n = n.parent
	}
	return ev
}

// Find returns the first node in document order (depth first, starting at
// the root) that has class name, or nil.
func (d *Document) Find(class string) *Node {
	var found *Node
	d.root.Walk(func(n *Node) bool {
		if n.HasClass(class) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every attached node that has class name, in document order.
func (d *Document) FindAll(class string) []*Node {
	var nodes []*Node
	d.root.Walk(func(n *Node) bool {
		if n.HasClass(class) {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}

// Node is an element of a Document.
type Node struct {
	doc      *Document
	tag      string
	classes  []string
	text     string
	styles   map[string]string
	parent   *Node
	children []*Node
	handlers map[EventKind][]Handler
	width    float64
}

func (n *Node) Tag() string { return n.tag }

func (n *Node) AddClass(names ...string) {
	for _, name := range names {
		for _, c := range strings.Fields(name) {
			if !slices.Contains(n.classes, c) {
				n.classes = append(n.classes, c)
			}
		}
	}
}

func (n *Node) RemoveClass(names ...string) {
	for _, name := range names {
		for _, c := range strings.Fields(name) {
			n.classes = slices.DeleteFunc(n.classes, func(s string) bool { return s == c })
		}
	}
}

func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.classes, name)
}

func (n *Node) Classes() []string {
	return slices.Clone(n.classes)
}

func (n *Node) SetText(text string) { n.text = text }

func (n *Node) Text() string { return n.text }

func (n *Node) SetStyle(prop, value string) {
	if value == "" {
		delete(n.styles, prop)
		return
	}
	n.styles[prop] = value
}

func (n *Node) Style(prop string) string {
	return n.styles[prop]
}

// Styles returns a copy of the inline styles.
func (n *Node) Styles() map[string]string {
	out := make(map[string]string, len(n.styles))
	for k, v := range n.styles {
		out[k] = v
	}
	return out
}

// Append attaches child as the last child, detaching it from any previous
// parent first. Elements from other surfaces are ignored.
func (n *Node) Append(child Element) {
	c, ok := child.(*Node)
	if !ok || c == nil {
		return
	}
	c.Remove()
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) Remove() {
	if n.parent == nil {
		return
	}
	p := n.parent
	p.children = slices.DeleteFunc(p.children, func(c *Node) bool { return c == n })
	n.parent = nil
}

func (n *Node) Parent() Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []Element {
	out := make([]Element, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Nodes returns the child nodes.
func (n *Node) Nodes() []*Node {
	return slices.Clone(n.children)
}

// SetWidth fixes the rendered width reported by Width.
func (n *Node) SetWidth(w float64) {
	n.width = w
}

func (n *Node) Width() float64 {
	if n.width > 0 {
		return n.width
	}
	if n.doc != nil && n.doc.Measure != nil {
		return n.doc.Measure(n)
	}
	return DefaultWidth
}

func (n *Node) On(kind EventKind, h Handler) {
	n.handlers[kind] = append(n.handlers[kind], h)
}

// Attached reports whether the node is reachable from the document root.
func (n *Node) Attached() bool {
	for p := n; p != nil; p = p.parent {
		if p.doc != nil && p == p.doc.root {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth first. Returning false from fn
// stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
