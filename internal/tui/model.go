// Package tui renders toasts in a terminal and drives them with the mouse
// and keyboard.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/surface"
	"github.com/jmylchreest/swipetoast/internal/toast"
)

const tickInterval = 100 * time.Millisecond

// Categories cycled by toasts opened from the keyboard.
var demoCategories = []string{"info", "success", "warning", "error"}

// callMsg runs a function on the UI goroutine.
type callMsg func()

type tickMsg time.Time

type openMsg struct{}

// Options configures the model.
type Options struct {
	// Messages are cycled by the open keys.
	Messages []string
	// Show is opened as soon as the program starts.
	Show []toast.Option
	// ExitOnClose quits once the toast opened from Show has closed.
	ExitOnClose bool
}

type press struct {
	target *surface.Node
	x, y   int
}

// Model is the bubbletea model hosting the toast surface.
type Model struct {
	screen  *Screen
	manager *toast.Manager
	log     *EventLog
	opts    Options

	keys    KeyMap
	help    help.Model
	painter painter

	width  int
	height int
	ready  bool

	pressed *press
	shown   *toast.Handle
	next    int

	closeButton bool
	progressBar bool
	rtl         bool
}

// NewModel creates a model drawing manager's toasts on screen.
func NewModel(screen *Screen, manager *toast.Manager, log *EventLog, opts Options) *Model {
	if len(opts.Messages) == 0 {
		opts.Messages = config.DefaultConfig().Demo.Messages
	}
	defaults := manager.Defaults()
	return &Model{
		screen:      screen,
		manager:     manager,
		log:         log,
		opts:        opts,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		painter:     newPainter(),
		closeButton: defaults.CloseButton,
		progressBar: defaults.ProgressBar,
		rtl:         defaults.RTL,
	}
}

// Init starts the refresh tick and opens the initial toast.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if len(m.opts.Show) > 0 {
		cmds = append(cmds, func() tea.Msg { return openMsg{} })
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case callMsg:
		msg()

	case tickMsg:
		cmd = tick()

	case openMsg:
		m.shown = m.manager.Open(m.opts.Show...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
	}

	if m.opts.ExitOnClose && m.shown != nil && m.shown.Closed() {
		return m, tea.Quit
	}
	return m, cmd
}

// resize gives the screen everything above the footer.
func (m *Model) resize() {
	rows := m.height - lipgloss.Height(m.footer())
	m.screen.SetSize(m.width, max(rows, 0))
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	case key.Matches(msg, m.keys.CloseAll):
		m.manager.CloseAll()
	case key.Matches(msg, m.keys.ToggleClose):
		m.closeButton = !m.closeButton
		m.log.Add("close button %s", onOff(m.closeButton))
	case key.Matches(msg, m.keys.ToggleProgress):
		m.progressBar = !m.progressBar
		m.log.Add("progress bar %s", onOff(m.progressBar))
	case key.Matches(msg, m.keys.ToggleRTL):
		m.rtl = !m.rtl
		m.log.Add("rtl %s", onOff(m.rtl))
	default:
		positions := config.ValidPositions()
		for i, b := range m.keys.Open {
			if key.Matches(msg, b) {
				m.open(positions[i])
				return
			}
		}
	}
}

// open shows the next demo toast at pos.
func (m *Model) open(pos config.Position) *toast.Handle {
	msg := m.opts.Messages[m.next%len(m.opts.Messages)]
	category := demoCategories[m.next%len(demoCategories)]
	m.next++

	return m.manager.Open(
		toast.WithPosition(pos),
		toast.WithMessage(msg),
		toast.WithCategory(category),
		toast.WithCloseButton(m.closeButton),
		toast.WithProgressBar(m.progressBar),
		toast.WithRTL(m.rtl),
	)
}

// handleMouse turns terminal mouse reports into pointer events. Motion and
// release go to the element under the press, like a captured pointer. A
// release on the pressed cell also clicks.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		target := m.screen.HitTest(msg.X, msg.Y)
		if target == nil {
			m.pressed = nil
			return
		}
		m.pressed = &press{target: target, x: msg.X, y: msg.Y}
		m.dispatch(target, surface.PointerDown, msg)

	case tea.MouseActionMotion:
		if m.pressed == nil {
			return
		}
		m.dispatch(m.pressed.target, surface.PointerMove, msg)

	case tea.MouseActionRelease:
		p := m.pressed
		if p == nil {
			return
		}
		m.pressed = nil
		m.dispatch(p.target, surface.PointerUp, msg)
		if msg.X == p.x && msg.Y == p.y && p.target.Attached() {
			m.dispatch(p.target, surface.Click, msg)
		}
	}
}

func (m *Model) dispatch(target *surface.Node, kind surface.EventKind, msg tea.MouseMsg) {
	m.screen.Dispatch(target, &surface.Event{
		Kind:    kind,
		PageX:   float64(msg.X) * CellWidth,
		PageY:   float64(msg.Y) * CellHeight,
		Pointer: surface.PointerMouse,
	})
}

// View renders the toasts over the event log, then the footer.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	cols, rows := m.screen.Size()
	c := newCanvas(cols, rows)

	dim := c.style(lipgloss.NewStyle().Foreground(lipgloss.Color("8")))
	for i, line := range m.log.Lines() {
		c.put(0, i, runewidth.Truncate(line, cols, "…"), dim)
	}

	handles := make(map[surface.Element]*toast.Handle)
	for _, h := range m.manager.Active() {
		handles[h.Element()] = h
	}
	for _, b := range m.screen.Layout() {
		category, remaining := "", -1.0
		if h, ok := handles[b.Toast]; ok {
			opts := h.Toast().Options()
			category = opts.Category
			remaining = 1
			if d := opts.Duration.Duration(); d > 0 {
				remaining = 1 - float64(h.Toast().Lifetime())/float64(d)
			}
		}
		m.painter.paint(c, b, category, remaining)
	}

	return c.String() + "\n" + m.footer()
}

func (m *Model) footer() string {
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	status := fmt.Sprintf("swipetoast %s  %d active  %d containers  close button %s  progress %s  rtl %s",
		toast.Version, len(m.manager.Active()), len(m.manager.Registry().Positions()),
		onOff(m.closeButton), onOff(m.progressBar), onOff(m.rtl))

	m.help.Width = m.width
	return statusStyle.Render(runewidth.Truncate(status, max(m.width, 1), "…")) +
		"\n" + m.help.View(m.keys)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
