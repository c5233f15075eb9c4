package tui

import (
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/loop"
	"github.com/jmylchreest/swipetoast/internal/toast"
)

// eventLogSize is the number of events shown behind the toasts.
const eventLogSize = 8

// RunOptions configures the terminal app.
type RunOptions struct {
	Config *config.Config
	Logger *slog.Logger

	// Show and ExitOnClose are passed to the model.
	Show        []toast.Option
	ExitOnClose bool

	// Observers receive toast lifecycle events next to the event log.
	Observers []toast.Observer

	// Input and Output override the terminal, for tests.
	Input  io.Reader
	Output io.Writer
}

// App hosts a toast manager in a full-screen terminal program.
type App struct {
	program *tea.Program
	model   *Model
	manager *toast.Manager
	sched   *loop.Dispatcher
}

// NewApp builds the program. Timers fire on the program's goroutine.
func NewApp(opts RunOptions) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{}
	a.sched = loop.NewOrderedDispatcher(func(drain func()) {
		a.program.Send(callMsg(drain))
	})

	screen := NewScreen()
	a.manager = toast.NewManager(screen, a.sched, logger)
	a.manager.SetDefaults(cfg.Toast)

	events := NewEventLog(eventLogSize)
	a.manager.SetObserver(append(toast.Observers{events}, opts.Observers...))

	a.model = NewModel(screen, a.manager, events, Options{
		Messages:    cfg.Demo.Messages,
		Show:        opts.Show,
		ExitOnClose: opts.ExitOnClose,
	})

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	a.program = tea.NewProgram(a.model, progOpts...)
	return a
}

// Manager returns the toast manager. Call it only from the UI goroutine,
// e.g. inside a function passed to Scheduler().Post.
func (a *App) Manager() *toast.Manager {
	return a.manager
}

// Scheduler returns the scheduler that runs work on the UI goroutine.
func (a *App) Scheduler() loop.Scheduler {
	return a.sched
}

// Run runs the program until the user quits. Toasts still open are closed.
func (a *App) Run() error {
	_, err := a.program.Run()
	a.manager.Stop()
	if err != nil {
		return &SurfaceError{Message: "terminal program failed", Cause: err}
	}
	return nil
}

// Quit asks the program to exit. Safe from any goroutine.
func (a *App) Quit() {
	a.program.Quit()
}

// SurfaceError represents a terminal surface error.
type SurfaceError struct {
	Message string
	Cause   error
}

func (e *SurfaceError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *SurfaceError) Unwrap() error {
	return e.Cause
}
