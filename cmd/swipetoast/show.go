package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/toast"
	"github.com/jmylchreest/swipetoast/internal/tui"
)

// showFlags mirrors config.Toast. Only flags given on the command line
// override the configured defaults.
type showFlags struct {
	category       string
	duration       string
	swipe          bool
	position       string
	rtl            bool
	closeButton    bool
	progressBar    bool
	className      string
	offset         int
	swipeThreshold float64
}

var showOpts showFlags

var showCmd = &cobra.Command{
	Use:   "show MESSAGE",
	Short: "Show a single toast and exit when it closes",
	Long: `Show one toast in the terminal and exit once it closes, whether it
expired, was clicked, or was swiped away.

Flags override the [toast] defaults from the config file.

Examples:
  swipetoast show "Build finished" --category success
  swipetoast show "Disk almost full" --position top-right --duration 0 --close-button`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	f := showCmd.Flags()
	f.StringVar(&showOpts.category, "category", "", "Style category, added as a class")
	f.StringVar(&showOpts.duration, "duration", "", `Auto-dismiss delay ("4s", "1500ms", milliseconds; 0 = never)`)
	f.BoolVar(&showOpts.swipe, "swipe", true, "Allow swipe to dismiss")
	f.StringVar(&showOpts.position, "position", "", "One of: "+positionList())
	f.BoolVar(&showOpts.rtl, "rtl", false, "Right-to-left layout")
	f.BoolVar(&showOpts.closeButton, "close-button", false, "Show the close button")
	f.BoolVar(&showOpts.progressBar, "progress-bar", false, "Show the progress bar")
	f.StringVar(&showOpts.className, "class-name", "", "Extra class on the toast")
	f.IntVar(&showOpts.offset, "offset", 0, "Distance from the screen edge in pixels")
	f.Float64Var(&showOpts.swipeThreshold, "swipe-threshold", 0, "Fraction of the toast width a swipe must travel")
}

func runShow(cmd *cobra.Command, args []string) error {
	t := getConfig().Toast
	if err := showOpts.apply(&t, cmd.Flags().Changed); err != nil {
		return err
	}
	t.Message = args[0]

	log, closeLog, err := uiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	var closed *toast.Handle
	app := tui.NewApp(tui.RunOptions{
		Config: getConfig(),
		Logger: log,
		Show: []toast.Option{
			toast.WithConfig(t),
			toast.WithOnClose(func(h *toast.Handle) { closed = h }),
		},
		ExitOnClose: true,
	})
	if err := app.Run(); err != nil {
		return err
	}

	if closed != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", closed.Reason())
	}
	return nil
}

// apply copies the flags that changed onto t.
func (o *showFlags) apply(t *config.Toast, changed func(name string) bool) error {
	if changed("category") {
		t.Category = o.category
	}
	if changed("duration") {
		var d config.Duration
		if err := d.UnmarshalText([]byte(o.duration)); err != nil {
			return fmt.Errorf("invalid --duration: %w", err)
		}
		t.Duration = d
	}
	if changed("swipe") {
		t.Swipeable = o.swipe
	}
	if changed("position") {
		pos, ok := config.ParsePosition(o.position)
		if !ok {
			return fmt.Errorf("invalid --position %q (valid: %s)", o.position, positionList())
		}
		t.Position = pos
	}
	if changed("rtl") {
		t.RTL = o.rtl
	}
	if changed("close-button") {
		t.CloseButton = o.closeButton
	}
	if changed("progress-bar") {
		t.ProgressBar = o.progressBar
	}
	if changed("class-name") {
		t.ClassName = o.className
	}
	if changed("offset") {
		t.Offset = o.offset
	}
	if changed("swipe-threshold") {
		t.SwipeThreshold = o.swipeThreshold
	}
	return nil
}

func positionList() string {
	names := make([]string, 0, 9)
	for _, p := range config.ValidPositions() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
