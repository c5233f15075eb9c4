package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/dbus"
	"github.com/jmylchreest/swipetoast/internal/metrics"
	"github.com/jmylchreest/swipetoast/internal/toast"
	"github.com/jmylchreest/swipetoast/internal/tui"
)

var demoOpts struct {
	dbus        bool
	monitor     bool
	metricsAddr string
	noWatch     bool
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Launch the interactive toast demo",
	Long: `Launch a full-screen terminal surface that hosts toasts.

Key bindings:
  1-9         Open a toast (1 top-left ... 9 bottom-right)
  b           Toggle the close button for new toasts
  p           Toggle the progress bar for new toasts
  r           Toggle right-to-left layout for new toasts
  c           Close all toasts
  ?           Show help
  q           Quit

Drag a toast sideways past half its width to dismiss it, or click it.

With --dbus, swipetoast serves org.freedesktop.Notifications on the session
bus and shows every notification as a toast; another notification daemon
must not be running. With --dbus-monitor it mirrors the notifications sent to
the running daemon instead.

The config file is watched and new toast defaults apply without a restart.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().BoolVar(&demoOpts.dbus, "dbus", false,
		"Serve org.freedesktop.Notifications and show notifications as toasts")
	demoCmd.Flags().BoolVar(&demoOpts.monitor, "dbus-monitor", false,
		"Mirror notifications sent to the running notification daemon")
	demoCmd.Flags().StringVar(&demoOpts.metricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address (e.g. :9090)")
	demoCmd.Flags().BoolVar(&demoOpts.noWatch, "no-watch", false,
		"Do not reload the config file when it changes")
}

func runDemo(cmd *cobra.Command, args []string) error {
	c := getConfig()
	log, closeLog, err := uiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var observers []toast.Observer
	metricsAddr := demoOpts.metricsAddr
	if metricsAddr == "" {
		metricsAddr = c.Demo.MetricsAddr
	}
	if metricsAddr != "" {
		registry := prometheus.NewRegistry()
		observers = append(observers, metrics.New(metricsOptions(c.Demo, registry)...))
		go func() {
			if err := metrics.Serve(ctx, metricsAddr, registry, log); err != nil {
				log.Error("metrics server stopped", "error", err)
			}
		}()
	}

	app := tui.NewApp(tui.RunOptions{
		Config:    c,
		Logger:    log,
		Observers: observers,
	})

	stop, err := startNotifications(app, c, log)
	if err != nil {
		return err
	}
	defer stop()

	if !demoOpts.noWatch {
		stopWatch := watchConfig(app, log)
		defer stopWatch()
	}

	return app.Run()
}

// startNotifications connects the bus side of the demo, if enabled.
func startNotifications(app *tui.App, c *config.Config, log *slog.Logger) (func(), error) {
	switch {
	case demoOpts.monitor:
		bridge := dbus.NewBridge(app.Manager(), log)
		monitor := dbus.NewMonitor(log)
		bridge.AttachMonitor(monitor)
		if err := monitor.Start(); err != nil {
			return nil, fmt.Errorf("failed to start D-Bus monitor: %w", err)
		}
		return func() { _ = monitor.Stop() }, nil

	case demoOpts.dbus || c.Demo.DBus:
		bridge := dbus.NewBridge(app.Manager(), log)
		server := dbus.NewNotificationServer(log)
		server.SetServerInfo(serverInfo())
		bridge.AttachServer(server)
		if err := server.Start(); err != nil {
			return nil, fmt.Errorf("failed to start D-Bus server: %w", err)
		}
		return func() { _ = server.Stop() }, nil
	}
	return func() {}, nil
}

// watchConfig applies new toast defaults whenever the config file changes.
// A failure to watch is logged and the demo runs without hot reload.
func watchConfig(app *tui.App, log *slog.Logger) func() {
	w, err := config.NewWatcher(globalOpts.configPath, log)
	if err != nil {
		log.Warn("config hot reload disabled", "error", err)
		return func() {}
	}
	w.SetChangeCallback(func(c *config.Config) {
		// The watcher goroutine must not touch the manager
		app.Scheduler().Post(func() {
			app.Manager().SetDefaults(c.Toast)
		})
	})
	if err := w.Start(); err != nil {
		log.Warn("config hot reload disabled", "error", err)
		_ = w.Stop()
		return func() {}
	}
	return func() { _ = w.Stop() }
}

// metricsOptions builds collector options from the demo config.
func metricsOptions(d config.DemoConfig, registry prometheus.Registerer) []metrics.Option {
	opts := []metrics.Option{metrics.WithRegistry(registry)}
	if d.MetricsNamespace != "" {
		opts = append(opts, metrics.WithNamespace(d.MetricsNamespace))
	}
	if len(d.MetricsBuckets) > 0 {
		opts = append(opts, metrics.WithBuckets(d.MetricsBuckets))
	}
	return opts
}

// serverInfo reports the binary's build version over the bus.
func serverInfo() dbus.ServerInfo {
	info := dbus.DefaultServerInfo()
	if version != "dev" {
		info.Version = version
	}
	return info
}
