package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/cmaslen/gpiopress"
	"github.com/cmaslen/gpiopress/config"
	"github.com/cmaslen/gpiopress/driver/gpiocdev"
	"github.com/cmaslen/gpiopress/driver/rpio"
	"github.com/cmaslen/gpiopress/driver/sim"
)

// errReload signals that the config file changed and the controller
// should be rebuilt.
var errReload = errors.New("config changed")

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// watchCmd runs the button controller.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the controller and log button events",
	Long: `Run the button controller.

The controller will:
  - Load configuration from the specified YAML file
  - Configure all buttons on the selected driver
  - Log every button event as JSON to stderr

The controller runs until interrupted (Ctrl+C) or SIGTERM. When the
config file changes on disk the controller is rebuilt with the new
configuration.

Example:
  gpiopress watch -c buttons.yaml
  gpiopress watch --config /etc/gpiopress/buttons.yaml`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = watchCmd.MarkFlagRequired("config")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	configFile, _ := cmd.Flags().GetString("config")

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		err := watchOnce(ctx, logger, configFile)
		if errors.Is(err, errReload) {
			logger.Info("config changed, restarting controller", "config", configFile)
			continue
		}
		return err
	}
}

// watchOnce builds a controller from the config file and runs it until
// the context is cancelled or the file changes.
func watchOnce(ctx context.Context, logger *slog.Logger, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	drv, err := newDriver(cfg, logger)
	if err != nil {
		return err
	}

	ctrl, err := gpiopress.New(
		gpiopress.WithDriver(drv),
		gpiopress.WithPollInterval(cfg.PollInterval.Duration()),
		gpiopress.WithLogger(logger),
	)
	if err != nil {
		_ = drv.Close()
		return fmt.Errorf("failed to create controller: %w", err)
	}

	buttons, err := config.BuildButtons(cfg, ctrl)
	if err != nil {
		_ = drv.Close()
		return fmt.Errorf("failed to build buttons: %w", err)
	}

	logger.Info("config loaded",
		"config", configFile,
		"driver", cfg.Driver,
		"buttons", len(buttons),
	)

	// log every event from the subscription channel
	events := ctrl.Subscribe()
	go func() {
		for ev := range events {
			logger.Info("button event",
				"button", ev.Button.Name(),
				"pin", ev.Button.Pin(),
				"kind", ev.Kind.String(),
				"at", ev.At,
			)
		}
	}()

	if err := ctrl.Start(ctx); err != nil {
		_ = drv.Close()
		return fmt.Errorf("failed to start controller: %w", err)
	}

	reload, cleanup, err := watchFile(configFile, logger)
	if err != nil {
		logger.Warn("config reload disabled", "error", err)
		reload = nil
		cleanup = func() {}
	}
	defer cleanup()

	select {
	case <-ctx.Done():
		if err := ctrl.Stop(); err != nil {
			return fmt.Errorf("stop controller: %w", err)
		}
		logger.Info("shutdown complete")
		return nil
	case <-reload:
		if err := ctrl.Stop(); err != nil {
			return fmt.Errorf("stop controller: %w", err)
		}
		return errReload
	}
}

// watchFile reports a change of the config file on the returned channel.
//
// The file's directory is watched rather than the file itself so that
// editors and config management tools that replace the file are still
// detected.
func watchFile(path string, logger *slog.Logger) (<-chan struct{}, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, nil, err
	}

	changed := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
					changed <- struct{}{}
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "error", err)
			}
		}
	}()

	return changed, func() { watcher.Close() }, nil
}

// newDriver builds the driver selected by the config.
func newDriver(cfg *config.Config, logger *slog.Logger) (gpiopress.Driver, error) {
	switch cfg.Driver {
	case "gpiocdev":
		return gpiocdev.New(cfg.Chip), nil
	case "rpio":
		drv, err := rpio.New()
		if err != nil {
			return nil, fmt.Errorf("failed to open rpio driver: %w", err)
		}
		return drv, nil
	case "sim":
		logger.Warn("sim driver selected, no hardware will be read")
		return sim.New(), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}
