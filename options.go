package gpiopress

import (
	"errors"
	"log/slog"
	"time"
)

// ctrlConfig holds mutable state during controller construction.
type ctrlConfig struct {
	driver       Driver
	pollInterval time.Duration
	logger       *slog.Logger
	buttons      []buttonSpec
}

// buttonSpec is a button declared at construction time via [WithButton].
type buttonSpec struct {
	pin   int
	input InputType
	pull  Pull
	opts  []ButtonOption
}

// Option is a function that configures a [Controller] instance during
// construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithDriver], [WithButton], [WithPollInterval],
// [WithLogger].
type Option func(*ctrlConfig) error

// WithDriver sets the GPIO driver the controller reads pins through.
//
// A driver is required; [New] fails without one. The library ships three
// implementations (driver/gpiocdev, driver/rpio, driver/sim) and any type
// satisfying [Driver] can be used.
//
// Example:
//
//	drv, err := gpiocdev.New("gpiochip0")
//	ctrl, err := gpiopress.New(gpiopress.WithDriver(drv))
//
// Returns an error if the driver is nil.
func WithDriver(d Driver) Option {
	return func(cfg *ctrlConfig) error {
		if d == nil {
			return errors.New("driver cannot be nil")
		}
		cfg.driver = d
		return nil
	}
}

// WithButton declares a button at construction time, as an alternative
// to calling [Controller.NewButton] afterwards. Buttons are registered
// in option order; [New] fails if any registration fails, for example
// on a duplicate pin.
//
// Example:
//
//	ctrl, err := gpiopress.New(
//	    gpiopress.WithDriver(drv),
//	    gpiopress.WithButton(17, gpiopress.ActiveLow, gpiopress.PullUp,
//	        gpiopress.WithName("red")),
//	)
func WithButton(pin int, input InputType, pull Pull, opts ...ButtonOption) Option {
	return func(cfg *ctrlConfig) error {
		cfg.buttons = append(cfg.buttons, buttonSpec{pin: pin, input: input, pull: pull, opts: opts})
		return nil
	}
}

// WithPollInterval sets how often all button pins are sampled.
//
// The interval bounds event latency and timing resolution: debounce,
// double-click and long-press thresholds are evaluated at this
// granularity. Defaults to 5ms, which is ample for the default 500ms
// windows while keeping CPU use negligible.
//
// Example:
//
//	ctrl, err := gpiopress.New(
//	    gpiopress.WithDriver(drv),
//	    gpiopress.WithPollInterval(2 * time.Millisecond),
//	)
//
// Returns an error if the duration is zero or negative.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *ctrlConfig) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		cfg.pollInterval = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the controller.
//
// This allows SDK consumers to control where logs are written and in
// what format. If not specified, [slog.Default] is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	ctrl, err := gpiopress.New(
//	    gpiopress.WithDriver(drv),
//	    gpiopress.WithLogger(logger),
//	)
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *ctrlConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}
