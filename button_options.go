package gpiopress

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultDebounce          = 20 * time.Millisecond
	defaultDoubleClickWindow = 500 * time.Millisecond
	defaultLongPressTimeout  = 500 * time.Millisecond
)

// buttonConfig holds mutable state during button construction.
type buttonConfig struct {
	name     string
	debounce time.Duration
	window   time.Duration
	longWait time.Duration
}

// ButtonOption is a function that configures a [Button] during
// construction.
//
// ButtonOption implements the functional options pattern, allowing
// optional configuration to be passed to [Controller.NewButton] in a
// type-safe, extensible way. Options return an error if validation fails.
//
// Built-in options: [WithName], [WithDebounce], [WithDoubleClickWindow],
// [WithLongPressTimeout].
type ButtonOption func(*buttonConfig) error

// WithName sets the button's informational name, used for logging and
// event identification. Defaults to "button-<pin>".
//
// Example:
//
//	btn, err := ctrl.NewButton(17, gpiopress.ActiveLow, gpiopress.PullUp,
//	    gpiopress.WithName("red"),
//	)
func WithName(name string) ButtonOption {
	return func(cfg *buttonConfig) error {
		if name == "" {
			return errors.New("button name cannot be empty")
		}
		cfg.name = name
		return nil
	}
}

// WithDebounce sets how long a raw level change must hold before a press
// or release is declared. Transitions shorter than this are treated as
// switch bounce and emit nothing. Defaults to 20ms.
//
// The appropriate value depends on the physical switch; cheap tactile
// switches may need 50ms or more.
//
// Returns an error if the duration is negative.
func WithDebounce(d time.Duration) ButtonOption {
	return func(cfg *buttonConfig) error {
		if d < 0 {
			return errors.New("debounce cannot be negative")
		}
		cfg.debounce = d
		return nil
	}
}

// WithDoubleClickWindow sets the period that defines the double click
// speed. For a double click to be detected, the first press and the
// second release must both fall within this window. Defaults to 500ms.
//
// The window also delays single clicks: since no click is raised when a
// double click occurs, a click is only reported once the window has
// expired after the press.
//
// Returns an error if the duration is zero or negative.
func WithDoubleClickWindow(d time.Duration) ButtonOption {
	return func(cfg *buttonConfig) error {
		if d <= 0 {
			return errors.New("double-click window must be positive")
		}
		cfg.window = d
		return nil
	}
}

// WithLongPressTimeout sets how long the button must stay pressed for a
// [LongPress] to be raised. Defaults to 500ms.
//
// Returns an error if the duration is zero or negative.
func WithLongPressTimeout(d time.Duration) ButtonOption {
	return func(cfg *buttonConfig) error {
		if d <= 0 {
			return errors.New("long-press timeout must be positive")
		}
		cfg.longWait = d
		return nil
	}
}

// validInput reports whether t is one of the defined input types.
func validInput(t InputType) bool {
	return t == ActiveHigh || t == ActiveLow
}

// validPull reports whether p is one of the defined pull configurations.
func validPull(p Pull) bool {
	return p == PullNone || p == PullUp || p == PullDown
}

// newButtonConfig applies opts over the defaults for a pin.
func newButtonConfig(pin int, opts []ButtonOption) (*buttonConfig, error) {
	cfg := &buttonConfig{
		name:     fmt.Sprintf("button-%d", pin),
		debounce: defaultDebounce,
		window:   defaultDoubleClickWindow,
		longWait: defaultLongPressTimeout,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.debounce >= cfg.window {
		return nil, fmt.Errorf("debounce (%s) must be shorter than the double-click window (%s)",
			cfg.debounce, cfg.window)
	}
	return cfg, nil
}
