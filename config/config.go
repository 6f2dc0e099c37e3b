// Package config provides YAML configuration parsing for gpiopress.
//
// This package enables running gpiopress as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	poll_interval: 5ms
//	driver: gpiocdev
//	chip: gpiochip0
//
//	buttons:
//	  - pin: 17
//	    name: red
//	    input: active_low
//	    pull: up
//	    double_click_window: 400ms
//
//	groups:
//	  - name_template: "key-{{.pin}}"
//	    pins: [5, 6, 13]
//	    input: active_low
//	    pull: up
package config

import (
	"errors"
	"fmt"
	"os"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// minPollInterval is the minimum allowed poll interval. This prevents
// accidental CPU thrashing from an overly aggressive sampling loop.
const minPollInterval = time.Millisecond

// defaultPollInterval matches the SDK default.
const defaultPollInterval = 5 * time.Millisecond

// Config is the root configuration structure for gpiopress.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Driver selects the GPIO driver: "gpiocdev", "rpio" or "sim".
	// Defaults to gpiocdev.
	Driver string `yaml:"driver"`

	// Chip is the GPIO chip the gpiocdev driver requests lines from.
	// Defaults to gpiochip0. Ignored by other drivers.
	Chip string `yaml:"chip"`

	// PollInterval is the time between pin samples.
	// Accepts duration strings like "5ms", "500us". Defaults to 5ms.
	PollInterval Duration `yaml:"poll_interval"`

	// Buttons defines individual buttons.
	Buttons []ButtonConfig `yaml:"buttons"`

	// Groups defines button groups that expand over a pin list.
	Groups []GroupConfig `yaml:"groups"`
}

// ButtonConfig defines a single button.
type ButtonConfig struct {
	// Pin is the input pin the button is wired to. Its meaning depends
	// on the driver: line offset for gpiocdev, BCM number for rpio.
	Pin int `yaml:"pin"`

	// Name is the display name used in logs. Defaults to "button-<pin>".
	Name string `yaml:"name"`

	// Input is the wiring polarity: "active_low" or "active_high".
	// Defaults to active_low (switch to ground with a pull-up).
	Input string `yaml:"input"`

	// Pull is the bias resistor: "up", "down" or "none". Defaults to up.
	Pull string `yaml:"pull"`

	// Debounce is the minimum stable duration before a press or release
	// is declared. Zero uses the SDK default.
	Debounce Duration `yaml:"debounce"`

	// DoubleClickWindow bounds the double click timing. Zero uses the
	// SDK default.
	DoubleClickWindow Duration `yaml:"double_click_window"`

	// LongPress is how long the button must be held for a long press.
	// Zero uses the SDK default.
	LongPress Duration `yaml:"long_press"`
}

// GroupConfig defines a set of identically configured buttons over a
// list of pins.
//
// For example, name_template "key-{{.pin}}" with pins [5, 6, 13]
// expands to three buttons named key-5, key-6 and key-13.
type GroupConfig struct {
	// NameTemplate is a Go template for generating button names.
	// The pin number is available as {{.pin}}.
	NameTemplate string `yaml:"name_template"`

	// Pins lists the input pins, one button per pin.
	Pins []int `yaml:"pins"`

	// Input is the wiring polarity for all generated buttons.
	Input string `yaml:"input"`

	// Pull is the bias resistor for all generated buttons.
	Pull string `yaml:"pull"`

	// Debounce applies to all generated buttons.
	Debounce Duration `yaml:"debounce"`

	// DoubleClickWindow applies to all generated buttons.
	DoubleClickWindow Duration `yaml:"double_click_window"`

	// LongPress applies to all generated buttons.
	LongPress Duration `yaml:"long_press"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Driver == "" {
		cfg.Driver = "gpiocdev"
	}
	if cfg.Chip == "" {
		cfg.Chip = "gpiochip0"
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(defaultPollInterval)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks the whole config, reporting the first problem with
// its location.
func (c *Config) validate() error {
	switch c.Driver {
	case "gpiocdev", "rpio", "sim":
	default:
		return fmt.Errorf("driver must be gpiocdev, rpio or sim, got %q", c.Driver)
	}

	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}

	seen := make(map[int]string)

	for i := range c.Buttons {
		b := &c.Buttons[i]
		where := fmt.Sprintf("buttons[%d]", i)
		if b.Name != "" {
			where = fmt.Sprintf("buttons[%d] (%s)", i, b.Name)
		}

		if err := validatePin(b.Pin, seen, where); err != nil {
			return err
		}
		if err := validateTimings(b.Input, b.Pull, b.Debounce, b.DoubleClickWindow, b.LongPress, where); err != nil {
			return err
		}
	}

	for i := range c.Groups {
		g := &c.Groups[i]
		where := fmt.Sprintf("groups[%d]", i)

		if g.NameTemplate == "" {
			return fmt.Errorf("%s: name_template is required", where)
		}
		// fail fast before the builder tries to use an invalid template
		if _, err := template.New("").Parse(g.NameTemplate); err != nil {
			return fmt.Errorf("%s: invalid name_template: %w", where, err)
		}
		if len(g.Pins) == 0 {
			return fmt.Errorf("%s: at least one pin is required", where)
		}
		for _, pin := range g.Pins {
			if err := validatePin(pin, seen, where); err != nil {
				return err
			}
		}
		if err := validateTimings(g.Input, g.Pull, g.Debounce, g.DoubleClickWindow, g.LongPress, where); err != nil {
			return err
		}
	}

	if len(c.Buttons) == 0 && len(c.Groups) == 0 {
		return errors.New("at least one button or group must be defined")
	}

	return nil
}

// validatePin checks the pin range and records it for uniqueness.
func validatePin(pin int, seen map[int]string, where string) error {
	if pin < 0 {
		return fmt.Errorf("%s: pin cannot be negative, got %d", where, pin)
	}
	if prev, ok := seen[pin]; ok {
		return fmt.Errorf("%s: pin %d already used by %s", where, pin, prev)
	}
	seen[pin] = where
	return nil
}

// validateTimings checks the fields shared by buttons and groups.
func validateTimings(input, pull string, debounce, window, longPress Duration, where string) error {
	switch input {
	case "", "active_low", "active_high":
	default:
		return fmt.Errorf("%s: input must be active_low or active_high, got %q", where, input)
	}

	switch pull {
	case "", "up", "down", "none":
	default:
		return fmt.Errorf("%s: pull must be up, down or none, got %q", where, pull)
	}

	if debounce.Duration() < 0 {
		return fmt.Errorf("%s: debounce cannot be negative, got %s", where, debounce.Duration())
	}
	if window.Duration() < 0 {
		return fmt.Errorf("%s: double_click_window cannot be negative, got %s", where, window.Duration())
	}
	if longPress.Duration() < 0 {
		return fmt.Errorf("%s: long_press cannot be negative, got %s", where, longPress.Duration())
	}
	if window != 0 && debounce.Duration() >= window.Duration() {
		return fmt.Errorf("%s: debounce (%s) must be shorter than double_click_window (%s)",
			where, debounce.Duration(), window.Duration())
	}

	return nil
}
