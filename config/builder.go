package config

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/cmaslen/gpiopress"
)

// BuildButtons registers all configured buttons on the controller.
//
// It processes both direct buttons and groups, returning the created
// buttons in declaration order. Group entries are expanded one button
// per pin, with names rendered from the group's template.
func BuildButtons(cfg *Config, ctrl *gpiopress.Controller) ([]*gpiopress.Button, error) {
	var buttons []*gpiopress.Button

	for _, bc := range cfg.Buttons {
		b, err := buildButton(bc, ctrl)
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, b)
	}

	for _, gc := range cfg.Groups {
		groupButtons, err := buildGroupButtons(gc, ctrl)
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, groupButtons...)
	}

	return buttons, nil
}

// buildButton registers a single ButtonConfig on the controller.
func buildButton(bc ButtonConfig, ctrl *gpiopress.Controller) (*gpiopress.Button, error) {
	var opts []gpiopress.ButtonOption

	if bc.Name != "" {
		opts = append(opts, gpiopress.WithName(bc.Name))
	}
	if bc.Debounce != 0 {
		opts = append(opts, gpiopress.WithDebounce(bc.Debounce.Duration()))
	}
	if bc.DoubleClickWindow != 0 {
		opts = append(opts, gpiopress.WithDoubleClickWindow(bc.DoubleClickWindow.Duration()))
	}
	if bc.LongPress != 0 {
		opts = append(opts, gpiopress.WithLongPressTimeout(bc.LongPress.Duration()))
	}

	return ctrl.NewButton(bc.Pin, inputType(bc.Input), pull(bc.Pull), opts...)
}

// buildGroupButtons expands a GroupConfig into one button per pin.
func buildGroupButtons(gc GroupConfig, ctrl *gpiopress.Controller) ([]*gpiopress.Button, error) {
	// missingkey=error fails fast on unknown template variables
	tmpl, err := template.New("name").Option("missingkey=error").Parse(gc.NameTemplate)
	if err != nil {
		return nil, err
	}

	var buttons []*gpiopress.Button
	for _, pin := range gc.Pins {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, map[string]int{"pin": pin}); err != nil {
			return nil, fmt.Errorf("group %q, pin %d: template execution failed: %w", gc.NameTemplate, pin, err)
		}

		bc := ButtonConfig{
			Pin:               pin,
			Name:              buf.String(),
			Input:             gc.Input,
			Pull:              gc.Pull,
			Debounce:          gc.Debounce,
			DoubleClickWindow: gc.DoubleClickWindow,
			LongPress:         gc.LongPress,
		}
		b, err := buildButton(bc, ctrl)
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, b)
	}

	return buttons, nil
}

// inputType maps the config string to the SDK type, applying the
// active_low default.
func inputType(s string) gpiopress.InputType {
	if s == "active_high" {
		return gpiopress.ActiveHigh
	}
	return gpiopress.ActiveLow
}

// pull maps the config string to the SDK type, applying the pull-up
// default.
func pull(s string) gpiopress.Pull {
	switch s {
	case "down":
		return gpiopress.PullDown
	case "none":
		return gpiopress.PullNone
	default:
		return gpiopress.PullUp
	}
}
