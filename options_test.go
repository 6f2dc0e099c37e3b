package gpiopress

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNew_RequiresDriver(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("New() without a driver should fail")
	}
	if !strings.Contains(err.Error(), "driver is required") {
		t.Errorf("New() error = %v, want mention of required driver", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	ctrl, err := New(WithDriver(newFakeDriver()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if ctrl.pollInterval != 5*time.Millisecond {
		t.Errorf("pollInterval = %v, want 5ms", ctrl.pollInterval)
	}
	if ctrl.logger == nil {
		t.Error("logger should default to slog.Default")
	}
	if got := ctrl.Status(); got != StatusReady {
		t.Errorf("Status() = %v, want %v", got, StatusReady)
	}
	if got := len(ctrl.Buttons()); got != 0 {
		t.Errorf("Buttons() = %d entries, want 0", got)
	}
}

func TestWithButton(t *testing.T) {
	ctrl, err := New(
		WithDriver(newFakeDriver()),
		WithButton(17, ActiveLow, PullUp, WithName("red")),
		WithButton(22, ActiveHigh, PullDown),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	buttons := ctrl.Buttons()
	if len(buttons) != 2 {
		t.Fatalf("Buttons() = %d entries, want 2", len(buttons))
	}
	if buttons[0].Name() != "red" {
		t.Errorf("Buttons()[0].Name() = %q, want %q", buttons[0].Name(), "red")
	}
	if buttons[1].Pin() != 22 {
		t.Errorf("Buttons()[1].Pin() = %d, want 22", buttons[1].Pin())
	}
}

func TestWithButton_DuplicatePin(t *testing.T) {
	_, err := New(
		WithDriver(newFakeDriver()),
		WithButton(17, ActiveLow, PullUp),
		WithButton(17, ActiveLow, PullUp),
	)
	if err == nil {
		t.Error("New() with a duplicate WithButton pin should fail")
	}
}

func TestWithDriver_Nil(t *testing.T) {
	_, err := New(WithDriver(nil))
	if err == nil {
		t.Error("WithDriver(nil) should fail")
	}
}

func TestWithPollInterval(t *testing.T) {
	ctrl, err := New(WithDriver(newFakeDriver()), WithPollInterval(2*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ctrl.pollInterval != 2*time.Millisecond {
		t.Errorf("pollInterval = %v, want 2ms", ctrl.pollInterval)
	}
}

func TestWithPollInterval_Invalid(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Millisecond} {
		if _, err := New(WithDriver(newFakeDriver()), WithPollInterval(d)); err == nil {
			t.Errorf("WithPollInterval(%v) should fail", d)
		}
	}
}

func TestWithLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl, err := New(WithDriver(newFakeDriver()), WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ctrl.logger != logger {
		t.Error("WithLogger should replace the default logger")
	}
}

func TestWithLogger_Nil(t *testing.T) {
	if _, err := New(WithDriver(newFakeDriver()), WithLogger(nil)); err == nil {
		t.Error("WithLogger(nil) should fail")
	}
}
