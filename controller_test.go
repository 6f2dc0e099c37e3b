package gpiopress_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cmaslen/gpiopress"
	"github.com/cmaslen/gpiopress/driver/sim"
)

// newSimController creates a controller over a simulated driver with one
// active-low button on pin 17, tuned for fast wall-clock tests.
func newSimController(t *testing.T) (*gpiopress.Controller, *sim.Driver, *gpiopress.Button) {
	t.Helper()

	drv := sim.New()
	ctrl, err := gpiopress.New(
		gpiopress.WithDriver(drv),
		gpiopress.WithPollInterval(time.Millisecond),
		gpiopress.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	btn, err := ctrl.NewButton(17, gpiopress.ActiveLow, gpiopress.PullUp,
		gpiopress.WithDebounce(5*time.Millisecond),
		gpiopress.WithDoubleClickWindow(400*time.Millisecond),
		gpiopress.WithLongPressTimeout(100*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewButton() error = %v", err)
	}
	return ctrl, drv, btn
}

// press and release drive the simulated active-low pin.
func press(t *testing.T, drv *sim.Driver) {
	t.Helper()
	if err := drv.SetLevel(17, false); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
}

func release(t *testing.T, drv *sim.Driver) {
	t.Helper()
	if err := drv.SetLevel(17, true); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
}

// waitKind receives events until one of the given kind arrives.
func waitKind(t *testing.T, events <-chan gpiopress.Event, kind gpiopress.EventKind) gpiopress.Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("events channel closed while waiting for %s", kind)
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", kind)
		}
	}
}

func TestControllerLifecycle(t *testing.T) {
	ctrl, drv, _ := newSimController(t)

	if got := ctrl.Status(); got != gpiopress.StatusReady {
		t.Errorf("Status() = %v, want %v", got, gpiopress.StatusReady)
	}

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := ctrl.Status(); got != gpiopress.StatusRunning {
		t.Errorf("Status() after Start = %v, want %v", got, gpiopress.StatusRunning)
	}

	// a running controller cannot be started again
	if err := ctrl.Start(context.Background()); err == nil {
		t.Error("Start() on a running controller should fail")
	}
	if err := ctrl.Run(context.Background()); err == nil {
		t.Error("Run() on a running controller should fail")
	}

	if err := ctrl.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if got := ctrl.Status(); got != gpiopress.StatusStopped {
		t.Errorf("Status() after Stop = %v, want %v", got, gpiopress.StatusStopped)
	}
	if got := drv.CloseCalls(); got != 1 {
		t.Errorf("driver Close() called %d times, want 1", got)
	}

	// stopping again is a no-op and does not close the driver twice
	if err := ctrl.Stop(); err != nil {
		t.Errorf("Stop() on a stopped controller error = %v, want nil", err)
	}
	if got := drv.CloseCalls(); got != 1 {
		t.Errorf("driver Close() called %d times after second Stop, want 1", got)
	}

	// a stopped controller is finished
	if err := ctrl.Start(context.Background()); err == nil {
		t.Error("Start() on a stopped controller should fail")
	}
	if _, err := ctrl.NewButton(22, gpiopress.ActiveLow, gpiopress.PullUp); err == nil {
		t.Error("NewButton() on a stopped controller should fail")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctrl, drv, _ := newSimController(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- ctrl.Run(ctx) }()

	// wait until the run loop is up, then cancel
	for ctrl.Status() != gpiopress.StatusRunning {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}

	if got := ctrl.Status(); got != gpiopress.StatusStopped {
		t.Errorf("Status() = %v, want %v", got, gpiopress.StatusStopped)
	}
	if got := drv.CloseCalls(); got != 1 {
		t.Errorf("driver Close() called %d times, want 1", got)
	}
}

func TestStop_NeverStarted(t *testing.T) {
	ctrl, _, _ := newSimController(t)

	if err := ctrl.Stop(); err == nil {
		t.Error("Stop() on a never started controller should fail")
	}
}

func TestClickEvent(t *testing.T) {
	ctrl, drv, _ := newSimController(t)
	events := ctrl.Subscribe()

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer ctrl.Stop()

	press(t, drv)
	time.Sleep(40 * time.Millisecond)
	release(t, drv)

	waitKind(t, events, gpiopress.Press)
	waitKind(t, events, gpiopress.Release)
	ev := waitKind(t, events, gpiopress.Click)
	if ev.Button.Pin() != 17 {
		t.Errorf("event pin = %d, want 17", ev.Button.Pin())
	}
}

func TestDoubleClickEvent(t *testing.T) {
	ctrl, drv, _ := newSimController(t)
	events := ctrl.Subscribe()

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer ctrl.Stop()

	for i := 0; i < 2; i++ {
		press(t, drv)
		time.Sleep(40 * time.Millisecond)
		release(t, drv)
		time.Sleep(40 * time.Millisecond)
	}

	waitKind(t, events, gpiopress.DoubleClick)

	// no click may follow: stop and inspect what is left in the buffer
	ctrl.Stop()
	for ev := range events {
		if ev.Kind == gpiopress.Click {
			t.Error("a double click must suppress the click event")
		}
	}
}

func TestLongPressEvent(t *testing.T) {
	ctrl, drv, btn := newSimController(t)
	events := ctrl.Subscribe()

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer ctrl.Stop()

	press(t, drv)
	waitKind(t, events, gpiopress.LongPress)

	if !btn.Pressed() {
		t.Error("Pressed() = false while held, want true")
	}
	if !btn.LongPressed() {
		t.Error("LongPressed() = false after the long press fired, want true")
	}

	release(t, drv)
	waitKind(t, events, gpiopress.Release)
}

func TestHandlerDispatch(t *testing.T) {
	ctrl, drv, btn := newSimController(t)

	clicks := make(chan gpiopress.Event, 1)
	btn.OnClick(func(ctx context.Context, ev gpiopress.Event) {
		select {
		case clicks <- ev:
		default:
		}
	})

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer ctrl.Stop()

	press(t, drv)
	time.Sleep(40 * time.Millisecond)
	release(t, drv)

	select {
	case ev := <-clicks:
		if ev.Kind != gpiopress.Click {
			t.Errorf("handler event kind = %v, want %v", ev.Kind, gpiopress.Click)
		}
		if ev.Button != btn {
			t.Error("handler event should carry the originating button")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("click handler was not invoked")
	}
}

func TestHandlerPanicDoesNotStopDispatch(t *testing.T) {
	ctrl, drv, btn := newSimController(t)

	btn.OnClick(func(ctx context.Context, ev gpiopress.Event) {
		panic("handler bug")
	})
	survived := make(chan struct{}, 1)
	btn.OnClick(func(ctx context.Context, ev gpiopress.Event) {
		select {
		case survived <- struct{}{}:
		default:
		}
	})

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer ctrl.Stop()

	press(t, drv)
	time.Sleep(40 * time.Millisecond)
	release(t, drv)

	select {
	case <-survived:
	case <-time.After(3 * time.Second):
		t.Fatal("handler after panicking handler was not invoked")
	}
	if got := ctrl.Status(); got != gpiopress.StatusRunning {
		t.Errorf("Status() after handler panic = %v, want %v", got, gpiopress.StatusRunning)
	}
}

func TestStop_ClosesSubscribers(t *testing.T) {
	ctrl, _, _ := newSimController(t)
	events := ctrl.Subscribe()

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := ctrl.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	for {
		if _, ok := <-events; !ok {
			return
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	ctrl, _, _ := newSimController(t)
	events := ctrl.Subscribe()
	ctrl.Unsubscribe(events)

	if _, ok := <-events; ok {
		t.Error("unsubscribed channel should be closed")
	}
	ctrl.Unsubscribe(events) // repeated unsubscribe is safe
}
