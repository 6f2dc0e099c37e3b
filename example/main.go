// Demo of the gpiopress SDK using the simulated driver.
//
// A goroutine plays the role of a finger, driving the simulated pin
// through a click, a double click and a long press; the registered
// handlers print what the controller made of it. No hardware required:
//
//	go run ./example
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cmaslen/gpiopress"
	"github.com/cmaslen/gpiopress/driver/sim"
)

const pin = 17

func main() {
	drv := sim.New()

	ctrl, err := gpiopress.New(
		gpiopress.WithDriver(drv),
		gpiopress.WithPollInterval(time.Millisecond),
	)
	if err != nil {
		slog.Error("failed to create controller", "error", err)
		os.Exit(1)
	}

	btn, err := ctrl.NewButton(pin, gpiopress.ActiveLow, gpiopress.PullUp,
		gpiopress.WithName("demo"),
		gpiopress.WithDebounce(2*time.Millisecond),
		gpiopress.WithDoubleClickWindow(150*time.Millisecond),
		gpiopress.WithLongPressTimeout(300*time.Millisecond),
	)
	if err != nil {
		slog.Error("failed to create button", "error", err)
		os.Exit(1)
	}

	btn.OnClick(func(ctx context.Context, ev gpiopress.Event) {
		fmt.Println("  click")
	})
	btn.OnDoubleClick(func(ctx context.Context, ev gpiopress.Event) {
		fmt.Println("  double click")
	})
	btn.OnLongPress(func(ctx context.Context, ev gpiopress.Event) {
		fmt.Println("  long press, still held:", ev.Button.Pressed())
	})

	ctx, cancel := context.WithCancel(context.Background())

	// the finger
	go func() {
		defer cancel()

		fmt.Println("single click:")
		_ = drv.Click(pin, gpiopress.ActiveLow, 30*time.Millisecond)
		time.Sleep(250 * time.Millisecond) // let the double-click window expire

		fmt.Println("double click:")
		_ = drv.Click(pin, gpiopress.ActiveLow, 30*time.Millisecond)
		time.Sleep(40 * time.Millisecond)
		_ = drv.Click(pin, gpiopress.ActiveLow, 30*time.Millisecond)
		time.Sleep(250 * time.Millisecond)

		fmt.Println("long press:")
		_ = drv.Click(pin, gpiopress.ActiveLow, 400*time.Millisecond)
		time.Sleep(250 * time.Millisecond)
	}()

	if err := ctrl.Run(ctx); err != nil {
		slog.Error("controller failed", "error", err)
		os.Exit(1)
	}
}
