package gpiopress

import (
	"sync"
)

// fakeDriver is a minimal in-package Driver for white-box tests. The
// driver/sim package provides the full-featured simulator; this one only
// records calls.
type fakeDriver struct {
	mu           sync.Mutex
	levels       map[int]bool
	configureErr error
	unconfigured []int
	closeCalls   int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{levels: make(map[int]bool)}
}

func (d *fakeDriver) Configure(pin int, pull Pull) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.configureErr != nil {
		return d.configureErr
	}
	d.levels[pin] = pull == PullUp
	return nil
}

func (d *fakeDriver) Unconfigure(pin int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.levels, pin)
	d.unconfigured = append(d.unconfigured, pin)
	return nil
}

func (d *fakeDriver) Read(pin int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.levels[pin], nil
}

func (d *fakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeCalls++
	return nil
}

func (d *fakeDriver) set(pin int, level bool) {
	d.mu.Lock()
	d.levels[pin] = level
	d.mu.Unlock()
}
