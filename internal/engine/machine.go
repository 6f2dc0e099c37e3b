package engine

import "time"

// Kind identifies the semantic event a machine emitted.
//
// This is the engine-internal version of the event kind; the gpiopress
// package exposes its own type with identical values, avoiding circular
// dependencies.
type Kind string

const (
	KindPress       Kind = "press"
	KindRelease     Kind = "release"
	KindClick       Kind = "click"
	KindDoubleClick Kind = "double_click"
	KindLongPress   Kind = "long_press"
)

// Timing holds the thresholds driving a [Machine].
type Timing struct {
	// Debounce is the duration a raw level must hold before a press or
	// release is declared. Transitions shorter than this emit nothing.
	Debounce time.Duration

	// DoubleClickWindow is the maximum time between the first press and
	// the second release for the pair to count as a double click. It also
	// delays single clicks: a click is only reported once the window has
	// expired without a second press.
	DoubleClickWindow time.Duration

	// LongPressTimeout is how long the button must stay pressed before a
	// long press is reported.
	LongPressTimeout time.Duration
}

// Machine classifies the debounced level of one button into events.
//
// Machine is pure with respect to time: the caller supplies the
// observation time on every call, which keeps the classification
// deterministic under test. It is not safe for concurrent use; the
// engine owns each machine from its sampling goroutine.
type Machine struct {
	timing Timing

	// debounce tracking
	stable      bool
	candidate   bool
	candidateAt time.Time

	// classification state
	pressed   bool
	longFired bool

	// lastPress is the time of the current press, prevPress the press
	// before it. Both are zeroed once they have been consumed by a click
	// or double click, mirroring the one-event-per-press-pair rule.
	lastPress time.Time
	prevPress time.Time

	clickAt time.Time // pending deferred click, zero if none
	longAt  time.Time // pending long press, zero if none
}

// NewMachine creates a machine with the given timing, seeded with the
// initial debounced level. Seeding raises no events: a button that is
// already held when it is registered does not fire a press.
func NewMachine(timing Timing, now time.Time, pressed bool) *Machine {
	return &Machine{
		timing:      timing,
		stable:      pressed,
		candidate:   pressed,
		candidateAt: now,
		pressed:     pressed,
	}
}

// Pressed reports the current debounced pressed state.
func (m *Machine) Pressed() bool {
	return m.pressed
}

// LongPressed reports whether the current press already lasted the
// long-press timeout. It resets on release.
func (m *Machine) LongPressed() bool {
	return m.pressed && m.longFired
}

// Feed observes the raw pressed level at the given time and returns the
// events this observation produces, in order. It also fires any timer
// driven events (deferred click, long press) that are due, so calling
// Feed with an unchanged level is how the engine advances time.
func (m *Machine) Feed(now time.Time, pressed bool) []Kind {
	var evs []Kind

	if pressed != m.candidate {
		m.candidate = pressed
		m.candidateAt = now
	}
	if m.candidate != m.stable && now.Sub(m.candidateAt) >= m.timing.Debounce {
		m.stable = m.candidate
		if m.stable {
			evs = m.onPress(now, evs)
		} else {
			evs = m.onRelease(now, evs)
		}
	}

	return m.fireDue(now, evs)
}

func (m *Machine) onPress(now time.Time, evs []Kind) []Kind {
	m.pressed = true
	m.longFired = false
	m.prevPress = m.lastPress
	m.lastPress = now
	m.clickAt = time.Time{} // a new press cancels any deferred click
	m.longAt = now.Add(m.timing.LongPressTimeout)
	return append(evs, KindPress)
}

func (m *Machine) onRelease(now time.Time, evs []Kind) []Kind {
	m.pressed = false
	m.longFired = false
	m.longAt = time.Time{}
	evs = append(evs, KindRelease)

	// A release without a recorded press happens when the machine was
	// seeded already held; it classifies as nothing.
	if m.lastPress.IsZero() {
		return evs
	}

	// Double click: this release pairs with the previous press if the
	// whole sequence fits in the window.
	if !m.prevPress.IsZero() && now.Sub(m.prevPress) < m.timing.DoubleClickWindow {
		evs = append(evs, KindDoubleClick)
		m.lastPress = time.Time{}
		m.prevPress = time.Time{}
		return evs
	}

	// The press can no longer take part in a double click once the
	// window has expired, so the click is immediate. Otherwise it is
	// deferred until the window closes without a second press.
	if now.Sub(m.lastPress) >= m.timing.DoubleClickWindow {
		evs = append(evs, KindClick)
		m.lastPress = time.Time{}
		m.prevPress = time.Time{}
	} else {
		m.clickAt = m.lastPress.Add(m.timing.DoubleClickWindow)
	}
	return evs
}

// fireDue raises timer driven events that are due at now.
func (m *Machine) fireDue(now time.Time, evs []Kind) []Kind {
	if m.pressed && !m.longFired && !m.longAt.IsZero() && !now.Before(m.longAt) {
		m.longFired = true
		m.longAt = time.Time{}
		evs = append(evs, KindLongPress)
	}
	if !m.clickAt.IsZero() && !now.Before(m.clickAt) {
		m.clickAt = time.Time{}
		m.lastPress = time.Time{}
		m.prevPress = time.Time{}
		evs = append(evs, KindClick)
	}
	return evs
}
