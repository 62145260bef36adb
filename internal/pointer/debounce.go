package pointer

import "time"

// Debouncer filters mechanical switch bounce out of a sampled button input.
// The raw value is adopted as the stable value only after it has held
// unchanged for longer than Window; every edge, including bounce, restarts
// the timer. Both values start out unpressed.
type Debouncer struct {
	// Window is the minimum dwell time before a raw change becomes stable.
	Window time.Duration

	lastRaw        bool
	stable         bool
	lastChangeTime time.Time
}

// Update samples the raw pressed state at time now and returns the stable
// state. Toggling faster than Window never reaches the stable state.
func (d *Debouncer) Update(pressed bool, now time.Time) bool {
	if pressed != d.lastRaw {
		d.lastChangeTime = now
		d.lastRaw = pressed
	}
	if now.Sub(d.lastChangeTime) > d.Window {
		d.stable = d.lastRaw
	}
	return d.stable
}

// Stable returns the last debounced state without sampling.
func (d *Debouncer) Stable() bool {
	return d.stable
}
