package button

import "time"

// debouncer reports released→pressed transitions of a raw level once the
// level has been stable for window.
type debouncer struct {
	window    time.Duration
	stable    bool
	candidate bool
	since     time.Time
}

func newDebouncer(window time.Duration, initial bool, now time.Time) *debouncer {
	return &debouncer{window: window, stable: initial, candidate: initial, since: now}
}

// update feeds one sample and reports whether it completes a press.
func (d *debouncer) update(pressed bool, now time.Time) bool {
	if pressed != d.candidate {
		d.candidate = pressed
		d.since = now
	}
	if d.candidate == d.stable || now.Sub(d.since) < d.window {
		return false
	}
	d.stable = d.candidate
	return d.stable
}
