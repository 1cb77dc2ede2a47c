package gesture

import "sync/atomic"

// Flag is the activation flag shared between the event context and the main
// loop. The detector is its only writer.
type Flag struct {
	v atomic.Bool
}

// Active reports whether the sequence should run.
func (f *Flag) Active() bool { return f.v.Load() }

// Cancelled reports whether the sequence should stop, so a Flag can cancel
// a fade directly.
func (f *Flag) Cancelled() bool { return !f.v.Load() }

// Toggle inverts the flag and returns the new value.
func (f *Flag) Toggle() bool {
	for {
		old := f.v.Load()
		if f.v.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
