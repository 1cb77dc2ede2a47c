// Package clock provides the time primitives of the blink core: a monotonic
// microsecond time source with a busy-wait helper, and a restartable
// single-shot timeout.
//
// Source is the only place the main loop touches real time. Tests substitute
// Fake, which advances a virtual counter on every sample so busy-waits
// terminate without sleeping.
package clock

import "time"

// Stamp is an opaque sample of a Source, in microseconds since an
// implementation-defined origin.
type Stamp uint64

// Source is a free-running counter usable to measure elapsed microseconds.
type Source interface {
	// Sample returns the current counter value.
	Sample() Stamp
	// Elapsed reports whether at least us microseconds have passed since.
	Elapsed(since Stamp, us uint32) bool
}

// Monotonic is a Source backed by the runtime monotonic clock.
type Monotonic struct {
	origin time.Time
}

// NewMonotonic creates a Source whose origin is the moment of creation.
func NewMonotonic() *Monotonic {
	return &Monotonic{origin: time.Now()}
}

// Sample implements Source.
func (m *Monotonic) Sample() Stamp {
	return Stamp(time.Since(m.origin) / time.Microsecond)
}

// Elapsed implements Source.
func (m *Monotonic) Elapsed(since Stamp, us uint32) bool {
	return m.Sample()-since >= Stamp(us)
}

// Sleep blocks the calling goroutine for d. Hold uses it instead of
// spinning, so the idle poll does not burn a core.
func (m *Monotonic) Sleep(d time.Duration) {
	time.Sleep(d)
}

// sleeper is implemented by sources that can yield the CPU while waiting.
type sleeper interface {
	Sleep(d time.Duration)
}

// Wait busy-waits until us microseconds have elapsed on src.
func Wait(src Source, us uint32) {
	if us == 0 {
		return
	}
	start := src.Sample()
	for !src.Elapsed(start, us) {
	}
}

// holdSlice bounds how long Hold waits between stop checks.
const holdSlice = 10 * time.Millisecond

// Hold waits for d on src, checking stop between slices of at most 10ms.
// It returns false if stop reported true before d elapsed.
func Hold(src Source, d time.Duration, stop func() bool) bool {
	remaining := d
	for remaining > 0 {
		if stop != nil && stop() {
			return false
		}
		slice := min(remaining, holdSlice)
		if s, ok := src.(sleeper); ok {
			s.Sleep(slice)
		} else {
			Wait(src, uint32(slice/time.Microsecond))
		}
		remaining -= slice
	}
	return stop == nil || !stop()
}
