package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// Fake is a deterministic Source. Every Sample advances the counter by Tick
// microseconds (1 if zero), so Wait always terminates.
type Fake struct {
	Tick uint32
	now  atomic.Uint64
}

// Sample implements Source.
func (f *Fake) Sample() Stamp {
	tick := f.Tick
	if tick == 0 {
		tick = 1
	}
	return Stamp(f.now.Add(uint64(tick)))
}

// Elapsed implements Source.
func (f *Fake) Elapsed(since Stamp, us uint32) bool {
	return f.Sample()-since >= Stamp(us)
}

// Now returns the counter without advancing it.
func (f *Fake) Now() Stamp { return Stamp(f.now.Load()) }

// Advance moves the counter forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.now.Add(uint64(d / time.Microsecond))
}

// FakeTimeout is a Timeout that only fires when told to.
type FakeTimeout struct {
	mu     sync.Mutex
	fn     func()
	last   time.Duration
	starts int
}

// Start implements Timeout.
func (f *FakeTimeout) Start(d time.Duration, fn func()) {
	f.mu.Lock()
	f.fn = fn
	f.last = d
	f.starts++
	f.mu.Unlock()
}

// Stop implements Timeout.
func (f *FakeTimeout) Stop() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	pending := f.fn != nil
	f.fn = nil
	return pending
}

// Pending reports whether a callback is armed.
func (f *FakeTimeout) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fn != nil
}

// Duration returns the duration passed to the most recent Start.
func (f *FakeTimeout) Duration() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Starts returns how many times Start was called.
func (f *FakeTimeout) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

// Fire runs the armed callback, if any, as if the timer expired.
func (f *FakeTimeout) Fire() bool {
	f.mu.Lock()
	fn := f.fn
	f.fn = nil
	f.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Callback returns the armed callback without disarming it, so tests can
// replay a callback that lost a race with Stop.
func (f *FakeTimeout) Callback() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fn
}
