package clock

import (
	"sync"
	"time"
)

// Timeout is a restartable single-shot timer. Start replaces any pending
// callback; Stop cancels it and reports whether one was pending.
type Timeout interface {
	Start(d time.Duration, fn func())
	Stop() bool
}

// AfterFunc implements Timeout on top of time.AfterFunc. The callback runs
// on its own goroutine.
type AfterFunc struct {
	mu    sync.Mutex
	timer *time.Timer
}

// Start implements Timeout.
func (a *AfterFunc) Start(d time.Duration, fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
	}
	if d < 0 {
		d = 0
	}
	a.timer = time.AfterFunc(d, fn)
}

// Stop implements Timeout.
func (a *AfterFunc) Stop() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer == nil {
		return false
	}
	stopped := a.timer.Stop()
	a.timer = nil
	return stopped
}
