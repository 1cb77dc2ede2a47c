// Package gesture turns discrete button presses into activation toggles.
// Two presses inside the double-click window toggle the shared Flag; a lone
// press is discarded when the window expires.
package gesture

import (
	"sync"
	"time"

	"github.com/smazurov/blinkid/internal/clock"
	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/logging"
)

// DefaultWindow is the double-click window.
const DefaultWindow = 500 * time.Millisecond

// State of the detector.
type State int

// Detector states.
const (
	Idle State = iota
	AwaitingSecondClick
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingSecondClick:
		return "awaiting_second_click"
	default:
		return "unknown"
	}
}

// Detector recognizes double-clicks. Press and the window callback run in
// the event context and never block; the mutex is only contended between
// them, never by the main loop.
type Detector struct {
	mu      sync.Mutex
	state   State
	gen     uint64 // bumped on every transition out of AwaitingSecondClick
	flag    *Flag
	timeout clock.Timeout
	window  time.Duration
	bus     *events.Bus
	logger  logging.Logger
}

// NewDetector creates a detector writing to flag. A nil bus disables event
// publication.
func NewDetector(flag *Flag, timeout clock.Timeout, window time.Duration, bus *events.Bus, logger logging.Logger) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{
		flag:    flag,
		timeout: timeout,
		window:  window,
		bus:     bus,
		logger:  logger,
	}
}

// Press handles one press event.
func (d *Detector) Press() {
	d.mu.Lock()
	switch d.state {
	case Idle:
		d.state = AwaitingSecondClick
		gen := d.gen
		d.timeout.Start(d.window, func() { d.expire(gen) })
		d.mu.Unlock()
		d.logger.Debug("First click, awaiting second", "window", d.window)

	case AwaitingSecondClick:
		d.state = Idle
		d.gen++
		d.timeout.Stop()
		active := d.flag.Toggle()
		d.mu.Unlock()

		d.logger.Info("Double click, activation toggled", "active", active)
		d.bus.Publish(events.ActivationChangedEvent{
			Active:    active,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
}

// expire is the window callback. Callbacks from an earlier window, which
// can still run after Stop lost the race, see a newer generation and return.
func (d *Detector) expire(gen uint64) {
	d.mu.Lock()
	if d.state != AwaitingSecondClick || d.gen != gen {
		d.mu.Unlock()
		return
	}
	d.state = Idle
	d.gen++
	d.mu.Unlock()

	d.logger.Debug("Double click window expired, click discarded")
	d.bus.Publish(events.ClickDiscardedEvent{Timestamp: time.Now().Format(time.RFC3339)})
}

// State returns the current detector state.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Active reports the flag value.
func (d *Detector) Active() bool {
	return d.flag.Active()
}
