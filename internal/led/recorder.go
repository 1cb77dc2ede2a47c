package led

import (
	"slices"
	"sync"
)

// Write is one Set call observed by a Recorder.
type Write struct {
	LED   ID
	Level Level
}

// Recorder is an in-memory Driver that records every write. It is used by
// tests and by the simulate command.
type Recorder struct {
	mu      sync.Mutex
	ids     []ID
	levels  map[ID]Level
	writes  []Write
	onCount map[ID]int
	allOffs int
	keep    bool
}

// NewRecorder creates a Recorder for ids. When keepWrites is false only
// levels and counters are tracked, which keeps long runs bounded.
func NewRecorder(keepWrites bool, ids ...ID) *Recorder {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	return &Recorder{
		ids:     ids,
		levels:  make(map[ID]Level, len(ids)),
		onCount: make(map[ID]int, len(ids)),
		keep:    keepWrites,
	}
}

// Set implements Driver.
func (r *Recorder) Set(id ID, level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if level == On && r.levels[id] == Off {
		r.onCount[id]++
	}
	r.levels[id] = level
	if r.keep {
		r.writes = append(r.writes, Write{LED: id, Level: level})
	}
}

// AllOff implements Driver.
func (r *Recorder) AllOff() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allOffs++
	for id := range r.levels {
		r.levels[id] = Off
	}
}

// Available implements Driver.
func (r *Recorder) Available() []ID { return slices.Clone(r.ids) }

// Close implements Driver.
func (r *Recorder) Close() error { return nil }

// Level returns the last level written to id.
func (r *Recorder) Level(id ID) Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.levels[id]
}

// AnyOn reports whether any LED is currently on.
func (r *Recorder) AnyOn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.levels {
		if l == On {
			return true
		}
	}
	return false
}

// Writes returns a copy of the recorded writes.
func (r *Recorder) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.writes)
}

// OnTransitions returns how many times id went from off to on.
func (r *Recorder) OnTransitions(id ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onCount[id]
}

// AllOffCalls returns how many times AllOff was called.
func (r *Recorder) AllOffCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.allOffs
}

// Reset clears writes and counters but keeps current levels.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
	r.allOffs = 0
	clear(r.onCount)
}
