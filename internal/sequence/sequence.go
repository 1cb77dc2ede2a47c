// Package sequence walks the identifier sequence: an ordered list of LEDs,
// each blinked a fixed number of times. The walk position is a Cursor that
// survives deactivation, so a toggled-off display resumes where it stopped.
package sequence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smazurov/blinkid/internal/led"
)

// Validation errors.
var (
	ErrEmpty      = errors.New("sequence is empty")
	ErrZeroBlinks = errors.New("blink count must be at least 1")
	ErrNoLED      = errors.New("entry has no LED")
)

// Entry is one digit of the identifier: an LED and how often it blinks.
type Entry struct {
	LED    led.ID `toml:"led" json:"led"`
	Blinks uint8  `toml:"blinks" json:"blinks"`
}

// Sequence is the identifier, in display order.
type Sequence []Entry

// Default is the compiled-in identifier.
func Default() Sequence {
	return Sequence{
		{LED: "yellow", Blinks: 7},
		{LED: "red", Blinks: 2},
		{LED: "green", Blinks: 1},
		{LED: "blue", Blinks: 4},
	}
}

// Validate rejects sequences the controller cannot walk.
func (s Sequence) Validate() error {
	if len(s) == 0 {
		return ErrEmpty
	}
	for i, e := range s {
		if e.LED == "" {
			return fmt.Errorf("entry %d: %w", i, ErrNoLED)
		}
		if e.Blinks == 0 {
			return fmt.Errorf("entry %d (%s): %w", i, e.LED, ErrZeroBlinks)
		}
	}
	return nil
}

// LEDs returns the distinct LEDs in order of first use.
func (s Sequence) LEDs() []led.ID {
	seen := make(map[led.ID]bool, len(s))
	ids := make([]led.ID, 0, len(s))
	for _, e := range s {
		if !seen[e.LED] {
			seen[e.LED] = true
			ids = append(ids, e.LED)
		}
	}
	return ids
}

// TotalBlinks returns the number of blinks in one full pass.
func (s Sequence) TotalBlinks() int {
	n := 0
	for _, e := range s {
		n += int(e.Blinks)
	}
	return n
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = fmt.Sprintf("%s×%d", e.LED, e.Blinks)
	}
	return strings.Join(parts, " ")
}
