// Package pwm generates one software PWM cycle at a time by toggling an LED
// line and busy-waiting on a clock.Source. The waveform is approximate: the
// caller may be preempted at any point and nothing corrects for jitter.
package pwm

import (
	"github.com/smazurov/blinkid/internal/clock"
	"github.com/smazurov/blinkid/internal/led"
)

// MaxDuty is the full-on duty cycle in percent.
const MaxDuty = 100

// Split divides one period into on and off microseconds. Integer division
// truncates toward zero; on+off always equals periodUS. Duty above MaxDuty
// is treated as MaxDuty.
func Split(periodUS uint32, duty uint8) (on, off uint32) {
	if duty > MaxDuty {
		duty = MaxDuty
	}
	on = uint32(uint64(periodUS) * uint64(duty) / MaxDuty)
	return on, periodUS - on
}

// Generator drives single PWM cycles on an LED driver.
type Generator struct {
	src clock.Source
	out led.Driver
}

// NewGenerator creates a Generator timing against src and writing to out.
func NewGenerator(src clock.Source, out led.Driver) *Generator {
	return &Generator{src: src, out: out}
}

// Cycle holds id on for the duty share of periodUS and off for the rest.
// A zero-length phase is skipped entirely, so duty 0 never lights the LED
// and duty 100 never drops it. Blocks for about periodUS microseconds.
func (g *Generator) Cycle(id led.ID, duty uint8, periodUS uint32) {
	on, off := Split(periodUS, duty)
	if on > 0 {
		g.out.Set(id, led.On)
		clock.Wait(g.src, on)
	}
	if off > 0 {
		g.out.Set(id, led.Off)
		clock.Wait(g.src, off)
	}
}

// Off drives id off without waiting.
func (g *Generator) Off(id led.ID) {
	g.out.Set(id, led.Off)
}
