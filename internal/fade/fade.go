// Package fade renders one blink as a linear duty-cycle sweep 0→100→0, one
// PWM cycle per step, and aborts between steps when its token is cancelled.
package fade

import (
	"github.com/smazurov/blinkid/internal/led"
	"github.com/smazurov/blinkid/internal/pwm"
)

// Token reports whether the current render should stop.
type Token interface {
	Cancelled() bool
}

// TokenFunc adapts a predicate to Token.
type TokenFunc func() bool

// Cancelled implements Token.
func (f TokenFunc) Cancelled() bool { return f() }

// Any is cancelled as soon as one of its tokens is. Nil entries are ignored.
func Any(tokens ...Token) Token {
	return TokenFunc(func() bool {
		for _, t := range tokens {
			if t != nil && t.Cancelled() {
				return true
			}
		}
		return false
	})
}

// Cycler runs PWM cycles. *pwm.Generator implements it.
type Cycler interface {
	Cycle(id led.ID, duty uint8, periodUS uint32)
	Off(id led.ID)
}

// Result describes one Render call.
type Result struct {
	// Steps is the number of PWM cycles run.
	Steps int
	// Cancelled is set when the token stopped the sweep.
	Cancelled bool
	// CancelledAt is the index of the step that was not run.
	CancelledAt int
}

// Renderer sweeps duty cycles through a Cycler.
type Renderer struct {
	cycler   Cycler
	periodUS uint32
	step     uint8
}

// NewRenderer creates a Renderer. A step of 0 is treated as 1.
func NewRenderer(c Cycler, periodUS uint32, step uint8) *Renderer {
	return &Renderer{cycler: c, periodUS: periodUS, step: normalize(step)}
}

// Render runs one full fade of id unless tok is cancelled. The token is
// checked before every step; on cancel the LED is forced off and Render
// returns at once. An uncancelled render also ends with the LED off, since
// its last step has duty 0.
func (r *Renderer) Render(id led.ID, tok Token) Result {
	var res Result
	cancelled := func() bool {
		if tok != nil && tok.Cancelled() {
			res.Cancelled = true
			res.CancelledAt = res.Steps
			r.cycler.Off(id)
			return true
		}
		return false
	}

	for duty := 0; ; duty = min(duty+int(r.step), pwm.MaxDuty) {
		if cancelled() {
			return res
		}
		r.cycler.Cycle(id, uint8(duty), r.periodUS)
		res.Steps++
		if duty == pwm.MaxDuty {
			break
		}
	}
	for duty := pwm.MaxDuty; ; duty = max(duty-int(r.step), 0) {
		if cancelled() {
			return res
		}
		r.cycler.Cycle(id, uint8(duty), r.periodUS)
		res.Steps++
		if duty == 0 {
			break
		}
	}
	return res
}

// Steps returns how many PWM cycles an uncancelled render takes with step.
// Both ramps include their endpoints, so step 1 gives 202.
func Steps(step uint8) int {
	s := int(normalize(step))
	perRamp := (pwm.MaxDuty+s-1)/s + 1
	return 2 * perRamp
}

func normalize(step uint8) uint8 {
	if step == 0 {
		return 1
	}
	return step
}
