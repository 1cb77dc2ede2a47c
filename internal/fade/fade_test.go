package fade

import (
	"slices"
	"testing"

	"github.com/smazurov/blinkid/internal/clock"
	"github.com/smazurov/blinkid/internal/led"
	"github.com/smazurov/blinkid/internal/pwm"
)

// dutyRecorder is a Cycler that remembers the duty of every cycle.
type dutyRecorder struct {
	duties []uint8
	offs   int
}

func (d *dutyRecorder) Cycle(_ led.ID, duty uint8, _ uint32) { d.duties = append(d.duties, duty) }
func (d *dutyRecorder) Off(led.ID)                          { d.offs++ }

func TestRenderFullSweep(t *testing.T) {
	rec := led.NewRecorder(false, "yellow")
	r := NewRenderer(pwm.NewGenerator(&clock.Fake{Tick: 50}, rec), 1000, 1)

	res := r.Render("yellow", TokenFunc(func() bool { return false }))

	if res.Steps != 202 {
		t.Errorf("Steps = %d, want 202", res.Steps)
	}
	if res.Cancelled {
		t.Error("uncancelled render reported Cancelled")
	}
	if rec.Level("yellow") != led.Off {
		t.Error("LED left on after full fade")
	}
	if rec.OnTransitions("yellow") == 0 {
		t.Error("LED never lit during fade")
	}
}

func TestRenderDutyOrder(t *testing.T) {
	tests := []struct {
		step  uint8
		first []uint8
		peak  int
	}{
		{1, []uint8{0, 1, 2}, 100},
		{3, []uint8{0, 3, 6}, 34},
		{30, []uint8{0, 30, 60, 90, 100, 100, 70, 40, 10, 0}, 4},
		{0, []uint8{0, 1, 2}, 100},
	}
	for _, tt := range tests {
		c := &dutyRecorder{}
		res := NewRenderer(c, 1000, tt.step).Render("red", nil)

		if res.Steps != Steps(tt.step) || len(c.duties) != res.Steps {
			t.Errorf("step %d: Steps = %d, cycles = %d, Steps() = %d", tt.step, res.Steps, len(c.duties), Steps(tt.step))
		}
		if !slices.Equal(c.duties[:len(tt.first)], tt.first) {
			t.Errorf("step %d: first duties = %v, want %v", tt.step, c.duties[:len(tt.first)], tt.first)
		}
		if c.duties[tt.peak] != 100 || c.duties[tt.peak+1] != 100 {
			t.Errorf("step %d: peak not emitted on both ramps: %v", tt.step, c.duties)
		}
		if c.duties[len(c.duties)-1] != 0 {
			t.Errorf("step %d: last duty = %d, want 0", tt.step, c.duties[len(c.duties)-1])
		}
	}
}

func TestSteps(t *testing.T) {
	tests := map[uint8]int{0: 202, 1: 202, 2: 102, 3: 70, 30: 10, 100: 4, 255: 4}
	for step, want := range tests {
		if got := Steps(step); got != want {
			t.Errorf("Steps(%d) = %d, want %d", step, got, want)
		}
	}
}

func TestRenderCancelAtStep(t *testing.T) {
	for _, k := range []int{0, 1, 57, 101, 150, 201} {
		rec := led.NewRecorder(false, "blue")
		r := NewRenderer(pwm.NewGenerator(&clock.Fake{Tick: 50}, rec), 1000, 1)

		checks := 0
		res := r.Render("blue", TokenFunc(func() bool {
			checks++
			return checks > k
		}))

		if !res.Cancelled {
			t.Fatalf("k=%d: render not cancelled", k)
		}
		if res.Steps != k || res.CancelledAt != k {
			t.Errorf("k=%d: Steps = %d, CancelledAt = %d", k, res.Steps, res.CancelledAt)
		}
		if rec.Level("blue") != led.Off {
			t.Errorf("k=%d: LED left on after cancel", k)
		}
	}
}

func TestRenderCancelForcesOff(t *testing.T) {
	c := &dutyRecorder{}
	res := NewRenderer(c, 1000, 1).Render("green", TokenFunc(func() bool { return true }))

	if res.Steps != 0 || len(c.duties) != 0 {
		t.Errorf("cancelled-before-start render ran %d cycles", len(c.duties))
	}
	if c.offs != 1 {
		t.Errorf("Off calls = %d, want 1", c.offs)
	}
}

func TestAny(t *testing.T) {
	never := TokenFunc(func() bool { return false })
	always := TokenFunc(func() bool { return true })

	if Any().Cancelled() {
		t.Error("empty Any cancelled")
	}
	if Any(never, nil).Cancelled() {
		t.Error("Any(never, nil) cancelled")
	}
	if !Any(never, always).Cancelled() {
		t.Error("Any(never, always) not cancelled")
	}
}
