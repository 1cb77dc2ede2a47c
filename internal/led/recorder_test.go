package led

import (
	"slices"
	"testing"
)

func TestRecorder(t *testing.T) {
	rec := NewRecorder(true, "green", "red")

	rec.Set("red", On)
	rec.Set("red", On)
	rec.Set("red", Off)
	rec.Set("red", On)
	rec.Set("green", On)

	if got := rec.OnTransitions("red"); got != 2 {
		t.Errorf("OnTransitions(red) = %d, want 2", got)
	}
	if !rec.AnyOn() {
		t.Error("AnyOn() = false with two LEDs on")
	}

	want := []Write{{"red", On}, {"red", On}, {"red", Off}, {"red", On}, {"green", On}}
	if got := rec.Writes(); !slices.Equal(got, want) {
		t.Errorf("Writes() = %v, want %v", got, want)
	}

	rec.AllOff()
	if rec.AnyOn() {
		t.Error("AnyOn() = true after AllOff")
	}
	if rec.AllOffCalls() != 1 {
		t.Errorf("AllOffCalls() = %d, want 1", rec.AllOffCalls())
	}

	rec.Reset()
	if len(rec.Writes()) != 0 || rec.OnTransitions("red") != 0 || rec.AllOffCalls() != 0 {
		t.Error("Reset() did not clear counters")
	}
}

func TestRecorderWithoutWrites(t *testing.T) {
	rec := NewRecorder(false, "red")
	rec.Set("red", On)
	if len(rec.Writes()) != 0 {
		t.Error("writes recorded with keepWrites=false")
	}
	if rec.Level("red") != On {
		t.Error("level not tracked")
	}
}
