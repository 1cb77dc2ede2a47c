package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestMonotonicWait(t *testing.T) {
	src := NewMonotonic()

	start := time.Now()
	Wait(src, 2000)
	if got := time.Since(start); got < 2*time.Millisecond {
		t.Errorf("Wait(2000us) returned after %v", got)
	}

	s := src.Sample()
	if src.Elapsed(s, 1_000_000) {
		t.Error("Elapsed reported 1s immediately after sampling")
	}
}

func TestFakeWaitAdvancesCounter(t *testing.T) {
	f := &Fake{Tick: 10}

	before := f.Now()
	Wait(f, 500)
	after := f.Now()

	if after-before < 500 {
		t.Errorf("counter advanced %d us, want >= 500", after-before)
	}
}

func TestWaitZeroDoesNotSample(t *testing.T) {
	f := &Fake{}
	Wait(f, 0)
	if f.Now() != 0 {
		t.Errorf("Wait(0) sampled the source, counter = %d", f.Now())
	}
}

func TestHold(t *testing.T) {
	t.Run("runs to completion", func(t *testing.T) {
		f := &Fake{Tick: 100}
		if !Hold(f, 50*time.Millisecond, func() bool { return false }) {
			t.Fatal("Hold returned false without stop")
		}
		if f.Now() < Stamp(50_000) {
			t.Errorf("counter = %d, want >= 50000", f.Now())
		}
	})

	t.Run("stops early", func(t *testing.T) {
		f := &Fake{Tick: 100}
		var checks atomic.Int32
		stop := func() bool { return checks.Add(1) > 2 }
		if Hold(f, time.Second, stop) {
			t.Fatal("Hold returned true although stop fired")
		}
		if f.Now() >= Stamp(time.Second/time.Microsecond) {
			t.Errorf("Hold waited the full duration, counter = %d", f.Now())
		}
	})

	t.Run("nil stop", func(t *testing.T) {
		f := &Fake{Tick: 1000}
		if !Hold(f, 20*time.Millisecond, nil) {
			t.Fatal("Hold with nil stop returned false")
		}
	})
}

func TestAfterFuncRestart(t *testing.T) {
	var a AfterFunc
	fired := make(chan string, 2)

	a.Start(time.Hour, func() { fired <- "first" })
	a.Start(5*time.Millisecond, func() { fired <- "second" })

	select {
	case got := <-fired:
		if got != "second" {
			t.Fatalf("fired %q, want second", got)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for restarted timer")
	}

	if a.Stop() {
		t.Error("Stop reported a pending timer after it fired")
	}
}

func TestAfterFuncStop(t *testing.T) {
	var a AfterFunc
	fired := make(chan struct{}, 1)

	a.Start(20*time.Millisecond, func() { fired <- struct{}{} })
	if !a.Stop() {
		t.Fatal("Stop returned false for a pending timer")
	}

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFakeTimeout(t *testing.T) {
	var ft FakeTimeout
	n := 0

	ft.Start(500*time.Millisecond, func() { n++ })
	if !ft.Pending() || ft.Duration() != 500*time.Millisecond {
		t.Fatalf("pending=%v duration=%v", ft.Pending(), ft.Duration())
	}
	if !ft.Fire() || n != 1 {
		t.Fatalf("Fire did not run callback, n=%d", n)
	}
	if ft.Fire() {
		t.Error("second Fire ran a callback")
	}
	if ft.Stop() {
		t.Error("Stop reported pending after Fire")
	}
	if ft.Starts() != 1 {
		t.Errorf("Starts = %d, want 1", ft.Starts())
	}
}
