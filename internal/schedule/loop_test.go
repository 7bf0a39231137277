package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestLoop_PostRunsSerially(t *testing.T) {
	l := NewLoop(0)
	defer l.Stop()

	var counter int
	for i := 0; i < 100; i++ {
		l.Post(func() { counter++ })
	}

	var got int
	if !l.Do(func() { got = counter }) {
		t.Fatal("Do returned false on a running loop")
	}
	if got != 100 {
		t.Fatalf("counter = %d, want 100", got)
	}
}

func TestLoop_EveryFiresOnLoop(t *testing.T) {
	l := NewLoop(0)
	defer l.Stop()

	var fired atomic.Int32
	task := l.Every(5*time.Millisecond, func(time.Time) { fired.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fired.Load() < 3 {
		t.Fatalf("expected at least 3 firings, got %d", fired.Load())
	}

	task.Stop()
	task.Stop()

	// Drain anything already queued, then make sure nothing else arrives.
	l.Do(func() {})
	before := fired.Load()
	time.Sleep(30 * time.Millisecond)
	l.Do(func() {})
	if after := fired.Load(); after != before {
		t.Fatalf("task fired %d more times after Stop", after-before)
	}
}

func TestLoop_StopIsIdempotent(t *testing.T) {
	l := NewLoop(0)
	task := l.Every(time.Hour, func(time.Time) {})

	l.Stop()
	l.Stop()

	if !task.Stopped() {
		t.Error("expected Loop.Stop to stop registered tasks")
	}
	if l.Post(func() {}) {
		t.Error("expected Post to fail after Stop")
	}
	if l.Do(func() {}) {
		t.Error("expected Do to fail after Stop")
	}
}
