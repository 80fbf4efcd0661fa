package watcher

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	var fired int32
	d := NewDebouncer(50*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("callback fired %d times, want 1", got)
	}
}

func TestDebouncerFiresAgainAfterSettling(t *testing.T) {
	var fired int32
	d := NewDebouncer(20*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	d.Trigger()
	time.Sleep(80 * time.Millisecond)
	d.Trigger()
	time.Sleep(80 * time.Millisecond)

	if got := atomic.LoadInt32(&fired); got != 2 {
		t.Errorf("callback fired %d times, want 2", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	var fired int32
	d := NewDebouncer(30*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	d.Trigger()
	if !d.Pending() {
		t.Error("expected pending callback after Trigger")
	}
	d.Cancel()
	if d.Pending() {
		t.Error("Cancel left a pending callback")
	}

	time.Sleep(80 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("cancelled callback fired %d times", got)
	}
}
