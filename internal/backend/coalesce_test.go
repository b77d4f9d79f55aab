package backend

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCoalescerDropsTriggersWhilePending(t *testing.T) {
	var fired int32
	c := newCoalescer(30*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	defer c.stop()

	if !c.trigger() {
		t.Fatal("first trigger should schedule")
	}
	for i := 0; i < 5; i++ {
		if c.trigger() {
			t.Fatal("trigger while pending should be dropped")
		}
	}

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Fatalf("expected one fire, got %d", got)
	}
}

func TestCoalescerSchedulesAgainAfterFire(t *testing.T) {
	var fired int32
	c := newCoalescer(10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	defer c.stop()

	c.trigger()
	time.Sleep(50 * time.Millisecond)
	if !c.trigger() {
		t.Fatal("trigger after fire should schedule again")
	}
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 2 {
		t.Fatalf("expected two fires, got %d", got)
	}
}

func TestCoalescerStopPreventsFire(t *testing.T) {
	var fired int32
	c := newCoalescer(20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	c.trigger()
	c.stop()

	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Fatalf("stop should cancel the pending fire, got %d", got)
	}
}
