package event

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestEventFiresAtPeriod(t *testing.T) {
	var fired int32
	mgr := NewMgr()
	mgr.AddEvent(NewEvent(SendPing, 5*time.Millisecond, true, func() {
		atomic.AddInt32(&fired, 1)
	}))
	mgr.Start()
	time.Sleep(55 * time.Millisecond)
	mgr.Stop()

	got := atomic.LoadInt32(&fired)
	if got < 5 || got > 15 {
		t.Fatalf("fired %d times in ~55ms at a 5ms period, want roughly 10", got)
	}
}

func TestDisabledEventNeverFires(t *testing.T) {
	var fired int32
	mgr := NewMgr()
	mgr.AddEvent(NewEvent(SendKeepAlive, time.Millisecond, false, func() {
		atomic.AddInt32(&fired, 1)
	}))
	mgr.Start()
	time.Sleep(20 * time.Millisecond)
	mgr.Stop()

	if atomic.LoadInt32(&fired) != 0 {
		t.Fatalf("disabled event fired %d times, want 0", fired)
	}
}

func TestEnablingLater(t *testing.T) {
	var fired int32
	mgr := NewMgr()
	ev := NewEvent(PeriodicSave, 2*time.Millisecond, false, func() {
		atomic.AddInt32(&fired, 1)
	})
	mgr.AddEvent(ev)
	mgr.Start()
	time.Sleep(10 * time.Millisecond)
	ev.SetEnabled(true)
	time.Sleep(20 * time.Millisecond)
	mgr.Stop()

	if atomic.LoadInt32(&fired) == 0 {
		t.Fatal("event never fired after being enabled")
	}
}

func TestRemoveEventStopsFiring(t *testing.T) {
	var fired int32
	mgr := NewMgr()
	mgr.AddEvent(NewEvent(ProcessIncoming, time.Millisecond, true, func() {
		atomic.AddInt32(&fired, 1)
	}))
	mgr.Start()
	time.Sleep(5 * time.Millisecond)
	mgr.RemoveEvent(ProcessIncoming)
	atomic.StoreInt32(&fired, 0)
	time.Sleep(10 * time.Millisecond)
	mgr.Stop()

	if atomic.LoadInt32(&fired) != 0 {
		t.Fatalf("removed event still fired %d times", fired)
	}
}

func TestEventIDValuesMatchSourceEnum(t *testing.T) {
	if ProcessIncoming != 0 || SendKeepAlive != 1 || SendPing != 2 || PeriodicSave != 4 {
		t.Fatal("event ID values must preserve the gap at 3")
	}
}
