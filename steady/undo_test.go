package steady

import (
	"testing"
	"time"
)

func TestUndoRevertsAfterInactivity(t *testing.T) {
	conn, src := &fakeConn{}, &fakeSource{}
	s := newTestStabilizer(t, Config{
		UndoTimeout:       60 * time.Millisecond,
		UndoCheckInterval: 20 * time.Millisecond,
		UndoSlack:         20 * time.Millisecond,
	}, conn, src)
	defer s.Destroy()

	v := &fakeView{}
	s.Attach(v)

	src.emit(10, 10, nil)
	drain(s)
	if xs, _ := v.applied(); len(xs) != 1 {
		t.Fatalf("offset not applied: %v", xs)
	}

	// No further events: the deferred check fires after
	// undoTimeout + undoCheckInterval + slack and reverts.
	time.Sleep(250 * time.Millisecond)
	drain(s)
	if v.reverted() != 1 {
		t.Fatalf("want 1 revert after inactivity, got %d", v.reverted())
	}
}

func TestUndoSuppressedByNewerEvent(t *testing.T) {
	conn, src := &fakeConn{}, &fakeSource{}
	s := newTestStabilizer(t, Config{
		UndoTimeout:       150 * time.Millisecond,
		UndoCheckInterval: 50 * time.Millisecond,
		UndoSlack:         50 * time.Millisecond,
	}, conn, src)

	v := &fakeView{}
	s.Attach(v)

	src.emit(10, 10, nil)

	// A second event before the first check fires advances the global
	// last-action instant, so the stale check must not revert.
	time.Sleep(150 * time.Millisecond)
	src.emit(20, 20, nil)

	// The first check fires ~250ms after the first event; by then the
	// last action is only ~100ms old.
	time.Sleep(150 * time.Millisecond)
	drain(s)
	if v.reverted() != 0 {
		t.Fatalf("stale undo check must not revert, got %d", v.reverted())
	}

	// Tear down before the second event's own check comes due.
	s.Destroy()
}

func TestUndoCheckGateSharedPerDispatch(t *testing.T) {
	conn, src := &fakeConn{}, &fakeSource{}
	s := newTestStabilizer(t, Config{
		UndoTimeout:       time.Hour,
		UndoCheckInterval: time.Hour,
	}, conn, src)
	defer s.Destroy()

	scheduled := 0
	s.disp.undo.after = func(time.Duration, func()) *time.Timer {
		scheduled++
		return nil
	}

	a, b := &fakeView{}, &fakeView{}
	s.Attach(a)
	s.Attach(b)

	// First dispatch: gate open, one check per consumer in the batch.
	src.emit(1, 1, nil)
	if scheduled != 2 {
		t.Fatalf("want a check per consumer on the gated dispatch, got %d", scheduled)
	}

	// Gate closed for the next dispatch: nothing scheduled.
	src.emit(2, 2, nil)
	if scheduled != 2 {
		t.Fatalf("undo-check gate must be shared per dispatch, got %d", scheduled)
	}
}
