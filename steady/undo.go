package steady

import (
	"time"

	"steadyview/internal/telemetry"
)

// undoScheduler arms a one-shot check per consumer per gated dispatch.
// Reverting is a global condition: the check fires well after the undo
// timeout plus the check interval (plus slack against timer jitter) and
// reverts only if no sample at all has arrived within the timeout —
// whichever consumer produced it. A newer dispatch supersedes older
// checks naturally, because lastAction has advanced by the time they
// fire; no timer cancellation is needed.
type undoScheduler struct {
	delay       time.Duration
	undoTimeout time.Duration

	disp *dispatcher
	loop *applyLoop

	now   func() time.Time
	after func(time.Duration, func()) *time.Timer
}

func newUndoScheduler(cfg Config, disp *dispatcher, loop *applyLoop) *undoScheduler {
	return &undoScheduler{
		delay:       cfg.UndoTimeout + cfg.UndoCheckInterval + cfg.UndoSlack,
		undoTimeout: cfg.UndoTimeout,
		disp:        disp,
		loop:        loop,
		now:         time.Now,
		after:       time.AfterFunc,
	}
}

func (u *undoScheduler) schedule(c Consumer) {
	u.after(u.delay, func() {
		// The staleness check runs on the apply loop, like the revert
		// itself, so it observes lastAction after any apply still queued
		// ahead of it.
		u.loop.post(func() {
			if u.undoNeeded() {
				c.RevertOffset()
				telemetry.OffsetsReverted.Inc()
			}
		})
	})
}

func (u *undoScheduler) undoNeeded() bool {
	return u.now().Sub(u.disp.lastActionAt()) > u.undoTimeout
}
