package steady

import (
	"sync"
	"time"

	"steadyview/internal/telemetry"
)

// dispatcher turns one incoming sample into consumer effects. It owns the
// three shared instants of the core — last action, last undo check, last
// metadata delivery — behind one mutex. They advance only on the dispatch
// path and are never reset for the lifetime of the instance.
type dispatcher struct {
	undo *undoScheduler
	loop *applyLoop

	// batchMu serializes whole-batch fan-out. Sources may deliver samples
	// from several goroutines at once; without it two overlapping batches
	// could both read an open gate and deliver metadata twice per window.
	batchMu sync.Mutex

	mu         sync.Mutex
	lastAction time.Time
	undoGate   intervalGate
	metaGate   intervalGate
}

func newDispatcher(cfg Config, loop *applyLoop) *dispatcher {
	return &dispatcher{
		loop:     loop,
		undoGate: intervalGate{min: cfg.UndoCheckInterval},
		metaGate: intervalGate{min: cfg.MetaInfoInterval},
	}
}

// dispatch fans the sample out to the snapshot, in insertion order.
// The undo-check gate is evaluated once for the whole batch, and so is
// the metadata gate: every capable consumer of the batch receives the
// same metadata delivery, with a single gate advancement afterwards.
// Batches run one at a time; mu alone cannot span the fan-out because the
// undo check reads lastAction from the apply loop.
func (d *dispatcher) dispatch(batch []Consumer, s Sample) {
	d.batchMu.Lock()
	defer d.batchMu.Unlock()

	d.mu.Lock()
	postUndoCheck := d.undoGate.due(s.At)
	metaDue := s.Meta != nil && d.metaGate.due(s.At)
	d.mu.Unlock()

	metaDelivered := false
	for _, c := range batch {
		d.applyOffsets(c, s)
		if postUndoCheck {
			d.undo.schedule(c)
		}
		if o, ok := c.(RawSampleObserver); ok {
			x, y := s.X, s.Y
			d.loop.post(func() { o.HandleRawSample(x, y) })
		}
		if metaDue {
			if o, ok := c.(MetaInfoObserver); ok {
				info := *s.Meta
				d.loop.post(func() { o.HandleMetaInfo(info) })
				metaDelivered = true
				telemetry.MetaDeliveries.Inc()
			}
		}
	}

	d.mu.Lock()
	if postUndoCheck {
		d.undoGate.mark(s.At)
	}
	if metaDelivered {
		d.metaGate.mark(s.At)
	}
	d.lastAction = s.At
	d.mu.Unlock()

	telemetry.SamplesDispatched.Inc()
}

// applyOffsets applies each axis independently: a sentinel on one axis
// never blocks the other.
func (d *dispatcher) applyOffsets(c Consumer, s Sample) {
	x, y := s.X, s.Y
	if x == InvalidCoord && y == InvalidCoord {
		return
	}
	d.loop.post(func() {
		if x != InvalidCoord {
			c.SetOffsetX(x)
			telemetry.OffsetsApplied.Inc()
		}
		if y != InvalidCoord {
			c.SetOffsetY(y)
			telemetry.OffsetsApplied.Inc()
		}
	})
}

func (d *dispatcher) lastActionAt() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastAction
}
