package steady

import (
	"sync/atomic"

	"steadyview/internal/logging"
)

// lifecycle owns the two external resources: the service connection and
// the sample subscription. Each is guarded by its own compare-and-set
// flag so that acquire and release reach the collaborator exactly once
// per transition, no matter how often the registry asks. The subscription
// is never started without the connection having been attempted first.
type lifecycle struct {
	enabled   atomic.Bool
	bound     atomic.Bool
	receiving atomic.Bool

	conn    Connection
	source  EventSource
	handler Handler
}

func newLifecycle(conn Connection, source EventSource, h Handler) *lifecycle {
	l := &lifecycle{conn: conn, source: source, handler: h}
	l.enabled.Store(true)
	return l
}

// setEnabled swaps the flag only when the value actually changes and
// reports whether it did. Resource transitions are the caller's job: the
// registry occupancy check has to happen under the registry lock.
func (l *lifecycle) setEnabled(v bool) bool {
	return l.enabled.CompareAndSwap(!v, v)
}

func (l *lifecycle) isEnabled() bool { return l.enabled.Load() }

// activate acquires both resources. It reports whether the connection is
// held; a subscription failure is logged and left for the next activation
// attempt to retry.
func (l *lifecycle) activate() bool {
	ok := l.bind()
	l.startReceiving()
	return ok
}

// deactivate releases in reverse order: subscription first, connection
// last. Safe to call at any time, a no-op when nothing is held.
func (l *lifecycle) deactivate() {
	l.stopReceiving()
	l.unbind()
}

func (l *lifecycle) bind() bool {
	if !l.bound.CompareAndSwap(false, true) {
		return true // already bound
	}
	if err := l.conn.Acquire(); err != nil {
		l.bound.Store(false)
		logging.L().Warn("steady: connection acquire failed", "err", err)
		return false
	}
	return true
}

func (l *lifecycle) unbind() {
	if l.bound.CompareAndSwap(true, false) {
		l.conn.Release()
	}
}

func (l *lifecycle) startReceiving() {
	if !l.receiving.CompareAndSwap(false, true) {
		return
	}
	if err := l.source.Subscribe(l.handler); err != nil {
		l.receiving.Store(false)
		logging.L().Warn("steady: subscribe failed", "err", err)
	}
}

func (l *lifecycle) stopReceiving() {
	if l.receiving.CompareAndSwap(true, false) {
		l.source.Unsubscribe()
	}
}
