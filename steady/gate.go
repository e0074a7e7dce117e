package steady

import "time"

// intervalGate decides whether an action is due again, given the instant
// of the last one and a minimum spacing between two. The zero value is
// immediately due. Callers provide their own locking; the dispatcher
// owns all gates under one mutex.
type intervalGate struct {
	min  time.Duration
	last time.Time
}

func (g *intervalGate) due(at time.Time) bool {
	return at.Sub(g.last) > g.min
}

func (g *intervalGate) mark(at time.Time) {
	g.last = at
}
