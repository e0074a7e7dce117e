package steady

import (
	"errors"
	"sync"
	"time"

	"steadyview/internal/telemetry"
)

// Config wires a Stabilizer to its collaborators. The intervals default
// to the service contract values; they are instance-level settings, not
// per-call knobs.
type Config struct {
	Connection Connection
	Source     EventSource

	// UndoTimeout is the inactivity window after which applied offsets
	// are reverted to the origin.
	UndoTimeout time.Duration
	// UndoCheckInterval is the minimum spacing between scheduling two
	// rounds of undo checks.
	UndoCheckInterval time.Duration
	// MetaInfoInterval is the minimum spacing between two metadata
	// deliveries.
	MetaInfoInterval time.Duration
	// UndoSlack pads the deferred undo check against timer jitter.
	UndoSlack time.Duration
}

func applyDefaults(c *Config) {
	if c.UndoTimeout == 0 {
		c.UndoTimeout = 2 * time.Second
	}
	if c.UndoCheckInterval == 0 {
		c.UndoCheckInterval = time.Second
	}
	if c.MetaInfoInterval == 0 {
		c.MetaInfoInterval = 5 * time.Second
	}
	if c.UndoSlack == 0 {
		c.UndoSlack = 500 * time.Millisecond
	}
}

// Stabilizer is the feature instance. It holds the service resources only
// while at least one consumer is attached and the feature is enabled:
// attaching the first consumer binds the connection and subscribes to the
// sample channel, removing the last one (or disabling) releases both.
type Stabilizer struct {
	life *lifecycle
	disp *dispatcher
	loop *applyLoop

	mu  sync.Mutex // registry lock; spans every resource transition
	set consumerSet
}

// New validates the collaborators and starts the apply loop. The instance
// is enabled from the start.
func New(cfg Config) (*Stabilizer, error) {
	if cfg.Connection == nil {
		return nil, errors.New("steady: nil Connection")
	}
	if cfg.Source == nil {
		return nil, errors.New("steady: nil Source")
	}
	applyDefaults(&cfg)

	s := &Stabilizer{loop: newApplyLoop()}
	s.disp = newDispatcher(cfg, s.loop)
	s.disp.undo = newUndoScheduler(cfg, s.disp, s.loop)
	s.life = newLifecycle(cfg.Connection, cfg.Source, s.dispatch)
	return s, nil
}

// Attach registers a consumer for offset delivery, acquiring the service
// resources if it is the first one while enabled. The handle must be
// comparable; attaching it twice is a no-op. Reports whether the service
// connection is held when this call returns.
func (s *Stabilizer) Attach(c Consumer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c != nil {
		s.set.add(c)
		telemetry.ConsumersAttached.Set(float64(s.set.size()))
	}
	if !s.set.empty() && s.life.isEnabled() {
		return s.life.activate()
	}
	return false
}

// Release removes the consumer; when the set becomes empty the service
// resources are released.
func (s *Stabilizer) Release(c Consumer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c != nil {
		s.set.remove(c)
		telemetry.ConsumersAttached.Set(float64(s.set.size()))
	}
	if s.set.empty() {
		s.life.deactivate()
	}
}

// Clear empties the registry but keeps the connection and subscription
// warm. Consumers simply stop receiving; none of them is reverted.
func (s *Stabilizer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.set.clear()
	telemetry.ConsumersAttached.Set(0)
}

// Destroy empties the registry, releases the service resources and stops
// the apply loop. The instance must not be used afterwards.
func (s *Stabilizer) Destroy() {
	s.mu.Lock()
	s.set.clear()
	telemetry.ConsumersAttached.Set(0)
	s.life.deactivate()
	s.mu.Unlock()

	s.loop.stop()
}

// SetEnabled flips the feature flag and reports whether the value
// changed. Enabling with consumers attached reactivates the resources
// without re-attaching; disabling releases them immediately.
func (s *Stabilizer) SetEnabled(enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.life.setEnabled(enabled) {
		return false
	}
	if enabled {
		if !s.set.empty() {
			s.life.activate()
		}
	} else {
		s.life.deactivate()
	}
	return true
}

// Enabled reports the feature flag.
func (s *Stabilizer) Enabled() bool { return s.life.isEnabled() }

// dispatch is the EventSource handler: snapshot under the registry lock,
// fan out outside it. Sources may call the handler from any goroutine, so
// the snapshot is local to the call; a shared buffer would race between
// overlapping deliveries.
func (s *Stabilizer) dispatch(sample Sample) {
	s.mu.Lock()
	batch := s.set.appendTo(make([]Consumer, 0, s.set.size()))
	s.mu.Unlock()

	s.disp.dispatch(batch, sample)
}
