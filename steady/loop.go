package steady

import "sync"

// applyLoop is the interaction thread of the core: a single goroutine
// through which every consumer-visible mutation is funneled, so consumer
// implementations never see concurrent calls.
type applyLoop struct {
	mu     sync.Mutex
	tasks  chan func()
	closed bool
	done   chan struct{}
}

func newApplyLoop() *applyLoop {
	l := &applyLoop{
		tasks: make(chan func(), 128),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *applyLoop) run() {
	for fn := range l.tasks {
		fn()
	}
	close(l.done)
}

// post enqueues fn for serialized execution. Tasks posted after stop are
// dropped; a late undo check against a destroyed instance is a no-op.
func (l *applyLoop) post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.tasks <- fn
}

// stop drains the queue and waits for the loop goroutine to exit.
func (l *applyLoop) stop() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.tasks)
	}
	l.mu.Unlock()
	<-l.done
}
