package steady

// Handler receives samples from an EventSource. It is safe to call from
// any goroutine; the core serializes consumer-visible effects itself.
type Handler func(Sample)

// EventSource is the subscribable sample channel of the external service.
//
// Subscribe and Unsubscribe are called while the core holds its registry
// lock, so both must be bounded-time: Subscribe should only start
// delivery (e.g. spawn a consume goroutine), and Unsubscribe must stop it
// without waiting for an in-flight handler call to return.
type EventSource interface {
	Subscribe(h Handler) error
	Unsubscribe()
}

// Connection is the bound link to the external service. Acquire and
// Release are never called twice in a row for the same transition; the
// core's compare-and-set flags absorb duplicates. Acquire must be
// bounded-time for the same reason as EventSource.Subscribe.
type Connection interface {
	Acquire() error
	Release()
}
