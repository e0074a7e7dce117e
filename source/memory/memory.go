// Package memory provides an in-process EventSource for embedding the
// steady core without a broker, and for tests. Delivery is synchronous:
// Publish invokes the subscribed handler on the caller's goroutine, the
// way a broadcast receiver runs on the broadcaster's thread.
package memory

import (
	"sync"
	"time"

	"steadyview/steady"
)

type Source struct {
	mu sync.Mutex
	h  steady.Handler
}

func New() *Source { return &Source{} }

func (s *Source) Configure(any) error { return nil }

func (s *Source) Subscribe(h steady.Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h = h
	return nil
}

func (s *Source) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h = nil
}

func (s *Source) Close() error {
	s.Unsubscribe()
	return nil
}

// Publish stamps the sample with receipt time and hands it to the
// subscribed handler; unsubscribed sources drop it.
func (s *Source) Publish(x, y float64, meta *steady.MetaInfo) {
	s.mu.Lock()
	h := s.h
	s.mu.Unlock()

	if h == nil {
		return
	}
	h(steady.Sample{X: x, Y: y, At: time.Now(), Meta: meta})
}

// Subscribed reports whether a handler is currently attached.
func (s *Source) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h != nil
}
