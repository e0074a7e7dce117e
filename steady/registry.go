package steady

// consumerSet is an insertion-ordered set with unique membership.
// It carries no lock of its own: the Stabilizer's registry mutex guards
// every access together with the empty/non-empty transition decision.
type consumerSet struct {
	items []Consumer
}

func (s *consumerSet) add(c Consumer) bool {
	for _, have := range s.items {
		if have == c {
			return false
		}
	}
	s.items = append(s.items, c)
	return true
}

func (s *consumerSet) remove(c Consumer) bool {
	for i, have := range s.items {
		if have == c {
			copy(s.items[i:], s.items[i+1:])
			s.items[len(s.items)-1] = nil
			s.items = s.items[:len(s.items)-1]
			return true
		}
	}
	return false
}

func (s *consumerSet) clear() {
	for i := range s.items {
		s.items[i] = nil
	}
	s.items = s.items[:0]
}

func (s *consumerSet) empty() bool { return len(s.items) == 0 }

func (s *consumerSet) size() int { return len(s.items) }

// appendTo copies the members into dst in insertion order, for iteration
// outside the registry lock.
func (s *consumerSet) appendTo(dst []Consumer) []Consumer {
	return append(dst, s.items...)
}
