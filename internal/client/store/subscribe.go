package store

// Subscribe registers fn to be called after every committed mutation, on
// the committing goroutine. Mutations committed by one goroutine are
// delivered in the order they were committed. fn must not block for long and
// may read the store. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Mutation)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(name string, payload any) {
	s.subMu.Lock()
	fns := make([]func(Mutation), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.subMu.Unlock()

	m := Mutation{Name: name, Payload: payload}
	for _, fn := range fns {
		fn(m)
	}
}
