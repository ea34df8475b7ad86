package transport

type refreshResult struct {
	token string
	err   error
}

type waiter struct {
	id     string
	result chan refreshResult
}

// refreshState is guarded by the owning RoundTripper's mutex.
type refreshState struct {
	inProgress bool
	// generation changes whenever the session is replaced or logged out
	generation uint64
	waiters    []*waiter
}

func (s *refreshState) enqueue(id string) *waiter {
	w := &waiter{id: id, result: make(chan refreshResult, 1)}
	s.waiters = append(s.waiters, w)
	return w
}

// drain ends the refresh cycle and hands over queued waiters in enqueue order.
func (s *refreshState) drain() []*waiter {
	waiters := s.waiters
	s.waiters = nil
	s.inProgress = false
	return waiters
}
