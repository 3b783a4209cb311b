package signal

// Disposable is anything holding a live registration that can be released.
type Disposable interface {
	Dispose()
}

// Signal is a synchronous multicast event source. Handlers run on the
// dispatching goroutine, in registration order, before Dispatch returns.
type Signal[A any] struct {
	subs []*Subscription[A]
}

func New[A any]() *Signal[A] {
	return &Signal[A]{}
}

// Subscription is the handle returned by Add. The subscriber owns it and
// must Dispose it before dropping the source, else the handler leaks.
type Subscription[A any] struct {
	sig    *Signal[A]
	fn     func(A)
	active bool
}

func (sub *Subscription[A]) Active() bool {
	return sub.active
}

func (sub *Subscription[A]) Dispose() {
	if !sub.active {
		return
	}
	sub.active = false
	sub.sig.remove(sub)
}

func (s *Signal[A]) Add(fn func(A)) *Subscription[A] {
	if fn == nil {
		panic("signal: nil handler")
	}
	sub := &Subscription[A]{sig: s, fn: fn, active: true}
	s.subs = append(s.subs, sub)
	return sub
}

func (s *Signal[A]) remove(sub *Subscription[A]) {
	for i, other := range s.subs {
		if other == sub {
			// copy on write, a dispatch in flight may still range over the old slice
			subs := make([]*Subscription[A], 0, len(s.subs)-1)
			subs = append(subs, s.subs[:i]...)
			s.subs = append(subs, s.subs[i+1:]...)
			return
		}
	}
}

// Dispatch calls every handler registered before the call. Handlers disposed
// while the dispatch is running are skipped.
func (s *Signal[A]) Dispatch(a A) {
	subs := s.subs
	for _, sub := range subs {
		if !sub.active {
			continue
		}
		sub.fn(a)
	}
}

func (s *Signal[A]) Len() int {
	return len(s.subs)
}

// Clear disposes every subscription.
func (s *Signal[A]) Clear() {
	subs := s.subs
	s.subs = nil
	for _, sub := range subs {
		sub.active = false
	}
}
