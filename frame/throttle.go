package frame

// Throttle coalesces triggers: any number of Trigger calls before the next
// frame produce exactly one call to fn. It is not safe for concurrent use; it
// lives on the loop goroutine like everything it schedules.
type Throttle struct {
	s      Scheduler
	fn     func()
	cancel func()
}

func NewThrottle(s Scheduler, fn func()) *Throttle {
	if s == nil || fn == nil {
		panic("frame: throttle needs a scheduler and a callback")
	}
	return &Throttle{s: s, fn: fn}
}

func (t *Throttle) Trigger() {
	if t.cancel != nil {
		return
	}
	t.cancel = t.s.RequestFrame(t.fire)
}

func (t *Throttle) fire() {
	t.cancel = nil
	t.fn()
}

// Pending reports whether a run is scheduled.
func (t *Throttle) Pending() bool {
	return t.cancel != nil
}

// Cancel drops the scheduled run, if any, and reports whether there was one.
func (t *Throttle) Cancel() bool {
	if t.cancel == nil {
		return false
	}
	t.cancel()
	t.cancel = nil
	return true
}
