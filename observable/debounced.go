package observable

import (
	"github.com/delaneyj/observed/frame"
	"github.com/delaneyj/observed/signal"
)

// Debounced follows a source value but publishes at most once per frame, with
// whatever the source holds when the frame runs. Bursts that end where they
// started publish nothing.
type Debounced[T comparable] struct {
	*Value[T]
	source   *Value[T]
	throttle *frame.Throttle
	sub      *signal.Subscription[Change[T]]
}

func NewDebounced[T comparable](source *Value[T], s frame.Scheduler) *Debounced[T] {
	d := &Debounced[T]{
		Value:  New(source.Get()),
		source: source,
	}
	d.throttle = frame.NewThrottle(s, func() {
		d.Value.Set(d.source.Get())
	})
	d.sub = source.Changed().Add(func(Change[T]) {
		d.throttle.Trigger()
	})
	return d
}

// Dispose stops following the source and drops a pending publish.
func (d *Debounced[T]) Dispose() {
	d.sub.Dispose()
	d.throttle.Cancel()
}
