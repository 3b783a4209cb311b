package filtered

import (
	"github.com/delaneyj/observed/observable"
	"github.com/delaneyj/observed/signal"
)

// Filter is a dynamic predicate. Changed fires whenever a later Apply on the
// same element could answer differently. Apply must be free of side effects;
// it is called many times per reconciliation.
type Filter[T any] interface {
	Apply(el T) bool
	Changed() *signal.Signal[struct{}]
}

// Predicate is a Filter backed by a replaceable function.
type Predicate[T any] struct {
	fn      func(T) bool
	changed *signal.Signal[struct{}]
}

func NewPredicate[T any](fn func(T) bool) *Predicate[T] {
	if fn == nil {
		panic("filtered: nil predicate")
	}
	return &Predicate[T]{fn: fn, changed: signal.New[struct{}]()}
}

func (p *Predicate[T]) Apply(el T) bool {
	return p.fn(el)
}

func (p *Predicate[T]) Changed() *signal.Signal[struct{}] {
	return p.changed
}

// SetFunc swaps the predicate and fires Changed.
func (p *Predicate[T]) SetFunc(fn func(T) bool) {
	if fn == nil {
		panic("filtered: nil predicate")
	}
	p.fn = fn
	p.Touch()
}

// Touch fires Changed for predicates that close over external state.
func (p *Predicate[T]) Touch() {
	p.changed.Dispatch(struct{}{})
}

// Param is a Filter whose verdict depends on an observable parameter, such as
// a threshold edited in an inspector.
type Param[T any, P comparable] struct {
	param   *observable.Value[P]
	fn      func(el T, param P) bool
	changed *signal.Signal[struct{}]
	sub     *signal.Subscription[observable.Change[P]]
}

func NewParam[T any, P comparable](param *observable.Value[P], fn func(el T, param P) bool) *Param[T, P] {
	if param == nil || fn == nil {
		panic("filtered: param filter needs a parameter and a predicate")
	}
	f := &Param[T, P]{
		param:   param,
		fn:      fn,
		changed: signal.New[struct{}](),
	}
	f.sub = param.Changed().Add(func(observable.Change[P]) {
		f.changed.Dispatch(struct{}{})
	})
	return f
}

func (f *Param[T, P]) Apply(el T) bool {
	return f.fn(el, f.param.Get())
}

func (f *Param[T, P]) Changed() *signal.Signal[struct{}] {
	return f.changed
}

func (f *Param[T, P]) Param() *observable.Value[P] {
	return f.param
}

// Dispose detaches the filter from its parameter.
func (f *Param[T, P]) Dispose() {
	f.sub.Dispose()
}
