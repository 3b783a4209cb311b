// Package observable holds value containers that notify subscribers
// synchronously whenever their value changes.
package observable

import (
	"errors"
	"fmt"

	"github.com/delaneyj/observed/signal"
)

var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrOutOfRange   = errors.New("value out of range")
	ErrShortBuffer  = errors.New("short buffer")
)

// TypeMismatchError is the panic value of a Set that was handed a value of
// the wrong kind.
type TypeMismatchError struct {
	Want string
	Got  any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("observable: want %s, got %T(%v)", e.Want, e.Got, e.Got)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// Change is dispatched on Changed with the value before and after a Set.
type Change[T any] struct {
	New T
	Old T
}

type Value[T comparable] struct {
	value   T
	changed *signal.Signal[Change[T]]
}

func New[T comparable](initial T) *Value[T] {
	return &Value[T]{
		value:   initial,
		changed: signal.New[Change[T]](),
	}
}

func (v *Value[T]) Get() T {
	return v.value
}

// Set stores val and dispatches Changed before returning. Setting the current
// value again is a no-op.
func (v *Value[T]) Set(val T) *Value[T] {
	if v.value == val {
		return v
	}
	old := v.value
	v.value = val
	v.changed.Dispatch(Change[T]{New: val, Old: old})
	return v
}

// SetAny is Set for callers holding an untyped value, such as property
// editors bound by reflection. A value that is not a T panics with a
// *TypeMismatchError.
func (v *Value[T]) SetAny(val any) *Value[T] {
	typed, ok := val.(T)
	if !ok {
		panic(&TypeMismatchError{Want: fmt.Sprintf("%T", v.value), Got: val})
	}
	return v.Set(typed)
}

func (v *Value[T]) Changed() *signal.Signal[Change[T]] {
	return v.changed
}

func (v *Value[T]) String() string {
	return fmt.Sprint(v.value)
}
