package collection

import (
	"fmt"
	"slices"

	"github.com/delaneyj/observed/diff"
	"github.com/delaneyj/observed/signal"
)

// Event is the payload of Added and Removed.
type Event[T any] struct {
	Element T
	Index   int
}

// List is an ordered observable collection. Duplicates are allowed. Every
// mutation goes through Add, Insert or a removal method and is reported on
// Added or Removed, one event per element.
type List[T any] struct {
	data    []T
	eq      diff.Equal[T]
	added   *signal.Signal[Event[T]]
	removed *signal.Signal[Event[T]]
}

// NewList creates a list comparing elements with ==.
func NewList[T comparable](items ...T) *List[T] {
	return NewListFunc(diff.Identity[T], items...)
}

// NewListFunc creates a list using eq for lookups by value.
func NewListFunc[T any](eq diff.Equal[T], items ...T) *List[T] {
	if eq == nil {
		panic("collection: nil equality")
	}
	return &List[T]{
		data:    slices.Clone(items),
		eq:      eq,
		added:   signal.New[Event[T]](),
		removed: signal.New[Event[T]](),
	}
}

func (l *List[T]) Added() *signal.Signal[Event[T]] {
	return l.added
}

func (l *List[T]) Removed() *signal.Signal[Event[T]] {
	return l.removed
}

func (l *List[T]) Equal() diff.Equal[T] {
	return l.eq
}

func (l *List[T]) Len() int {
	return len(l.data)
}

func (l *List[T]) At(i int) T {
	return l.data[i]
}

// Add appends el. It always succeeds for a list.
func (l *List[T]) Add(el T) bool {
	l.data = append(l.data, el)
	l.added.Dispatch(Event[T]{Element: el, Index: len(l.data) - 1})
	return true
}

func (l *List[T]) AddAll(els ...T) {
	for _, el := range els {
		l.Add(el)
	}
}

// Insert places el at index i, shifting later elements. i may equal Len.
func (l *List[T]) Insert(i int, el T) {
	if i < 0 || i > len(l.data) {
		panic(fmt.Errorf("collection: insert at %d: %w", i, ErrIndexOutOfRange))
	}
	l.data = slices.Insert(l.data, i, el)
	l.added.Dispatch(Event[T]{Element: el, Index: i})
}

func (l *List[T]) IndexOf(el T) int {
	for i, other := range l.data {
		if l.eq(other, el) {
			return i
		}
	}
	return -1
}

func (l *List[T]) Contains(el T) bool {
	return l.IndexOf(el) >= 0
}

// Remove removes the first element equal to el and reports whether one was found.
func (l *List[T]) Remove(el T) bool {
	i := l.IndexOf(el)
	if i < 0 {
		return false
	}
	l.RemoveAt(i)
	return true
}

// RemoveOneOf is Remove under the name derived collections use.
func (l *List[T]) RemoveOneOf(el T) bool {
	return l.Remove(el)
}

// RemoveAll removes every element equal to el and returns how many went.
func (l *List[T]) RemoveAll(el T) int {
	n := 0
	for l.Remove(el) {
		n++
	}
	return n
}

func (l *List[T]) RemoveAt(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(l.data) {
		return zero, false
	}
	el := l.data[i]
	l.data = slices.Delete(l.data, i, i+1)
	l.removed.Dispatch(Event[T]{Element: el, Index: i})
	return el, true
}

// Clear removes index 0 until the list is empty so each removal is observed.
func (l *List[T]) Clear() {
	for len(l.data) > 0 {
		l.RemoveAt(0)
	}
}

// SetFrom converges the contents onto src: elements missing from src are
// removed one at a time, then elements of src not yet present are appended.
// Elements present on both sides are left alone.
func (l *List[T]) SetFrom(src []T) {
	d := diff.SetsFunc(l.Items(), src, l.eq)
	for _, el := range d.UniqueA {
		l.Remove(el)
	}
	for _, el := range d.UniqueB {
		l.Add(el)
	}
}

// ForEach visits a snapshot, so fn may mutate the list.
func (l *List[T]) ForEach(fn func(el T, i int)) {
	for i, el := range l.Items() {
		fn(el, i)
	}
}

// Items returns a copy of the contents.
func (l *List[T]) Items() []T {
	return slices.Clone(l.data)
}
