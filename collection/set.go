package collection

import (
	"errors"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/observed/diff"
	"github.com/delaneyj/observed/signal"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Set is an observable collection that keeps at most one of each element.
// It is backed by a List for ordering and events, with a membership index
// for constant time duplicate checks.
type Set[T comparable] struct {
	list    *List[T]
	members mapset.Set[T]
}

func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{
		list:    NewList[T](),
		members: mapset.NewThreadUnsafeSet[T](),
	}
	for _, el := range items {
		if s.members.Add(el) {
			s.list.data = append(s.list.data, el)
		}
	}
	return s
}

func (s *Set[T]) Added() *signal.Signal[Event[T]] {
	return s.list.added
}

func (s *Set[T]) Removed() *signal.Signal[Event[T]] {
	return s.list.removed
}

func (s *Set[T]) Len() int {
	return s.list.Len()
}

func (s *Set[T]) Contains(el T) bool {
	return s.members.Contains(el)
}

// Add appends el unless it is already present, in which case nothing happens
// and false is returned.
func (s *Set[T]) Add(el T) bool {
	if !s.members.Add(el) {
		return false
	}
	return s.list.Add(el)
}

func (s *Set[T]) AddAll(els ...T) int {
	n := 0
	for _, el := range els {
		if s.Add(el) {
			n++
		}
	}
	return n
}

func (s *Set[T]) Remove(el T) bool {
	if !s.members.Contains(el) {
		return false
	}
	s.members.Remove(el)
	return s.list.Remove(el)
}

func (s *Set[T]) Clear() {
	for s.list.Len() > 0 {
		s.Remove(s.list.At(0))
	}
}

// SetFrom converges the set onto src, see List.SetFrom.
func (s *Set[T]) SetFrom(src []T) {
	d := diff.Sets(s.list.Items(), src)
	for _, el := range d.UniqueA {
		s.Remove(el)
	}
	for _, el := range d.UniqueB {
		s.Add(el)
	}
}

func (s *Set[T]) ForEach(fn func(el T, i int)) {
	s.list.ForEach(fn)
}

func (s *Set[T]) Items() []T {
	return s.list.Items()
}
