// Package diff computes the multiset difference between two sequences under a
// caller supplied equality.
package diff

import (
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Equal reports whether a and b should be treated as the same element.
type Equal[T any] func(a, b T) bool

// Result is produced fresh on each call and owned by the caller.
type Result[T any] struct {
	UniqueA []T // only in a
	UniqueB []T // only in b
	Common  []T // in both, the instances from a
}

func Identity[T comparable](a, b T) bool {
	return a == b
}

// Equaler is implemented by elements that define their own equality.
type Equaler[T any] interface {
	Equals(other T) bool
}

// Object prefers the element's own Equals method and falls back to identity.
func Object[T comparable](a, b T) bool {
	if e, ok := any(a).(Equaler[T]); ok {
		return e.Equals(b)
	}
	return a == b
}

func Sets[T comparable](a, b []T) Result[T] {
	return SetsFunc(a, b, Identity[T])
}

// SetsFunc matches every element of a against the first still unmatched
// element of b for which eq holds. Each occurrence is consumed once, so
// duplicates are never collapsed. The cost is O(len(a)*len(b)); eq is an
// arbitrary predicate and cannot be assumed hashable. Panics from eq propagate.
func SetsFunc[T any](a, b []T, eq Equal[T]) Result[T] {
	if eq == nil {
		panic("diff: nil equality")
	}
	workA := slices.Clone(a)
	workB := slices.Clone(b)
	var common []T

	for i := 0; i < len(workA); i++ {
		for j := 0; j < len(workB); j++ {
			if !eq(workA[i], workB[j]) {
				continue
			}
			common = append(common, workA[i])
			workA = slices.Delete(workA, i, i+1)
			workB = slices.Delete(workB, j, j+1)
			// the next element shifted into slot i
			i--
			break
		}
	}

	return Result[T]{
		UniqueA: workA,
		UniqueB: workB,
		Common:  common,
	}
}

// Keyed is the hashed variant of SetsFunc for callers that can guarantee a
// key such that equal elements share a key and different elements do not.
// Results hold the same multisets as SetsFunc with the matching equality,
// UniqueA and Common keep a's order and UniqueB keeps b's order.
func Keyed[T any](a, b []T, key func(T) uint64) Result[T] {
	total := make(map[uint64]int, len(b))
	for _, el := range b {
		total[key(el)]++
	}
	pending := make(map[uint64]int, len(total))
	for k, n := range total {
		pending[k] = n
	}

	var res Result[T]
	for _, el := range a {
		k := key(el)
		if pending[k] > 0 {
			pending[k]--
			res.Common = append(res.Common, el)
			continue
		}
		res.UniqueA = append(res.UniqueA, el)
	}

	// SetsFunc consumes b from the front, so the leftovers are the last
	// occurrences of each key
	seen := make(map[uint64]int, len(total))
	for _, el := range b {
		k := key(el)
		seen[k]++
		if seen[k] > total[k]-pending[k] {
			res.UniqueB = append(res.UniqueB, el)
		}
	}
	return res
}

// StringKey hashes a string for use with Keyed.
func StringKey(s string) uint64 {
	return xxhash.Sum64String(s)
}
