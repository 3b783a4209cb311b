// Package filtered keeps a derived collection equal to the elements of an
// input collection that pass every filter of a dynamic filter set, updating
// it with the fewest possible insertions and removals.
package filtered

import (
	"cmp"
	"slices"

	"github.com/delaneyj/observed/collection"
	"github.com/delaneyj/observed/diff"
	"github.com/delaneyj/observed/frame"
	"github.com/delaneyj/observed/signal"
	"github.com/golang/glog"
)

type config struct {
	scheduler frame.Scheduler
	immediate bool
}

type Option func(*config)

// WithScheduler defers reconciliation to the next frame of s, coalescing
// every Update in between into a single Apply.
func WithScheduler(s frame.Scheduler) Option {
	return func(c *config) {
		c.scheduler = s
	}
}

// WithImmediate makes every Update apply synchronously even when a scheduler
// is configured.
func WithImmediate() Option {
	return func(c *config) {
		c.immediate = true
	}
}

// List maintains Output as input restricted to elements accepted by all
// filters, in input order. An element that stays accepted and keeps its place
// relative to the other survivors is never removed and re-added.
//
// Output is only kept current while the list is linked. Unlink leaves it as
// last computed.
type List[T any] struct {
	input   *collection.List[T]
	filters *collection.List[Filter[T]]
	output  *collection.List[T]
	eq      diff.Equal[T]

	scope *signal.Scope
	// one per filter, parallel to filters while linked
	filterBindings []*signal.Binding

	throttle *frame.Throttle
	deferred bool

	applies  int
	applying bool
	dirty    bool
}

// New creates a filtered list comparing elements with diff.Object, which
// honours an Equals method on the element type.
func New[T comparable](input *collection.List[T], filters *collection.List[Filter[T]], opts ...Option) *List[T] {
	return NewFunc(input, filters, diff.Object[T], opts...)
}

func NewFunc[T any](input *collection.List[T], filters *collection.List[Filter[T]], eq diff.Equal[T], opts ...Option) *List[T] {
	if input == nil || filters == nil || eq == nil {
		panic("filtered: input, filters and equality are required")
	}
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &List[T]{
		input:   input,
		filters: filters,
		output:  collection.NewListFunc(eq),
		eq:      eq,
		scope:   &signal.Scope{},
	}
	if cfg.scheduler != nil {
		l.throttle = frame.NewThrottle(cfg.scheduler, l.Apply)
		l.deferred = !cfg.immediate
	}

	signal.Bind(l.scope, input.Added(), func(collection.Event[T]) { l.Update() })
	signal.Bind(l.scope, input.Removed(), func(collection.Event[T]) { l.Update() })
	signal.Bind(l.scope, filters.Added(), func(e collection.Event[Filter[T]]) {
		l.bindFilter(e.Index, e.Element)
		l.Update()
	})
	signal.Bind(l.scope, filters.Removed(), func(e collection.Event[Filter[T]]) {
		l.releaseFilter(e.Index)
		l.Update()
	})
	return l
}

// Output is owned by the filtered list. Consumers subscribe to its Added and
// Removed signals and must not mutate it.
func (l *List[T]) Output() *collection.List[T] {
	return l.output
}

func (l *List[T]) Input() *collection.List[T] {
	return l.input
}

func (l *List[T]) Filters() *collection.List[Filter[T]] {
	return l.filters
}

func (l *List[T]) Linked() bool {
	return l.scope.Linked()
}

// Deferred reports whether Update waits for the next frame.
func (l *List[T]) Deferred() bool {
	return l.deferred
}

// SetDeferred switches between frame-coalesced and synchronous updates.
// Deferred mode needs a scheduler.
func (l *List[T]) SetDeferred(deferred bool) {
	if deferred && l.throttle == nil {
		panic("filtered: deferred mode needs a scheduler")
	}
	l.deferred = deferred
	if !deferred && l.throttle != nil && l.throttle.Pending() {
		l.throttle.Cancel()
		l.Apply()
	}
}

// Applies returns how many reconciliations have run.
func (l *List[T]) Applies() int {
	return l.applies
}

// Link subscribes to the input, the filter set and every current filter, then
// applies once. It is a no-op on a linked list.
func (l *List[T]) Link() {
	if !l.scope.Link() {
		return
	}
	for i, f := range l.filters.Items() {
		l.bindFilter(i, f)
	}
	if glog.V(3) {
		glog.Infof("filtered: linked with %d filters", len(l.filterBindings))
	}
	l.Apply()
}

// Unlink drops every subscription and cancels a pending deferred apply, so a
// frame scheduled before Unlink never touches Output afterwards.
func (l *List[T]) Unlink() {
	if !l.scope.Unlink() {
		return
	}
	for _, b := range l.filterBindings {
		b.Release()
	}
	l.filterBindings = nil
	if l.throttle != nil {
		l.throttle.Cancel()
	}
	if glog.V(3) {
		glog.Info("filtered: unlinked")
	}
}

// Filters are tracked by position rather than compared, so implementations
// need not be comparable.
func (l *List[T]) bindFilter(at int, f Filter[T]) {
	b := signal.Bind(l.scope, f.Changed(), func(struct{}) { l.Update() })
	l.filterBindings = slices.Insert(l.filterBindings, at, b)
}

func (l *List[T]) releaseFilter(at int) {
	if at < 0 || at >= len(l.filterBindings) {
		return
	}
	l.filterBindings[at].Release()
	l.filterBindings = slices.Delete(l.filterBindings, at, at+1)
}

// Update requests a reconciliation, now or on the next frame.
func (l *List[T]) Update() {
	if l.deferred {
		l.throttle.Trigger()
		return
	}
	l.Apply()
}

func accepts[T any](filters []Filter[T], el T) bool {
	for _, f := range filters {
		if !f.Apply(el) {
			return false
		}
	}
	return true
}

// Apply recomputes the filtered result and patches Output towards it.
// Departed elements are removed one by one. Survivors that no longer sit in
// input order are taken out too, keeping the longest run that does. Arrivals
// are then inserted from the highest input index down, each just after the
// nearest earlier input element still in Output.
//
// Updates raised by Output handlers while Apply runs are folded into another
// pass once the current one finishes.
func (l *List[T]) Apply() {
	if l.applying {
		l.dirty = true
		return
	}
	l.applying = true
	defer func() { l.applying = false }()

	for {
		l.dirty = false
		l.reconcile()
		if !l.dirty {
			return
		}
	}
}

func (l *List[T]) reconcile() {
	l.applies++
	before := l.output.Items()
	inputs := l.input.Items()
	filters := l.filters.Items()

	after := make([]T, 0, len(inputs))
	for _, el := range inputs {
		if accepts(filters, el) {
			after = append(after, el)
		}
	}

	d := diff.SetsFunc(before, after, l.eq)
	for _, el := range d.UniqueA {
		l.output.RemoveOneOf(el)
	}

	// what is left is the common multiset; match each survivor to its slot
	// in after, earliest free slot first
	used := make([]bool, len(after))
	survivors := l.output.Items()
	slots := make([]int, len(survivors))
	for j, el := range survivors {
		slots[j] = -1
		for i, other := range after {
			if !used[i] && l.eq(other, el) {
				used[i] = true
				slots[j] = i
				break
			}
		}
		if slots[j] < 0 {
			// only reachable when eq is not an equivalence relation
			panic("filtered: element missing from filtered input")
		}
	}

	keep := increasingRun(slots)
	moved := 0
	for j := len(survivors) - 1; j >= 0; j-- {
		if !keep[j] {
			l.output.RemoveAt(j)
			used[slots[j]] = false
			moved++
		}
	}

	// Output now holds the used slots in slot order, so a slot's insertion
	// index is the number of used slots before it. Inserting from the back
	// leaves those counts intact.
	offsets := make([]int, len(after))
	n := 0
	for i, u := range used {
		offsets[i] = n
		if u {
			n++
		}
	}
	added := 0
	for i := len(after) - 1; i >= 0; i-- {
		if !used[i] {
			l.output.Insert(offsets[i], after[i])
			added++
		}
	}

	if glog.V(2) && (len(d.UniqueA) > 0 || added > 0) {
		glog.Infof("filtered: apply removed=%d moved=%d added=%d kept=%d", len(d.UniqueA), moved, added-moved, len(survivors)-moved)
	}
}

// increasingRun marks a longest strictly increasing subsequence of xs.
func increasingRun(xs []int) []bool {
	keep := make([]bool, len(xs))
	if len(xs) == 0 {
		return keep
	}
	// tails[k] is the index in xs ending the best run of length k+1
	tails := make([]int, 0, len(xs))
	prev := make([]int, len(xs))
	for i, x := range xs {
		k, _ := slices.BinarySearchFunc(tails, x, func(t, x int) int {
			return cmp.Compare(xs[t], x)
		})
		if k > 0 {
			prev[i] = tails[k-1]
		} else {
			prev[i] = -1
		}
		if k == len(tails) {
			tails = append(tails, i)
		} else {
			tails[k] = i
		}
	}
	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		keep[i] = true
	}
	return keep
}
