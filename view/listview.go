package view

import "github.com/delaneyj/observed/collection"

// ListView keeps one child node per element of a list, in list order. It
// follows the list through Added and Removed only, so children of elements
// that stay in the list keep their state. When (re)linked it rebuilds from a
// snapshot, since events are missed while unlinked.
type ListView[T any] struct {
	*Node
	source  *collection.List[T]
	factory func(el T) *Node
}

func NewListView[T any](name string, source *collection.List[T], factory func(el T) *Node) *ListView[T] {
	if source == nil || factory == nil {
		panic("view: list view needs a source and a factory")
	}
	lv := &ListView[T]{
		Node:    New(name),
		source:  source,
		factory: factory,
	}
	Bind(lv.Node, source.Added(), func(e collection.Event[T]) {
		lv.InsertChild(e.Index, lv.factory(e.Element))
	})
	Bind(lv.Node, source.Removed(), func(e collection.Event[T]) {
		lv.RemoveChildAt(e.Index)
	})
	lv.OnLink(lv.rebuild)
	return lv
}

func (lv *ListView[T]) Source() *collection.List[T] {
	return lv.source
}

func (lv *ListView[T]) rebuild() {
	for lv.ChildCount() > 0 {
		lv.RemoveChildAt(lv.ChildCount() - 1)
	}
	for i, el := range lv.source.Items() {
		lv.InsertChild(i, lv.factory(el))
	}
}
