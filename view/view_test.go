package view_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/delaneyj/observed/collection"
	"github.com/delaneyj/observed/filtered"
	"github.com/delaneyj/observed/observable"
	"github.com/delaneyj/observed/signal"
	"github.com/delaneyj/observed/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkCascadesAndIsIdempotent(t *testing.T) {
	root := view.New("root")
	child := view.New("child")
	grandchild := view.New("grandchild")
	root.AddChild(child)
	child.AddChild(grandchild)

	var order []string
	for _, n := range []*view.Node{root, child, grandchild} {
		n := n
		n.OnLink(func() { order = append(order, "link "+n.Name()) })
		n.OnUnlink(func() { order = append(order, "unlink "+n.Name()) })
	}

	root.Link()
	root.Link()
	assert.True(t, grandchild.Linked())

	root.Unlink()
	root.Unlink()
	assert.False(t, grandchild.Linked())

	assert.Equal(t, []string{
		"link root", "link child", "link grandchild",
		"unlink grandchild", "unlink child", "unlink root",
	}, order)
}

func TestBindingsLiveOnlyWhileLinked(t *testing.T) {
	flag := observable.NewBoolean(false)
	root := view.New("root")
	child := view.New("child")
	root.AddChild(child)

	var seen []bool
	view.Bind(child, flag.Changed(), func(c observable.Change[bool]) {
		seen = append(seen, c.New)
	})
	assert.Equal(t, 1, child.Bindings())

	flag.Invert()
	root.Link()
	flag.Invert()
	root.Unlink()
	flag.Invert()

	assert.Equal(t, []bool{false}, seen)
	assert.Equal(t, 0, flag.Changed().Len())
}

func TestBindOnLinkedNodeConnectsImmediately(t *testing.T) {
	s := signal.New[int]()
	n := view.New("n")
	n.Link()
	calls := 0
	b := view.Bind(n, s, func(int) { calls++ })
	s.Dispatch(1)
	assert.Equal(t, 1, calls)

	b.Release()
	s.Dispatch(1)
	assert.Equal(t, 1, calls)
}

func TestChildrenFollowParentState(t *testing.T) {
	root := view.New("root")
	root.Link()

	child := view.New("child")
	root.AddChild(child)
	assert.True(t, child.Linked())

	require.True(t, root.RemoveChild(child))
	assert.False(t, child.Linked())
	assert.Nil(t, child.Parent())
	assert.False(t, root.RemoveChild(child))

	child.Link()
	other := view.New("other")
	other.AddChild(child)
	assert.False(t, child.Linked())
}

func TestConflictingAttachmentPanics(t *testing.T) {
	a := view.New("a")
	b := view.New("b")
	c := view.New("c")
	a.AddChild(c)

	assert.PanicsWithError(t, "view: add "+c.String()+" to "+b.String()+": node already has a parent", func() {
		b.AddChild(c)
	})
	assert.Panics(t, func() { a.AddChild(a) })
	assert.Panics(t, func() { c.AddChild(a) })

	// re-adding to the same parent is a no-op
	a.AddChild(c)
	assert.Equal(t, 1, a.ChildCount())

	c.Detach()
	b.AddChild(c)
	assert.Same(t, b, c.Parent())
	assert.Same(t, b, c.Root())
}

func TestInsertChildOrder(t *testing.T) {
	root := view.New("root")
	root.AddChild(view.New("a"))
	root.AddChild(view.New("c"))
	root.InsertChild(1, view.New("b"))

	var names []string
	root.Walk(func(n *view.Node, depth int) bool {
		if depth == 1 {
			names = append(names, n.Name())
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Panics(t, func() { root.InsertChild(9, view.New("x")) })
}

func TestWalkSkipsSubtree(t *testing.T) {
	root := view.New("root")
	skip := view.New("skip")
	root.AddChild(skip)
	skip.AddChild(view.New("hidden"))

	visited := 0
	root.Walk(func(n *view.Node, _ int) bool {
		visited++
		return n != skip
	})
	assert.Equal(t, 2, visited)
}

func TestWorldTransform(t *testing.T) {
	root := view.New("root")
	root.SetTransform(view.Transform{X: 10, Y: 0, ScaleX: 2, ScaleY: 2, Rotation: math.Pi / 2})
	child := view.New("child")
	child.SetTransform(view.Transform{X: 1, Y: 0, ScaleX: 1, ScaleY: 1})
	root.AddChild(child)

	w := child.WorldTransform()
	assert.InDelta(t, 10, w.X, 1e-9)
	assert.InDelta(t, 2, w.Y, 1e-9)
	assert.InDelta(t, 2, w.ScaleX, 1e-9)
	assert.InDelta(t, math.Pi/2, w.Rotation, 1e-9)

	x, y := w.Apply(1, 0)
	px, py := root.Transform().Apply(child.Transform().Apply(1, 0))
	assert.InDelta(t, px, x, 1e-9)
	assert.InDelta(t, py, y, 1e-9)

	assert.Equal(t, view.Identity(), view.New("n").WorldTransform())
}

func TestListViewTracksFilteredOutput(t *testing.T) {
	input := collection.NewList(1, 2, 3, 4, 5)
	filters := collection.NewList[filtered.Filter[int]](filtered.NewPredicate(func(v int) bool { return v%2 == 0 }))
	fl := filtered.New(input, filters)
	fl.Link()

	created := 0
	lv := view.NewListView("evens", fl.Output(), func(v int) *view.Node {
		created++
		return view.New(string(rune('0' + v)))
	})
	names := func() []string {
		var out []string
		for _, c := range lv.Children() {
			out = append(out, c.Name())
		}
		return out
	}

	lv.Link()
	assert.Equal(t, []string{"2", "4"}, names())
	first := lv.Child(0)

	input.Add(6)
	input.Remove(4)
	assert.Equal(t, []string{"2", "6"}, names())
	assert.Same(t, first, lv.Child(0))
	assert.Equal(t, 3, created)

	lv.Unlink()
	input.Add(8)
	assert.Equal(t, []string{"2", "6"}, names())

	lv.Link()
	assert.Equal(t, []string{"2", "6", "8"}, names())
	assert.Same(t, fl.Output(), lv.Source())
}

func TestHTMLDump(t *testing.T) {
	root := view.New("root")
	root.AddChild(view.New("<child>"))
	root.Link()

	html := view.HTML(root)
	assert.True(t, strings.HasPrefix(html, `<ul class="view-tree"><li class="linked"`))
	assert.Contains(t, html, "&lt;child&gt;")
	assert.Contains(t, html, root.ID().String())

	var buf bytes.Buffer
	view.WriteHTML(&buf, root)
	assert.Equal(t, html, buf.String())
}
