// Package view is the consumer side of the observable core: a tree of nodes
// whose signal bindings are live exactly while the node is linked.
package view

import (
	"errors"
	"fmt"
	"slices"

	"github.com/delaneyj/observed/signal"
	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"
)

var (
	ErrAttached = errors.New("node already has a parent")
	ErrCycle    = errors.New("node would become its own ancestor")
)

// Node is a tree node with exclusive ownership: a node has at most one parent
// and children follow the link state of their parent.
type Node struct {
	id       ulid.ULID
	name     string
	parent   *Node
	children []*Node

	scope    signal.Scope
	onLink   []func()
	onUnlink []func()

	transform Transform
}

func New(name string) *Node {
	return &Node{
		id:        ulid.Make(),
		name:      name,
		transform: Identity(),
	}
}

func (n *Node) ID() ulid.ULID {
	return n.id
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.name, n.id)
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Root() *Node {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

func (n *Node) ChildCount() int {
	return len(n.children)
}

func (n *Node) Child(i int) *Node {
	return n.children[i]
}

func (n *Node) AddChild(child *Node) {
	n.InsertChild(len(n.children), child)
}

// InsertChild attaches child at index i. Attaching a node that belongs to
// another parent, to itself or to one of its descendants panics.
func (n *Node) InsertChild(i int, child *Node) {
	if child.parent == n {
		return
	}
	if child.parent != nil {
		panic(fmt.Errorf("view: add %s to %s: %w", child, n, ErrAttached))
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			panic(fmt.Errorf("view: add %s to %s: %w", child, n, ErrCycle))
		}
	}
	if i < 0 || i > len(n.children) {
		panic(fmt.Sprintf("view: insert %s at %d of %d", child, i, len(n.children)))
	}

	child.parent = n
	n.children = slices.Insert(n.children, i, child)
	if n.Linked() {
		child.Link()
	} else {
		child.Unlink()
	}
}

// RemoveChild unlinks child and detaches it. It reports whether child was
// attached here.
func (n *Node) RemoveChild(child *Node) bool {
	i := slices.Index(n.children, child)
	if i < 0 {
		return false
	}
	n.RemoveChildAt(i)
	return true
}

func (n *Node) RemoveChildAt(i int) *Node {
	child := n.children[i]
	child.Unlink()
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return child
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

func (n *Node) Linked() bool {
	return n.scope.Linked()
}

// OnLink registers fn to run every time n becomes linked, after its bindings
// connect and before its children link.
func (n *Node) OnLink(fn func()) {
	n.onLink = append(n.onLink, fn)
	if n.Linked() {
		fn()
	}
}

// OnUnlink registers fn to run every time n becomes unlinked, after its
// children unlink and before its bindings disconnect.
func (n *Node) OnUnlink(fn func()) {
	n.onUnlink = append(n.onUnlink, fn)
}

// Link activates n and then its descendants, depth first. Linking a linked
// node does nothing.
func (n *Node) Link() {
	if !n.scope.Link() {
		return
	}
	if glog.V(3) {
		glog.Infof("view: link %s", n)
	}
	for _, fn := range n.onLink {
		fn()
	}
	for _, child := range slices.Clone(n.children) {
		child.Link()
	}
}

// Unlink deactivates the descendants of n and then n itself.
func (n *Node) Unlink() {
	if !n.Linked() {
		return
	}
	for _, child := range slices.Clone(n.children) {
		child.Unlink()
	}
	for _, fn := range n.onUnlink {
		fn()
	}
	n.scope.Unlink()
	if glog.V(3) {
		glog.Infof("view: unlink %s", n)
	}
}

// Bind subscribes fn to sig for as long as n is linked.
func Bind[A any](n *Node, sig *signal.Signal[A], fn func(A)) *signal.Binding {
	return signal.Bind(&n.scope, sig, fn)
}

// Bindings returns how many signal bindings n holds.
func (n *Node) Bindings() int {
	return n.scope.Len()
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.children {
		child.walk(fn, depth+1)
	}
}
