package view

import (
	"io"

	"github.com/valyala/quicktemplate"
)

// StreamHTML writes the subtree under n as nested lists, one item per node
// with its name, id, link state and world transform.
func StreamHTML(qw *quicktemplate.Writer, n *Node) {
	qw.N().S(`<ul class="view-tree">`)
	streamNode(qw, n)
	qw.N().S(`</ul>`)
}

func streamNode(qw *quicktemplate.Writer, n *Node) {
	state := "unlinked"
	if n.Linked() {
		state = "linked"
	}
	t := n.WorldTransform()

	qw.N().S(`<li class="`)
	qw.N().S(state)
	qw.N().S(`" data-id="`)
	qw.N().S(n.ID().String())
	qw.N().S(`"><span class="name">`)
	qw.E().S(n.Name())
	qw.N().S(`</span> <span class="transform">`)
	qw.N().F(t.X)
	qw.N().S(`,`)
	qw.N().F(t.Y)
	qw.N().S(` x`)
	qw.N().F(t.ScaleX)
	qw.N().S(`,`)
	qw.N().F(t.ScaleY)
	qw.N().S(` r`)
	qw.N().F(t.Rotation)
	qw.N().S(`</span> <span class="bindings">`)
	qw.N().D(n.Bindings())
	qw.N().S(`</span>`)
	if len(n.children) > 0 {
		qw.N().S(`<ul>`)
		for _, child := range n.children {
			streamNode(qw, child)
		}
		qw.N().S(`</ul>`)
	}
	qw.N().S(`</li>`)
}

func WriteHTML(w io.Writer, n *Node) {
	qw := quicktemplate.AcquireWriter(w)
	StreamHTML(qw, n)
	quicktemplate.ReleaseWriter(qw)
}

// HTML renders the subtree under n, mostly for debugging and tests.
func HTML(n *Node) string {
	bb := quicktemplate.AcquireByteBuffer()
	WriteHTML(bb, n)
	s := string(bb.B)
	quicktemplate.ReleaseByteBuffer(bb)
	return s
}
