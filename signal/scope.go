package signal

// Scope owns a set of bindings and keeps them connected exactly while it is
// linked. It is the scoped-acquisition boundary used by views and derived
// collections: nothing bound through a Scope can outlive the Linked state.
type Scope struct {
	bindings []*Binding
	linked   bool
}

// Binding is a registration against a signal that a Scope connects on Link
// and disconnects on Unlink.
type Binding struct {
	scope   *Scope
	connect func() Disposable
	live    Disposable
}

// Bind registers fn against sig. If the scope is already linked the binding is
// connected immediately.
func Bind[A any](sc *Scope, sig *Signal[A], fn func(A)) *Binding {
	if sig == nil || fn == nil {
		panic("signal: bind needs a signal and a handler")
	}
	b := &Binding{
		scope: sc,
		connect: func() Disposable {
			return sig.Add(fn)
		},
	}
	sc.bindings = append(sc.bindings, b)
	if sc.linked {
		b.live = b.connect()
	}
	return b
}

// Connected reports whether the binding currently has a live subscription.
func (b *Binding) Connected() bool {
	return b.live != nil
}

// Release disconnects the binding and removes it from its scope for good.
func (b *Binding) Release() {
	if b.scope == nil {
		return
	}
	b.disconnect()
	sc := b.scope
	b.scope = nil
	for i, other := range sc.bindings {
		if other == b {
			sc.bindings = append(sc.bindings[:i:i], sc.bindings[i+1:]...)
			return
		}
	}
}

func (b *Binding) disconnect() {
	if b.live != nil {
		b.live.Dispose()
		b.live = nil
	}
}

func (sc *Scope) Linked() bool {
	return sc.linked
}

func (sc *Scope) Len() int {
	return len(sc.bindings)
}

// Link connects every binding. It returns false if the scope was already linked.
func (sc *Scope) Link() bool {
	if sc.linked {
		return false
	}
	sc.linked = true
	for _, b := range append([]*Binding(nil), sc.bindings...) {
		if b.live == nil {
			b.live = b.connect()
		}
	}
	return true
}

// Unlink disconnects every binding. It returns false if the scope was not linked.
func (sc *Scope) Unlink() bool {
	if !sc.linked {
		return false
	}
	sc.linked = false
	for _, b := range append([]*Binding(nil), sc.bindings...) {
		b.disconnect()
	}
	return true
}

// Release drops every binding, leaving an empty unlinked scope.
func (sc *Scope) Release() {
	sc.Unlink()
	for _, b := range sc.bindings {
		b.scope = nil
	}
	sc.bindings = nil
}
