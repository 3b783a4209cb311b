// Package frame provides the "run once before the next paint" scheduling that
// deferred updates rely on, plus a serial host loop implementing it.
package frame

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Posts that may queue up before Post blocks the caller.
const postChSize = 128

// Scheduler runs fn once at the start of the next frame. The returned cancel
// func drops fn if it has not run yet.
type Scheduler interface {
	RequestFrame(fn func()) (cancel func())
}

type request struct {
	fn       func()
	canceled bool
}

// Loop is a serial frame loop. Frame callbacks and posted functions all run on
// the goroutine driving the loop, never two at once, so they may touch shared
// state without synchronization. Only RequestFrame, Post and Pending are safe
// to call from other goroutines.
type Loop struct {
	mu      sync.Mutex
	pending []*request
	frames  uint64

	postCh chan func()
	wakeCh chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		postCh: make(chan func(), postChSize),
		wakeCh: make(chan struct{}, 1),
	}
}

func (lp *Loop) RequestFrame(fn func()) (cancel func()) {
	if fn == nil {
		panic("frame: nil callback")
	}
	r := &request{fn: fn}
	lp.mu.Lock()
	lp.pending = append(lp.pending, r)
	lp.mu.Unlock()

	// never blocks, a wake already queued covers this request too
	select {
	case lp.wakeCh <- struct{}{}:
	default:
	}

	return func() {
		lp.mu.Lock()
		defer lp.mu.Unlock()
		r.canceled = true
	}
}

// Post hands fn to the goroutine running the loop. It may block if the post
// buffer is full.
func (lp *Loop) Post(fn func()) {
	lp.postCh <- fn
}

// Pending returns the number of callbacks waiting for the next frame.
func (lp *Loop) Pending() int {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	n := 0
	for _, r := range lp.pending {
		if !r.canceled {
			n++
		}
	}
	return n
}

// Frames returns how many ticks have run callbacks.
func (lp *Loop) Frames() uint64 {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.frames
}

// Tick runs every callback requested before the call and returns how many
// ran. Callbacks requested while ticking wait for the next frame.
func (lp *Loop) Tick() int {
	lp.mu.Lock()
	batch := lp.pending
	lp.pending = nil
	if len(batch) > 0 {
		lp.frames++
	}
	lp.mu.Unlock()

	ran := 0
	for _, r := range batch {
		lp.mu.Lock()
		canceled := r.canceled
		lp.mu.Unlock()
		if canceled {
			continue
		}
		r.fn()
		ran++
	}
	if ran > 0 && glog.V(3) {
		glog.Infof("frame: tick ran %d callbacks", ran)
	}
	return ran
}

// Run drives the loop until ctx is done, running posted functions as they
// arrive and ticking at most once per interval while frames are pending.
func (lp *Loop) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	armed := lp.Pending() > 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-lp.postCh:
			fn()
		case <-lp.wakeCh:
			armed = true
		case <-ticker.C:
			if armed {
				armed = false
				lp.Tick()
				if lp.Pending() > 0 {
					armed = true
				}
			}
		}
	}
}
