package scheduler

import "sync"

// barrier publishes one partition's local virtual time for its peers to
// read when computing their own lbts under the lookahead protocol.
// Publication also closes and replaces a "changed" channel so blocked
// peers waiting on any LVT advance wake up without polling.
type barrier struct {
	mu      sync.RWMutex
	lvt     float64
	changed chan struct{}
}

func newBarrier() *barrier {
	return &barrier{changed: make(chan struct{})}
}

// LVT returns the most recently published local virtual time.
func (b *barrier) LVT() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lvt
}

// Publish records a new LVT (monotonically; lower values are ignored) and
// wakes anyone waiting on Changed.
func (b *barrier) Publish(lvt float64) {
	b.mu.Lock()
	if lvt <= b.lvt {
		b.mu.Unlock()
		return
	}
	b.lvt = lvt
	old := b.changed
	b.changed = make(chan struct{})
	b.mu.Unlock()
	close(old)
}

// Changed returns a channel that closes the next time Publish advances the
// LVT.
func (b *barrier) Changed() <-chan struct{} {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.changed
}
