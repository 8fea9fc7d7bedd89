package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/pholdsim/phold/pkg/link"
	"github.com/pholdsim/phold/pkg/phevent"
	"github.com/pholdsim/phold/pkg/token"
)

// fakeHandler drives a deterministic self-loop: on each event before stop it
// schedules another event one lookahead later at the same LP, recording
// every arrival it observes. At or after stop it releases its token.
type fakeHandler struct {
	id       int
	stop     float64
	minimum  float64
	inbox    link.Inbox
	arrivals []float64
	tokens   *token.Pool
}

func (f *fakeHandler) HandleEvent(now float64, fromID int) error {
	f.arrivals = append(f.arrivals, now)
	if now < f.stop {
		f.inbox.Enqueue(f.id, now+f.minimum, phevent.NewPhold(uint64(now), nil))
		return nil
	}
	f.tokens.Release()
	return nil
}

func TestSinglePartitionOrderingAndTermination(t *testing.T) {
	const n = 3
	const minimum = 1.0
	const stop = 5.0

	tokens := token.NewPool(n)
	handlers := make(map[int]Handler, n)
	fakes := make([]*fakeHandler, n)
	for id := 0; id < n; id++ {
		f := &fakeHandler{id: id, stop: stop, minimum: minimum, tokens: tokens}
		fakes[id] = f
		handlers[id] = f
	}

	owner := Assign(n, 1)
	sched, inboxes := New(n, 1, owner, handlers, minimum, stop, tokens)
	for id, f := range fakes {
		f.inbox = inboxes[id]
	}
	for id := range fakes {
		inboxes[id].Enqueue(id, 0, phevent.NewPhold(0, nil))
	}

	if err := sched.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for id, f := range fakes {
		if len(f.arrivals) == 0 {
			t.Fatalf("lp %d observed no events", id)
		}
		for i := 1; i < len(f.arrivals); i++ {
			if f.arrivals[i] < f.arrivals[i-1] {
				t.Fatalf("lp %d: arrival %v out of order after %v", id, f.arrivals[i], f.arrivals[i-1])
			}
		}
		last := f.arrivals[len(f.arrivals)-1]
		if last < stop {
			t.Fatalf("lp %d terminated before stop: last arrival %v", id, last)
		}
	}
}

// TestMultiPartitionAdvancesWithoutInitialWork seeds every LP's first event
// strictly beyond the initial lbts (every barrier starts at LVT 0, so
// lbts = 0+minimum). A scheduler that only advanced its LVT on dispatch would
// deadlock here: no partition could ever publish past minimum, so no queue
// head would ever become dispatchable. Each partition must instead publish
// the null-message advance up to lbts with its queue blocked, repeatedly,
// until lbts finally reaches the seeded arrival.
func TestMultiPartitionAdvancesWithoutInitialWork(t *testing.T) {
	const n = 2
	const minimum = 1.0
	const stop = 5.0
	const seeded = 3.0

	tokens := token.NewPool(n)
	handlers := make(map[int]Handler, n)
	fakes := make([]*fakeHandler, n)
	for id := 0; id < n; id++ {
		f := &fakeHandler{id: id, stop: stop, minimum: minimum, tokens: tokens}
		fakes[id] = f
		handlers[id] = f
	}

	owner := Assign(n, n)
	sched, inboxes := New(n, n, owner, handlers, minimum, stop, tokens)
	for id, f := range fakes {
		f.inbox = inboxes[id]
	}
	for id := range fakes {
		inboxes[id].Enqueue(id, seeded, phevent.NewPhold(0, nil))
	}

	done := make(chan error, 1)
	go func() { done <- sched.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run deadlocked waiting for lbts to advance past seeded arrivals")
	}

	for id, f := range fakes {
		if len(f.arrivals) == 0 || f.arrivals[0] != seeded {
			t.Fatalf("lp %d first arrival = %v, want %v", id, f.arrivals, seeded)
		}
	}
}

func TestAssignBlockPartitioning(t *testing.T) {
	owner := Assign(8, 4)
	want := []int{0, 0, 1, 1, 2, 2, 3, 3}
	for i, w := range want {
		if owner[i] != w {
			t.Fatalf("Assign(8,4)[%d] = %d, want %d", i, owner[i], w)
		}
	}
}

func TestAssignSinglePartition(t *testing.T) {
	owner := Assign(5, 1)
	for i, v := range owner {
		if v != 0 {
			t.Fatalf("Assign(5,1)[%d] = %d, want 0", i, v)
		}
	}
}
