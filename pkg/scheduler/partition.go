package scheduler

import (
	"container/heap"
	"context"
	"fmt"
	"math"

	"github.com/pholdsim/phold/pkg/phevent"
	"github.com/pholdsim/phold/pkg/pholderr"
	"github.com/pholdsim/phold/pkg/token"
)

// State is one of a partition's lifecycle states.
type State int

const (
	StateInit State = iota
	StateRunning
	StateBlocked
	StateDraining
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateRunning:
		return "Running"
	case StateBlocked:
		return "Blocked"
	case StateDraining:
		return "Draining"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Handler is the subset of *lp.LP a partition needs in order to dispatch an
// event to it.
type Handler interface {
	HandleEvent(now float64, fromID int) error
}

// Partition owns a subset of LPs, their shared pending-event queue, and the
// barrier it publishes its local virtual time through. It implements
// link.Inbox so links addressed to any LP it owns can enqueue directly into
// it, whether the sender lives in this partition or another one.
type Partition struct {
	id      int
	minimum float64
	stop    float64

	lps map[int]Handler

	queue pendingQueue
	seq   uint64
	lvt   float64

	own   *barrier
	peers []*barrier

	inbox  chan pendingEvent
	tokens *token.Pool

	peerChanged chan struct{}
	stopFanIn   chan struct{}

	state State
}

// NewPartition constructs a partition. peers must be every other partition's
// barrier (not including own); inboxCapacity bounds the cross-partition
// channel. A background goroutine per peer forwards its Changed signal onto
// a single channel for the dispatch loop to select on, set up once here
// rather than re-spawned on every blocking wait.
func NewPartition(id int, minimum, stop float64, lps map[int]Handler, own *barrier, peers []*barrier, tokens *token.Pool, inboxCapacity int) *Partition {
	p := &Partition{
		id:          id,
		minimum:     minimum,
		stop:        stop,
		lps:         lps,
		own:         own,
		peers:       peers,
		inbox:       make(chan pendingEvent, inboxCapacity),
		tokens:      tokens,
		peerChanged: make(chan struct{}, 1),
		stopFanIn:   make(chan struct{}),
		state:       StateInit,
	}
	for _, peer := range peers {
		go p.watchPeer(peer)
	}
	return p
}

// watchPeer forwards every LVT advance on b onto peerChanged until the
// partition's dispatch loop exits.
func (p *Partition) watchPeer(b *barrier) {
	for {
		select {
		case <-b.Changed():
			select {
			case p.peerChanged <- struct{}{}:
			default:
			}
		case <-p.stopFanIn:
			return
		}
	}
}

// Enqueue implements link.Inbox. It sends on the partition's buffered inbox
// channel (sized at construction) and blocks while that channel is full.
func (p *Partition) Enqueue(toID int, arrival float64, ev phevent.Event) {
	p.inbox <- pendingEvent{arrival: arrival, toID: toID, event: ev}
}

// lbts computes this partition's lower-bound time stamp: the minimum of its
// peers' published LVTs, plus the global lookahead. With no peers (a single
// partition running the whole simulation) there is nothing to wait for.
func (p *Partition) lbts() float64 {
	if len(p.peers) == 0 {
		return math.Inf(1)
	}
	min := math.Inf(1)
	for _, peer := range p.peers {
		if v := peer.LVT(); v < min {
			min = v
		}
	}
	return min + p.minimum
}

// drain moves every event currently waiting in the inbox channel into the
// heap, assigning each one its enqueue sequence.
func (p *Partition) drain() {
	for {
		select {
		case pe := <-p.inbox:
			e := pe
			e.seq = p.seq
			p.seq++
			heap.Push(&p.queue, &e)
		default:
			return
		}
	}
}

// Run executes the conservative dispatch loop until this partition
// terminates or ctx is canceled. A CausalityViolation or an LP handler error
// in any partition aborts the run via ctx (the caller wires all partitions
// into one errgroup).
//
// When nothing is safely dispatchable, the partition does not simply block:
// if lbts has room to grow past its own lvt, it publishes that advance even
// with an empty queue. This is the null-message half of the lookahead
// protocol — every peer's guarantee that it will emit nothing before its
// lvt+minimum holds whether or not it currently has an event to process, so
// withholding the publish until real work shows up would let every
// partition wait on every other one forever the first time all of their
// initial events land beyond the starting lbts.
func (p *Partition) Run(ctx context.Context) error {
	defer close(p.stopFanIn)
	p.state = StateRunning
	for {
		p.drain()

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		draining := p.tokenPoolDone()
		if draining {
			p.state = StateDraining
		}

		lbts := p.lbts()

		if p.queue.Len() > 0 {
			head := p.queue[0]
			if draining && head.arrival >= p.stop {
				p.state = StateTerminated
				return nil
			}
			if head.arrival <= lbts {
				if head.arrival < p.lvt {
					return fmt.Errorf("partition %d: event arrival %v < lvt %v for lp %d: %w",
						p.id, head.arrival, p.lvt, head.toID, pholderr.ErrCausalityViolation)
				}
				heap.Pop(&p.queue)
				if head.arrival > p.lvt {
					p.lvt = head.arrival
				}
				p.own.Publish(p.lvt)

				lpHandler, ok := p.lps[head.toID]
				if !ok {
					return fmt.Errorf("partition %d: no lp owned for id %d", p.id, head.toID)
				}
				if err := lpHandler.HandleEvent(head.arrival, head.fromID); err != nil {
					return err
				}
				continue
			}
		} else if draining {
			p.state = StateTerminated
			return nil
		}

		if !math.IsInf(lbts, 1) && lbts > p.lvt {
			p.lvt = lbts
			p.own.Publish(p.lvt)
			continue
		}

		p.state = StateBlocked
		var err error
		if p.queue.Len() == 0 {
			err = p.waitForWork(ctx)
		} else {
			err = p.waitForAdvance(ctx)
		}
		if err != nil {
			return err
		}
		p.state = StateRunning
	}
}

func (p *Partition) tokenPoolDone() bool {
	select {
	case <-p.tokens.Done():
		return true
	default:
		return false
	}
}

// waitForWork blocks until an event arrives, a peer advances (which cannot
// help an empty queue but may signal draining progress elsewhere), the token
// pool completes, or ctx is canceled.
func (p *Partition) waitForWork(ctx context.Context) error {
	select {
	case pe := <-p.inbox:
		e := pe
		e.seq = p.seq
		p.seq++
		heap.Push(&p.queue, &e)
		return nil
	case <-p.peerChanged:
		return nil
	case <-p.tokens.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitForAdvance blocks until a peer publishes a new LVT or a new event
// arrives directly, either of which may unblock the head of the queue.
func (p *Partition) waitForAdvance(ctx context.Context) error {
	select {
	case pe := <-p.inbox:
		e := pe
		e.seq = p.seq
		p.seq++
		heap.Push(&p.queue, &e)
		return nil
	case <-p.peerChanged:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Barrier exposes this partition's own barrier so the scheduler can wire it
// into its peers.
func (p *Partition) Barrier() *barrier {
	return p.own
}
