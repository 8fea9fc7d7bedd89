// Package scheduler implements a partitioned-conservative event dispatch
// loop: one goroutine per partition, each owning a subset of LPs and a
// heap-ordered pending-event queue, synchronized by publishing and reading
// local virtual times through per-partition barriers and by per-partition
// inbox channels (no global lock, no global queue).
package scheduler

import (
	"context"
	"fmt"

	"github.com/pholdsim/phold/pkg/link"
	"github.com/pholdsim/phold/pkg/token"
	"golang.org/x/sync/errgroup"
)

// inboxCapacity bounds each partition's cross-partition delivery channel.
// It is generous rather than tuned: a full channel would only ever indicate
// a configuration producing pathologically bursty remote traffic.
const inboxCapacity = 4096

// Scheduler owns every partition in a run and the errgroup that drives them
// concurrently to completion.
type Scheduler struct {
	partitions []*Partition
}

// Assign maps n LP ids onto p partitions using a block assignment: LP i
// belongs to partition i*p/n. With p == 1 every LP lands on partition 0,
// reproducing pure sequential PHOLD.
func Assign(n, p int) []int {
	if p <= 0 {
		p = 1
	}
	owner := make([]int, n)
	for i := 0; i < n; i++ {
		owner[i] = i * p / n
	}
	return owner
}

// New builds a Scheduler from per-LP owner assignments and handler objects.
// minimum is the global lookahead (config.Minimum); stop is the simulation
// end time. link.Inbox implementations for every LP are returned so the
// caller can wire links before starting Run.
func New(n, p int, owner []int, lps map[int]Handler, minimum, stop float64, tokens *token.Pool) (*Scheduler, map[int]link.Inbox) {
	barriers := make([]*barrier, p)
	for i := range barriers {
		barriers[i] = newBarrier()
	}

	byPartition := make([]map[int]Handler, p)
	for i := range byPartition {
		byPartition[i] = make(map[int]Handler)
	}
	for id, part := range owner {
		byPartition[part][id] = lps[id]
	}

	partitions := make([]*Partition, p)
	inboxes := make(map[int]link.Inbox, n)
	for part := 0; part < p; part++ {
		peers := make([]*barrier, 0, p-1)
		for other := 0; other < p; other++ {
			if other != part {
				peers = append(peers, barriers[other])
			}
		}
		pt := NewPartition(part, minimum, stop, byPartition[part], barriers[part], peers, tokens, inboxCapacity)
		partitions[part] = pt
		for id := range byPartition[part] {
			inboxes[id] = pt
		}
	}

	return &Scheduler{partitions: partitions}, inboxes
}

// Run drives every partition to completion concurrently. The first
// partition to return a non-nil error cancels every other partition's
// context via errgroup.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range s.partitions {
		p := p
		g.Go(func() error {
			if err := p.Run(ctx); err != nil {
				return fmt.Errorf("partition %d: %w", p.id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Partitions returns the number of partitions in the scheduler.
func (s *Scheduler) Partitions() int {
	return len(s.partitions)
}
