// Package collective implements two out-of-band, tree-structured
// collectives: the init spanning-tree broadcast (root to leaves) and the
// completion reduce (leaves to root). Both run outside virtual time, between
// the scheduler's setup and dispatch phases.
//
// Phase ordering is enforced structurally rather than with an explicit
// phase counter: each LP's goroutine blocks on a capacity-bounded channel
// until its parent (broadcast) or every valid child (reduce) has sent,
// which is equivalent to lockstep phases over a tree. The broadcast
// additionally catches "wrong sender" protocol violations directly.
package collective

import (
	"context"
	"fmt"

	"github.com/pholdsim/phold/pkg/phevent"
	"github.com/pholdsim/phold/pkg/pholderr"
	"github.com/pholdsim/phold/pkg/treeindex"
	"golang.org/x/sync/errgroup"
)

// Phaser is the subset of *lp.LP the collectives need. Declared here instead
// of importing pkg/lp's concrete type so this package stays a leaf: the
// scheduler and engine packages are the ones that know about concrete LPs.
type Phaser interface {
	BroadcastPhase(depth int)
}

// Broadcast drives the init collective over n LPs (ids 0..n-1), delivering
// exactly one Init message to each non-root LP from its parent. Returns
// pholderr.ErrCollectiveProtocolViolation if any LP observes a message from
// anyone other than its parent.
func Broadcast(ctx context.Context, lps []Phaser) error {
	n := len(lps)
	if n == 0 {
		return nil
	}
	inboxes := make([]chan phevent.Event, n)
	for i := range inboxes {
		inboxes[i] = make(chan phevent.Event, 1)
	}

	g, ctx := errgroup.WithContext(ctx)
	for id := 0; id < n; id++ {
		id := id
		g.Go(func() error {
			depth := treeindex.Depth(id)
			if id != 0 {
				select {
				case ev := <-inboxes[id]:
					if ev.Kind != phevent.KindInit || int(ev.SenderID) != treeindex.Parent(id) {
						return fmt.Errorf("%w: lp %d received unexpected init message from lp %d",
							pholderr.ErrCollectiveProtocolViolation, id, ev.SenderID)
					}
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			lps[id].BroadcastPhase(depth)

			left, right := treeindex.Children(id)
			ev := phevent.NewInit(uint64(id))
			if left < n {
				select {
				case inboxes[left] <- ev:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if right < n {
				select {
				case inboxes[right] <- ev:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// MaxDepth returns depth(n-1), the number of phases (minus one) the
// collectives over n LPs require to reach every leaf.
func MaxDepth(n int) int {
	if n <= 0 {
		return 0
	}
	return treeindex.Depth(n - 1)
}
