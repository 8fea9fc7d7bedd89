package collective

import (
	"context"
	"fmt"

	"github.com/pholdsim/phold/pkg/phevent"
	"github.com/pholdsim/phold/pkg/pholderr"
	"github.com/pholdsim/phold/pkg/treeindex"
	"golang.org/x/sync/errgroup"
)

// Reducer is the subset of *lp.LP the completion reduce needs.
type Reducer interface {
	Totals() (sendCount, recvCount uint64)
	CompletePhase(effectivePhase int)
}

// Reduce drives the completion reduce over n LPs: each LP sums its own
// counters with every valid child's forwarded totals and forwards upward.
// It returns the root's grand totals. Non-complete messages are protocol
// violations; the sender of a Complete message is not checked, since
// Complete events carry no sender id.
func Reduce(ctx context.Context, lps []Reducer) (sendTotal, recvTotal uint64, err error) {
	n := len(lps)
	if n == 0 {
		return 0, 0, nil
	}
	inboxes := make([]chan phevent.Event, n)
	for i := range inboxes {
		inboxes[i] = make(chan phevent.Event, 2)
	}

	var rootSend, rootRecv uint64
	maxDepth := MaxDepth(n)

	g, ctx := errgroup.WithContext(ctx)
	for id := 0; id < n; id++ {
		id := id
		g.Go(func() error {
			depth := treeindex.Depth(id)
			effectivePhase := maxDepth - depth
			lps[id].CompletePhase(effectivePhase)

			left, right := treeindex.Children(id)
			sendCount, recvCount := lps[id].Totals()

			expected := 0
			if left < n {
				expected++
			}
			if right < n {
				expected++
			}
			for i := 0; i < expected; i++ {
				select {
				case ev := <-inboxes[id]:
					if ev.Kind != phevent.KindComplete {
						return fmt.Errorf("%w: lp %d received non-complete message during reduce",
							pholderr.ErrCollectiveProtocolViolation, id)
					}
					sendCount += ev.SendTotal
					recvCount += ev.RecvTotal
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			if id == 0 {
				rootSend, rootRecv = sendCount, recvCount
				return nil
			}

			parent := treeindex.Parent(id)
			ev := phevent.NewComplete(sendCount, recvCount)
			select {
			case inboxes[parent] <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return rootSend, rootRecv, nil
}
