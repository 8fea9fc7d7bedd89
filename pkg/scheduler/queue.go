package scheduler

import (
	"container/heap"

	"github.com/pholdsim/phold/pkg/phevent"
)

// pendingEvent is one entry in a partition's pending-event queue: an arrival
// time, a monotonic enqueue sequence for tie-breaking, and the dispatch
// target.
type pendingEvent struct {
	arrival float64
	seq     uint64
	toID    int
	fromID  int
	event   phevent.Event
	index   int // heap bookkeeping
}

// pendingQueue orders events by (arrival ASC, seq ASC) so that ties break
// deterministically on enqueue order.
type pendingQueue []*pendingEvent

func (q pendingQueue) Len() int { return len(q) }

func (q pendingQueue) Less(i, j int) bool {
	if q[i].arrival != q[j].arrival {
		return q[i].arrival < q[j].arrival
	}
	return q[i].seq < q[j].seq
}

func (q pendingQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *pendingQueue) Push(x any) {
	e := x.(*pendingEvent)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *pendingQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

var _ heap.Interface = (*pendingQueue)(nil)
