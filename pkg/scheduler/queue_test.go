package scheduler

import (
	"container/heap"
	"testing"
)

func TestPendingQueueOrdersByArrivalThenSeq(t *testing.T) {
	q := &pendingQueue{}
	heap.Init(q)
	heap.Push(q, &pendingEvent{arrival: 5, seq: 2})
	heap.Push(q, &pendingEvent{arrival: 5, seq: 1})
	heap.Push(q, &pendingEvent{arrival: 2, seq: 9})
	heap.Push(q, &pendingEvent{arrival: 5, seq: 0})

	want := []struct {
		arrival float64
		seq     uint64
	}{
		{2, 9},
		{5, 0},
		{5, 1},
		{5, 2},
	}
	for i, w := range want {
		got := heap.Pop(q).(*pendingEvent)
		if got.arrival != w.arrival || got.seq != w.seq {
			t.Fatalf("pop %d = (%v, %d), want (%v, %d)", i, got.arrival, got.seq, w.arrival, w.seq)
		}
	}
}
