package scheduler

import "testing"

func TestBarrierIgnoresNonIncreasingPublish(t *testing.T) {
	b := newBarrier()
	b.Publish(5)
	b.Publish(3)
	b.Publish(5)
	if b.LVT() != 5 {
		t.Fatalf("LVT() = %v, want 5", b.LVT())
	}
}

func TestBarrierChangedWakesOnAdvance(t *testing.T) {
	b := newBarrier()
	changed := b.Changed()
	select {
	case <-changed:
		t.Fatal("changed fired before any publish")
	default:
	}

	b.Publish(1)
	select {
	case <-changed:
	default:
		t.Fatal("changed did not fire after publish advanced LVT")
	}
}
