package engine

import (
	"context"
	"testing"

	"github.com/pholdsim/phold/pkg/config"
)

func smallConfig() *config.Config {
	return &config.Config{
		Remote:     0.5,
		Minimum:    1e-3,
		Average:    5e-3,
		Stop:       0.05,
		Number:     4,
		Events:     4,
		Partitions: 1,
	}
}

func TestRunProducesConsistentReport(t *testing.T) {
	cfg := smallConfig()
	eng := New(cfg, nil)

	report, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if eng.State() != StateDone {
		t.Fatalf("final state = %v, want %v", eng.State(), StateDone)
	}
	if len(report.PerLP) != cfg.Number {
		t.Fatalf("per-LP entries = %d, want %d", len(report.PerLP), cfg.Number)
	}

	var sendSum, recvSum uint64
	for _, p := range report.PerLP {
		sendSum += p.SendCount
		recvSum += p.RecvCount
	}
	if sendSum != report.SendTotal {
		t.Fatalf("sum of per-LP send_count = %d, want %d", sendSum, report.SendTotal)
	}
	if recvSum != report.RecvTotal {
		t.Fatalf("sum of per-LP recv_count = %d, want %d", recvSum, report.RecvTotal)
	}
	if report.Error != int64(report.SendTotal)-int64(report.RecvTotal) {
		t.Fatalf("report.Error = %d, want %d", report.Error, int64(report.SendTotal)-int64(report.RecvTotal))
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Number = 1
	eng := New(cfg, nil)

	if _, err := eng.Run(context.Background()); err == nil {
		t.Fatal("expected validation error for number < 2")
	}
	if eng.State() != StateFailed {
		t.Fatalf("final state = %v, want %v", eng.State(), StateFailed)
	}
}

func TestMultiPartitionRunTerminates(t *testing.T) {
	cfg := smallConfig()
	cfg.Number = 8
	cfg.Partitions = 4
	eng := New(cfg, nil)

	if _, err := eng.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

// TestDeterministicReplayAcrossPartitionCounts pins down the binding
// acceptance property that per-LP send/receive outcomes depend only on the
// configuration, never on how LPs happen to be sharded across partitions:
// each LP's draw stream is seeded from its own id, so running the same
// config at Partitions=1, 2, and 4 must produce bit-identical per-LP
// (send_count, recv_count) and identical aggregate totals.
func TestDeterministicReplayAcrossPartitionCounts(t *testing.T) {
	base := smallConfig()
	base.Number = 8

	partitionCounts := []int{1, 2, 4}
	perLPByRun := make([]map[int][2]uint64, len(partitionCounts))
	var wantSend, wantRecv uint64

	for i, partitions := range partitionCounts {
		cfg := *base
		cfg.Partitions = partitions
		eng := New(&cfg, nil)

		report, err := eng.Run(context.Background())
		if err != nil {
			t.Fatalf("Run(partitions=%d): %v", partitions, err)
		}

		perLP := make(map[int][2]uint64, len(report.PerLP))
		for _, p := range report.PerLP {
			perLP[p.ID] = [2]uint64{p.SendCount, p.RecvCount}
		}
		perLPByRun[i] = perLP

		if i == 0 {
			wantSend, wantRecv = report.SendTotal, report.RecvTotal
			continue
		}
		if report.SendTotal != wantSend || report.RecvTotal != wantRecv {
			t.Fatalf("partitions=%d: totals (%d, %d), want (%d, %d)",
				partitions, report.SendTotal, report.RecvTotal, wantSend, wantRecv)
		}
	}

	want := perLPByRun[0]
	for i := 1; i < len(perLPByRun); i++ {
		got := perLPByRun[i]
		if len(got) != len(want) {
			t.Fatalf("partitions=%d: per-LP entries = %d, want %d", partitionCounts[i], len(got), len(want))
		}
		for id, wantCounts := range want {
			gotCounts, ok := got[id]
			if !ok {
				t.Fatalf("partitions=%d: missing lp %d", partitionCounts[i], id)
			}
			if gotCounts != wantCounts {
				t.Fatalf("partitions=%d: lp %d (send, recv) = %v, want %v",
					partitionCounts[i], id, gotCounts, wantCounts)
			}
		}
	}
}
