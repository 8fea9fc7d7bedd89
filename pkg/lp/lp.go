// Package lp implements the PHOLD logical-process state machine: initial
// event emission, incoming event handling, the remote/local routing draw,
// and the send/receive statistics it produces.
package lp

import (
	"fmt"

	"github.com/pholdsim/phold/pkg/config"
	"github.com/pholdsim/phold/pkg/link"
	"github.com/pholdsim/phold/pkg/phevent"
	"github.com/pholdsim/phold/pkg/pholderr"
	"github.com/pholdsim/phold/pkg/prng"
	"github.com/pholdsim/phold/pkg/reporting"
	"github.com/pholdsim/phold/pkg/stats"
	"github.com/pholdsim/phold/pkg/token"
)

// maxSetupAttempts bounds the setup retry loop: if the RNG keeps drawing
// delays that land beyond stop, setup must keep redrawing (not loop forever)
// before surfacing pholderr.ErrStopReachedWithoutLiveEvent.
const maxSetupAttempts = 10000

// LP is one logical process: a fixed id, its outgoing links (one per peer
// plus a self-link), a deterministic RNG stream, and per-LP counters. LPs
// share no mutable state with one another.
type LP struct {
	id  int
	cfg *config.Config

	rng   *prng.Stream
	links map[int]*link.Link // keyed by destination id; links[id] is the self-link

	sendCount uint64
	recvCount uint64

	hist     *stats.Recorder
	tokens   *token.Pool
	released bool

	logger *reporting.Logger

	setupAttempts  int
	broadcastPhase int
	completePhase  int
}

// New constructs an LP with no outgoing links yet; call Wire once the
// scheduler has produced inboxes for every LP. No events are scheduled
// until Setup runs. Per-transition debug logging is enabled only when
// cfg.Verbosity >= 2.
func New(id int, cfg *config.Config, hist *stats.Recorder, tokens *token.Pool, logger *reporting.Logger) *LP {
	if cfg.Verbosity < 2 {
		logger = nil
	}
	return &LP{
		id:     id,
		cfg:    cfg,
		rng:    prng.New(id),
		hist:   hist,
		tokens: tokens,
		logger: logger,
	}
}

// Wire attaches this LP's outgoing links. links must include an entry for
// every peer id plus id itself (the self-link). Must be called exactly once,
// before Setup.
func (l *LP) Wire(links map[int]*link.Link) {
	l.links = links
}

// ID returns the LP's identifier.
func (l *LP) ID() int { return l.id }

// Totals returns the LP's current (send_count, recv_count), read-only from
// outside the LP.
func (l *LP) Totals() (uint64, uint64) {
	return l.sendCount, l.recvCount
}

// BroadcastPhase is the bookkeeping hook the init collective calls once this
// LP has validated and processed its Init message.
func (l *LP) BroadcastPhase(depth int) {
	l.broadcastPhase = depth
	if l.logger != nil {
		l.logger.Debug("lp broadcast phase", "lp_id", l.id, "depth", depth)
	}
}

// CompletePhase is the equivalent bookkeeping hook for the complete reduce.
func (l *LP) CompletePhase(effectivePhase int) {
	l.completePhase = effectivePhase
	if l.logger != nil {
		l.logger.Debug("lp complete phase", "lp_id", l.id, "effective_phase", effectivePhase)
	}
}

// Setup emits cfg.Events initial PHOLD events at virtual time 0. At least one
// of them must land before stop; if the RNG keeps drawing beyond-stop delays
// the loop keeps redrawing (tracking attempts) until it succeeds or exhausts
// maxSetupAttempts.
func (l *LP) Setup() error {
	liveEvents := 0
	for produced := 0; produced < l.cfg.Events; {
		arrival, err := l.sendEvent(0)
		if err != nil {
			return err
		}
		if arrival < l.cfg.Stop {
			liveEvents++
		}
		produced++
	}
	for liveEvents == 0 {
		l.setupAttempts++
		if l.setupAttempts > maxSetupAttempts {
			return fmt.Errorf("lp %d: %w", l.id, pholderr.ErrStopReachedWithoutLiveEvent)
		}
		arrival, err := l.sendEvent(0)
		if err != nil {
			return err
		}
		if arrival < l.cfg.Stop {
			liveEvents++
		}
	}
	return nil
}

// HandleEvent processes an inbound PHOLD event dispatched at virtual time
// now (the event's arrival time). fromID is not used.
func (l *LP) HandleEvent(now float64, fromID int) error {
	if now < l.cfg.Stop {
		l.recvCount++
		if _, err := l.sendEvent(now); err != nil {
			return err
		}
		return nil
	}
	l.releaseToken()
	return nil
}

// releaseToken marks this LP as authorized to end, exactly once.
func (l *LP) releaseToken() {
	if l.released {
		return
	}
	l.released = true
	l.tokens.Release()
	if l.logger != nil {
		l.logger.Debug("lp authorized to end", "lp_id", l.id)
	}
}

// sendEvent draws the remote/local coin, destination, and delay (in that
// order), then submits the event on the chosen link. send_count and the
// delay histogram are incremented only when the computed arrival time is
// strictly before stop. It returns the computed arrival time.
func (l *LP) sendEvent(now float64) (float64, error) {
	rem := l.rng.Coin()
	dest := l.id
	if rem < l.cfg.Remote {
		if l.cfg.Number < 2 {
			return 0, fmt.Errorf("lp %d: cannot draw remote destination with fewer than 2 LPs", l.id)
		}
		dest = l.rng.UniformExcept(l.cfg.Number, l.id)
	}

	delay := l.rng.Exponential(1.0 / l.cfg.Average)
	delayTotal := delay + l.cfg.Minimum
	arrival := now + delayTotal

	ev := phevent.NewPhold(uint64(now), payload(l.cfg.BufferBytes))

	lk, ok := l.links[dest]
	if !ok {
		return 0, fmt.Errorf("lp %d: no link to destination %d", l.id, dest)
	}
	if dest == l.id {
		lk.Send(now, delayTotal, ev)
	} else {
		lk.Send(now, delay, ev)
	}

	if arrival < l.cfg.Stop {
		l.sendCount++
		if l.hist != nil {
			l.hist.Observe(l.id, delayTotal)
		}
	}
	return arrival, nil
}

func payload(n int) []byte {
	if n <= 0 {
		return nil
	}
	return make([]byte, n)
}
