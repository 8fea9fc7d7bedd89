// Package engine drives one PHOLD run end to end: configuration validation,
// LP/link construction, the init broadcast, initial event emission, the
// scheduler dispatch loop, the completion reduce, and report assembly.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pholdsim/phold/pkg/collective"
	"github.com/pholdsim/phold/pkg/config"
	"github.com/pholdsim/phold/pkg/link"
	"github.com/pholdsim/phold/pkg/lp"
	"github.com/pholdsim/phold/pkg/reporting"
	"github.com/pholdsim/phold/pkg/scheduler"
	"github.com/pholdsim/phold/pkg/stats"
	"github.com/pholdsim/phold/pkg/token"
)

// RunState is one phase of an engine run.
type RunState int

const (
	StateInit RunState = iota
	StateBroadcasting
	StateRunning
	StateReducing
	StateReporting
	StateDone
	StateFailed
)

func (s RunState) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateBroadcasting:
		return "BROADCASTING"
	case StateRunning:
		return "RUNNING"
	case StateReducing:
		return "REDUCING"
	case StateReporting:
		return "REPORTING"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Engine owns the mutable state of a single run. It is not reused across
// runs.
type Engine struct {
	cfg    *config.Config
	logger *reporting.Logger

	state     RunState
	runID     string
	startTime time.Time

	lps []*lp.LP
}

// New constructs an Engine for cfg. Run validates cfg (see
// config.Config.Validate) before building anything.
func New(cfg *config.Config, logger *reporting.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger, state: StateInit}
}

// State returns the engine's current lifecycle phase.
func (e *Engine) State() RunState {
	return e.state
}

func (e *Engine) transition(s RunState) {
	if e.logger != nil {
		e.logger.Debug("engine state transition", "from", e.state.String(), "to", s.String())
	}
	e.state = s
}

// Run executes one complete PHOLD run and returns its report. Any fatal
// error transitions the engine to StateFailed; pholderr.ExitCode(err) maps
// the error to a process exit code a caller can pass to os.Exit.
func (e *Engine) Run(ctx context.Context) (*reporting.RunReport, error) {
	e.startTime = time.Now()
	e.runID = uuid.NewString()

	if v := e.cfg.Validate(); !v.OK() {
		e.transition(StateFailed)
		return nil, v.Err()
	}

	hist := stats.NewRecorder(e.cfg.DelaysOut)
	tokens := token.NewPool(e.cfg.Number)

	e.lps = make([]*lp.LP, e.cfg.Number)
	for id := range e.lps {
		e.lps[id] = lp.New(id, e.cfg, hist, tokens, e.logger)
	}

	handlers := make(map[int]scheduler.Handler, e.cfg.Number)
	phasers := make([]collective.Phaser, e.cfg.Number)
	reducers := make([]collective.Reducer, e.cfg.Number)
	for id, l := range e.lps {
		handlers[id] = l
		phasers[id] = l
		reducers[id] = l
	}

	owner := scheduler.Assign(e.cfg.Number, e.cfg.Partitions)
	sched, inboxes := scheduler.New(e.cfg.Number, e.cfg.Partitions, owner, handlers, e.cfg.Minimum, e.cfg.Stop, tokens)

	for id, l := range e.lps {
		links := make(map[int]*link.Link, e.cfg.Number)
		for peer := 0; peer < e.cfg.Number; peer++ {
			latency := e.cfg.Minimum
			if peer == id {
				latency = 0
			}
			links[peer] = link.New(id, peer, latency, inboxes[peer])
		}
		l.Wire(links)
	}

	e.transition(StateBroadcasting)
	if err := collective.Broadcast(ctx, phasers); err != nil {
		e.transition(StateFailed)
		return nil, err
	}

	for _, l := range e.lps {
		if err := l.Setup(); err != nil {
			e.transition(StateFailed)
			return nil, err
		}
	}

	e.transition(StateRunning)
	if err := sched.Run(ctx); err != nil {
		e.transition(StateFailed)
		return nil, err
	}

	e.transition(StateReducing)
	sendTotal, recvTotal, err := collective.Reduce(ctx, reducers)
	if err != nil {
		e.transition(StateFailed)
		return nil, err
	}

	e.transition(StateReporting)
	report := e.buildReport(hist, sendTotal, recvTotal)

	e.transition(StateDone)
	return report, nil
}

func (e *Engine) buildReport(hist *stats.Recorder, sendTotal, recvTotal uint64) *reporting.RunReport {
	report := &reporting.RunReport{
		RunID:     e.runID,
		StartTime: e.startTime,
		EndTime:   time.Now(),
		Config: reporting.ConfigEcho{
			Remote:             e.cfg.Remote,
			Minimum:            e.cfg.Minimum,
			Average:            e.cfg.Average,
			Stop:               e.cfg.Stop,
			Number:             e.cfg.Number,
			Events:             e.cfg.Events,
			Partitions:         e.cfg.Partitions,
			DutyFactor:         e.cfg.DutyFactor(),
			ExpectedEvents:     e.cfg.ExpectedEvents(),
			MinEventsRecommend: e.cfg.MinEventsRecommended(),
		},
		SendTotal:        sendTotal,
		RecvTotal:        recvTotal,
		Error:            int64(sendTotal) - int64(recvTotal),
		ReceiverMismatch: sendTotal != recvTotal,
		PerLP:            make([]reporting.PerLP, len(e.lps)),
	}
	report.Duration = report.EndTime.Sub(report.StartTime)

	for i, l := range e.lps {
		sc, rc := l.Totals()
		report.PerLP[i] = reporting.PerLP{ID: l.ID(), SendCount: sc, RecvCount: rc}
	}

	if hist.Enabled() {
		text, err := hist.Dump()
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("failed to render histogram: %v", err))
		} else {
			report.HistogramText = text
		}
	}

	if v := e.cfg.Validate(); len(v.Warnings) > 0 {
		report.Warnings = append(report.Warnings, v.Warnings...)
	}

	return report
}
