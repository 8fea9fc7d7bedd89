package reporting

import "time"

// PerLP is one LP's contribution to the run report.
type PerLP struct {
	ID        int    `json:"id"`
	SendCount uint64 `json:"send_count"`
	RecvCount uint64 `json:"recv_count"`
}

// ConfigEcho mirrors the run's configuration plus its derived quantities,
// echoed back alongside the results.
type ConfigEcho struct {
	Remote             float64 `json:"remote"`
	Minimum            float64 `json:"minimum"`
	Average            float64 `json:"average"`
	Stop               float64 `json:"stop"`
	Number             int     `json:"number"`
	Events             int     `json:"events"`
	Partitions         int     `json:"partitions"`
	DutyFactor         float64 `json:"duty_factor"`
	ExpectedEvents     float64 `json:"expected_events"`
	MinEventsRecommend int     `json:"min_events_recommended,omitempty"`
}

// RunReport is the top-level artifact emitted at the end of a run: aggregate
// send/receive totals plus the per-LP breakdown and any non-fatal warnings
// collected along the way.
type RunReport struct {
	RunID     string        `json:"run_id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration_ns"`

	Config ConfigEcho `json:"config"`

	SendTotal uint64 `json:"send_total"`
	RecvTotal uint64 `json:"recv_total"`
	Error     int64  `json:"error"`

	ReceiverMismatch bool `json:"receiver_mismatch"`

	PerLP []PerLP `json:"per_lp"`

	HistogramText string   `json:"histogram_text,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}
