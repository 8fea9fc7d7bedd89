// Package stats records a per-LP delay histogram on top of
// github.com/prometheus/client_golang, the producer side of a library family
// more commonly consumed as a read-only HTTP client.
package stats

import (
	"bytes"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Recorder observes delay_total samples (in seconds) into a per-LP
// histogram. A disabled Recorder (delays_out = false) is a no-op so callers
// never need to branch on whether recording is enabled.
type Recorder struct {
	enabled  bool
	registry *prometheus.Registry
	hist     *prometheus.HistogramVec
}

// NewRecorder constructs a Recorder. Bucket upper bounds are 1µs times
// powers of two (1µs, 2µs, 4µs, ... 2^29 µs), in seconds.
func NewRecorder(enabled bool) *Recorder {
	if !enabled {
		return &Recorder{}
	}
	reg := prometheus.NewRegistry()
	hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "phold_delay_total_seconds",
		Help:    "delay_total samples recorded by send_event, in seconds.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 2, 30),
	}, []string{"lp_id"})
	reg.MustRegister(hist)
	return &Recorder{enabled: true, registry: reg, hist: hist}
}

// Observe records a delay_total sample for lpID, in seconds.
func (r *Recorder) Observe(lpID int, delaySeconds float64) {
	if !r.enabled {
		return
	}
	r.hist.WithLabelValues(strconv.Itoa(lpID)).Observe(delaySeconds)
}

// Enabled reports whether this Recorder actually records samples.
func (r *Recorder) Enabled() bool {
	return r.enabled
}

// Dump renders the accumulated histogram in Prometheus text exposition
// format. Returns "" for a disabled Recorder.
func (r *Recorder) Dump() (string, error) {
	if !r.enabled {
		return "", nil
	}
	mfs, err := r.registry.Gather()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
