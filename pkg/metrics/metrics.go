// Package metrics counts what a run did, for the node exporter textfile
// collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pass outcomes.
const (
	OutcomeProcessed = "processed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Recorder holds the metrics of one run. A nil *Recorder discards everything.
type Recorder struct {
	registry  *prometheus.Registry
	passes    *prometheus.CounterVec
	added     prometheus.Counter
	removed   prometheus.Counter
	conflicts prometheus.Counter
	lastRun   prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoneg_passes_total",
			Help: "Campaign/ad group passes by outcome",
		}, []string{"outcome"}),
		added: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autoneg_negatives_added_total",
			Help: "Negative keywords added",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autoneg_negatives_removed_total",
			Help: "Negative keywords removed because they blocked a positive keyword",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autoneg_conflicts_total",
			Help: "Conflicting negative keywords that could not be removed",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "autoneg_last_run_timestamp_seconds",
			Help: "Time the last run finished",
		}),
	}
	r.registry.MustRegister(r.passes, r.added, r.removed, r.conflicts, r.lastRun)
	return r
}

// Gatherer exposes the registry, e.g. for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *Recorder) Pass(outcome string) {
	if r == nil {
		return
	}
	r.passes.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Added(n int) {
	if r == nil {
		return
	}
	r.added.Add(float64(n))
}

func (r *Recorder) Removed(n int) {
	if r == nil {
		return
	}
	r.removed.Add(float64(n))
}

func (r *Recorder) Conflicts(n int) {
	if r == nil {
		return
	}
	r.conflicts.Add(float64(n))
}

// Finish marks the end of the run.
func (r *Recorder) Finish(at time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile writes all metrics in the text exposition format. The file
// is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
