// Package metrics holds the Prometheus collectors of the report generator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure kinds used as the "kind" label of tpsreport_run_failures_total.
const (
	KindUnknownChain = "unknown_chain"
	KindMalformed    = "malformed_sample"
	KindEmpty        = "empty_sample_set"
	KindRender       = "render"
	KindIO           = "io"
)

// Stage names used as the "stage" label of tpsreport_stage_duration_seconds.
const (
	StageParse   = "parse"
	StageChart   = "chart"
	StageLatency = "latency"
	StageReport  = "report"
)

// Recorder records pipeline activity. A nil *Recorder discards everything.
type Recorder struct {
	samplesParsed    prometheus.Counter
	reportsGenerated *prometheus.CounterVec
	runFailures      *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	scaleBreaks      *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		samplesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tpsreport_samples_parsed_total",
			Help: "Sample rows parsed across all runs.",
		}),
		reportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tpsreport_reports_generated_total",
			Help: "Reports generated, by chain.",
		}, []string{"chain"}),
		runFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tpsreport_run_failures_total",
			Help: "Runs aborted, by failure kind.",
		}, []string{"kind"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tpsreport_stage_duration_seconds",
			Help:    "Wall time spent in each pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"stage"}),
		scaleBreaks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tpsreport_scale_break_total",
			Help: "Charts drawn with a scaled theoretical line, by chain.",
		}, []string{"chain"}),
	}

	for _, c := range []prometheus.Collector{
		r.samplesParsed, r.reportsGenerated, r.runFailures, r.stageDuration, r.scaleBreaks,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SamplesParsed adds n parsed sample rows.
func (r *Recorder) SamplesParsed(n int) {
	if r == nil {
		return
	}
	r.samplesParsed.Add(float64(n))
}

// ReportGenerated counts a successful run for chain.
func (r *Recorder) ReportGenerated(chain string) {
	if r == nil {
		return
	}
	r.reportsGenerated.WithLabelValues(chain).Inc()
}

// RunFailed counts an aborted run. kind is one of the Kind constants.
func (r *Recorder) RunFailed(kind string) {
	if r == nil {
		return
	}
	r.runFailures.WithLabelValues(kind).Inc()
}

// ObserveStage records how long a pipeline stage took. stage is one of the
// Stage constants.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ScaleBreak counts a chart for chain drawn with a compressed theoretical
// TPS line.
func (r *Recorder) ScaleBreak(chain string) {
	if r == nil {
		return
	}
	r.scaleBreaks.WithLabelValues(chain).Inc()
}
