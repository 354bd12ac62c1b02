package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records submission outcomes and per-stage latency for the
// custom-order pipeline.
type PipelineMetrics struct {
	submissions *prometheus.CounterVec
	stage       *prometheus.HistogramVec
	orphans     prometheus.Counter
}

// NewPipelineMetrics registers the pipeline collectors on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "custom_order_submissions_total",
		Help: "Custom order submissions by terminal outcome.",
	}, []string{"outcome"})
	stage := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "custom_order_stage_duration_seconds",
		Help:    "Duration of each pipeline stage in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	orphans := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "custom_order_orphaned_variants_total",
		Help: "Variants created but never attached to a cart.",
	})
	reg.MustRegister(submissions, stage, orphans)
	return &PipelineMetrics{
		submissions: submissions,
		stage:       stage,
		orphans:     orphans,
	}
}

// IncSubmission counts a terminal pipeline outcome ("success", or the failing
// stage name for errors).
func (p *PipelineMetrics) IncSubmission(outcome string) {
	if p == nil || p.submissions == nil {
		return
	}
	p.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveStage records how long a pipeline stage took.
func (p *PipelineMetrics) ObserveStage(stage string, duration time.Duration) {
	if p == nil || p.stage == nil {
		return
	}
	p.stage.WithLabelValues(normalizeLabel(stage)).Observe(duration.Seconds())
}

// IncOrphan counts a variant left behind without a cart line.
func (p *PipelineMetrics) IncOrphan() {
	if p == nil || p.orphans == nil {
		return
	}
	p.orphans.Inc()
}
