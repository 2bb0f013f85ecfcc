package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "glueregen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	stepDuration  *prom.HistogramVec
	runDuration   prom.Histogram
	stepResults   *prom.CounterVec
	runOutcome    *prom.CounterVec
	filesIncluded *prom.GaugeVec
	targetChanged *prom.CounterVec
	refreshRetry  prom.Counter
	lastRun       prom.Gauge
}

// NewPrometheusRecorder constructs and registers the run metrics. A nil
// registry gets a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.stepDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "step_duration_seconds",
		Help:      "Duration of individual regeneration steps",
		Buckets:   prom.DefBuckets,
	}, []string{"step"})
	pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Total regeneration run duration",
		Buckets:   prom.DefBuckets,
	})
	pr.stepResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "step_results_total",
		Help:      "Step result counts by outcome",
	}, []string{"step", "result"})
	pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "run_outcomes_total",
		Help:      "Run outcomes by terminal state",
	}, []string{"outcome"})
	pr.filesIncluded = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "target_files_included",
		Help:      "Number of files listed in each generated target",
	}, []string{"target"})
	pr.targetChanged = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "target_changes_total",
		Help:      "Number of times a target's content changed",
	}, []string{"target"})
	pr.refreshRetry = prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_retries_total",
		Help:      "Vendored source refresh retries (transient failures)",
	})
	pr.lastRun = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed or failed run",
	})
	reg.MustRegister(pr.stepDuration, pr.runDuration, pr.stepResults, pr.runOutcome,
		pr.filesIncluded, pr.targetChanged, pr.refreshRetry, pr.lastRun)
	return pr
}

func (p *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	if p == nil || p.stepDuration == nil {
		return
	}
	p.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStepResult(step string, result ResultLabel) {
	if p == nil || p.stepResults == nil {
		return
	}
	p.stepResults.WithLabelValues(step, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
	p.lastRun.SetToCurrentTime()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetFilesIncluded(target string, n int) {
	if p == nil || p.filesIncluded == nil {
		return
	}
	p.filesIncluded.WithLabelValues(target).Set(float64(n))
}

func (p *PrometheusRecorder) IncTargetChanged(target string) {
	if p == nil || p.targetChanged == nil {
		return
	}
	p.targetChanged.WithLabelValues(target).Inc()
}

func (p *PrometheusRecorder) IncRefreshRetry() {
	if p == nil || p.refreshRetry == nil {
		return
	}
	p.refreshRetry.Inc()
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

// WriteTextfile writes every collected series to path in the text exposition
// format, atomically, for the node-exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
