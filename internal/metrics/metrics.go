// Package metrics exposes Prometheus metrics for conversions and script
// execution.
package metrics

import (
	"net/http"

	"github.com/JonMunkholm/racesql/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "racesql"

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder holds every metric. Create one per registry.
type Recorder struct {
	gatherer prometheus.Gatherer

	conversions    *prometheus.CounterVec
	statements     *prometheus.CounterVec
	conflicts      *prometheus.CounterVec
	corrections    *prometheus.CounterVec
	excludedExits  *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	executions     *prometheus.CounterVec
	activeRequests prometheus.Gauge
}

// NewRecorder registers the metrics on a fresh registry, keeping the Go
// runtime collectors out of the output.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	return NewRecorderWith(reg, reg)
}

// NewRecorderWith registers on reg and serves from g.
func NewRecorderWith(reg prometheus.Registerer, g prometheus.Gatherer) *Recorder {
	auto := promauto.With(reg)
	return &Recorder{
		gatherer: g,
		conversions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversions run, by variant and outcome",
		}, []string{"variant", "status"}),
		statements: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_total",
			Help:      "INSERT statements emitted, by variant and section",
		}, []string{"variant", "section"}),
		conflicts: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflicts_total",
			Help:      "Duplicate keys seen with differing attributes",
		}, []string{"variant"}),
		corrections: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_corrections_total",
			Help:      "Rank correction rules applied",
		}, []string{"variant"}),
		excludedExits: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "excluded_exits_total",
			Help:      "Exit records dropped by exclusion rules",
		}, []string{"variant"}),
		duration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Time spent converting, excluding file IO",
			Buckets:   prometheus.DefBuckets,
		}, []string{"variant"}),
		executions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "script_executions_total",
			Help:      "Scripts executed against a database, by target and outcome",
		}, []string{"target", "status"}),
		activeRequests: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_conversions",
			Help:      "Conversions currently holding a limiter slot",
		}),
	}
}

// ObserveConversion records the outcome of one conversion. res may be nil
// when err is set.
func (r *Recorder) ObserveConversion(variant string, res *core.Result, err error) {
	if err != nil || res == nil {
		r.conversions.WithLabelValues(variant, StatusError).Inc()
		return
	}
	r.conversions.WithLabelValues(variant, StatusOK).Inc()
	for _, sec := range res.Script.Sections {
		r.statements.WithLabelValues(variant, string(sec.Kind)).Add(float64(len(sec.Statements)))
	}
	r.conflicts.WithLabelValues(variant).Add(float64(len(res.Conflicts)))
	r.corrections.WithLabelValues(variant).Add(float64(len(res.Corrections)))
	r.excludedExits.WithLabelValues(variant).Add(float64(len(res.Excluded)))
	r.duration.WithLabelValues(variant).Observe(res.Duration.Seconds())
}

// ObserveExecution records a verify or apply run.
func (r *Recorder) ObserveExecution(target string, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.executions.WithLabelValues(target, status).Inc()
}

// ConversionStarted and ConversionFinished track limiter occupancy.
func (r *Recorder) ConversionStarted()  { r.activeRequests.Inc() }
func (r *Recorder) ConversionFinished() { r.activeRequests.Dec() }

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
