// Package metrics exposes Prometheus instrumentation for the decision core:
// prediction counters and latency, synchronization and training outcomes, and
// the number of mounted engines. A nil *Recorder is a valid no-op so callers
// never need to guard instrumentation sites.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures a Recorder.
type Options struct {
	// Namespace prefixes every metric name.
	Namespace string

	// Registry receives the metrics. Defaults to a fresh registry.
	Registry *prometheus.Registry
}

// Recorder holds the Prometheus collectors for the decision core.
type Recorder struct {
	registry *prometheus.Registry

	predictionsTotal   *prometheus.CounterVec
	predictionDuration *prometheus.HistogramVec
	syncsTotal         *prometheus.CounterVec
	trainingDuration   *prometheus.HistogramVec
	enginesMounted     prometheus.Gauge
}

// NewRecorder creates and registers the collectors.
func NewRecorder(optFns ...func(o *Options)) *Recorder {
	opts := Options{Namespace: "parlex"}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	r := &Recorder{
		registry: opts.Registry,
		predictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opts.Namespace,
				Name:      "predictions_total",
				Help:      "Total number of predictions by bot and status",
			},
			[]string{"bot", "status"},
		),
		predictionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: opts.Namespace,
				Name:      "prediction_duration_seconds",
				Help:      "Duration of the prediction pipeline in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"bot"},
		),
		syncsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opts.Namespace,
				Name:      "syncs_total",
				Help:      "Total number of model synchronizations by bot and outcome",
			},
			[]string{"bot", "outcome"},
		),
		trainingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: opts.Namespace,
				Name:      "training_duration_seconds",
				Help:      "Duration of model training in seconds",
				Buckets:   []float64{.1, .5, 1, 5, 15, 60, 300},
			},
			[]string{"bot"},
		),
		enginesMounted: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: opts.Namespace,
				Name:      "engines_mounted",
				Help:      "Number of currently mounted engines",
			},
		),
	}

	opts.Registry.MustRegister(
		r.predictionsTotal,
		r.predictionDuration,
		r.syncsTotal,
		r.trainingDuration,
		r.enginesMounted,
	)

	return r
}

// Handler returns the HTTP handler exposing the registry in Prometheus
// exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// ObservePrediction records one run of the prediction pipeline.
func (r *Recorder) ObservePrediction(botID string, dur time.Duration, errored bool) {
	if r == nil {
		return
	}
	status := "ok"
	if errored {
		status = "error"
	}
	r.predictionsTotal.WithLabelValues(botID, status).Inc()
	r.predictionDuration.WithLabelValues(botID).Observe(dur.Seconds())
}

// ObserveSync records a synchronization outcome ("loaded", "trained",
// "noop" or "failed").
func (r *Recorder) ObserveSync(botID, outcome string) {
	if r == nil {
		return
	}
	r.syncsTotal.WithLabelValues(botID, outcome).Inc()
}

// ObserveTraining records the duration of one training run.
func (r *Recorder) ObserveTraining(botID string, dur time.Duration) {
	if r == nil {
		return
	}
	r.trainingDuration.WithLabelValues(botID).Observe(dur.Seconds())
}

// EngineMounted adjusts the mounted-engine gauge by delta.
func (r *Recorder) EngineMounted(delta float64) {
	if r == nil {
		return
	}
	r.enginesMounted.Add(delta)
}
