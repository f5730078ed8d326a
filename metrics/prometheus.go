// Package metrics exports pipeline metrics in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter implements generator.Recorder on a private registry.
type Exporter struct {
	registry *prometheus.Registry

	callLatency  *prometheus.HistogramVec
	callTotal    *prometheus.CounterVec
	compressions prometheus.Counter
	wordsSaved   prometheus.Counter
}

func NewExporter() *Exporter {
	e := &Exporter{registry: prometheus.NewRegistry()}

	e.callLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "story",
			Subsystem: "llm",
			Name:      "call_latency_seconds",
			Help:      "Text generation service latency in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)
	e.callTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "story",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Text generation service calls by kind and outcome",
		},
		[]string{"kind", "status"},
	)
	e.compressions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "story",
		Subsystem: "pipeline",
		Name:      "compressions_total",
		Help:      "Fragments shortened before assembly",
	})
	e.wordsSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "story",
		Subsystem: "pipeline",
		Name:      "compression_target_words_saved_total",
		Help:      "Sum of original minus target word counts for compressed fragments",
	})

	e.registry.MustRegister(e.callLatency, e.callTotal, e.compressions, e.wordsSaved)
	return e
}

func (e *Exporter) ObserveCall(kind string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	e.callTotal.WithLabelValues(kind, status).Inc()
	e.callLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (e *Exporter) ObserveCompression(originalWords, targetWords int) {
	e.compressions.Inc()
	if saved := originalWords - targetWords; saved > 0 {
		e.wordsSaved.Add(float64(saved))
	}
}

// Registry exposes the underlying registry for tests and custom collectors.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler serves the registry in the text exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
