package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

const namespace = "fakenews"

// Prometheus records submission outcomes on its own registry.
type Prometheus struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	latency     prometheus.Histogram
	sessions    prometheus.GaugeFunc
}

var _ ports.Metrics = (*Prometheus)(nil)

// New registers the collectors; liveSessions may be nil.
func New(liveSessions func() int) *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p := &Prometheus{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submissions by outcome and predicted label.",
		}, []string{"outcome", "label"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Round-trip time of calls to the classification service.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(p.submissions, p.latency)

	if liveSessions != nil {
		p.sessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Live UI sessions.",
		}, func() float64 { return float64(liveSessions()) })
		reg.MustRegister(p.sessions)
	}

	return p
}

// ObserveSubmission implements ports.Metrics.
func (p *Prometheus) ObserveSubmission(outcome ports.Outcome, label domain.Label, elapsed time.Duration) {
	p.submissions.WithLabelValues(string(outcome), string(label)).Inc()
	if outcome != ports.OutcomeValidationError {
		p.latency.Observe(elapsed.Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry gives tests access to gathered metrics.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
