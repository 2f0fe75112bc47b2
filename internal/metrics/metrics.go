package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "survey"

// Metrics holds Prometheus metrics for the service. Each instance owns its
// registry so tests can build several without duplicate registration.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	Submissions      *prometheus.CounterVec
	AnswersPersisted prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Answer submissions by result and error code",
			},
			[]string{"result", "code"},
		),
		AnswersPersisted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "answers_persisted_total",
				Help:      "Answers stored by accepted submissions",
			},
		),
	}
}

// SubmissionAccepted implements app.SubmissionRecorder.
func (m *Metrics) SubmissionAccepted(answers int) {
	m.Submissions.WithLabelValues("accepted", "").Inc()
	m.AnswersPersisted.Add(float64(answers))
}

// SubmissionRejected implements app.SubmissionRecorder.
func (m *Metrics) SubmissionRejected(code string) {
	m.Submissions.WithLabelValues("rejected", code).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
