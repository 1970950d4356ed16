package metrics

import (
	"time"

	"tokopos/internal/apperror"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tokopos"

// Metrics holds the Prometheus instruments shared by the services.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests        *prometheus.CounterVec
	durations       *prometheus.HistogramVec
	stockRejections prometheus.Counter
	publishFailures *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "usecase_requests_total",
				Help:      "Total number of use case invocations.",
			},
			[]string{"use_case", "outcome"},
		),
		durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "usecase_duration_seconds",
				Help:      "Duration of use case execution in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"use_case"},
		),
		stockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_rejections_total",
			Help:      "Orders rejected because a product did not have enough stock.",
		}),
		publishFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "event_publish_failed_total",
				Help:      "Count of order-related event publish failures.",
			},
			[]string{"event"},
		),
	}
	reg.MustRegister(m.requests, m.durations, m.stockRejections, m.publishFailures)
	return m
}

// ObserveUseCase records one invocation. The outcome label is "success" or the error kind.
func (m *Metrics) ObserveUseCase(useCase string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(apperror.KindOf(err))
	}
	m.requests.WithLabelValues(useCase, outcome).Inc()
	m.durations.WithLabelValues(useCase).Observe(time.Since(start).Seconds())
}

func (m *Metrics) StockRejected() {
	if m == nil {
		return
	}
	m.stockRejections.Inc()
}

func (m *Metrics) PublishFailed(event string) {
	if m == nil {
		return
	}
	m.publishFailures.WithLabelValues(event).Inc()
}
