package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/lifecycle"
)

const namespace = "clearance"

type Metrics struct {
	changes  *prometheus.CounterVec
	payments *prometheus.CounterVec
	bookings *prometheus.GaugeVec
	batches  prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers the booking collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_changes_total",
			Help:      "Committed booking changes by action and resulting status.",
		}, []string{"action", "status"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_settlements_total",
			Help:      "Payment settlements by outcome.",
		}, []string{"outcome"}),
		bookings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bookings",
			Help:      "Bookings currently in each status.",
		}, []string{"status"}),
		batches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_batch_size",
			Help:      "Changes delivered per coalesced notification.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.changes,
		m.payments,
		m.bookings,
		m.batches,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Seed sets the status gauges, used after hydrating the store at boot.
func (m *Metrics) Seed(counts map[booking.Status]int) {
	for status, n := range counts {
		m.bookings.WithLabelValues(string(status)).Set(float64(n))
	}
}

func (m *Metrics) Listener() lifecycle.Listener {
	return func(changes []lifecycle.Change) {
		m.batches.Observe(float64(len(changes)))

		for _, c := range changes {
			status := c.Booking.Status
			m.changes.WithLabelValues(c.Action, string(status)).Inc()

			switch c.Action {
			case lifecycle.ActionPaymentSettled:
				m.payments.WithLabelValues("approved").Inc()
			case lifecycle.ActionPaymentFailed:
				m.payments.WithLabelValues("declined").Inc()
			}

			if c.Previous == status {
				continue
			}
			if c.Previous != "" {
				m.bookings.WithLabelValues(string(c.Previous)).Dec()
			}
			m.bookings.WithLabelValues(string(status)).Inc()
		}
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
