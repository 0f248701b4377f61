package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "playeasy",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "playeasy",
			Name:      "bookings_created_total",
			Help:      "Bookings submitted through the wizard.",
		},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "playeasy",
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled by users.",
		},
	)

	wizardRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "playeasy",
			Name:      "wizard_rejections_total",
			Help:      "Rejected wizard transitions by field.",
		},
		[]string{"field"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingsCancelled, wizardRejections)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBookingCreated counts a successful submission.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingCancelled counts a cancellation.
func IncBookingCancelled() {
	bookingsCancelled.Inc()
}

// IncWizardRejection counts a failed gate by field name.
func IncWizardRejection(field string) {
	wizardRejections.WithLabelValues(field).Inc()
}
