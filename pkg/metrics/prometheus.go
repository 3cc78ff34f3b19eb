package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	FlightsChecked      prometheus.Counter
	PricePointsRecorded prometheus.Counter
	NotificationsSent   prometheus.Counter
	FetchRetries        prometheus.Counter
	CheckDuration       prometheus.Histogram
	ErrorsCount         *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		FlightsChecked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_checked_total",
			Help:      "The total number of flight price checks performed",
		}),
		PricePointsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_points_recorded_total",
			Help:      "The total number of price observations appended to the ledger",
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "The total number of notifications delivered",
		}),
		FetchRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_retries_total",
			Help:      "The total number of fare fetch re-attempts",
		}),
		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flight_check_duration_seconds",
			Help:      "Time taken to check one flight end to end",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
