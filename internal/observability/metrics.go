package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movies_api_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movies_api_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	aggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movies_api_review_aggregation_duration_seconds",
		Help:    "Duration of movie/review aggregation reads",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	reviewsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movies_api_reviews_created_total",
		Help: "Count of reviews persisted",
	})
)

// ObserveHTTPRequest records an HTTP request metric. route is the matched
// route pattern, not the raw path, to keep label cardinality bounded.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveAggregation records how long a movie/review join took.
func ObserveAggregation(result string, duration time.Duration) {
	aggregationDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// IncReviewsCreated counts a persisted review.
func IncReviewsCreated() {
	reviewsCreated.Inc()
}
