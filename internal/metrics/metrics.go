// Package metrics exposes Prometheus counters for dataset activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ---- Dataset writes ---------------------------------------

	datasetEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrtool_dataset_events_total",
		Help: "Dataset write events by kind",
	}, []string{"event"})

	Uploads        = datasetEvents.WithLabelValues("upload")
	EmployeesAdded = datasetEvents.WithLabelValues("append")
	SaveErrors     = datasetEvents.WithLabelValues("save_error")

	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hrtool_dataset_rows",
		Help: "Rows in the dataset after the last load or save",
	})

	MissingColumns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hrtool_upload_missing_columns_total",
		Help: "Schema columns absent from uploaded files",
	})

	// ---- Dashboard cache ---------------------------------------

	cacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrtool_dashboard_cache_events_total",
		Help: "Dashboard cache event counters",
	}, []string{"event"})

	CacheHit   = cacheEvents.WithLabelValues("hit")
	CacheMiss  = cacheEvents.WithLabelValues("miss")
	CachePurge = cacheEvents.WithLabelValues("purge")

	// ---- Change events ---------------------------------------

	publishEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrtool_publish_events_total",
		Help: "Dataset change notifications by outcome",
	}, []string{"event"})

	Published      = publishEvents.WithLabelValues("published")
	PublishErrors  = publishEvents.WithLabelValues("error")
	MirrorSyncs    = publishEvents.WithLabelValues("mirrored")
	MirrorFailures = publishEvents.WithLabelValues("mirror_error")

	MirrorDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hrtool_mirror_duration_seconds",
		Help:    "Time spent copying the dataset to the sheet mirror",
		Buckets: prometheus.DefBuckets,
	})

	// ---- HTTP ---------------------------------------

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrtool_http_requests_total",
		Help: "HTTP requests by method and status code",
	}, []string{"method", "code"})

	HTTPDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hrtool_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	})

	securityEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrtool_security_events_total",
		Help: "Rejected or suspicious requests",
	}, []string{"event"})

	RateLimited = securityEvents.WithLabelValues("rate_limited")
	Suspicious  = securityEvents.WithLabelValues("suspicious")
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
