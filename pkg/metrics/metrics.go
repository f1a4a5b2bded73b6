package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ListingPagesTotal  *prometheus.CounterVec
	DetailFetchesTotal *prometheus.CounterVec
	RecordsDropped     *prometheus.CounterVec
	FetchDuration      *prometheus.HistogramVec
	CatalogSize        prometheus.Gauge
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ListingPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_pages_total",
			Help: "Listing pages walked, by outcome.",
		},
		[]string{"outcome"}, // ok, fetch_error
	)

	DetailFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detail_fetches_total",
			Help: "Detail page fetch attempts, by outcome.",
		},
		[]string{"outcome"}, // accepted, discarded, transient_error, permanent_error
	)

	RecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_dropped_total",
			Help: "Records dropped by pipeline stage and reason.",
		},
		[]string{"stage", "reason"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fetch_duration_seconds",
			Help:    "Duration of outbound page fetches.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"}, // listing, detail
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_records",
			Help: "Number of normalized records in the stored catalog.",
		},
	)
}
