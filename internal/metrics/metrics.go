package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// CacheHits counts result-cache hits by view
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "result_cache_hits_total", Help: "Result cache hits by view."},
		[]string{"view"},
	)
	// CacheMisses counts result-cache misses by view
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "result_cache_misses_total", Help: "Result cache misses by view."},
		[]string{"view"},
	)

	// RegionBatches counts spatial-store batch lookups
	RegionBatches = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "region_batches_total", Help: "Spatial store batch lookups issued."},
	)
	// RegionBatchFailures counts batch lookups that were skipped after an error
	RegionBatchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "region_batch_failures_total", Help: "Spatial store batch lookups skipped after an error."},
	)

	// TracksFetched counts activities pulled from the upstream provider
	TracksFetched = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tracks_fetched_total", Help: "Activities fetched from the upstream provider."},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on the dedicated registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(CacheHits)
		Registry.MustRegister(CacheMisses)
		Registry.MustRegister(RegionBatches)
		Registry.MustRegister(RegionBatchFailures)
		Registry.MustRegister(TracksFetched)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
