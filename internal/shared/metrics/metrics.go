package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exposed at /metrics.
var Registry = prometheus.NewRegistry()

var (
	factory = promauto.With(Registry)

	upstreamRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frontend_upstream_requests_total",
			Help: "Total requests sent to the code review API",
		},
		[]string{"endpoint", "method", "code"},
	)
	upstreamDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frontend_upstream_request_duration_seconds",
			Help:    "Duration of requests sent to the code review API",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"endpoint", "method"},
	)
	reconcilePasses = factory.NewCounter(prometheus.CounterOpts{
		Name: "frontend_status_reconcile_passes_total",
		Help: "Total status reconciliation passes",
	})
	statusFetches = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frontend_status_fetches_total",
			Help: "Status fetches issued by the reconciler, by outcome",
		},
		[]string{"outcome"},
	)
	statusUpdates = factory.NewCounter(prometheus.CounterOpts{
		Name: "frontend_status_updates_total",
		Help: "Status indicators updated after a change",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveUpstream records one call to the code review API. code is 0 for
// transport failures.
func ObserveUpstream(endpoint, method string, code int, elapsed time.Duration) {
	label := strconv.Itoa(code)
	if code == 0 {
		label = "transport_error"
	}
	upstreamRequests.WithLabelValues(endpoint, method, label).Inc()
	upstreamDuration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

// IncReconcilePass increments the pass counter.
func IncReconcilePass() {
	reconcilePasses.Inc()
}

// IncStatusFetch counts a status fetch. outcome is "changed", "unchanged" or "error".
func IncStatusFetch(outcome string) {
	statusFetches.WithLabelValues(outcome).Inc()
}

// IncStatusUpdate counts an indicator that changed on screen.
func IncStatusUpdate() {
	statusUpdates.Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
