package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workout_tracker_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workout_tracker_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	importRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workout_tracker_import_workouts_total",
		Help: "Workouts seen by CSV imports, by outcome.",
	}, []string{"path", "outcome"})

	importSets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workout_tracker_import_sets_total",
		Help: "Sets written or rejected by CSV imports.",
	}, []string{"path", "outcome"})

	exerciseDeletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workout_tracker_exercise_deletions_total",
		Help: "Exercise deletions by strategy.",
	}, []string{"strategy"})
)

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// ObserveImport adds the outcome counts of one import run.
func ObserveImport(path string, imported, skipped, failed, setsInserted, setsFailed int) {
	importRows.WithLabelValues(path, "imported").Add(float64(imported))
	importRows.WithLabelValues(path, "skipped").Add(float64(skipped))
	importRows.WithLabelValues(path, "failed").Add(float64(failed))
	importSets.WithLabelValues(path, "inserted").Add(float64(setsInserted))
	importSets.WithLabelValues(path, "failed").Add(float64(setsFailed))
}

// ObserveExerciseDeletion counts a committed exercise deletion.
func ObserveExerciseDeletion(strategy string) {
	exerciseDeletions.WithLabelValues(strategy).Inc()
}
