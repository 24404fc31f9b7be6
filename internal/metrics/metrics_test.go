package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", Handler())

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/ping", "GET", "204"))
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/ping", "GET", "204")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "workout_tracker_http_requests_total")
}

func TestObserveImport(t *testing.T) {
	before := testutil.ToFloat64(importRows.WithLabelValues("upload", "skipped"))
	ObserveImport("upload", 2, 1, 0, 10, 1)
	assert.Equal(t, before+1, testutil.ToFloat64(importRows.WithLabelValues("upload", "skipped")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(importSets.WithLabelValues("upload", "inserted")), 10.0)
}
