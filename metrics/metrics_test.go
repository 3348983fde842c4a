package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nav-overlay/model"
)

func TestRecordAnnotations(t *testing.T) {
	before := testutil.ToFloat64(AnnotationsProduced.WithLabelValues(string(model.KindWaypoint)))

	RecordAnnotations([]model.Annotation{
		{Kind: model.KindSegment},
		{Kind: model.KindWaypoint},
		{Kind: model.KindSegment},
	})

	after := testutil.ToFloat64(AnnotationsProduced.WithLabelValues(string(model.KindWaypoint)))
	assert.Equal(t, before+1, after)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `navoverlay_http_requests_total{method="GET",path="/ping",status="200"}`))
}
