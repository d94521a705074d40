package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())
	r.GET("/documents/:row", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/documents/:row", "200"))

	req := httptest.NewRequest(http.MethodGet, "/documents/7", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	// Recorded under the route template, not the concrete path
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/documents/:row", "200"))
	assert.Equal(t, before+1, after)
	assert.Greater(t, testutil.CollectAndCount(httpRequestDuration), 0)
}

func TestMiddleware_StatusCodesAndUnknownRoutes(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())
	r.POST("/match", func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})

	tests := []struct {
		method string
		path   string
		label  string
		status string
	}{
		{http.MethodPost, "/match", "/match", "400"},
		{http.MethodGet, "/nope", "unknown", "404"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tt.method, tt.label, tt.status))

			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			r.ServeHTTP(httptest.NewRecorder(), req)

			after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tt.method, tt.label, tt.status))
			assert.Equal(t, before+1, after)
		})
	}
}

func TestMatchMetricsRegistered(t *testing.T) {
	MatchRequestsTotal.WithLabelValues("ok").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(MatchRequestsTotal.WithLabelValues("ok")), 1.0)

	CorpusDocuments.Set(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(CorpusDocuments))
}
