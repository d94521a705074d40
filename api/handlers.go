package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/giomambre/cv-job-matching/internal/analytics"
	"github.com/giomambre/cv-job-matching/internal/engine"
	"github.com/giomambre/cv-job-matching/internal/logger"
	"github.com/giomambre/cv-job-matching/internal/metrics"
	"github.com/giomambre/cv-job-matching/internal/tasks"
	"github.com/giomambre/cv-job-matching/internal/version"
	"github.com/giomambre/cv-job-matching/services"
)

const (
	defaultModelTopTerms    = 20
	defaultDocumentTopTerms = 10
	maxTopTerms             = 500
)

// TaskDeps enables the administrative reload and reindex routes.
type TaskDeps struct {
	Manager   *tasks.Manager
	Reloader  *engine.Reloader
	CorpusDir string
}

// Options configure the API handlers.
type Options struct {
	DefaultK       int
	MaxK           int
	MaxUploadBytes int64
	Analytics      *analytics.Service // nil disables GET /analytics
	Tasks          *TaskDeps          // nil disables the admin and task routes
	Logger         *zap.Logger
}

// API holds dependencies for API handlers, primarily the served matcher.
type API struct {
	matchers services.MatcherProvider
	opts     Options
	logger   *zap.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(matchers services.MatcherProvider, opts Options) *API {
	if opts.DefaultK <= 0 {
		opts.DefaultK = 5
	}
	if opts.MaxK < opts.DefaultK {
		opts.MaxK = opts.DefaultK
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &API{matchers: matchers, opts: opts, logger: logger.OrNop(opts.Logger)}
}

// NewRouter builds a gin engine with the middleware chain and all routes.
func NewRouter(matchers services.MatcherProvider, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(
		RequestIDMiddleware(opts.Logger),
		RecoveryMiddleware(),
		AccessLogMiddleware(),
		metrics.Middleware(),
		CORSMiddleware(),
	)
	SetupRoutes(router, matchers, opts)
	return router
}

// SetupRoutes defines all the API routes for the matcher.
func SetupRoutes(router *gin.Engine, matchers services.MatcherProvider, opts Options) *API {
	apiHandler := NewAPI(matchers, opts)
	// Leave room for multipart framing around the largest accepted file
	bodyLimit := RequestSizeLimitMiddleware(apiHandler.opts.MaxUploadBytes + 64<<10)

	// Health and observability
	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.Analytics != nil {
		router.GET("/analytics", apiHandler.GetAnalyticsHandler)
	}

	// Model inspection
	router.GET("/model", apiHandler.GetModelHandler)
	router.GET("/documents/:row", apiHandler.GetDocumentHandler)

	// Matching
	router.POST("/match", bodyLimit, apiHandler.MatchHandler)
	router.POST("/upload", bodyLimit, apiHandler.UploadHandler)

	// Background tasks
	if opts.Tasks != nil {
		adminRoutes := router.Group("/admin", bodyLimit)
		{
			adminRoutes.POST("/reload", apiHandler.ReloadHandler)   // Serve another published version
			adminRoutes.POST("/reindex", apiHandler.ReindexHandler) // Build, publish and serve a new version
		}

		taskRoutes := router.Group("/tasks")
		{
			taskRoutes.GET("", apiHandler.ListTasksHandler)
			taskRoutes.GET("/stats", apiHandler.GetTaskStatsHandler)
			taskRoutes.GET("/:taskId", apiHandler.GetTaskHandler)
		}
	}

	return apiHandler
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	m := api.matchers.Current()
	stats := m.Stats(0)
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"service":       "cv-job-matching",
		"version":       version.Version,
		"model_version": stats.Version,
		"documents":     stats.Documents,
		"timestamp":     fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// GetModelHandler returns statistics of the served weighting model.
// Query: top (number of highest-IDF terms, default 20)
func (api *API) GetModelHandler(c *gin.Context) {
	top, result := ParseTop(c.Query("top"), defaultModelTopTerms, maxTopTerms)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	c.JSON(http.StatusOK, api.matchers.Current().Stats(top))
}

// GetDocumentHandler returns one corpus row with its heaviest weighted terms.
// Query: top (number of terms, default 10)
func (api *API) GetDocumentHandler(c *gin.Context) {
	row, result := ParseRow(c.Param("row"))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	top, result := ParseTop(c.Query("top"), defaultDocumentTopTerms, maxTopTerms)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	detail, err := api.matchers.Current().Document(row, top)
	if err != nil {
		SendMatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetAnalyticsHandler returns the match analytics dashboard
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.opts.Analytics.Dashboard())
}
