package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
	"github.com/giomambre/cv-job-matching/internal/extract"
	"github.com/giomambre/cv-job-matching/internal/logger"
	"github.com/giomambre/cv-job-matching/internal/metrics"
	"github.com/giomambre/cv-job-matching/model"
	"github.com/giomambre/cv-job-matching/services"
)

const uploadField = "cvFile"

// MatchHandler ranks the corpus against résumé text.
// Request Body: services.MatchQuery
func (api *API) MatchHandler(c *gin.Context) {
	start := time.Now()

	var req services.MatchQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.MatchRequestsTotal.WithLabelValues("invalid").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			SendMatchError(c, err)
			return
		}
		SendInvalidJSONError(c, err)
		return
	}

	result := ValidateMatchText(req.Text)
	k, kResult := ResolveK(req.K, api.opts.DefaultK, api.opts.MaxK)
	result.Errors = append(result.Errors, kResult.Errors...)
	if result.HasErrors() {
		metrics.MatchRequestsTotal.WithLabelValues("invalid").Inc()
		SendValidationError(c, result)
		return
	}

	api.respondMatch(c, req.Text, k, model.MatchSourceText, start)
}

// UploadHandler extracts text from an uploaded résumé (plain text, PDF or
// DOCX) and ranks the corpus against it.
// Form: cvFile (required), k (optional)
func (api *API) UploadHandler(c *gin.Context) {
	start := time.Now()

	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		metrics.MatchRequestsTotal.WithLabelValues("invalid").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			SendMatchError(c, err)
			return
		}
		result := &ValidationResult{Valid: true}
		result.AddError(uploadField, "A résumé file is required in form field '"+uploadField+"'")
		SendValidationError(c, result)
		return
	}

	kp, result := ParseFormK(c.PostForm("k"))
	if result.HasErrors() {
		metrics.MatchRequestsTotal.WithLabelValues("invalid").Inc()
		SendValidationError(c, result)
		return
	}
	k, result := ResolveK(kp, api.opts.DefaultK, api.opts.MaxK)
	if result.HasErrors() {
		metrics.MatchRequestsTotal.WithLabelValues("invalid").Inc()
		SendValidationError(c, result)
		return
	}

	if fileHeader.Size > api.opts.MaxUploadBytes {
		metrics.MatchRequestsTotal.WithLabelValues("invalid").Inc()
		SendError(c, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "Uploaded file is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		SendInternalError(c, "open upload", err)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, api.opts.MaxUploadBytes))
	if err != nil {
		SendInternalError(c, "read upload", err)
		return
	}

	text, err := extract.Text(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		metrics.MatchRequestsTotal.WithLabelValues("invalid").Inc()
		SendMatchError(c, err)
		return
	}

	api.respondMatch(c, text, k, model.MatchSourceUpload, start)
}

// respondMatch runs the match against one matcher snapshot and writes the response.
func (api *API) respondMatch(c *gin.Context, text string, k int, source string, start time.Time) {
	log := logger.FromContext(c.Request.Context())
	m := api.matchers.Current()

	results, err := m.Match(text, k)
	if err != nil {
		status := "error"
		if errors.Is(err, apperrors.ErrInvalidK) || errors.Is(err, apperrors.ErrUnsupportedInput) {
			status = "invalid"
		}
		metrics.MatchRequestsTotal.WithLabelValues(status).Inc()
		log.Warn("match failed", zap.Error(err))
		SendMatchError(c, err)
		return
	}

	took := time.Since(start)
	metrics.MatchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.MatchDuration.Observe(took.Seconds())

	queryID := c.GetString(requestIDKey)
	if queryID == "" {
		queryID = uuid.New().String()
	}

	response := services.MatchResponse{
		Results: results,
		Total:   len(results),
		K:       k,
		Version: m.Version(),
		Took:    took.Milliseconds(),
		QueryId: queryID,
	}

	if api.opts.Analytics != nil {
		event := model.MatchEvent{
			Version:      response.Version,
			Source:       source,
			K:            k,
			ResultCount:  len(results),
			ResponseTime: took,
		}
		if len(results) > 0 {
			event.TopRole = results[0].Role
			event.TopScore = results[0].Score
		}
		api.opts.Analytics.Track(event)
	}

	log.Debug("match served",
		zap.String("source", source),
		zap.Int("k", k),
		zap.Int("results", len(results)),
		zap.Duration("took", took),
	)
	c.JSON(http.StatusOK, response)
}
