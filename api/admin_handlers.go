package api

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
	"github.com/giomambre/cv-job-matching/internal/tasks"
	"github.com/giomambre/cv-job-matching/model"
)

// ReloadRequest selects a published model version to serve.
type ReloadRequest struct {
	Version string `json:"version"`
}

// ReindexRequest names a corpus file inside the corpus directory and the version to publish it as.
type ReindexRequest struct {
	CorpusFile string `json:"corpus_file"`
	Version    string `json:"version"`
}

// ReloadHandler starts a task that serves another published model version.
// Request Body: ReloadRequest
func (api *API) ReloadHandler(c *gin.Context) {
	var req ReloadRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateVersionName(req.Version); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	deps := api.opts.Tasks
	version := req.Version
	api.startTask(c, model.TaskTypeReload, version, nil, func(ctx context.Context, progress tasks.ProgressFunc) error {
		return deps.Reloader.Reload(ctx, version, progress)
	})
}

// ReindexHandler starts a task that builds a model version from a corpus file,
// publishes it and serves it.
// Request Body: ReindexRequest
func (api *API) ReindexHandler(c *gin.Context) {
	var req ReindexRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	result := ValidateVersionName(req.Version)
	result.Errors = append(result.Errors, ValidateCorpusFile(req.CorpusFile).Errors...)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	deps := api.opts.Tasks
	csvPath := filepath.Join(deps.CorpusDir, req.CorpusFile)
	version := req.Version
	api.startTask(c, model.TaskTypeReindex, version, map[string]string{"corpus_file": req.CorpusFile},
		func(ctx context.Context, progress tasks.ProgressFunc) error {
			return deps.Reloader.Reindex(ctx, csvPath, version, progress)
		})
}

func (api *API) startTask(c *gin.Context, taskType model.TaskType, version string, metadata map[string]string, fn tasks.Func) {
	manager := api.opts.Tasks.Manager
	taskID := manager.Create(taskType, version, metadata)
	if err := manager.Execute(taskID, fn); err != nil {
		SendTaskExecutionError(c, string(taskType), err)
		return
	}

	api.logger.Info("task accepted",
		zap.String("task_id", taskID),
		zap.String("type", string(taskType)),
		zap.String("version", version),
	)
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": string(taskType) + " of model version '" + version + "' started",
		"task_id": taskID,
	})
}

// GetTaskHandler returns the status of a background task
func (api *API) GetTaskHandler(c *gin.Context) {
	taskID := c.Param("taskId")
	task, err := api.opts.Tasks.Manager.Get(taskID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			SendTaskNotFoundError(c, taskID)
			return
		}
		SendInternalError(c, "get task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ListTasksHandler lists background tasks, newest first.
// Query: status (optional filter)
func (api *API) ListTasksHandler(c *gin.Context) {
	var status *model.TaskStatus
	if raw := c.Query("status"); raw != "" {
		s := model.TaskStatus(raw)
		switch s {
		case model.TaskStatusPending, model.TaskStatusRunning, model.TaskStatusCompleted,
			model.TaskStatusFailed, model.TaskStatusCancelled:
			status = &s
		default:
			result := &ValidationResult{Valid: true}
			result.AddError("status", "Unknown task status '"+raw+"'")
			SendValidationError(c, result)
			return
		}
	}

	list := api.opts.Tasks.Manager.List(status)
	c.JSON(http.StatusOK, gin.H{
		"tasks": list,
		"total": len(list),
	})
}

// GetTaskStatsHandler returns task counters and the current workload
func (api *API) GetTaskStatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.opts.Tasks.Manager.Stats())
}
