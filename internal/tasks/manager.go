// Package tasks runs administrative operations on the served model in the background.
package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/giomambre/cv-job-matching/internal/errors"
	"github.com/giomambre/cv-job-matching/internal/logger"
	"github.com/giomambre/cv-job-matching/internal/metrics"
	"github.com/giomambre/cv-job-matching/model"
)

// ProgressFunc reports task progress from inside a running task.
type ProgressFunc func(current, total int, message string)

// Func is the body of a task.
type Func func(ctx context.Context, progress ProgressFunc) error

// Stats summarizes the tasks the manager has seen since start.
type Stats struct {
	Created          int64         `json:"created"`
	Completed        int64         `json:"completed"`
	Failed           int64         `json:"failed"`
	Pending          int           `json:"pending"`
	Running          int           `json:"running"`
	AverageExecution time.Duration `json:"average_execution_ns"`
	SuccessRate      float64       `json:"success_rate"`
}

// Manager handles background task execution and tracking
type Manager struct {
	mu       sync.RWMutex
	tasks    map[string]*model.Task
	workers  chan struct{} // Limits concurrent tasks
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	stopping bool // Set under mu; no wg.Add once true
	wg       sync.WaitGroup
	logger   *zap.Logger

	created, completed, failed int64
	totalExecution             time.Duration
}

// NewManager creates a task manager running at most maxWorkers tasks at once.
func NewManager(maxWorkers int, log *zap.Logger) *Manager {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		tasks:   make(map[string]*model.Task),
		workers: make(chan struct{}, maxWorkers),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger.OrNop(log),
	}
}

// Start begins the background cleanup of finished tasks.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		return
	}
	m.wg.Add(1)
	m.mu.Unlock()

	m.logger.Info("task manager started", zap.Int("max_workers", cap(m.workers)))
	go func() {
		defer m.wg.Done()
		m.cleanupRoutine()
	}()
}

// Stop cancels running tasks and waits for them to return.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		m.stopping = true
		m.mu.Unlock()

		m.cancel()
		m.wg.Wait()
		m.logger.Info("task manager stopped")
	})
}

// Create registers a pending task and returns its ID
func (m *Manager) Create(taskType model.TaskType, version string, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := &model.Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Status:    model.TaskStatusPending,
		Version:   version,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.tasks[task.ID] = task
	m.created++
	m.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("type", string(task.Type)),
		zap.String("version", version),
	)
	return task.ID
}

// Get retrieves a copy of a task by ID
func (m *Manager) Get(taskID string) (*model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return nil, errors.NewTaskNotFoundError(taskID)
	}
	return copyTask(task), nil
}

// List returns copies of all tasks, newest first, optionally filtered by status
func (m *Manager) List(status *model.TaskStatus) []*model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		if status == nil || task.Status == *status {
			result = append(result, copyTask(task))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Execute runs fn for a pending task in the background. The task waits for a
// free worker slot before it is marked running.
func (m *Manager) Execute(taskID string, fn Func) error {
	m.mu.Lock()
	task, exists := m.tasks[taskID]
	if !exists {
		m.mu.Unlock()
		return errors.NewTaskNotFoundError(taskID)
	}
	if task.Status != model.TaskStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("task with ID '%s' is not in pending status (current: %s)", taskID, task.Status)
	}
	taskType := task.Type
	if m.stopping {
		m.mu.Unlock()
		m.finish(taskID, model.TaskStatusCancelled, "task manager is shutting down", 0)
		return fmt.Errorf("task manager is shutting down")
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()

		select {
		case m.workers <- struct{}{}:
		case <-m.ctx.Done():
			m.finish(taskID, model.TaskStatusCancelled, "task manager is shutting down", 0)
			return
		}
		defer func() { <-m.workers }()

		m.markRunning(taskID)
		metrics.TasksRunning.Inc()
		defer metrics.TasksRunning.Dec()

		start := time.Now()
		err := fn(m.ctx, func(current, total int, message string) {
			m.UpdateProgress(taskID, current, total, message)
		})
		elapsed := time.Since(start)
		metrics.TaskDuration.WithLabelValues(string(taskType)).Observe(elapsed.Seconds())

		switch {
		case err != nil && m.ctx.Err() != nil:
			m.finish(taskID, model.TaskStatusCancelled, err.Error(), elapsed)
		case err != nil:
			m.finish(taskID, model.TaskStatusFailed, err.Error(), elapsed)
			m.logger.Error("task failed",
				zap.String("task_id", taskID),
				zap.Duration("took", elapsed),
				zap.Error(err),
			)
		default:
			m.finish(taskID, model.TaskStatusCompleted, "", elapsed)
			m.logger.Info("task completed", zap.String("task_id", taskID), zap.Duration("took", elapsed))
		}
	}()

	return nil
}

// UpdateProgress updates the progress of a running task
func (m *Manager) UpdateProgress(taskID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return
	}
	if task.Progress == nil {
		task.Progress = &model.TaskProgress{}
	}
	task.Progress.Current = current
	task.Progress.Total = total
	task.Progress.Message = message
}

func (m *Manager) markRunning(taskID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if task, exists := m.tasks[taskID]; exists {
		now := time.Now()
		task.Status = model.TaskStatusRunning
		task.StartedAt = &now
	}
}

func (m *Manager) finish(taskID string, status model.TaskStatus, errorMsg string, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return
	}
	now := time.Now()
	task.Status = status
	task.Error = errorMsg
	task.CompletedAt = &now

	switch status {
	case model.TaskStatusCompleted:
		m.completed++
		m.totalExecution += elapsed
	case model.TaskStatusFailed:
		m.failed++
	}
	metrics.TasksTotal.WithLabelValues(string(task.Type), string(status)).Inc()
}

// cleanupRoutine runs periodic task cleanup
func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOld(24 * time.Hour)
		case <-m.ctx.Done():
			return
		}
	}
}

// CleanupOld removes finished tasks older than maxAge
func (m *Manager) CleanupOld(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for id, task := range m.tasks {
		if task.CompletedAt != nil && task.CompletedAt.Before(cutoff) {
			delete(m.tasks, id)
			cleaned++
		}
	}
	if cleaned > 0 {
		m.logger.Info("cleaned up old tasks", zap.Int("count", cleaned))
	}
	return cleaned
}

// Stats returns counters and the current workload
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{Created: m.created, Completed: m.completed, Failed: m.failed, SuccessRate: 1.0}
	for _, task := range m.tasks {
		switch task.Status {
		case model.TaskStatusPending:
			s.Pending++
		case model.TaskStatusRunning:
			s.Running++
		}
	}
	if m.completed > 0 {
		s.AverageExecution = m.totalExecution / time.Duration(m.completed)
	}
	if finished := m.completed + m.failed; finished > 0 {
		s.SuccessRate = float64(m.completed) / float64(finished)
	}
	return s
}

func copyTask(task *model.Task) *model.Task {
	c := *task
	if task.Progress != nil {
		p := *task.Progress
		c.Progress = &p
	}
	if task.Metadata != nil {
		c.Metadata = make(map[string]string, len(task.Metadata))
		for k, v := range task.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
