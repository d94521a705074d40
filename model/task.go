package model

import (
	"time"
)

// TaskStatus represents the status of a background task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// TaskType represents the kind of background task
type TaskType string

const (
	// TaskTypeReload loads an already published model version and serves it
	TaskTypeReload TaskType = "reload"
	// TaskTypeReindex builds a new model version from a corpus file, publishes and serves it
	TaskTypeReindex TaskType = "reindex"
)

// Task represents a long-running administrative operation on the served model
type Task struct {
	ID          string            `json:"id"`
	Type        TaskType          `json:"type"`
	Status      TaskStatus        `json:"status"`
	Version     string            `json:"version"` // Model version the task targets
	Progress    *TaskProgress     `json:"progress,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Done reports whether the task reached a terminal status.
func (t *Task) Done() bool {
	switch t.Status {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskProgress tracks the progress of a task
type TaskProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

// Percentage returns the progress as a percentage (0-100)
func (p *TaskProgress) Percentage() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}
