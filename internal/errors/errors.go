package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions
var (
	// ErrEmptyCorpus is returned when a model is fitted on no usable text
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrArtifactMissing is returned when a persisted artifact cannot be opened
	ErrArtifactMissing = errors.New("corpus artifact missing")

	// ErrArtifactCorrupt is returned when persisted artifacts cannot be decoded or disagree
	ErrArtifactCorrupt = errors.New("corpus artifact corrupt")

	// ErrInvalidK is returned when the number of requested matches is not positive
	ErrInvalidK = errors.New("invalid k")

	// ErrUnsupportedInput is returned for query text or files the matcher cannot read
	ErrUnsupportedInput = errors.New("unsupported input")

	// ErrColumnNotFound is returned when the corpus has no column with the configured name
	ErrColumnNotFound = errors.New("column not found")

	// ErrDocumentNotFound is returned when a corpus row does not exist
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrTaskNotFound is returned when a background task does not exist
	ErrTaskNotFound = errors.New("task not found")
)

// EmptyCorpusError is returned by Fit when there is nothing to learn a vocabulary from
type EmptyCorpusError struct {
	Reason string
}

func (e *EmptyCorpusError) Error() string {
	return fmt.Sprintf("empty corpus: %s", e.Reason)
}

func (e *EmptyCorpusError) Is(target error) bool {
	return target == ErrEmptyCorpus
}

// NewEmptyCorpusError creates a new EmptyCorpusError
func NewEmptyCorpusError(reason string) *EmptyCorpusError {
	return &EmptyCorpusError{Reason: reason}
}

// CorpusArtifactMissingError reports an artifact file that is absent or unreadable
type CorpusArtifactMissingError struct {
	Path string
	Err  error
}

func (e *CorpusArtifactMissingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corpus artifact '%s' missing: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("corpus artifact '%s' missing", e.Path)
}

func (e *CorpusArtifactMissingError) Is(target error) bool {
	return target == ErrArtifactMissing
}

func (e *CorpusArtifactMissingError) Unwrap() error {
	return e.Err
}

// NewCorpusArtifactMissingError creates a new CorpusArtifactMissingError
func NewCorpusArtifactMissingError(path string, err error) *CorpusArtifactMissingError {
	return &CorpusArtifactMissingError{Path: path, Err: err}
}

// CorpusArtifactCorruptError reports an artifact that decoded badly or is inconsistent with its siblings
type CorpusArtifactCorruptError struct {
	Path   string
	Reason string
}

func (e *CorpusArtifactCorruptError) Error() string {
	return fmt.Sprintf("corpus artifact '%s' corrupt: %s", e.Path, e.Reason)
}

func (e *CorpusArtifactCorruptError) Is(target error) bool {
	return target == ErrArtifactCorrupt
}

// NewCorpusArtifactCorruptError creates a new CorpusArtifactCorruptError
func NewCorpusArtifactCorruptError(path, reason string) *CorpusArtifactCorruptError {
	return &CorpusArtifactCorruptError{Path: path, Reason: reason}
}

// InvalidKError is returned when fewer than one match is requested
type InvalidKError struct {
	K int
}

func (e *InvalidKError) Error() string {
	return fmt.Sprintf("k must be positive, got %d", e.K)
}

func (e *InvalidKError) Is(target error) bool {
	return target == ErrInvalidK
}

// NewInvalidKError creates a new InvalidKError
func NewInvalidKError(k int) *InvalidKError {
	return &InvalidKError{K: k}
}

// UnsupportedInputError is returned for input that cannot be interpreted as text
type UnsupportedInputError struct {
	Reason string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("unsupported input: %s", e.Reason)
}

func (e *UnsupportedInputError) Is(target error) bool {
	return target == ErrUnsupportedInput
}

// NewUnsupportedInputError creates a new UnsupportedInputError
func NewUnsupportedInputError(reason string) *UnsupportedInputError {
	return &UnsupportedInputError{Reason: reason}
}

// ColumnNotFoundError is returned when the corpus header lacks a required column
type ColumnNotFoundError struct {
	Column     string
	Available  []string
	Suggestion string // closest available column, if any
}

func (e *ColumnNotFoundError) Error() string {
	msg := fmt.Sprintf("column '%s' not found", e.Column)
	if len(e.Available) > 0 {
		msg += ", available columns: " + strings.Join(e.Available, ", ")
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean '%s'?)", e.Suggestion)
	}
	return msg
}

func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

// NewColumnNotFoundError creates a new ColumnNotFoundError
func NewColumnNotFoundError(column string, available []string) *ColumnNotFoundError {
	return &ColumnNotFoundError{Column: column, Available: available}
}

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	Row int
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document at row %d not found", e.Row)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(row int) *DocumentNotFoundError {
	return &DocumentNotFoundError{Row: row}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TaskNotFoundError represents a background task lookup failure
type TaskNotFoundError struct {
	TaskID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task with ID '%s' not found", e.TaskID)
}

func (e *TaskNotFoundError) Is(target error) bool {
	return target == ErrTaskNotFound
}

// NewTaskNotFoundError creates a new TaskNotFoundError
func NewTaskNotFoundError(taskID string) *TaskNotFoundError {
	return &TaskNotFoundError{TaskID: taskID}
}
