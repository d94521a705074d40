// Package api provides the HTTP surface of the résumé matcher.
package api

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ResolveK applies the default to an omitted k and checks it against the limit.
// k == nil means the caller did not send one.
func ResolveK(k *int, defaultK, maxK int) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if k == nil {
		return defaultK, result
	}
	if *k <= 0 {
		result.AddError("k", fmt.Sprintf("k must be positive, got %d", *k))
	} else if *k > maxK {
		result.AddError("k", fmt.Sprintf("k must not exceed %d, got %d", maxK, *k))
	}
	return *k, result
}

// ParseFormK reads an optional integer k from a form or query value.
func ParseFormK(raw string) (*int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, result
	}
	k, err := strconv.Atoi(raw)
	if err != nil {
		result.AddError("k", "k must be an integer")
		return nil, result
	}
	return &k, result
}

// ValidateMatchText checks résumé text before matching.
func ValidateMatchText(text string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(text) == "" {
		result.AddError("text", "Résumé text is required")
	}
	return result
}

// ParseRow validates a corpus row path parameter.
func ParseRow(raw string) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	row, err := strconv.Atoi(raw)
	if err != nil {
		result.AddError("row", "Row must be an integer")
		return 0, result
	}
	if row < 0 {
		result.AddError("row", "Row must not be negative")
	}
	return row, result
}

// ParseTop reads an optional ?top= limit, falling back to def and capping at limit.
func ParseTop(raw string, def, limit int) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if raw == "" {
		return def, result
	}
	top, err := strconv.Atoi(raw)
	if err != nil || top < 0 {
		result.AddError("top", "top must be a non-negative integer")
		return def, result
	}
	if top > limit {
		top = limit
	}
	return top, result
}

// ValidateVersionName checks a model version used as a directory name.
func ValidateVersionName(version string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if version == "" {
		result.AddError("version", "Version is required")
		return result
	}
	if strings.TrimSpace(version) != version {
		result.AddError("version", "Version cannot have leading or trailing whitespace")
		return result
	}
	if version == "." || version == ".." || strings.ContainsAny(version, `/\`) {
		result.AddError("version", "Version must be a plain directory name")
	}
	return result
}

// ValidateCorpusFile checks a corpus file name that is resolved inside the corpus directory.
func ValidateCorpusFile(name string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if name == "" {
		result.AddError("corpus_file", "Corpus file is required")
		return result
	}
	if filepath.Base(name) != name || name == "." || name == ".." {
		result.AddError("corpus_file", "Corpus file must be a plain file name")
		return result
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		result.AddError("corpus_file", "Corpus file must be a .csv file")
	}
	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}
