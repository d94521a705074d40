// Package config provides configuration structures for the matching engine.
// It defines the fit-time model settings persisted alongside the artifacts and
// the process configuration loaded from YAML.
package config

import (
	"strconv"
	"strings"
)

const (
	// DefaultMaxFeatures caps the vocabulary size when no limit is configured.
	DefaultMaxFeatures = 5000

	// StopWordsEnglish selects the built-in English stop-word list.
	StopWordsEnglish = "english"

	// StopWordsNone disables stop-word filtering.
	StopWordsNone = "none"
)

// DefaultStopPhrases is the recruiting boilerplate removed from job ads and résumés
// before tokenization. Phrases are matched case-insensitively on word boundaries.
var DefaultStopPhrases = []string{
	"looking", "join", "seeking", "role", "position", "candidate", "experience",
	"skills", "team", "work", "opportunity", "company", "apply", "apply now",
	"apply today", "competitive", "salary", "benefits", "full-time", "part-time",
	"remote", "hybrid", "flexible", "culture", "environment", "innovative",
	"dynamic", "collaborative", "leadership", "development", "growth",
	"responsibilities", "comprehensive", "talented", "supportive", "inclusive",
	"diverse", "mission", "vision", "values", "strategic", "impactful",
	"contribute", "success", "achieve", "goals", "objectives", "projects",
	"initiatives", "strong", "excellent", "proven", "ability", "manage",
	"deliver", "ensure", "drive", "solve", "foster", "optimize", "lead",
	"implement", "support", "develop", "high", "standards", "key", "best practices",
	"solutions", "effective", "successful", "outstanding", "advanced", "extensive",
	"demonstrate", "commitment", "continuous improvement", "forward-thinking",
	"analytical", "communication", "shape", "strategies", "complex", "mentor",
	"colleagues", "essential", "ambitious", "proactive", "detail-oriented",
	"passionate", "making a difference", "background", "strategic planning",
	"process improvement", "execution", "stakeholders", "coordination",
	"requirements gathering", "executive leadership", "will be responsible for",
	"you will", "we are", "our company is", "become part of", "who excels in",
	"with expertise in", "in this role", "we value",
}

// Columns names the corpus columns shown to callers for each match.
// Lookup is exact first, then case-insensitive.
type Columns struct {
	Company     string `json:"company" yaml:"company"`
	Role        string `json:"role" yaml:"role"`
	Description string `json:"description" yaml:"description"`
	Link        string `json:"link" yaml:"link"`
	Source      string `json:"source" yaml:"source"`
}

// ModelSettings contains everything that influences how text becomes a vector.
// The settings are stored inside the weighting model artifact so a loaded model
// always normalizes queries exactly as it normalized the corpus.
type ModelSettings struct {
	TextColumn     string   `json:"text_column" yaml:"text_column"`           // Corpus column the vocabulary is learned from (e.g., "Description")
	Columns        Columns  `json:"columns" yaml:"columns"`                   // Display columns returned with matches
	MaxFeatures    int      `json:"max_features" yaml:"max_features"`         // Upper bound on vocabulary size, most frequent terms win
	StopWords      string   `json:"stop_words" yaml:"stop_words"`             // "english" or "none"
	ExtraStopWords []string `json:"extra_stop_words" yaml:"extra_stop_words"` // Additional single-token stop words
	StopPhrases    []string `json:"stop_phrases" yaml:"stop_phrases"`         // Boilerplate words/phrases removed during normalization; nil means defaults
}

// DefaultModelSettings returns settings matching the stock job-ad corpus layout.
func DefaultModelSettings() ModelSettings {
	settings := ModelSettings{}
	settings.ApplyDefaults()
	return settings
}

// ApplyDefaults applies default values to the model settings
func (settings *ModelSettings) ApplyDefaults() {
	if settings.TextColumn == "" {
		settings.TextColumn = "Description"
	}
	if settings.MaxFeatures == 0 {
		settings.MaxFeatures = DefaultMaxFeatures
	}
	if settings.StopWords == "" {
		settings.StopWords = StopWordsEnglish
	}
	if settings.StopPhrases == nil {
		settings.StopPhrases = append([]string(nil), DefaultStopPhrases...)
	}

	if settings.Columns.Company == "" {
		settings.Columns.Company = "Company"
	}
	if settings.Columns.Role == "" {
		settings.Columns.Role = "Role"
	}
	if settings.Columns.Description == "" {
		settings.Columns.Description = settings.TextColumn
	}
	if settings.Columns.Link == "" {
		settings.Columns.Link = "Job Link"
	}
	if settings.Columns.Source == "" {
		settings.Columns.Source = "Source"
	}
}

// Validate checks the settings and returns one message per problem found.
func (settings *ModelSettings) Validate() []string {
	var problems []string

	if strings.TrimSpace(settings.TextColumn) == "" {
		problems = append(problems, "text_column cannot be empty or whitespace-only")
	}
	if settings.MaxFeatures <= 0 {
		problems = append(problems, "max_features must be positive, got "+strconv.Itoa(settings.MaxFeatures))
	}
	if settings.StopWords != StopWordsEnglish && settings.StopWords != StopWordsNone {
		problems = append(problems, "Invalid stop_words '"+settings.StopWords+"' (must be 'english' or 'none')")
	}

	problems = append(problems, checkDuplicates("stop_phrases", lowerAll(settings.StopPhrases))...)
	problems = append(problems, checkDuplicates("extra_stop_words", lowerAll(settings.ExtraStopWords))...)

	for _, phrase := range settings.StopPhrases {
		if strings.TrimSpace(phrase) == "" {
			problems = append(problems, "Stop phrase cannot be empty or whitespace-only")
		}
	}
	for _, word := range settings.ExtraStopWords {
		if strings.TrimSpace(word) == "" {
			problems = append(problems, "Stop word cannot be empty or whitespace-only")
		} else if strings.ContainsAny(word, " \t\n") {
			problems = append(problems, "Stop word '"+word+"' must be a single token")
		}
	}

	return problems
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, values []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, value := range values {
		if seen[value] {
			errors = append(errors, "Duplicate value '"+value+"' found in "+fieldName)
		}
		seen[value] = true
	}

	return errors
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
