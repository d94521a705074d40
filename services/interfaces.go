package services

import (
	"github.com/giomambre/cv-job-matching/model"
)

// MatchQuery is a request to shortlist job ads for one résumé.
type MatchQuery struct {
	Text string `json:"text"`
	K    *int   `json:"k,omitempty"` // Optional: defaults to matching.default_k
}

// MatchResponse is the ranked shortlist for one résumé.
type MatchResponse struct {
	Results []model.MatchResult `json:"results"`
	Total   int                 `json:"total"`
	K       int                 `json:"k"`
	Version string              `json:"model_version"`
	Took    int64               `json:"took_ms"`
	QueryId string              `json:"query_id"` // unique UUID for this match request
}

// ModelStats describes the loaded weighting model.
type ModelStats struct {
	Version         string             `json:"version"`
	Documents       int                `json:"documents"`
	VocabularyTerms int                `json:"vocabulary_terms"`
	MaxFeatures     int                `json:"max_features"`
	TextColumn      string             `json:"text_column"`
	StopPhrases     int                `json:"stop_phrases"`
	Ranker          string             `json:"ranker"`
	TopTerms        []model.TermWeight `json:"top_terms"` // Highest-IDF terms
}

// DocumentDetail is one corpus row with its heaviest weighted terms.
type DocumentDetail struct {
	Job   model.JobAd        `json:"job"`
	Terms []model.TermWeight `json:"terms"`
}

// Matcher ranks the job ad corpus against résumé text.
// Implementations are immutable after construction and safe for concurrent use.
type Matcher interface {
	// Version is the model version the matcher serves.
	Version() string
	// Match returns the k job ads most similar to text, best first.
	Match(text string, k int) ([]model.MatchResult, error)
	// Stats reports model statistics with the topTerms most distinctive terms.
	Stats(topTerms int) ModelStats
	// Document returns a corpus row with its topTerms heaviest terms.
	Document(row int, topTerms int) (*DocumentDetail, error)
}

// MatcherProvider hands out the matcher currently being served. Callers keep
// the returned matcher for the whole request so that results and reported
// version always come from the same model.
type MatcherProvider interface {
	Current() Matcher
}
