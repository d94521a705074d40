package engine

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/giomambre/cv-job-matching/internal/metrics"
	"github.com/giomambre/cv-job-matching/services"
)

// Active holds the matcher being served and lets a new model version replace
// it without blocking in-flight requests.
type Active struct {
	current atomic.Pointer[Matcher]
}

// NewActive starts serving m, which must not be nil.
func NewActive(m *Matcher) *Active {
	a := &Active{}
	a.Swap(m)
	return a
}

// Current implements services.MatcherProvider.
func (a *Active) Current() services.Matcher {
	return a.current.Load()
}

// Matcher returns the concrete matcher being served.
func (a *Active) Matcher() *Matcher {
	return a.current.Load()
}

// Swap serves m from now on and returns the matcher it replaced. Requests that
// already hold the old matcher finish against it.
func (a *Active) Swap(m *Matcher) *Matcher {
	old := a.current.Swap(m)
	metrics.CorpusDocuments.Set(float64(m.Documents()))
	metrics.VocabularyTerms.Set(float64(m.VocabularySize()))
	m.logger.Info("serving model",
		zap.String("version", m.Version()),
		zap.Int("documents", m.Documents()),
		zap.Int("vocabulary_terms", m.VocabularySize()),
	)
	return old
}

var _ services.MatcherProvider = (*Active)(nil)
