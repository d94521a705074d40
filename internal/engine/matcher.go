package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/giomambre/cv-job-matching/index"
	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
	"github.com/giomambre/cv-job-matching/internal/indexing"
	"github.com/giomambre/cv-job-matching/internal/logger"
	"github.com/giomambre/cv-job-matching/internal/search"
	"github.com/giomambre/cv-job-matching/model"
	"github.com/giomambre/cv-job-matching/services"
	"github.com/giomambre/cv-job-matching/store"
)

// Options tune how a Matcher is assembled.
type Options struct {
	Ranker string // search.RankerLinear (default) or search.RankerInverted
	Logger *zap.Logger
}

// Matcher is the loaded matching context: weighting model, document vectors,
// corpus and ranker for one model version. It is built once, never mutated,
// and shared by all concurrent requests without locking.
// It implements the services.Matcher interface.
type Matcher struct {
	model   *index.WeightingModel
	vectors *store.VectorStore
	jobs    []model.JobAd
	ranker  search.Ranker
	logger  *zap.Logger
}

// New assembles a Matcher from in-memory artifacts after checking that they
// agree with each other. Inconsistent artifacts yield CorpusArtifactCorruptError.
func New(artifacts *indexing.Artifacts, opts Options) (*Matcher, error) {
	if artifacts == nil || artifacts.Model == nil || artifacts.Vectors == nil || artifacts.Corpus == nil {
		return nil, fmt.Errorf("artifacts are incomplete")
	}
	if err := checkConsistency(artifacts); err != nil {
		return nil, err
	}

	ranker, err := search.NewRanker(opts.Ranker, artifacts.Model.Dimension(), artifacts.Vectors.Vectors)
	if err != nil {
		return nil, err
	}

	return &Matcher{
		model:   artifacts.Model,
		vectors: artifacts.Vectors,
		jobs:    artifacts.Corpus.JobAds(artifacts.Model.Settings.Columns),
		ranker:  ranker,
		logger:  logger.OrNop(opts.Logger),
	}, nil
}

func checkConsistency(a *indexing.Artifacts) error {
	m, vs, table := a.Model, a.Vectors, a.Corpus

	if m.Dimension() == 0 {
		return apperrors.NewCorpusArtifactCorruptError(indexing.ModelFile, "vocabulary is empty")
	}
	if vs.Version != m.Version {
		return apperrors.NewCorpusArtifactCorruptError(indexing.VectorsFile,
			fmt.Sprintf("vectors belong to version %q but model is version %q", vs.Version, m.Version))
	}
	if vs.Dim != m.Dimension() {
		return apperrors.NewCorpusArtifactCorruptError(indexing.VectorsFile,
			fmt.Sprintf("vector dimension %d does not match vocabulary size %d", vs.Dim, m.Dimension()))
	}
	if err := vs.Validate(); err != nil {
		return apperrors.NewCorpusArtifactCorruptError(indexing.VectorsFile, err.Error())
	}
	if vs.Len() != table.Len() {
		return apperrors.NewCorpusArtifactCorruptError(indexing.CorpusFile,
			fmt.Sprintf("%d document vectors for %d corpus rows", vs.Len(), table.Len()))
	}
	if _, ok := table.Column(m.Settings.TextColumn); !ok {
		return apperrors.NewCorpusArtifactCorruptError(indexing.CorpusFile,
			fmt.Sprintf("text column %q is missing", m.Settings.TextColumn))
	}
	return nil
}

// Match normalizes and vectorizes the résumé text, then returns the k most
// similar job ads. A résumé sharing no vocabulary term with the corpus still
// gets min(k, corpus size) results, all scored zero.
func (m *Matcher) Match(text string, k int) ([]model.MatchResult, error) {
	if k <= 0 {
		return nil, apperrors.NewInvalidKError(k)
	}

	query, err := m.model.Analyze(text)
	if err != nil {
		return nil, err
	}

	hits, err := m.ranker.Rank(query, k)
	if err != nil {
		return nil, err
	}

	results := make([]model.MatchResult, len(hits))
	for i, hit := range hits {
		results[i] = model.MatchResult{
			JobAd: m.jobs[hit.Row],
			Rank:  i + 1,
			Score: hit.Score,
		}
	}

	m.logger.Debug("matched résumé",
		zap.Int("k", k),
		zap.Int("query_terms", query.Len()),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// Stats implements services.Matcher.
func (m *Matcher) Stats(topTerms int) services.ModelStats {
	return services.ModelStats{
		Version:         m.model.Version,
		Documents:       m.vectors.Len(),
		VocabularyTerms: m.model.Dimension(),
		MaxFeatures:     m.model.Settings.MaxFeatures,
		TextColumn:      m.model.Settings.TextColumn,
		StopPhrases:     len(m.model.Settings.StopPhrases),
		Ranker:          m.ranker.Name(),
		TopTerms:        m.model.TopIDFTerms(topTerms),
	}
}

// Document implements services.Matcher.
func (m *Matcher) Document(row int, topTerms int) (*services.DocumentDetail, error) {
	v, ok := m.vectors.Get(row)
	if !ok {
		return nil, apperrors.NewDocumentNotFoundError(row)
	}
	return &services.DocumentDetail{
		Job:   m.jobs[row],
		Terms: m.model.DescribeVector(v, topTerms),
	}, nil
}

// Version returns the loaded model version.
func (m *Matcher) Version() string {
	return m.model.Version
}

// Documents returns the corpus size.
func (m *Matcher) Documents() int {
	return m.vectors.Len()
}

// VocabularySize returns the number of vocabulary terms.
func (m *Matcher) VocabularySize() int {
	return m.model.Dimension()
}

// Analyze exposes the query vector of raw text, used for inspection.
func (m *Matcher) Analyze(text string) (model.WeightedVector, []model.TermWeight, error) {
	v, err := m.model.Analyze(text)
	if err != nil {
		return model.WeightedVector{}, nil, err
	}
	return v, m.model.DescribeVector(v, -1), nil
}

// ensure interface compliance
var _ services.Matcher = (*Matcher)(nil)
