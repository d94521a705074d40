package indexing

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/giomambre/cv-job-matching/config"
	"github.com/giomambre/cv-job-matching/index"
	"github.com/giomambre/cv-job-matching/internal/corpus"
	"github.com/giomambre/cv-job-matching/internal/logger"
	"github.com/giomambre/cv-job-matching/internal/persistence"
	"github.com/giomambre/cv-job-matching/internal/tokenizer"
	"github.com/giomambre/cv-job-matching/store"
)

// Artifact file names inside a model version directory.
const (
	ModelFile   = "weighting_model.gob"
	VectorsFile = "document_vectors.gob"
	CorpusFile  = "job_ads.csv"
)

// Artifacts is one fitted model version: the weighting model, one vector per
// corpus row and the corpus itself, all aligned by row.
type Artifacts struct {
	Model   *index.WeightingModel
	Vectors *store.VectorStore
	Corpus  *corpus.Table
}

// Builder fits the weighting model over a job ad corpus and persists the result.
// It runs offline as a single batch job.
type Builder struct {
	settings   config.ModelSettings
	normalizer *tokenizer.Normalizer
	logger     *zap.Logger
}

// NewBuilder creates a Builder for the given settings.
func NewBuilder(settings config.ModelSettings, log *zap.Logger) (*Builder, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid model settings: %s", strings.Join(problems, "; "))
	}
	return &Builder{
		settings:   settings,
		normalizer: tokenizer.NewNormalizer(settings.StopPhrases),
		logger:     logger.OrNop(log),
	}, nil
}

// VersionDir returns the directory holding the artifacts of one model version.
func VersionDir(dataDir, version string) string {
	return filepath.Join(dataDir, version)
}

// Build normalizes the text column of every row and fits the model. Rows with
// an empty or malformed text cell are kept and get a zero vector, so row i of the corpus is
// always vector i. Nothing is written to disk.
func (b *Builder) Build(version string, table *corpus.Table) (*Artifacts, error) {
	col, err := table.RequireColumn(b.settings.TextColumn)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw := table.Values(col)
	docs := make([]string, len(raw))
	empty, malformed := 0, 0
	for i, text := range raw {
		if err := index.ValidateText(text); err != nil {
			b.logger.Debug("treating malformed row as empty", zap.Int("row", i), zap.Error(err))
			malformed++
			text = ""
		}
		docs[i] = b.normalizer.Normalize(text)
		if docs[i] == "" {
			empty++
		}
	}
	if malformed > 0 {
		b.logger.Warn("malformed text cells indexed as empty", zap.Int("rows", malformed))
	}
	b.logger.Info("normalized corpus",
		zap.Int("documents", len(docs)),
		zap.Int("empty_after_normalization", empty),
		zap.String("text_column", table.Header[col]),
	)

	m, vectors, err := index.Fit(docs, b.settings)
	if err != nil {
		return nil, err
	}
	m.Version = version

	b.logger.Info("fitted weighting model",
		zap.String("version", version),
		zap.Int("vocabulary_terms", m.Dimension()),
		zap.Int("max_features", b.settings.MaxFeatures),
		zap.Duration("took", time.Since(start)),
	)

	return &Artifacts{
		Model:   m,
		Vectors: store.NewVectorStore(version, m.Dimension(), vectors),
		Corpus:  table,
	}, nil
}

// Persist writes all three artifacts into dataDir/<version>. The files are
// staged in a temporary directory and renamed into place together, so a
// failure never leaves a partial or mixed version behind.
func (b *Builder) Persist(dataDir string, artifacts *Artifacts) error {
	version := artifacts.Model.Version
	if version == "" || strings.ContainsAny(version, `/\`) || version == "." || version == ".." {
		return fmt.Errorf("invalid model version %q", version)
	}
	finalDir := VersionDir(dataDir, version)

	err := persistence.PublishDir(finalDir, func(tmpDir string) error {
		if err := persistence.SaveGob(filepath.Join(tmpDir, ModelFile), artifacts.Model); err != nil {
			return err
		}
		if err := persistence.SaveGob(filepath.Join(tmpDir, VectorsFile), artifacts.Vectors); err != nil {
			return err
		}
		return artifacts.Corpus.WriteFile(filepath.Join(tmpDir, CorpusFile))
	})
	if err != nil {
		return fmt.Errorf("failed to persist model version %s: %w", version, err)
	}

	b.logger.Info("persisted model artifacts",
		zap.String("dir", finalDir),
		zap.Int("documents", artifacts.Vectors.Len()),
	)
	return nil
}

// BuildFile reads a CSV corpus, builds the model and persists it.
func (b *Builder) BuildFile(csvPath, dataDir, version string) (*Artifacts, error) {
	table, err := corpus.ReadFile(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", csvPath, err)
	}
	b.logger.Info("loaded corpus", zap.String("path", csvPath), zap.Int("rows", table.Len()))

	artifacts, err := b.Build(version, table)
	if err != nil {
		return nil, err
	}
	if err := b.Persist(dataDir, artifacts); err != nil {
		return nil, err
	}
	return artifacts, nil
}
