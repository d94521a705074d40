package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/giomambre/cv-job-matching/index"
	"github.com/giomambre/cv-job-matching/internal/corpus"
	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
	"github.com/giomambre/cv-job-matching/internal/indexing"
	"github.com/giomambre/cv-job-matching/internal/logger"
	"github.com/giomambre/cv-job-matching/internal/persistence"
	"github.com/giomambre/cv-job-matching/store"
)

// Load reads the artifacts of one model version from dataDir/<version> and
// assembles a Matcher. A file that cannot be opened yields
// CorpusArtifactMissingError; a file that does not decode, or artifacts that
// disagree on dimension, version or row count, yield CorpusArtifactCorruptError.
func Load(dataDir, version string, opts Options) (*Matcher, error) {
	log := logger.OrNop(opts.Logger)
	dir := indexing.VersionDir(dataDir, version)
	log.Info("loading model artifacts", zap.String("dir", dir))

	artifacts, err := LoadArtifacts(dir)
	if err != nil {
		return nil, err
	}
	if artifacts.Model.Version != version {
		return nil, apperrors.NewCorpusArtifactCorruptError(filepath.Join(dir, indexing.ModelFile),
			fmt.Sprintf("model version %q stored under version %q", artifacts.Model.Version, version))
	}

	m, err := New(artifacts, opts)
	if err != nil {
		var corrupt *apperrors.CorpusArtifactCorruptError
		if errors.As(err, &corrupt) {
			corrupt.Path = filepath.Join(dir, corrupt.Path)
		}
		return nil, err
	}

	log.Info("model loaded",
		zap.String("version", m.Version()),
		zap.Int("documents", m.Documents()),
		zap.Int("vocabulary_terms", m.VocabularySize()),
		zap.String("ranker", m.ranker.Name()),
	)
	return m, nil
}

// LoadArtifacts decodes the three artifact files of a version directory
// without checking that they agree with each other.
func LoadArtifacts(dir string) (*indexing.Artifacts, error) {
	modelPath := filepath.Join(dir, indexing.ModelFile)
	weighting := &index.WeightingModel{}
	if err := loadGob(modelPath, weighting); err != nil {
		return nil, err
	}

	vectorsPath := filepath.Join(dir, indexing.VectorsFile)
	vectors := &store.VectorStore{}
	if err := loadGob(vectorsPath, vectors); err != nil {
		return nil, err
	}

	corpusPath := filepath.Join(dir, indexing.CorpusFile)
	table, err := corpus.ReadFile(corpusPath)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, apperrors.NewCorpusArtifactMissingError(corpusPath, err)
		}
		return nil, apperrors.NewCorpusArtifactCorruptError(corpusPath, err.Error())
	}

	return &indexing.Artifacts{Model: weighting, Vectors: vectors, Corpus: table}, nil
}

// loadGob maps persistence failures onto the artifact error taxonomy.
func loadGob(path string, target interface{}) error {
	err := persistence.LoadGob(path, target)
	if err == nil {
		return nil
	}
	var decodeErr *persistence.DecodeError
	if errors.As(err, &decodeErr) {
		return apperrors.NewCorpusArtifactCorruptError(path, decodeErr.Err.Error())
	}
	return apperrors.NewCorpusArtifactMissingError(path, err)
}
