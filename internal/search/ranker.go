package search

import (
	"fmt"

	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
	"github.com/giomambre/cv-job-matching/index"
	"github.com/giomambre/cv-job-matching/model"
)

const (
	// RankerLinear scans every document vector.
	RankerLinear = "linear"
	// RankerInverted walks posting lists of the query's terms only.
	RankerInverted = "inverted"
)

// Ranker returns the k most similar corpus rows for a normalized query vector.
// Implementations are read-only and safe for concurrent use.
type Ranker interface {
	Rank(query model.WeightedVector, k int) ([]Hit, error)
	Name() string
}

// LinearRanker is the reference ranker: a full scan over all vectors.
type LinearRanker struct {
	vectors []model.WeightedVector
}

// NewLinearRanker creates a ranker over the given vectors.
func NewLinearRanker(vectors []model.WeightedVector) *LinearRanker {
	return &LinearRanker{vectors: vectors}
}

// Rank implements Ranker.
func (r *LinearRanker) Rank(query model.WeightedVector, k int) ([]Hit, error) {
	return Rank(query, r.vectors, k)
}

// Name implements Ranker.
func (r *LinearRanker) Name() string { return RankerLinear }

// InvertedRanker accumulates scores through posting lists, touching only rows
// that share a term with the query. Rows sharing nothing score zero and still
// fill the shortlist in row order, exactly as the linear scan would.
type InvertedRanker struct {
	index *index.InvertedIndex
}

// NewInvertedRanker builds posting lists for vectors over a vocabulary of size dim.
func NewInvertedRanker(dim int, vectors []model.WeightedVector) (*InvertedRanker, error) {
	ii, err := index.NewInvertedIndex(dim, vectors)
	if err != nil {
		return nil, err
	}
	return &InvertedRanker{index: ii}, nil
}

// Rank implements Ranker.
func (r *InvertedRanker) Rank(query model.WeightedVector, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, apperrors.NewInvalidKError(k)
	}

	scores := make([]float64, r.index.Documents)
	r.index.Accumulate(query, scores)

	hits := make([]Hit, len(scores))
	for row, s := range scores {
		hits[row] = Hit{Row: row, Score: clampScore(s)}
	}
	return topK(hits, k), nil
}

// Name implements Ranker.
func (r *InvertedRanker) Name() string { return RankerInverted }

// NewRanker builds the named ranker.
func NewRanker(kind string, dim int, vectors []model.WeightedVector) (Ranker, error) {
	switch kind {
	case "", RankerLinear:
		return NewLinearRanker(vectors), nil
	case RankerInverted:
		return NewInvertedRanker(dim, vectors)
	default:
		return nil, fmt.Errorf("unknown ranker %q", kind)
	}
}
