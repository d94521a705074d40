package search

import (
	"math"
	"sort"

	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
	"github.com/giomambre/cv-job-matching/model"
)

// Hit is one scored corpus row.
type Hit struct {
	Row   int
	Score float64
}

// Rank scores every document vector against the query and returns the best k
// hits, highest score first. Both query and documents must already be
// L2-normalized, so the dot product is the cosine similarity. Equal scores are
// ordered by ascending row. The result has exactly min(k, len(vectors)) hits.
func Rank(query model.WeightedVector, vectors []model.WeightedVector, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, apperrors.NewInvalidKError(k)
	}

	hits := make([]Hit, len(vectors))
	for row, v := range vectors {
		hits[row] = Hit{Row: row, Score: clampScore(query.Dot(v))}
	}
	return topK(hits, k), nil
}

// clampScore keeps floating point drift inside [0, 1].
func clampScore(score float64) float64 {
	switch {
	case math.IsNaN(score) || score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// topK sorts hits by score descending then row ascending and truncates to k.
func topK(hits []Hit, k int) []Hit {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Row < hits[j].Row
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}
