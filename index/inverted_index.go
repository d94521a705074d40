package index

import (
	"fmt"

	"github.com/giomambre/cv-job-matching/model"
)

// InvertedIndex maps each vocabulary index to the rows whose vectors give it a
// non-zero weight. It is built once from the document vectors and never mutated.
type InvertedIndex struct {
	Postings  []PostingList // indexed by term index
	Documents int
}

// NewInvertedIndex builds posting lists for vectors over a vocabulary of size dim.
// Rows are appended in order, so every posting list is sorted by Row.
func NewInvertedIndex(dim int, vectors []model.WeightedVector) (*InvertedIndex, error) {
	ii := &InvertedIndex{
		Postings:  make([]PostingList, dim),
		Documents: len(vectors),
	}
	for row, v := range vectors {
		for i, idx := range v.Indices {
			if idx < 0 || idx >= dim {
				return nil, fmt.Errorf("row %d references term %d outside vocabulary of %d", row, idx, dim)
			}
			if v.Values[i] == 0 {
				continue
			}
			ii.Postings[idx] = append(ii.Postings[idx], PostingEntry{Row: row, Weight: v.Values[i]})
		}
	}
	return ii, nil
}

// Accumulate adds query-weight x document-weight products into scores,
// which must have one slot per row.
func (ii *InvertedIndex) Accumulate(query model.WeightedVector, scores []float64) {
	for i, idx := range query.Indices {
		if idx < 0 || idx >= len(ii.Postings) {
			continue
		}
		qw := query.Values[i]
		for _, p := range ii.Postings[idx] {
			scores[p.Row] += qw * p.Weight
		}
	}
}
