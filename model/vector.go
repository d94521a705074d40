package model

import "math"

// WeightedVector is a sparse TF-IDF vector over the vocabulary.
// Indices are strictly ascending term indices and Values holds the matching
// non-negative weights; every term not listed has weight zero.
type WeightedVector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries.
func (v WeightedVector) Len() int {
	return len(v.Indices)
}

// IsZero reports whether the vector has no non-zero weights.
func (v WeightedVector) IsZero() bool {
	return len(v.Indices) == 0
}

// Norm returns the Euclidean length of the vector.
func (v WeightedVector) Norm() float64 {
	var sum float64
	for _, w := range v.Values {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product of two vectors by merging their sorted indices.
func (v WeightedVector) Dot(other WeightedVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(other.Indices) {
		switch {
		case v.Indices[i] == other.Indices[j]:
			sum += v.Values[i] * other.Values[j]
			i++
			j++
		case v.Indices[i] < other.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// TermWeight pairs a vocabulary term with a weight, used for model inspection.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}
