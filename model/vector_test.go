package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedVector_Dot(t *testing.T) {
	a := WeightedVector{Indices: []int{0, 2, 5}, Values: []float64{1, 2, 3}}
	b := WeightedVector{Indices: []int{2, 3, 5, 9}, Values: []float64{4, 7, 0.5, 1}}

	assert.InDelta(t, 2*4+3*0.5, a.Dot(b), 1e-12)
	assert.InDelta(t, a.Dot(b), b.Dot(a), 1e-12)
	assert.Zero(t, a.Dot(WeightedVector{}))
}

func TestWeightedVector_Norm(t *testing.T) {
	v := WeightedVector{Indices: []int{1, 4}, Values: []float64{3, 4}}
	assert.InDelta(t, 5.0, v.Norm(), 1e-12)
	assert.Zero(t, WeightedVector{}.Norm())
	assert.True(t, WeightedVector{}.IsZero())
	assert.Equal(t, 2, v.Len())
}
