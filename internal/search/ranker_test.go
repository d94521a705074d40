package search

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giomambre/cv-job-matching/config"
	"github.com/giomambre/cv-job-matching/index"
	"github.com/giomambre/cv-job-matching/internal/corpus"
	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
	"github.com/giomambre/cv-job-matching/model"
)

func vec(indices []int, values []float64) model.WeightedVector {
	return model.WeightedVector{Indices: indices, Values: values}
}

func TestRank_OrderAndTieBreak(t *testing.T) {
	vectors := []model.WeightedVector{
		vec([]int{0}, []float64{1}),
		vec([]int{1}, []float64{1}),
		vec([]int{0, 1}, []float64{0.6, 0.8}),
		vec([]int{0}, []float64{1}),
		{},
	}
	query := vec([]int{0}, []float64{1})

	hits, err := Rank(query, vectors, 5)
	require.NoError(t, err)
	require.Len(t, hits, 5)

	assert.Equal(t, []int{0, 3, 2, 1, 4}, rows(hits))
	assert.Equal(t, 1.0, hits[0].Score)
	assert.InDelta(t, 0.6, hits[2].Score, 1e-12)
	assert.Zero(t, hits[3].Score)
	assert.Zero(t, hits[4].Score)
}

func TestRank_Length(t *testing.T) {
	vectors := []model.WeightedVector{{}, {}, {}}

	hits, err := Rank(model.WeightedVector{}, vectors, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = Rank(model.WeightedVector{}, vectors, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, rows(hits))

	hits, err = Rank(model.WeightedVector{}, nil, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRank_InvalidK(t *testing.T) {
	for _, k := range []int{0, -1} {
		_, err := Rank(model.WeightedVector{}, []model.WeightedVector{{}}, k)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidK), "k=%d", k)

		r, rerr := NewInvertedRanker(1, []model.WeightedVector{{}})
		require.NoError(t, rerr)
		_, err = r.Rank(model.WeightedVector{}, k)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidK), "k=%d", k)
	}
}

func TestRank_ClampsDrift(t *testing.T) {
	doc := vec([]int{0, 1}, []float64{0.7071067811865476, 0.7071067811865476})
	hits, err := Rank(doc, []model.WeightedVector{doc}, 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, hits[0].Score, 1.0)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-12)
}

func TestRank_DoesNotMutateVectors(t *testing.T) {
	vectors := []model.WeightedVector{
		vec([]int{1}, []float64{1}),
		vec([]int{0}, []float64{1}),
	}
	_, err := Rank(vec([]int{0}, []float64{1}), vectors, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, vectors[0].Indices)
	assert.Equal(t, []int{0}, vectors[1].Indices)
}

func TestSelfSimilarity(t *testing.T) {
	docs := []string{
		"python developer django postgres",
		"java spring engineer",
		"marketing manager seo",
	}
	m, vectors, err := index.Fit(docs, config.DefaultModelSettings())
	require.NoError(t, err)

	for i, doc := range docs {
		q, err := m.Transform(doc)
		require.NoError(t, err)

		hits, err := Rank(q, vectors, 1)
		require.NoError(t, err)
		assert.Equal(t, i, hits[0].Row)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	}
}

func TestRankersAgree(t *testing.T) {
	table := corpus.Generate(rand.New(rand.NewSource(42)), 200)
	col, err := table.RequireColumn("Description")
	require.NoError(t, err)

	m, vectors, err := index.Fit(table.Values(col), config.DefaultModelSettings())
	require.NoError(t, err)

	linear := NewLinearRanker(vectors)
	inverted, err := NewInvertedRanker(m.Dimension(), vectors)
	require.NoError(t, err)

	queries := []string{
		"python django postgresql docker aws",
		"seo google ads mailchimp",
		"penetration testing firewall siem",
		"nothing in common here",
		"",
	}
	for _, text := range queries {
		q, err := m.Analyze(text)
		require.NoError(t, err)

		for _, k := range []int{1, 5, 250} {
			want, err := linear.Rank(q, k)
			require.NoError(t, err)
			got, err := inverted.Rank(q, k)
			require.NoError(t, err)
			assert.Equal(t, want, got, "query %q k=%d", text, k)
		}
	}
}

func TestNewRanker(t *testing.T) {
	vectors := []model.WeightedVector{vec([]int{0}, []float64{1})}

	r, err := NewRanker("", 1, vectors)
	require.NoError(t, err)
	assert.Equal(t, RankerLinear, r.Name())

	r, err = NewRanker(RankerInverted, 1, vectors)
	require.NoError(t, err)
	assert.Equal(t, RankerInverted, r.Name())

	_, err = NewRanker(RankerInverted, 1, []model.WeightedVector{vec([]int{3}, []float64{1})})
	assert.Error(t, err)

	_, err = NewRanker("quantum", 1, vectors)
	assert.Error(t, err)
}

func rows(hits []Hit) []int {
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.Row
	}
	return out
}
