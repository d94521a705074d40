package index

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giomambre/cv-job-matching/config"
	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
)

func plainSettings(maxFeatures int) config.ModelSettings {
	return config.ModelSettings{
		TextColumn:  "Description",
		MaxFeatures: maxFeatures,
		StopWords:   config.StopWordsNone,
		StopPhrases: []string{},
	}
}

var jobCorpus = []string{
	"python developer django postgres",
	"java spring engineer",
	"marketing manager seo",
}

func TestFit_VocabularyAndIDF(t *testing.T) {
	m, vectors, err := Fit(jobCorpus, plainSettings(100))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"developer", "django", "engineer", "java", "manager",
		"marketing", "postgres", "python", "seo", "spring",
	}, m.Terms)
	assert.Equal(t, 3, m.DocumentCount)
	assert.Len(t, vectors, 3)
	for term, idx := range m.Vocabulary {
		assert.Equal(t, term, m.Terms[idx])
	}

	// Every term occurs in exactly one of three documents
	for _, idf := range m.IDF {
		assert.InDelta(t, math.Log(4.0/2.0)+1, idf, 1e-12)
	}
}

func TestFit_SmoothedIDF(t *testing.T) {
	m, _, err := Fit([]string{"go rust", "go java", "go"}, plainSettings(100))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, m.IDF[m.Vocabulary["go"]], 1e-12)
	assert.InDelta(t, math.Log(4.0/2.0)+1, m.IDF[m.Vocabulary["rust"]], 1e-12)
}

func TestFit_MaxFeaturesKeepsMostFrequent(t *testing.T) {
	docs := []string{"go go rust", "go python", "rust java"}

	m, _, err := Fit(docs, plainSettings(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, m.Terms)

	// java and python tie on frequency; the lexically smaller one wins
	m, _, err = Fit(docs, plainSettings(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "java", "rust"}, m.Terms)
}

func TestFit_VectorsAreUnitLengthAndSelfSimilar(t *testing.T) {
	docs := append([]string{"", "the and of"}, jobCorpus...)
	settings := config.DefaultModelSettings()

	_, vectors, err := Fit(docs, settings)
	require.NoError(t, err)
	require.Len(t, vectors, len(docs))

	for i, v := range vectors {
		norm := v.Norm()
		if v.IsZero() {
			assert.Zero(t, norm, "row %d", i)
			continue
		}
		assert.InDelta(t, 1.0, norm, 1e-9, "row %d", i)
		assert.InDelta(t, 1.0, v.Dot(v), 1e-9, "row %d", i)
		for j := 1; j < len(v.Indices); j++ {
			assert.Less(t, v.Indices[j-1], v.Indices[j])
		}
	}

	// Empty text and stop-word-only text keep their rows as zero vectors
	assert.True(t, vectors[0].IsZero())
	assert.True(t, vectors[1].IsZero())
}

func TestFit_EmptyCorpus(t *testing.T) {
	tests := []struct {
		name string
		docs []string
	}{
		{"no documents", nil},
		{"single empty document", []string{""}},
		{"only stop words", []string{"the and with", "of to"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Fit(tt.docs, config.DefaultModelSettings())
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrEmptyCorpus))
		})
	}
}

func TestFit_NegativeMaxFeatures(t *testing.T) {
	_, _, err := Fit(jobCorpus, plainSettings(-1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestTransform(t *testing.T) {
	m, vectors, err := Fit(jobCorpus, plainSettings(100))
	require.NoError(t, err)

	v, err := m.Transform("python django developer")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v.Norm(), 1e-9)
	assert.Greater(t, v.Dot(vectors[0]), 0.8)
	assert.Zero(t, v.Dot(vectors[1]))

	// Out-of-vocabulary terms are ignored
	v2, err := m.Transform("python django developer kubernetes")
	require.NoError(t, err)
	assert.Equal(t, v, v2)

	zero, err := m.Transform("cooking gardening")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestTransform_UnsupportedInput(t *testing.T) {
	m, _, err := Fit(jobCorpus, plainSettings(100))
	require.NoError(t, err)

	for _, text := range []string{"python \xff\xfe", "python\x00django"} {
		_, err := m.Transform(text)
		assert.True(t, errors.Is(err, apperrors.ErrUnsupportedInput), "text %q", text)

		_, err = m.Analyze(text)
		assert.True(t, errors.Is(err, apperrors.ErrUnsupportedInput), "text %q", text)
	}
}

func TestAnalyze_UsesFitTimeStopPhrases(t *testing.T) {
	settings := plainSettings(100)
	settings.StopPhrases = []string{"apply now"}

	m, _, err := Fit(jobCorpus, settings)
	require.NoError(t, err)

	assert.Equal(t, "python", m.Normalize("Apply   NOW python"))

	v, err := m.Analyze("APPLY NOW!! Python")
	require.NoError(t, err)
	expected, err := m.Transform("python")
	require.NoError(t, err)
	assert.Equal(t, expected, v)
}

func TestWeightingModel_GobRoundTripKeepsBehaviour(t *testing.T) {
	settings := plainSettings(100)
	m, _, err := Fit(jobCorpus, settings)
	require.NoError(t, err)
	m.Version = "v3"

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(m))

	var decoded WeightingModel
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))

	assert.Equal(t, "v3", decoded.Version)
	assert.Equal(t, m.Terms, decoded.Terms)
	assert.Equal(t, m.Vocabulary, decoded.Vocabulary)

	// An empty stop phrase list must not turn into the defaults
	assert.Empty(t, decoded.Settings.StopPhrases)
	assert.Equal(t, "we are python", decoded.Normalize("We are python"))

	want, err := m.Analyze("Java engineer, Spring")
	require.NoError(t, err)
	got, err := decoded.Analyze("Java engineer, Spring")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWeightingModel_GobDecodeRejectsInconsistentTables(t *testing.T) {
	tests := []struct {
		name string
		data gobWeightingModelData
	}{
		{"empty vocabulary", gobWeightingModelData{}},
		{"idf length mismatch", gobWeightingModelData{Terms: []string{"go", "rust"}, IDF: []float64{1}}},
		{"unsorted terms", gobWeightingModelData{Terms: []string{"rust", "go"}, IDF: []float64{1, 1}}},
		{"idf below one", gobWeightingModelData{Terms: []string{"go"}, IDF: []float64{0.2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inner bytes.Buffer
			require.NoError(t, gob.NewEncoder(&inner).Encode(tt.data))

			var m WeightingModel
			assert.Error(t, m.GobDecode(inner.Bytes()))
		})
	}
}

func TestTopIDFTerms(t *testing.T) {
	m, _, err := Fit([]string{"go rust", "go java", "go"}, plainSettings(100))
	require.NoError(t, err)

	top := m.TopIDFTerms(2)
	require.Len(t, top, 2)
	assert.Equal(t, "java", top[0].Term)
	assert.Equal(t, "rust", top[1].Term)

	assert.Len(t, m.TopIDFTerms(10), 3)
	assert.Empty(t, m.TopIDFTerms(0))
	assert.Equal(t, "go", m.TopIDFTerms(3)[2].Term)
}

func TestDescribeVector(t *testing.T) {
	m, _, err := Fit([]string{"go go rust", "go java"}, plainSettings(100))
	require.NoError(t, err)

	v, err := m.Transform("rust rust rust go")
	require.NoError(t, err)

	terms := m.DescribeVector(v, 10)
	require.Len(t, terms, 2)
	assert.Equal(t, "rust", terms[0].Term)
	assert.Equal(t, "go", terms[1].Term)
	assert.Greater(t, terms[0].Weight, terms[1].Weight)

	assert.Len(t, m.DescribeVector(v, 1), 1)
}
