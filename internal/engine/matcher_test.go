package engine_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giomambre/cv-job-matching/internal/corpus"
	"github.com/giomambre/cv-job-matching/internal/engine"
	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
	"github.com/giomambre/cv-job-matching/internal/indexing"
	"github.com/giomambre/cv-job-matching/internal/search"
	testutil "github.com/giomambre/cv-job-matching/internal/testing"
	"github.com/giomambre/cv-job-matching/model"
)

func TestMatch_PythonResumeFindsPythonAd(t *testing.T) {
	for _, ranker := range []string{search.RankerLinear, search.RankerInverted} {
		t.Run(ranker, func(t *testing.T) {
			m := testutil.NewTestMatcher(t, ranker)

			results, err := m.Match("Python Django developer", 2)
			require.NoError(t, err)
			require.Len(t, results, 2)

			assert.Equal(t, 0, results[0].Row)
			assert.Equal(t, "Acme", results[0].Company)
			assert.Equal(t, "https://jobs.example.com/1", results[0].Link)
			assert.Equal(t, 1, results[0].Rank)
			assert.Greater(t, results[0].Score, 0.0)
			assert.LessOrEqual(t, results[0].Score, 1.0)

			// Nothing shared with the Java ad; ties resolve to the lower row
			assert.Equal(t, 1, results[1].Row)
			assert.Equal(t, 2, results[1].Rank)
			assert.Zero(t, results[1].Score)
		})
	}
}

func TestMatch_BoilerplateOnlyResume(t *testing.T) {
	m := testutil.NewTestMatcher(t, search.RankerLinear)

	results, err := m.Match("We are looking for a team player", 5)
	require.NoError(t, err)
	require.Len(t, results, 3, "k larger than the corpus returns the whole corpus")

	for i, r := range results {
		assert.Equal(t, i, r.Row)
		assert.Zero(t, r.Score)
	}
}

func TestMatch_ScoresAreSortedAndBounded(t *testing.T) {
	m := testutil.NewTestMatcher(t, search.RankerLinear)

	results, err := m.Match("java engineer with some python and seo marketing", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].Score, r.Score)
		}
	}
}

func TestMatch_SelfSimilarity(t *testing.T) {
	m := testutil.NewTestMatcher(t, search.RankerInverted)

	for row, ad := range testutil.SampleRows {
		results, err := m.Match(ad[2], 1)
		require.NoError(t, err)
		assert.Equal(t, row, results[0].Row)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	}
}

func TestMatch_InvalidK(t *testing.T) {
	m := testutil.NewTestMatcher(t, search.RankerLinear)

	for _, k := range []int{0, -1} {
		_, err := m.Match("python", k)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidK), "k=%d", k)
	}
}

func TestMatch_UnsupportedInput(t *testing.T) {
	m := testutil.NewTestMatcher(t, search.RankerLinear)

	_, err := m.Match("python\x00", 3)
	assert.True(t, errors.Is(err, apperrors.ErrUnsupportedInput))

	_, err = m.Match(string([]byte{0xff, 0xfe}), 3)
	assert.True(t, errors.Is(err, apperrors.ErrUnsupportedInput))
}

func TestMatch_Concurrent(t *testing.T) {
	m := testutil.NewTestMatcher(t, search.RankerInverted)

	want, err := m.Match("marketing seo", 3)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := m.Match("marketing seo", 3)
			if err != nil {
				errs <- err
				return
			}
			if got[0].Row != want[0].Row || got[0].Score != want[0].Score {
				errs <- errors.New("concurrent match diverged")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestDocumentAndStats(t *testing.T) {
	m := testutil.NewTestMatcher(t, search.RankerLinear)

	detail, err := m.Document(2, 10)
	require.NoError(t, err)
	assert.Equal(t, "Initech", detail.Job.Company)
	terms := make([]string, len(detail.Terms))
	for i, tw := range detail.Terms {
		terms[i] = tw.Term
	}
	assert.ElementsMatch(t, []string{"marketing", "manager", "seo"}, terms)

	_, err = m.Document(3, 10)
	assert.True(t, errors.Is(err, apperrors.ErrDocumentNotFound))
	_, err = m.Document(-1, 10)
	assert.True(t, errors.Is(err, apperrors.ErrDocumentNotFound))

	stats := m.Stats(5)
	assert.Equal(t, "test", stats.Version)
	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, 10, stats.VocabularyTerms)
	assert.Equal(t, "Description", stats.TextColumn)
	assert.Equal(t, search.RankerLinear, stats.Ranker)
	assert.Len(t, stats.TopTerms, 5)
}

func TestLoad_RoundTrip(t *testing.T) {
	dataDir := testutil.WriteArtifacts(t, "v1", testutil.SampleTable())

	for _, name := range []string{indexing.ModelFile, indexing.VectorsFile, indexing.CorpusFile} {
		assert.FileExists(t, filepath.Join(dataDir, "v1", name))
	}

	loaded, err := engine.Load(dataDir, "v1", engine.Options{Ranker: search.RankerInverted})
	require.NoError(t, err)
	inMemory := testutil.NewTestMatcher(t, search.RankerLinear)

	want, err := inMemory.Match("Java Spring developer", 3)
	require.NoError(t, err)
	got, err := loaded.Match("Java Spring developer", 3)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Row, got[i].Row)
		assert.InDelta(t, want[i].Score, got[i].Score, 1e-12)
		assert.Equal(t, want[i].JobAd, got[i].JobAd)
	}
	assert.Equal(t, "v1", loaded.Version())
}

func TestLoad_MissingArtifacts(t *testing.T) {
	_, err := engine.Load(t.TempDir(), "v1", engine.Options{})
	assert.True(t, errors.Is(err, apperrors.ErrArtifactMissing))

	for _, name := range []string{indexing.ModelFile, indexing.VectorsFile, indexing.CorpusFile} {
		t.Run(name, func(t *testing.T) {
			dataDir := testutil.WriteArtifacts(t, "v1", testutil.SampleTable())
			require.NoError(t, os.Remove(filepath.Join(dataDir, "v1", name)))

			_, err := engine.Load(dataDir, "v1", engine.Options{})
			assert.True(t, errors.Is(err, apperrors.ErrArtifactMissing))
		})
	}
}

func TestLoad_UndecodableArtifact(t *testing.T) {
	for _, name := range []string{indexing.ModelFile, indexing.VectorsFile} {
		t.Run(name, func(t *testing.T) {
			dataDir := testutil.WriteArtifacts(t, "v1", testutil.SampleTable())
			path := filepath.Join(dataDir, "v1", name)
			require.NoError(t, os.WriteFile(path, []byte("definitely not gob"), 0600))

			_, err := engine.Load(dataDir, "v1", engine.Options{})
			assert.True(t, errors.Is(err, apperrors.ErrArtifactCorrupt))
		})
	}
}

func TestLoad_RowCountMismatch(t *testing.T) {
	dataDir := testutil.WriteArtifacts(t, "v1", testutil.SampleTable())

	// Replace the stored corpus with one that lost a row
	short := testutil.SampleTable()
	short.Rows = short.Rows[:2]
	require.NoError(t, short.WriteFile(filepath.Join(dataDir, "v1", indexing.CorpusFile)))

	_, err := engine.Load(dataDir, "v1", engine.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrArtifactCorrupt))

	var corrupt *apperrors.CorpusArtifactCorruptError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, filepath.Join(dataDir, "v1", indexing.CorpusFile), corrupt.Path)
}

func TestLoad_MixedVersions(t *testing.T) {
	dataDir := testutil.WriteArtifacts(t, "v1", testutil.SampleTable())
	otherDir := testutil.WriteArtifacts(t, "v2", testutil.SampleTable())

	// Vectors from another version
	data, err := os.ReadFile(filepath.Join(otherDir, "v2", indexing.VectorsFile))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "v1", indexing.VectorsFile), data, 0600))

	_, err = engine.Load(dataDir, "v1", engine.Options{})
	assert.True(t, errors.Is(err, apperrors.ErrArtifactCorrupt))

	// A version directory renamed by hand
	require.NoError(t, os.Rename(filepath.Join(otherDir, "v2"), filepath.Join(otherDir, "v3")))
	_, err = engine.Load(otherDir, "v3", engine.Options{})
	assert.True(t, errors.Is(err, apperrors.ErrArtifactCorrupt))
}

func TestNew_DimensionMismatch(t *testing.T) {
	artifacts := testutil.BuildArtifacts(t, "v1", testutil.SampleTable())
	artifacts.Vectors.Dim++

	_, err := engine.New(artifacts, engine.Options{})
	assert.True(t, errors.Is(err, apperrors.ErrArtifactCorrupt))
}

func TestNew_EmptyDescriptionRowsKeepAlignment(t *testing.T) {
	table := corpus.NewTable(testutil.SampleHeader, [][]string{
		{"Acme", "Backend Engineer", "Python developer"},
		{"Blank Co", "Unknown"},
		{"Globex", "Java Engineer", "Java Spring engineer", "https://jobs.example.com/2"},
	})
	m, err := engine.New(testutil.BuildArtifacts(t, "v1", table), engine.Options{})
	require.NoError(t, err)

	results, err := m.Match("java spring", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, rowsOf(results))
	assert.Equal(t, "Globex", results[0].Company)
	assert.Equal(t, "", results[2].Description)
}

func TestMatch_ThreeAdCorpus(t *testing.T) {
	table := corpus.NewTable([]string{"Description"}, [][]string{
		{"python developer with django experience"},
		{"java backend engineer spring boot"},
		{"marketing specialist seo content"},
	})

	for _, ranker := range []string{search.RankerLinear, search.RankerInverted} {
		t.Run(ranker, func(t *testing.T) {
			m, err := engine.New(testutil.BuildArtifacts(t, "v1", table), engine.Options{Ranker: ranker})
			require.NoError(t, err)

			results, err := m.Match("experienced python django developer", 3)
			require.NoError(t, err)
			require.Equal(t, []int{0, 1, 2}, rowsOf(results))

			assert.InDelta(t, 1.0, results[0].Score, 1e-9)
			assert.Zero(t, results[1].Score)
			assert.Zero(t, results[2].Score)
		})
	}
}

func TestLoad_SingleColumnCorpusKeepsEmptyRows(t *testing.T) {
	table := corpus.NewTable([]string{"Description"}, [][]string{
		{"python developer django"},
		{""},
		{"java backend engineer"},
	})
	dataDir := testutil.WriteArtifacts(t, "v1", table)

	m, err := engine.Load(dataDir, "v1", engine.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Stats(0).Documents)

	results, err := m.Match("java backend", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, rowsOf(results))
	assert.Equal(t, "", results[2].Description)
}

func rowsOf(results []model.MatchResult) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Row
	}
	return out
}
