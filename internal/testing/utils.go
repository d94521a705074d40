// Package testing provides fixtures for tests that need a fitted model.
package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giomambre/cv-job-matching/config"
	"github.com/giomambre/cv-job-matching/internal/corpus"
	"github.com/giomambre/cv-job-matching/internal/engine"
	"github.com/giomambre/cv-job-matching/internal/indexing"
)

// SampleHeader is the column layout of SampleTable.
var SampleHeader = []string{"Company", "Role", "Description", "Job Link"}

// SampleRows holds three job ads with disjoint vocabularies.
var SampleRows = [][]string{
	{"Acme", "Backend Engineer", "Python developer, Django and Postgres", "https://jobs.example.com/1"},
	{"Globex", "Java Engineer", "Java Spring engineer", "https://jobs.example.com/2"},
	{"Initech", "Marketing Manager", "Marketing manager for SEO", "https://jobs.example.com/3"},
}

// SampleTable returns a fresh copy of the three-row sample corpus.
func SampleTable() *corpus.Table {
	rows := make([][]string, len(SampleRows))
	for i, row := range SampleRows {
		rows[i] = append([]string(nil), row...)
	}
	return corpus.NewTable(append([]string(nil), SampleHeader...), rows)
}

// BuildArtifacts fits the default model over table in memory.
func BuildArtifacts(t *testing.T, version string, table *corpus.Table) *indexing.Artifacts {
	t.Helper()

	builder, err := indexing.NewBuilder(config.DefaultModelSettings(), nil)
	require.NoError(t, err)

	artifacts, err := builder.Build(version, table)
	require.NoError(t, err)
	return artifacts
}

// WriteArtifacts fits the default model over table and persists it under a
// temporary data directory, which is returned.
func WriteArtifacts(t *testing.T, version string, table *corpus.Table) string {
	t.Helper()

	dataDir := t.TempDir()
	builder, err := indexing.NewBuilder(config.DefaultModelSettings(), nil)
	require.NoError(t, err)

	artifacts, err := builder.Build(version, table)
	require.NoError(t, err)
	require.NoError(t, builder.Persist(dataDir, artifacts))
	return dataDir
}

// NewTestMatcher builds an in-memory matcher over the sample corpus.
func NewTestMatcher(t *testing.T, ranker string) *engine.Matcher {
	t.Helper()

	m, err := engine.New(BuildArtifacts(t, "test", SampleTable()), engine.Options{Ranker: ranker})
	require.NoError(t, err)
	return m
}
