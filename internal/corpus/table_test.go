package corpus

import (
	"bytes"
	"errors"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giomambre/cv-job-matching/config"
	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
)

const sampleCSV = "\xEF\xBB\xBFCompany,Role,Description,Job Link\n" +
	"Acme,Backend Engineer,\"Python, Django and Postgres\",https://example.com/1\n" +
	"Globex,Marketing Lead\n" +
	"Initech,Java Dev,Spring Boot,https://example.com/3,extra\n"

func TestRead(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Company", "Role", "Description", "Job Link"}, table.Header)
	require.Equal(t, 3, table.Len())

	assert.Equal(t, "Python, Django and Postgres", table.Cell(0, 2))
	// Short rows are padded, not dropped
	assert.Equal(t, "", table.Cell(1, 2))
	assert.Len(t, table.Rows[1], 4)
	// Long rows keep their extra cells
	assert.Equal(t, "extra", table.Cell(2, 4))
	assert.Equal(t, "", table.Cell(5, 0))
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrNoHeader))
}

func TestColumn(t *testing.T) {
	table := NewTable([]string{"company", "Description", "DESCRIPTION"}, nil)

	idx, ok := table.Column("DESCRIPTION")
	assert.True(t, ok)
	assert.Equal(t, 2, idx, "exact match wins over case-insensitive")

	idx, ok = table.Column("Company")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = table.Column("Salary")
	assert.False(t, ok)

	_, err := table.RequireColumn("Salary")
	assert.True(t, errors.Is(err, apperrors.ErrColumnNotFound))

	_, err = table.RequireColumn("Descripton")
	var notFound *apperrors.ColumnNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "Description", notFound.Suggestion)
}

func TestJobAds(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	ads := table.JobAds(config.DefaultModelSettings().Columns)
	require.Len(t, ads, 3)

	assert.Equal(t, 0, ads[0].Row)
	assert.Equal(t, "Acme", ads[0].Company)
	assert.Equal(t, "Backend Engineer", ads[0].Role)
	assert.Equal(t, "https://example.com/1", ads[0].Link)
	// No Source column in this corpus
	assert.Equal(t, "", ads[0].Source)

	assert.Equal(t, 1, ads[1].Row)
	assert.Equal(t, "", ads[1].Link)
}

func TestWriteThenRead(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "job_ads.csv")
	require.NoError(t, table.WriteFile(path))

	again, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, table.Header, again.Header)
	assert.Equal(t, table.Rows, again.Rows)
}

func TestWriteThenRead_SingleEmptyField(t *testing.T) {
	table := NewTable([]string{"Description"}, [][]string{{"python"}, {""}, {"java"}})

	var buf bytes.Buffer
	require.NoError(t, table.Write(&buf))

	again, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, table.Rows, again.Rows)
}

func TestGenerate(t *testing.T) {
	a := Generate(rand.New(rand.NewSource(7)), 25)
	b := Generate(rand.New(rand.NewSource(7)), 25)

	require.Equal(t, 25, a.Len())
	assert.Equal(t, a.Rows, b.Rows, "same seed, same corpus")
	assert.Equal(t, GeneratedHeader, a.Header)

	roles := make(map[string]bool)
	for _, r := range Roles() {
		roles[r] = true
	}
	for i, row := range a.Rows {
		assert.True(t, roles[row[1]], "row %d has unknown role %q", i, row[1])
		assert.Contains(t, row[2], row[1])
		assert.NotContains(t, row[2], "{skills}")
	}

	var buf bytes.Buffer
	require.NoError(t, a.Write(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "Company,Role,Description,Job Link\n"))
}
