package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string
	Count int
}

func TestSaveAndLoadGob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.gob")

	require.NoError(t, SaveGob(path, sample{Name: "python", Count: 3}))

	var got sample
	require.NoError(t, LoadGob(path, &got))
	assert.Equal(t, sample{Name: "python", Count: 3}, got)
}

func TestLoadGob_Missing(t *testing.T) {
	var got sample
	err := LoadGob(filepath.Join(t.TempDir(), "absent.gob"), &got)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadGob_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0600))

	var got sample
	err := LoadGob(path, &got)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, path, decodeErr.Path)
}

func TestPublishDir(t *testing.T) {
	root := t.TempDir()
	final := filepath.Join(root, "v1")

	err := PublishDir(final, func(tmp string) error {
		return os.WriteFile(filepath.Join(tmp, "a.txt"), []byte("first"), 0600)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(final, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	// Replacing swaps the whole directory
	err = PublishDir(final, func(tmp string) error {
		return os.WriteFile(filepath.Join(tmp, "b.txt"), []byte("second"), 0600)
	})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(final, "a.txt"))
	assert.FileExists(t, filepath.Join(final, "b.txt"))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging directories must be cleaned up")
}

func TestPublishDir_FailureLeavesPreviousVersion(t *testing.T) {
	root := t.TempDir()
	final := filepath.Join(root, "v1")
	require.NoError(t, PublishDir(final, func(tmp string) error {
		return os.WriteFile(filepath.Join(tmp, "a.txt"), []byte("kept"), 0600)
	}))

	boom := errors.New("boom")
	err := PublishDir(final, func(tmp string) error {
		_ = os.WriteFile(filepath.Join(tmp, "partial.txt"), []byte("x"), 0600)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.FileExists(t, filepath.Join(final, "a.txt"))
	assert.NoFileExists(t, filepath.Join(final, "partial.txt"))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPublishDir_NewVersionNeverExisted(t *testing.T) {
	final := filepath.Join(t.TempDir(), "models", "v2")

	err := PublishDir(final, func(string) error { return errors.New("fit failed") })
	require.Error(t, err)
	assert.NoDirExists(t, final)
}
