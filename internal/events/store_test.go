package events

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	seed := []Event{
		teamSync(),
		{Name: "Dentist", Date: "02-07-2025", Time: "", ExtraInfo: "bring forms", Public: false},
		{Name: "Team Sync", Date: "17-06-2025", Time: "10:00am", ExtraInfo: "None", Public: true},
	}
	store := newTestStore(t, seed...)

	got := loadAll(t, store)
	assert.ElementsMatch(t, seed, got)
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nowhere", "event_data.json"))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStoreEmptyFileIsEmpty(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("  \n"), 0o644))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStoreCorruptedFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte(`[{"event_name": "Team Sync",`), 0o644))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrStoreCorrupted)
}

func TestFileStoreWritesDerivedFieldsInKeyOrder(t *testing.T) {
	store := newTestStore(t, teamSync())

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	want := strings.TrimLeft(`
[
  {
    "event_name": "Team Sync",
    "date": "10-06-2025",
    "day": "Tuesday",
    "month": "June",
    "year": 2025,
    "time": "10:00am",
    "extra_info": "None",
    "public": true
  }
]
`, "\n")
	assert.Equal(t, want, string(data))
}

func TestFileStoreReadIgnoresStaleDerivedFields(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	raw := `[{"event_name":"Launch","date":"2025-06-10","day":"Friday","month":"May","year":1999,"time":"9am"}]`
	require.NoError(t, os.WriteFile(store.Path(), []byte(raw), 0o644))

	got := loadAll(t, store)
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, "10-06-2025", e.Date)
	assert.Equal(t, "Tuesday", e.Day())
	assert.Equal(t, "June", e.Month())
	assert.Equal(t, 2025, e.Year())
	assert.Equal(t, DefaultExtraInfo, e.ExtraInfo)
	assert.True(t, e.Public)
}

func TestFileStoreSaveFailureKeepsPreviousContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "event_data.json")
	// A non-empty directory at the target path makes the final rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(path, "occupied"), 0o755))
	store := NewFileStore(path)

	err := store.Save(context.Background(), []Event{teamSync()})
	require.ErrorIs(t, err, ErrPersistFailure)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"), "temp file %s left behind", entry.Name())
	}
}

func TestFileStoreUpdateWithoutChangeDoesNotWrite(t *testing.T) {
	store := newTestStore(t, teamSync())
	before, err := os.Stat(store.Path())
	require.NoError(t, err)

	err = store.Update(context.Background(), func(current []Event) ([]Event, bool, error) {
		return nil, false, nil
	})
	require.NoError(t, err)

	after, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.Len(t, loadAll(t, store), 1)
}
