package events

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, seed ...Event) *FileStore {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "events", "event_data.json"))
	if len(seed) > 0 {
		require.NoError(t, store.Save(context.Background(), seed))
	}
	return store
}

func loadAll(t *testing.T, store Loader) []Event {
	t.Helper()
	all, err := store.Load(context.Background())
	require.NoError(t, err)
	return all
}

func teamSync() Event {
	return Event{Name: "Team Sync", Date: "10-06-2025", Time: "10:00am", ExtraInfo: "None", Public: true}
}
