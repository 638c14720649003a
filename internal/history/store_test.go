package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	started := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.RecordStart(ctx, Run{
		ID:        "run-1",
		StartedAt: started,
		Jobs:      2,
		Items:     3,
		Pages:     14,
		Weighted:  24.5,
	}))

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, StatusRunning, runs[0].Status)
	assert.Equal(t, 14, runs[0].Pages)
	assert.InDelta(t, 24.5, runs[0].Weighted, 1e-9)
	assert.True(t, runs[0].FinishedAt.IsZero())

	finished := started.Add(5 * time.Second)
	require.NoError(t, store.RecordFinish(ctx, "run-1", StatusSucceeded, "", finished))

	runs, err = store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, StatusSucceeded, runs[0].Status)
	assert.Equal(t, "", runs[0].Error)
	assert.False(t, runs[0].FinishedAt.IsZero())
}

func TestStore_RecordFinish_UnknownRun(t *testing.T) {
	store := openTestStore(t)

	err := store.RecordFinish(context.Background(), "ghost", StatusFailed, "boom", time.Now())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Recent_OrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i, id := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, store.RecordStart(ctx, Run{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Jobs:      1,
			Items:     1,
			Pages:     1,
			Weighted:  1,
		}))
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "newest", runs[0].ID)
	assert.Equal(t, "middle", runs[1].ID)
}

func TestStore_FailedRunKeepsError(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordStart(ctx, Run{ID: "run-9", StartedAt: time.Now().UTC()}))
	require.NoError(t, store.RecordFinish(ctx, "run-9", StatusFailed, "[extraction] read page 2: boom", time.Now().UTC()))

	runs, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, StatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "read page 2")
}
