package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walksync/walksync/internal/model"
)

func TestMemoryStore_UpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	date := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	walk := model.WalkRecord{ID: "abc", Title: "Hill Walk", DetailsURL: "/a", WalkDate: &date}
	require.NoError(t, st.UpsertWalk(ctx, walk))
	require.NoError(t, st.UpsertWalk(ctx, walk))

	walks, err := st.ListWalks(ctx)
	require.NoError(t, err)
	assert.Len(t, walks, 1)
}

func TestMemoryStore_UpsertOverwritesMutableFields(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	walk := model.WalkRecord{ID: "abc", Title: "Hill Walk", DetailsURL: "/a", Description: "first"}
	require.NoError(t, st.UpsertWalk(ctx, walk))
	firstSeen := mustGet(t, st, "abc").LastSeen

	walk.Description = "second"
	require.NoError(t, st.UpsertWalk(ctx, walk))

	updated := mustGet(t, st, "abc")
	assert.Equal(t, "second", updated.Description)
	assert.False(t, updated.LastSeen.Before(firstSeen))
}

func TestMemoryStore_ListOrdersNilDatesFirst(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	early := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, st.UpsertWalk(ctx, model.WalkRecord{ID: "late", Title: "t", DetailsURL: "/l", WalkDate: &late}))
	require.NoError(t, st.UpsertWalk(ctx, model.WalkRecord{ID: "none", Title: "t", DetailsURL: "/n"}))
	require.NoError(t, st.UpsertWalk(ctx, model.WalkRecord{ID: "early", Title: "t", DetailsURL: "/e", WalkDate: &early}))

	walks, err := st.ListWalks(ctx)
	require.NoError(t, err)
	require.Len(t, walks, 3)
	assert.Equal(t, "none", walks[0].ID)
	assert.Equal(t, "early", walks[1].ID)
	assert.Equal(t, "late", walks[2].ID)
}

func TestMemoryStore_RunStatusSingleton(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	status, err := st.GetRunStatus(ctx)
	require.NoError(t, err)
	assert.Nil(t, status)

	now := time.Now().UTC()
	require.NoError(t, st.UpdateRunStatus(ctx, model.RunStatus{
		LastSuccessfulRun: &now,
		LastRunStatus:     model.RunStatusSuccess,
	}))

	status, err = st.GetRunStatus(ctx)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, model.RunStatusSuccess, status.LastRunStatus)
	require.NotNil(t, status.LastSuccessfulRun)
}

func TestMemoryStore_FailurePreservesSuccessTimestamp(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	then := time.Date(2025, 3, 12, 3, 0, 0, 0, time.UTC)
	require.NoError(t, st.UpdateRunStatus(ctx, model.RunStatus{
		LastSuccessfulRun: &then,
		LastRunStatus:     model.RunStatusSuccess,
	}))

	msg := "invalid JSON received"
	require.NoError(t, st.UpdateRunStatus(ctx, model.RunStatus{
		LastRunStatus:    model.RunStatusFailure,
		LastErrorMessage: &msg,
	}))

	status, err := st.GetRunStatus(ctx)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, model.RunStatusFailure, status.LastRunStatus)
	require.NotNil(t, status.LastSuccessfulRun)
	assert.Equal(t, then, *status.LastSuccessfulRun)
	require.NotNil(t, status.LastErrorMessage)
	assert.Equal(t, msg, *status.LastErrorMessage)
}

func mustGet(t *testing.T, st *MemoryStore, id string) model.WalkRecord {
	t.Helper()
	walks, err := st.ListWalks(context.Background())
	require.NoError(t, err)
	for _, w := range walks {
		if w.ID == id {
			return w
		}
	}
	t.Fatalf("walk %s not found", id)
	return model.WalkRecord{}
}
