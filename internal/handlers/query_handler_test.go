package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walksync/walksync/internal/model"
	"github.com/walksync/walksync/internal/store"
	"go.uber.org/zap"
)

func newQueryRouter(st store.Store) *mux.Router {
	router := mux.NewRouter()
	NewWalkQueryHandler(st, zap.NewNop()).RegisterRoutes(router, zap.NewNop())
	return router
}

func getWalks(t *testing.T, router *mux.Router) (*httptest.ResponseRecorder, queryResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/walks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp queryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestQuery_EmptyStoreNullScrapeTime(t *testing.T) {
	st := store.NewMemoryStore()
	rec, resp := getWalks(t, newQueryRouter(st))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Successfully fetched 0 walks.", resp.Message)
	assert.Empty(t, resp.Data)
	assert.Nil(t, resp.LastScrapeTime)
}

func TestQuery_WalksOrderedNilDatesFirst(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	early := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	late := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, st.UpsertWalk(ctx, model.WalkRecord{ID: "late", Title: "t", DetailsURL: "/l", WalkDate: &late}))
	require.NoError(t, st.UpsertWalk(ctx, model.WalkRecord{ID: "unscheduled", Title: "t", DetailsURL: "/u"}))
	require.NoError(t, st.UpsertWalk(ctx, model.WalkRecord{ID: "early", Title: "t", DetailsURL: "/e", WalkDate: &early}))

	_, resp := getWalks(t, newQueryRouter(st))

	require.Len(t, resp.Data, 3)
	assert.Equal(t, "unscheduled", resp.Data[0].ID)
	assert.Equal(t, "early", resp.Data[1].ID)
	assert.Equal(t, "late", resp.Data[2].ID)
	assert.Equal(t, "Successfully fetched 3 walks.", resp.Message)
}

func TestQuery_ScrapeTimeReflectsLastSuccess(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	ranAt := time.Date(2025, 3, 12, 3, 0, 0, 0, time.UTC)
	require.NoError(t, st.UpdateRunStatus(ctx, model.RunStatus{
		LastSuccessfulRun: &ranAt,
		LastRunStatus:     model.RunStatusSuccess,
	}))

	_, resp := getWalks(t, newQueryRouter(st))

	require.NotNil(t, resp.LastScrapeTime)
	assert.Equal(t, "2025-03-12T03:00:00Z", *resp.LastScrapeTime)
}

func TestQuery_FailedRunHidesScrapeTime(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	ranAt := time.Date(2025, 3, 12, 3, 0, 0, 0, time.UTC)
	require.NoError(t, st.UpdateRunStatus(ctx, model.RunStatus{
		LastSuccessfulRun: &ranAt,
		LastRunStatus:     model.RunStatusSuccess,
	}))
	msg := "store unavailable"
	require.NoError(t, st.UpdateRunStatus(ctx, model.RunStatus{
		LastRunStatus:    model.RunStatusFailure,
		LastErrorMessage: &msg,
	}))

	_, resp := getWalks(t, newQueryRouter(st))

	// The read path never presents a failed batch as fresh.
	assert.Nil(t, resp.LastScrapeTime)
}

func TestQuery_ScrapeTimeMonotonicAcrossSuccesses(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	router := newQueryRouter(st)

	first := time.Date(2025, 3, 12, 3, 0, 0, 0, time.UTC)
	require.NoError(t, st.UpdateRunStatus(ctx, model.RunStatus{
		LastSuccessfulRun: &first,
		LastRunStatus:     model.RunStatusSuccess,
	}))
	_, respFirst := getWalks(t, router)

	second := first.Add(24 * time.Hour)
	require.NoError(t, st.UpdateRunStatus(ctx, model.RunStatus{
		LastSuccessfulRun: &second,
		LastRunStatus:     model.RunStatusSuccess,
	}))
	_, respSecond := getWalks(t, router)

	require.NotNil(t, respFirst.LastScrapeTime)
	require.NotNil(t, respSecond.LastScrapeTime)
	assert.True(t, *respSecond.LastScrapeTime > *respFirst.LastScrapeTime)
}
