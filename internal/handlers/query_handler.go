package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/walksync/walksync/internal/model"
	"github.com/walksync/walksync/internal/store"
	"go.uber.org/zap"
)

type queryResponse struct {
	Status         string             `json:"status"`
	Message        string             `json:"message"`
	Data           []model.WalkRecord `json:"data"`
	LastScrapeTime *string            `json:"lastScrapeTime"`
}

// WalkQueryHandler serves the read path: every stored walk plus the
// freshness timestamp of the last successful ingestion run.
type WalkQueryHandler struct {
	store  store.Store
	logger *zap.Logger
}

func NewWalkQueryHandler(st store.Store, logger *zap.Logger) *WalkQueryHandler {
	return &WalkQueryHandler{
		store:  st,
		logger: logger.Named("query"),
	}
}

// RegisterRoutes registers the routes for this handler
func (h *WalkQueryHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	router.HandleFunc("/api/walks", h.handleGetWalks).Methods("GET")
}

func (h *WalkQueryHandler) handleGetWalks(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := req.Context()

	walks, err := h.store.ListWalks(ctx)
	if err != nil {
		h.logger.Error("failed to fetch walks", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, queryResponse{
			Status:  "error",
			Message: "failed to fetch walks: " + err.Error(),
			Data:    []model.WalkRecord{},
		})
		return
	}
	if walks == nil {
		walks = []model.WalkRecord{}
	}

	// lastScrapeTime only reflects a recorded success. After a failed run it
	// reads as null even when an older success exists; the read path must
	// never present a failed batch as fresh.
	var lastScrape *string
	status, err := h.store.GetRunStatus(ctx)
	if err != nil {
		h.logger.Warn("failed to fetch run status", zap.Error(err))
	} else if status != nil &&
		status.LastRunStatus == model.RunStatusSuccess &&
		status.LastSuccessfulRun != nil {
		formatted := status.LastSuccessfulRun.UTC().Format(time.RFC3339)
		lastScrape = &formatted
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Status:         "success",
		Message:        fmt.Sprintf("Successfully fetched %d walks.", len(walks)),
		Data:           walks,
		LastScrapeTime: lastScrape,
	})
}
