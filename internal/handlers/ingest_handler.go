package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/walksync/walksync/internal/model"
	"github.com/walksync/walksync/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Ingest responses mirror the wire contract: {status, message}.
type ingestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WalkIngestHandler accepts a batch of walk records, upserts each one
// independently and concludes every attempt with exactly one run status
// write.
type WalkIngestHandler struct {
	store  store.Store
	logger *zap.Logger

	walksUpserted metric.Int64Counter
	runsTotal     metric.Int64Counter
}

func NewWalkIngestHandler(st store.Store, logger *zap.Logger, meter metric.Meter) *WalkIngestHandler {
	h := &WalkIngestHandler{
		store:  st,
		logger: logger.Named("ingest"),
	}
	if meter != nil {
		h.walksUpserted, _ = meter.Int64Counter("walksync_walks_upserted_total",
			metric.WithDescription("Walk records successfully upserted"))
		h.runsTotal, _ = meter.Int64Counter("walksync_ingest_runs_total",
			metric.WithDescription("Ingestion batches processed, by outcome"))
	}
	return h
}

// RegisterRoutes registers the routes for this handler
func (h *WalkIngestHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	router.HandleFunc("/api/walks", h.handleIngest).Methods("POST")
}

func (h *WalkIngestHandler) handleIngest(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := req.Context()

	// A dead store is fatal for the whole batch; there is nothing useful to
	// record and no retry here. The scheduler re-invokes the pipeline later.
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("store unavailable", zap.Error(err))
		h.recordRun(req, model.RunStatusFailure)
		h.writeFailureStatus(req, "store unavailable: "+err.Error())
		writeJSON(w, http.StatusInternalServerError, ingestResponse{
			Status:  "error",
			Message: "store unavailable",
		})
		return
	}

	walks, err := decodeBatch(req.Body)
	if err != nil {
		msg := "invalid JSON received: " + err.Error()
		h.logger.Warn("rejecting malformed batch", zap.Error(err))
		h.recordRun(req, model.RunStatusFailure)
		h.writeFailureStatus(req, msg)
		writeJSON(w, http.StatusBadRequest, ingestResponse{Status: "error", Message: msg})
		return
	}

	// Each record is an independent conflict-resolved write. A failed or
	// invalid record is excluded from the count but never aborts the batch.
	processed := 0
	for i, walk := range walks {
		if err := walk.Validate(); err != nil {
			h.logger.Warn("skipping invalid walk record",
				zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := h.store.UpsertWalk(ctx, walk); err != nil {
			h.logger.Warn("failed to upsert walk",
				zap.String("id", walk.ID), zap.Error(err))
			continue
		}
		processed++
	}
	if h.walksUpserted != nil {
		h.walksUpserted.Add(ctx, int64(processed))
	}

	now := time.Now().UTC()
	status := model.RunStatus{
		LastSuccessfulRun: &now,
		LastRunStatus:     model.RunStatusSuccess,
	}
	if err := h.store.UpdateRunStatus(ctx, status); err != nil {
		h.logger.Error("failed to record run status", zap.Error(err))
		h.recordRun(req, model.RunStatusFailure)
		writeJSON(w, http.StatusInternalServerError, ingestResponse{
			Status:  "error",
			Message: "failed to record run status: " + err.Error(),
		})
		return
	}

	h.recordRun(req, model.RunStatusSuccess)
	h.logger.Info("batch processed",
		zap.Int("received", len(walks)),
		zap.Int("processed", processed))
	writeJSON(w, http.StatusOK, ingestResponse{
		Status:  "success",
		Message: fmt.Sprintf("Successfully processed %d walks.", processed),
	})
}

// decodeBatch parses the request body as a JSON array of walk records. The
// body must be exactly one array: a literal null decodes into a nil slice
// without error and would otherwise pass for an empty batch, and anything
// trailing the array means the sender did not speak the batch contract.
func decodeBatch(r io.Reader) ([]model.WalkRecord, error) {
	dec := json.NewDecoder(r)
	var walks []model.WalkRecord
	if err := dec.Decode(&walks); err != nil {
		return nil, err
	}
	if walks == nil {
		return nil, errors.New("expected a JSON array of walk records")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after walk batch")
	}
	return walks, nil
}

// writeFailureStatus records a failed run. The success timestamp is left
// nil so the store preserves the last recorded success.
func (h *WalkIngestHandler) writeFailureStatus(req *http.Request, msg string) {
	status := model.RunStatus{
		LastRunStatus:    model.RunStatusFailure,
		LastErrorMessage: &msg,
	}
	if err := h.store.UpdateRunStatus(req.Context(), status); err != nil {
		h.logger.Error("failed to record failure status", zap.Error(err))
	}
}

func (h *WalkIngestHandler) recordRun(req *http.Request, outcome string) {
	if h.runsTotal == nil {
		return
	}
	h.runsTotal.Add(req.Context(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
