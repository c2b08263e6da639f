// Package transport delivers an accumulated batch of walk records to the
// ingestion endpoint.
//
// Delivery is deliberately fire-and-forget: exactly one attempt, no retry
// and no queueing of undelivered batches. A failed delivery is surfaced in
// the logs only; the previous run status stays authoritative until the next
// scheduled run.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/walksync/walksync/internal/model"
	"go.uber.org/zap"
)

// Ack is the ingestion endpoint's response body.
type Ack struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Client posts walk batches to the ingestion endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("transport"),
	}
}

// Deliver serializes the batch and performs the single delivery attempt.
func (c *Client) Deliver(ctx context.Context, walks []model.WalkRecord) error {
	payload, err := json.Marshal(walks)
	if err != nil {
		return fmt.Errorf("failed to serialize batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver batch: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var ack Ack
	if err := json.Unmarshal(body, &ack); err != nil {
		ack = Ack{Status: "unknown", Message: string(body)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ingestion endpoint returned status %d: %s", resp.StatusCode, ack.Message)
	}

	c.logger.Info("batch delivered",
		zap.Int("walks", len(walks)),
		zap.String("ack_status", ack.Status),
		zap.String("ack_message", ack.Message))
	return nil
}
