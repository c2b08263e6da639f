// Package renderer retrieves the final rendered content of listing pages.
package renderer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Renderer turns a source URL into the page's final HTML. Implementations
// own their pagination/settle behavior; callers only see the end state.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// StaticRenderer fetches a page with a plain HTTP GET. It backs tests and
// sources that do not require script execution.
type StaticRenderer struct {
	client *http.Client
	logger *zap.Logger
}

func NewStaticRenderer(timeout time.Duration, logger *zap.Logger) *StaticRenderer {
	return &StaticRenderer{
		client: &http.Client{Timeout: timeout},
		logger: logger.Named("static_renderer"),
	}
}

func (r *StaticRenderer) Render(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}

	r.logger.Debug("fetched page", zap.String("url", url), zap.Int("bytes", len(body)))
	return string(body), nil
}
