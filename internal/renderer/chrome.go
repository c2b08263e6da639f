package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultLoadMoreSelector matches the incremental-load controls the listing
// layout has been observed to use.
const DefaultLoadMoreSelector = "button.button-load-more-results, button.btn-load-more, button.btn.btn-outline-primary"

// ChromeRenderer drives headless Chrome: navigate, let the page settle,
// then activate the "load more" control up to maxLoadMore times so the full
// listing is present before extraction.
type ChromeRenderer struct {
	logger           *zap.Logger
	loadMoreSelector string
	maxLoadMore      int
	navTimeout       time.Duration
	settleInterval   time.Duration
}

type ChromeOptions struct {
	LoadMoreSelector string
	MaxLoadMore      int
	NavTimeout       time.Duration
	SettleInterval   time.Duration
}

func NewChromeRenderer(opts ChromeOptions, logger *zap.Logger) *ChromeRenderer {
	selector := opts.LoadMoreSelector
	if selector == "" {
		selector = DefaultLoadMoreSelector
	}
	return &ChromeRenderer{
		logger:           logger.Named("chrome_renderer"),
		loadMoreSelector: selector,
		maxLoadMore:      opts.MaxLoadMore,
		navTimeout:       opts.NavTimeout,
		settleInterval:   opts.SettleInterval,
	}
}

func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// The whole render, pagination included, is bounded by one deadline.
	// Exceeding it degrades to zero records for this source, not a fatal
	// run failure; the pipeline handles the error.
	renderCtx, cancel := context.WithTimeout(browserCtx, r.navTimeout)
	defer cancel()

	r.logger.Info("rendering page", zap.String("url", url))
	if err := chromedp.Run(renderCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(r.settleInterval),
	); err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	for clicks := 0; clicks < r.maxLoadMore; clicks++ {
		visible, err := r.loadMoreVisible(renderCtx)
		if err != nil {
			return "", fmt.Errorf("failed to probe load-more control: %w", err)
		}
		if !visible {
			r.logger.Debug("no load-more control visible", zap.Int("clicks", clicks))
			break
		}

		r.logger.Debug("activating load-more control", zap.Int("click", clicks+1))
		if err := chromedp.Run(renderCtx,
			chromedp.Click(r.loadMoreSelector, chromedp.ByQuery, chromedp.NodeVisible),
			chromedp.Sleep(r.settleInterval),
		); err != nil {
			return "", fmt.Errorf("failed to activate load-more control: %w", err)
		}
	}

	var html string
	if err := chromedp.Run(renderCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to capture rendered content: %w", err)
	}
	return html, nil
}

func (r *ChromeRenderer) loadMoreVisible(ctx context.Context) (bool, error) {
	expr := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return !!el && el.offsetParent !== null; })()`,
		r.loadMoreSelector,
	)
	var visible bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &visible)); err != nil {
		return false, err
	}
	return visible, nil
}
