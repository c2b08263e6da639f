// Package scraper orchestrates one ingestion run: render each configured
// source, extract walk records, accumulate them into a single batch and
// deliver that batch exactly once.
package scraper

import (
	"context"

	"github.com/walksync/walksync/internal/extractor"
	"github.com/walksync/walksync/internal/model"
	"github.com/walksync/walksync/internal/renderer"
	"github.com/walksync/walksync/internal/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Pipeline wires the fetch -> extract -> transport stages for a run.
type Pipeline struct {
	renderer  renderer.Renderer
	extractor *extractor.Extractor
	transport *transport.Client
	sources   []string
	logger    *zap.Logger

	recordsExtracted metric.Int64Counter
	sourcesProcessed metric.Int64Counter
}

func NewPipeline(
	rend renderer.Renderer,
	ext *extractor.Extractor,
	trans *transport.Client,
	sources []string,
	logger *zap.Logger,
	meter metric.Meter,
) *Pipeline {
	p := &Pipeline{
		renderer:  rend,
		extractor: ext,
		transport: trans,
		sources:   sources,
		logger:    logger.Named("pipeline"),
	}
	if meter != nil {
		p.recordsExtracted, _ = meter.Int64Counter("walksync_records_extracted_total",
			metric.WithDescription("Walk records extracted across all sources"))
		p.sourcesProcessed, _ = meter.Int64Counter("walksync_sources_processed_total",
			metric.WithDescription("Source URLs processed, by outcome"))
	}
	return p
}

// Run processes every source sequentially and delivers the accumulated
// batch once. A source that fails to render contributes zero records and
// does not abort the run. An empty batch short-circuits delivery entirely.
func (p *Pipeline) Run(ctx context.Context) error {
	var batch []model.WalkRecord

	for _, source := range p.sources {
		walks, err := p.scrapeSource(ctx, source)
		if err != nil {
			p.logger.Warn("source yielded no records",
				zap.String("url", source),
				zap.Error(err))
			p.countSource(ctx, "failed")
			continue
		}
		p.countSource(ctx, "ok")
		if p.recordsExtracted != nil {
			p.recordsExtracted.Add(ctx, int64(len(walks)))
		}
		batch = append(batch, walks...)
	}

	if len(batch) == 0 {
		p.logger.Info("no walks scraped from any source, skipping delivery")
		return nil
	}

	p.logger.Info("delivering batch", zap.Int("walks", len(batch)))
	if err := p.transport.Deliver(ctx, batch); err != nil {
		// One attempt only. The run ends here and the previous run status
		// remains authoritative.
		p.logger.Error("batch delivery failed", zap.Error(err))
		return err
	}
	return nil
}

func (p *Pipeline) scrapeSource(ctx context.Context, source string) ([]model.WalkRecord, error) {
	html, err := p.renderer.Render(ctx, source)
	if err != nil {
		return nil, err
	}
	return p.extractor.Extract(source, html)
}

func (p *Pipeline) countSource(ctx context.Context, outcome string) {
	if p.sourcesProcessed == nil {
		return
	}
	p.sourcesProcessed.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
