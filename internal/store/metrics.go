package store

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	upsertCounter metric.Int64Counter
	queryCounter  metric.Int64Counter
)

// InitStoreMetrics registers the store counters on the given meter. Safe to
// call with a nil-instrument outcome; recording helpers tolerate instruments
// that were never created.
func InitStoreMetrics(meter metric.Meter) {
	upsertCounter, _ = meter.Int64Counter("walksync_store_upserts_total",
		metric.WithDescription("Walk upserts executed against the store"))
	queryCounter, _ = meter.Int64Counter("walksync_store_queries_total",
		metric.WithDescription("Read queries executed against the store"))
}

func recordUpsert(ctx context.Context, outcome string) {
	if upsertCounter == nil {
		return
	}
	upsertCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func recordQuery(ctx context.Context, operation string) {
	if queryCounter == nil {
		return
	}
	queryCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}
