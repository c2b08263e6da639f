package telemetry

import (
	"context"

	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// Telemetry bundles the otel meter backed by the Prometheus exporter. The
// exporter registers against the default Prometheus registry, so promhttp's
// default handler serves everything recorded through Meter.
type Telemetry struct {
	Meter    metric.Meter
	provider *sdkmetric.MeterProvider
}

func NewTelemetry(logger *zap.Logger) (*Telemetry, error) {
	exporter, err := otelprom.New()
	if err != nil {
		logger.Error("failed to create prometheus exporter", zap.Error(err))
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	return &Telemetry{
		Meter:    provider.Meter("walksync"),
		provider: provider,
	}, nil
}

// Shutdown flushes and stops the meter provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}
