// Package telemetry wires OpenTelemetry traces, metrics and logs for the
// ledger service and provides the posting instruments built on them.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// Config is shared by the trace, metric and log pipelines. All three export
// over OTLP/gRPC to the same collector.
type Config struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
	// SamplingRatio applies to root spans; sampled parents stay sampled
	SamplingRatio float64
	// MetricsInterval defaults to one minute
	MetricsInterval time.Duration
	// LogsEnabled also requires Enabled
	LogsEnabled bool
}

func newResource(cfg Config) (*resource.Resource, error) {
	version := cfg.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// sdkProvider is the lifecycle shared by the three SDK providers
type sdkProvider interface {
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// signal is one export pipeline. The zero value is a disabled pipeline whose
// methods do nothing.
type signal[P sdkProvider] struct {
	name   string
	sdk    P
	live   bool
	logger *zap.Logger
}

func newSignal[P sdkProvider](name string, sdk P, logger *zap.Logger) signal[P] {
	return signal[P]{name: name, sdk: sdk, live: true, logger: logger}
}

// Enabled reports whether the signal is exported.
func (s *signal[P]) Enabled() bool {
	return s.live
}

func (s *signal[P]) ForceFlush(ctx context.Context) error {
	if !s.live {
		return nil
	}
	return s.sdk.ForceFlush(ctx)
}

func (s *signal[P]) Shutdown(ctx context.Context) error {
	if !s.live {
		return nil
	}
	return shutdownProvider(ctx, s.name, s.sdk, s.logger)
}

// shutdownProvider flushes and stops p within ten seconds of ctx. A nil
// provider means the signal was never enabled.
func shutdownProvider(ctx context.Context, signal string, p sdkProvider, logger *zap.Logger) error {
	if p == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown %s provider: %w", signal, err)
	}
	logger.Info("OpenTelemetry provider stopped", zap.String("signal", signal))
	return nil
}
