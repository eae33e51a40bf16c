package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider ships zap entries to the collector alongside the regular
// stdout or file output.
type LoggerProvider struct {
	signal[*sdklog.LoggerProvider]
	serviceName string
}

// NewLoggerProvider builds the OTLP log pipeline only when both Enabled and
// LogsEnabled are set; otherwise Bridge hands the logger back untouched.
func NewLoggerProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*LoggerProvider, error) {
	if !cfg.Enabled || !cfg.LogsEnabled {
		logger.Info("Log export disabled")
		return &LoggerProvider{serviceName: cfg.ServiceName}, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}
	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	sdk := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(sdk)

	logger.Info("Log export enabled", zap.String("collector_endpoint", cfg.CollectorEndpoint))
	return &LoggerProvider{signal: newSignal("log", sdk, logger), serviceName: cfg.ServiceName}, nil
}

// Bridge tees base into the collector for entries at minLevel and above.
// Entries below minLevel still reach base.
func (lp *LoggerProvider) Bridge(base *zap.Logger, minLevel zapcore.Level) *zap.Logger {
	if !lp.live {
		return base
	}
	exported, err := zapcore.NewIncreaseLevelCore(
		otelzap.NewCore(lp.serviceName, otelzap.WithLoggerProvider(lp.sdk)), minLevel)
	if err != nil {
		base.Warn("log export bridge not installed", zap.Error(err))
		return base
	}
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, exported)
	}))
}
