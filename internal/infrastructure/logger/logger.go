// Package logger builds the zap logger and carries request-scoped
// correlation fields (request, user, trace) through context.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level, encoding (json or console) and sink (stdout,
// stderr or a file path).
type Config struct {
	Level  string
	Format string
	Output string
}

// New builds the process logger. env "production" forces JSON.
func New(cfg Config, env string) (*zap.Logger, error) {
	sink := cfg.Output
	if sink == "" {
		sink = "stdout"
	}
	ws, _, err := zap.Open(sink)
	if err != nil {
		return nil, fmt.Errorf("open log output %q: %w", sink, err)
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	enc.EncodeDuration = zapcore.MillisDurationEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" && env != "production" {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(enc)
	} else {
		encoder = zapcore.NewJSONEncoder(enc)
	}

	return zap.New(zapcore.NewCore(encoder, ws, ParseLevel(cfg.Level)),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

// ParseLevel reads a level name case-insensitively; "warning" is accepted
// and anything unknown is info.
func ParseLevel(level string) zapcore.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
