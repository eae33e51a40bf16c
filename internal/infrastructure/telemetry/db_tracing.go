package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig configures statement spans
type DBTracingConfig struct {
	// LogFullSQL keeps bound variables in the span statement (dev only)
	LogFullSQL bool
	// SlowQueryThreshold flags statements slower than this on their span
	SlowQueryThreshold time.Duration
	// DBSystem is reported as db.system
	DBSystem string
}

// DefaultDBTracingConfig returns the production defaults
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThreshold: 200 * time.Millisecond,
		DBSystem:           "postgresql",
	}
}

// Tables whose writes make up the stock ledger. Spans of statements writing
// them carry ledger.write=true so posting traces can be filtered.
var ledgerTables = map[string]bool{
	"products":        true,
	"stock_movements": true,
}

type statementStartKey struct{}

// DBTracer adds otelgorm statement spans and annotates them with rows,
// table, slowness and ledger writes.
type DBTracer struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracer creates a DBTracer
func NewDBTracer(cfg DBTracingConfig, logger *zap.Logger) *DBTracer {
	return &DBTracer{config: cfg, logger: logger}
}

// Register installs otelgorm and the annotation callbacks on db
func (t *DBTracer) Register(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(t.config.DBSystem)}
	if !t.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	if err := errors.Join(
		cb.Create().Before("gorm:create").Register("ledger_trace:start_create", markStart),
		cb.Create().After("gorm:create").Register("ledger_trace:end_create", t.afterWrite),
		cb.Update().Before("gorm:update").Register("ledger_trace:start_update", markStart),
		cb.Update().After("gorm:update").Register("ledger_trace:end_update", t.afterWrite),
		cb.Delete().Before("gorm:delete").Register("ledger_trace:start_delete", markStart),
		cb.Delete().After("gorm:delete").Register("ledger_trace:end_delete", t.afterWrite),
		cb.Raw().Before("gorm:raw").Register("ledger_trace:start_raw", markStart),
		cb.Raw().After("gorm:raw").Register("ledger_trace:end_raw", t.afterWrite),
		cb.Query().Before("gorm:query").Register("ledger_trace:start_query", markStart),
		cb.Query().After("gorm:query").Register("ledger_trace:end_query", t.afterRead),
		cb.Row().Before("gorm:row").Register("ledger_trace:start_row", markStart),
		cb.Row().After("gorm:row").Register("ledger_trace:end_row", t.afterRead),
	); err != nil {
		return err
	}

	t.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", t.config.LogFullSQL),
		zap.Duration("slow_query_threshold", t.config.SlowQueryThreshold),
	)
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, statementStartKey{}, time.Now())
	}
}

func (t *DBTracer) afterWrite(db *gorm.DB) { t.annotate(db, true) }
func (t *DBTracer) afterRead(db *gorm.DB)  { t.annotate(db, false) }

func (t *DBTracer) annotate(db *gorm.DB, write bool) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	table := db.Statement.Table
	attrs := []attribute.KeyValue{attribute.Int64("db.rows_affected", db.Statement.RowsAffected)}
	if table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", table))
	}
	if write && ledgerTables[table] {
		attrs = append(attrs, attribute.Bool("ledger.write", true))
	}
	span.SetAttributes(attrs...)

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}

	start, ok := ctx.Value(statementStartKey{}).(time.Time)
	if !ok || t.config.SlowQueryThreshold <= 0 {
		return
	}
	if elapsed := time.Since(start); elapsed > t.config.SlowQueryThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		t.logger.Warn("slow query",
			zap.String("table", table),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", t.config.SlowQueryThreshold),
		)
	}
}
