package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallerp/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unknown"

type requestInstruments struct {
	count    *telemetry.Counter
	latency  *telemetry.Histogram
	inFlight metric.Int64UpDownCounter
}

func newRequestInstruments(meter metric.Meter) (*requestInstruments, error) {
	ri := &requestInstruments{}
	var err error
	if ri.count, err = telemetry.NewCounter(meter, "http_server_request_total",
		"HTTP requests served", "{request}"); err != nil {
		return nil, err
	}
	if ri.latency, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if ri.inFlight, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("HTTP requests in flight"),
		metric.WithUnit("{request}")); err != nil {
		return nil, err
	}
	return ri, nil
}

func (ri *requestInstruments) observe(ctx context.Context, c *gin.Context, took time.Duration) {
	route := c.FullPath()
	if route == "" {
		route = unmatchedRoute
	}
	attrs := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(c.Request.Method),
		telemetry.AttrHTTPRoute.String(route),
	}
	ri.latency.RecordDuration(ctx, took, attrs...)
	ri.count.Inc(ctx, append(attrs, telemetry.AttrHTTPStatus.Int(c.Writer.Status()))...)
}

// HTTPMetrics records request count, latency and in-flight requests per
// route pattern. Without a meter it is a pass-through.
func HTTPMetrics(meter metric.Meter, log *zap.Logger) gin.HandlerFunc {
	passThrough := func(c *gin.Context) { c.Next() }
	if meter == nil {
		return passThrough
	}
	ri, err := newRequestInstruments(meter)
	if err != nil {
		if log != nil {
			log.Warn("http metrics disabled", zap.Error(err))
		}
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		ri.inFlight.Add(ctx, 1)
		defer ri.inFlight.Add(ctx, -1)

		c.Next()
		ri.observe(ctx, c, time.Since(start))
	}
}
