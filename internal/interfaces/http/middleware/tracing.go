// Package middleware provides HTTP middleware for the ledger API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Probe paths are served without a span.
var untracedPrefixes = []string{"/health", "/swagger/"}

type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

func DefaultTracingConfig() TracingConfig {
	return TracingConfig{ServiceName: "smallerp-backend", Enabled: true}
}

func traced(r *http.Request) bool {
	for _, prefix := range untracedPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return false
		}
	}
	return true
}

// Tracing opens the server span with otelgin, using the global tracer
// provider and propagator.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(cfg.ServiceName, otelgin.WithFilter(traced))
}

func requestSpan(c *gin.Context) (trace.Span, bool) {
	span := trace.SpanFromContext(c.Request.Context())
	return span, span.IsRecording()
}

// SpanErrorMarker flags the request span as failed when the response is
// 4xx or 5xx. It must run inside Tracing.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if span, ok := requestSpan(c); ok && status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
}

// TracingAttributeInjector tags the request span with the request id and
// the acting user. It must run after RequestID and Auth.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		if span, ok := requestSpan(c); ok {
			var attrs []attribute.KeyValue
			if id := GetRequestID(c); id != "" {
				attrs = append(attrs, attribute.String("request_id", id))
			}
			if user := GetUserID(c); user != "" {
				attrs = append(attrs, attribute.String("user_id", user))
			}
			span.SetAttributes(attrs...)
		}
		c.Next()
	}
}
