package telemetry

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of business spans
const TracerName = "github.com/smallerp/backend"

// Span attribute keys set by the posting workflow
const (
	SpanAttrOrderID     = attribute.Key("order.id")
	SpanAttrOrderNumber = attribute.Key("order.number")
	SpanAttrLineCount   = attribute.Key("order.line_count")
	SpanAttrProductID   = attribute.Key("product.id")
)

// StartPostingSpan starts an internal span named "{aggregate}.{operation}"
// for a state change on one order. The caller ends it with EndSpan.
//
//	ctx, span := telemetry.StartPostingSpan(ctx, "sales_order", "confirm", id)
//	defer func() { telemetry.EndSpan(span, err) }()
func StartPostingSpan(ctx context.Context, aggregate, operation string, orderID uuid.UUID) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, aggregate+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(SpanAttrOrderID.String(orderID.String())),
	)
}

// AnnotateOrder records the order number and line count once the order has
// been loaded inside the transaction.
func AnnotateOrder(span trace.Span, orderNumber string, lines int) {
	span.SetAttributes(
		SpanAttrOrderNumber.String(orderNumber),
		SpanAttrLineCount.Int(lines),
	)
}

// EndSpan marks the span failed when err is set and ends it. Rejections such
// as insufficient stock count as failures.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
