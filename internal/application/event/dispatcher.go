package event

import (
	"context"

	"github.com/smallerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Dispatcher publishes domain events collected during a unit of work once
// that unit has committed. A publish failure is logged and never undoes
// the committed change.
type Dispatcher struct {
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewDispatcher creates a Dispatcher. A nil publisher makes Dispatch a no-op.
func NewDispatcher(publisher shared.EventPublisher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		publisher: publisher,
		logger:    logger,
	}
}

// Dispatch publishes events in order
func (d *Dispatcher) Dispatch(ctx context.Context, events ...shared.DomainEvent) {
	if d == nil || d.publisher == nil || len(events) == 0 {
		return
	}
	if err := d.publisher.Publish(ctx, events...); err != nil {
		d.logger.Error("failed to publish domain events",
			zap.Int("count", len(events)),
			zap.String("first_event_type", events[0].EventType()),
			zap.Error(err),
		)
	}
}
