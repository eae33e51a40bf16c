package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps every persisted record has.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch stamps the entity as modified now.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// BaseAggregateRoot is embedded by products, partners and orders. Version is
// compared on save; events recorded by a state change are handed to the
// publisher once the surrounding transaction commits.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	pending []DomainEvent
}

// NewBaseAggregateRoot returns a fresh root at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now()
	return BaseAggregateRoot{
		BaseEntity: BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Version:    1,
	}
}

// IncrementVersion is called by repositories after a successful write.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// RecordEvent queues an event for publication after commit.
func (a *BaseAggregateRoot) RecordEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// PendingEvents returns the queued events without clearing them.
func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return a.pending
}

// PullDomainEvents returns the queued events and clears the queue.
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}
