package persistence

import (
	"errors"

	"github.com/smallerp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps store errors onto the domain taxonomy. notFound and
// conflict are returned for missing rows and unique violations; anything
// else becomes a PersistenceError wrapping the cause.
func translateError(op string, err error, notFound, conflict *shared.DomainError) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey) && conflict != nil:
		return conflict.WithCause(err)
	default:
		return shared.NewPersistenceError(op, err)
	}
}

// wrapError is translateError for statements that can neither miss nor collide
func wrapError(op string, err error) error {
	return translateError(op, err, nil, nil)
}

var errConcurrentModification = shared.NewConflictError("CONCURRENT_MODIFICATION", "The record was modified by another request, reload and retry")
