package cache

import (
	"github.com/redis/go-redis/v9"
	"github.com/smallerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis store when a client is available and
// an in-memory store otherwise
func NewIdempotencyStore(client *redis.Client, logger *zap.Logger) shared.IdempotencyStore {
	if client != nil {
		logger.Info("using Redis idempotency store")
		return NewRedisIdempotencyStore(client, defaultIdempotencyPrefix)
	}
	logger.Warn("Redis disabled, idempotency keys are kept in process and not shared between instances")
	return NewInMemoryIdempotencyStore()
}
