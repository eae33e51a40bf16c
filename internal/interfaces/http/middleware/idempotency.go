package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/infrastructure/logger"
	"github.com/smallerp/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client's request key
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLength bounds client keys
const maxIdempotencyKeyLength = 255

// Idempotency rejects a repeated Idempotency-Key with 409 while the first
// claim is alive. Requests without the header pass through. A request that
// ends in an error status releases its key so the client can retry.
// Store failures are logged and the request proceeds.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if store == nil || key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.Fail(dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		ctx := c.Request.Context()
		scoped := scopeKey(GetUserID(c), c.FullPath(), key)

		claimed, err := store.Claim(ctx, scoped, ttl)
		if err != nil {
			logger.Enrich(ctx, log).Warn("idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.Fail(dto.ErrCodeDuplicate, "A request with this Idempotency-Key was already submitted", GetRequestID(c)))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			// The request context may already be cancelled.
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if err := store.Release(releaseCtx, scoped); err != nil {
				logger.Enrich(ctx, log).Warn("failed to release idempotency key", zap.Error(err))
			}
		}
	}
}

func scopeKey(userID, route, key string) string {
	return userID + "|" + route + "|" + key
}
