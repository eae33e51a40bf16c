package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallerp/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
)

type failingStore struct{}

func (failingStore) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
func (failingStore) Release(context.Context, string) error { return nil }
func (failingStore) Close() error                          { return nil }

func newIdempotentRouter(handlerStatus *int, mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(Auth(DefaultAuthConfig(nil, nil)))
	router.POST("/sales", mw, func(c *gin.Context) {
		c.Status(*handlerStatus)
	})
	return router
}

func postWithKey(router *gin.Engine, key, user string) int {
	req := httptest.NewRequest(http.MethodPost, "/sales", nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	if user != "" {
		req.Header.Set(UserIDHeader, user)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code
}

func TestIdempotency(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	status := http.StatusCreated
	router := newIdempotentRouter(&status, Idempotency(store, time.Minute, nil))

	t.Run("repeat key is rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, postWithKey(router, "k-1", "u1"))
		assert.Equal(t, http.StatusConflict, postWithKey(router, "k-1", "u1"))
	})

	t.Run("keys are scoped per user", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, postWithKey(router, "k-2", "u1"))
		assert.Equal(t, http.StatusCreated, postWithKey(router, "k-2", "u2"))
	})

	t.Run("requests without key are not tracked", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, postWithKey(router, "", "u1"))
		assert.Equal(t, http.StatusCreated, postWithKey(router, "", "u1"))
	})

	t.Run("failed request releases its key", func(t *testing.T) {
		status = http.StatusBadRequest
		assert.Equal(t, http.StatusBadRequest, postWithKey(router, "k-3", "u1"))

		status = http.StatusCreated
		assert.Equal(t, http.StatusCreated, postWithKey(router, "k-3", "u1"))
		assert.Equal(t, http.StatusConflict, postWithKey(router, "k-3", "u1"))
	})

	t.Run("oversized key is rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, postWithKey(router, strings.Repeat("k", 300), "u1"))
	})
}

func TestIdempotency_StoreFailureFailsOpen(t *testing.T) {
	status := http.StatusCreated
	router := newIdempotentRouter(&status, Idempotency(failingStore{}, time.Minute, nil))

	assert.Equal(t, http.StatusCreated, postWithKey(router, "k", "u1"))
	assert.Equal(t, http.StatusCreated, postWithKey(router, "k", "u1"))
}
