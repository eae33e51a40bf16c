package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSince(t *testing.T) {
	got, err := parseSince("2026-03-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), got)

	got, err = parseSince("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = parseSince("yesterday")
	assert.Error(t, err)
}

func TestInventoryHandler_AdjustStock(t *testing.T) {
	f := newAPIFixture(t)
	id := f.createProduct(t, "SKU-1", "3")

	t.Run("positive adjustment", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/products/"+id+"/adjustments", map[string]any{
			"quantity": "5",
			"notes":    "stock count",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		movement := data(t, w)
		assert.Equal(t, "adjustment", movement["movement_type"])
		assert.Equal(t, "5", movement["quantity"])
		assert.Equal(t, f.userID.String(), movement["user_id"])
		assert.Equal(t, "8", f.stockOf(t, id))
	})

	t.Run("adjustment below zero is rejected", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/products/"+id+"/adjustments", map[string]any{"quantity": "-100"})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, w))
		assert.Equal(t, "8", f.stockOf(t, id))
	})

	t.Run("unknown product", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/products/"+uuid.NewString()+"/adjustments", map[string]any{"quantity": "1"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInventoryHandler_ListMovements(t *testing.T) {
	f := newAPIFixture(t)
	id := f.createProduct(t, "SKU-1", "3")
	w := f.do(t, http.MethodPost, "/products/"+id+"/adjustments", map[string]any{"quantity": "2"})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("all movements", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/products/"+id+"/movements", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, list(t, w), 2)
	})

	t.Run("since the future", func(t *testing.T) {
		since := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
		w := f.do(t, http.MethodGet, "/products/"+id+"/movements?since="+since, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeResponse(t, w).Data)
	})

	t.Run("invalid since", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/products/"+id+"/movements?since=yesterday", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInventoryHandler_Reconcile(t *testing.T) {
	f := newAPIFixture(t)
	id := f.createProduct(t, "SKU-1", "4")

	w := f.do(t, http.MethodGet, "/products/"+id+"/reconciliation", nil)

	require.Equal(t, http.StatusOK, w.Code)
	rec := data(t, w)
	assert.Equal(t, true, rec["in_sync"])
	assert.Equal(t, rec["stock_quantity"], rec["ledger_stock"])
}
