package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		kind     shared.ErrorKind
		expected int
	}{
		{shared.KindValidation, http.StatusBadRequest},
		{shared.KindNotFound, http.StatusNotFound},
		{shared.KindInvalidState, http.StatusConflict},
		{shared.KindConflict, http.StatusConflict},
		{shared.KindPersistence, http.StatusInternalServerError},
		{shared.KindUnauthenticated, http.StatusUnauthorized},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.kind))
		})
	}
}

func TestPaged(t *testing.T) {
	resp := Paged([]int{1, 2}, 41, 2, 20)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	t.Run("zero page size falls back to default", func(t *testing.T) {
		resp := Paged(nil, 5, 0, 0)
		assert.Equal(t, 1, resp.Meta.Page)
		assert.Equal(t, 20, resp.Meta.PageSize)
		assert.Equal(t, 1, resp.Meta.TotalPages)
	})
}

func TestFail(t *testing.T) {
	resp := Fail("INSUFFICIENT_STOCK", "not enough", "req-1")

	body, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")

	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, "INSUFFICIENT_STOCK", errInfo["code"])
	assert.Equal(t, "req-1", errInfo["request_id"])
	assert.NotContains(t, errInfo, "details")
}

func TestInvalid(t *testing.T) {
	resp := Invalid("bad", "", []ValidationDetail{{Field: "sku", Message: "sku is required"}})

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "sku", resp.Error.Details[0].Field)
}
