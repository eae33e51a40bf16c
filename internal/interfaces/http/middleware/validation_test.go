package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smallerp/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationInput struct {
	SKU    string `json:"sku" binding:"required,max=5"`
	Email  string `json:"email" binding:"omitempty,email"`
	Status string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func postValidation(t *testing.T, body string) dto.Response {
	t.Helper()
	SetupValidator()

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var input validationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestHandleValidationError_ListsFields(t *testing.T) {
	resp := postValidation(t, `{"sku":"TOOLONG","email":"nope","status":"gone"}`)

	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	messages := map[string]string{}
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "Must be at most 5 characters", messages["sku"])
	assert.Equal(t, "Invalid email format", messages["email"])
	assert.Equal(t, "Must be one of: active inactive", messages["status"])
}

func TestHandleValidationError_Required(t *testing.T) {
	resp := postValidation(t, `{}`)

	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "sku", resp.Error.Details[0].Field)
	assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	resp := postValidation(t, `{"sku":`)

	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}
