package dto

import (
	"net/http"

	"github.com/smallerp/backend/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain errors keep the
// code they were raised with.
const (
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeConflict     = "ERR_CONFLICT"
	ErrCodeDuplicate    = "ERR_DUPLICATE_REQUEST"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// ErrorKindHTTPStatus maps domain error kinds to HTTP status codes
var ErrorKindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:      http.StatusBadRequest,
	shared.KindNotFound:        http.StatusNotFound,
	shared.KindInvalidState:    http.StatusConflict,
	shared.KindConflict:        http.StatusConflict,
	shared.KindPersistence:     http.StatusInternalServerError,
	shared.KindUnauthenticated: http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for an error kind.
// Unknown kinds map to 500.
func GetHTTPStatus(kind shared.ErrorKind) int {
	if status, ok := ErrorKindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
