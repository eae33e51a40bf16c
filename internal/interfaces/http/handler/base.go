package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smallerp/backend/internal/domain/shared"
	"github.com/smallerp/backend/internal/infrastructure/logger"
	"github.com/smallerp/backend/internal/interfaces/http/dto"
	"github.com/smallerp/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

var errInvalidUserID = shared.NewDomainError(shared.KindUnauthenticated, "INVALID_USER_ID", "Acting user id is not a valid UUID")

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID returns the id assigned by the RequestID middleware, or the
// client's header when the middleware did not run
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// getUserID returns the acting user resolved by the auth middleware
func getUserID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetUserID(c)
	if raw == "" {
		return uuid.Nil, shared.ErrUnauthenticated
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errInvalidUserID
	}
	return id, nil
}

// parseID parses the :id path parameter
func (h *BaseHandler) parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// requireUser resolves the acting user or answers 401
func (h *BaseHandler) requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.HandleDomainError(c, err)
		return uuid.Nil, false
	}
	return userID, true
}

// bind decodes the JSON body into dst. On false the 400 has been sent.
func (h *BaseHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.BindError(c, err)
		return false
	}
	return true
}

// bindQuery is bind for query strings.
func (h *BaseHandler) bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		h.BindError(c, err)
		return false
	}
	return true
}

// reply answers with status and data, or with the mapped error when err is
// set. 204 carries no body.
func (h *BaseHandler) reply(c *gin.Context, status int, data any, err error) {
	switch {
	case err != nil:
		h.HandleDomainError(c, err)
	case status == http.StatusNoContent:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(status, dto.OK(data))
	}
}

// transition runs a state change (confirm, receive, cancel) on the :id
// order on behalf of the acting user.
func transition[R any](h *BaseHandler, c *gin.Context, what string, change func(ctx context.Context, id, userID uuid.UUID) (R, error)) {
	id, ok := h.parseID(c, what)
	if !ok {
		return
	}
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	out, err := change(c.Request.Context(), id, userID)
	h.reply(c, http.StatusOK, out, err)
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	c.JSON(http.StatusOK, dto.Paged(data, total, page, pageSize))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.Fail(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// BindError answers a failed ShouldBind with the offending fields
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleDomainError converts domain errors to HTTP responses. Persistence
// failures and unknown errors are logged and answered with a generic 500.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Kind != shared.KindPersistence {
		resp := dto.Fail(domainErr.Code, domainErr.Message, requestID)
		resp.Error.Kind = string(domainErr.Kind)
		c.JSON(dto.GetHTTPStatus(domainErr.Kind), resp)
		return
	}

	logger.L(c.Request.Context()).Error("request failed",
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, dto.Fail(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
