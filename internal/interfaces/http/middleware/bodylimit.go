package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallerp/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. A
// declared Content-Length above maxBytes is rejected up front; streamed
// bodies fail on read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.Fail(dto.ErrCodeTooLarge, "Request body exceeds maximum allowed size", GetRequestID(c)))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
