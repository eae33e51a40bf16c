package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallerp/backend/internal/infrastructure/auth"
	"github.com/smallerp/backend/internal/infrastructure/logger"
	"github.com/smallerp/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys and headers
const (
	JWTClaimsKey  = "jwt_claims"
	UserIDKey     = "user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	UserIDHeader  = "X-User-ID"
)

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	// JWTService validates bearer tokens. When nil, authentication is
	// disabled and the X-User-ID header names the acting user.
	JWTService *auth.JWTService
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// DefaultAuthConfig returns default authentication configuration
func DefaultAuthConfig(jwtService *auth.JWTService, log *zap.Logger) AuthConfig {
	return AuthConfig{
		JWTService:       jwtService,
		SkipPaths:        []string{"/health", "/api/v1/health"},
		SkipPathPrefixes: []string{"/swagger"},
		Logger:           log,
	}
}

// Auth resolves the acting user for every request. With a JWTService it
// requires a valid bearer token and takes the user from its user_id claim.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if cfg.JWTService == nil {
			if userID := strings.TrimSpace(c.GetHeader(UserIDHeader)); userID != "" {
				setUser(c, userID)
			}
			c.Next()
			return
		}

		if shouldSkip(c.Request.URL.Path, cfg) {
			c.Next()
			return
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		setUser(c, claims.UserID)

		c.Next()
	}
}

func setUser(c *gin.Context, userID string) {
	c.Set(UserIDKey, userID)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))
}

func shouldSkip(path string, cfg AuthConfig) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func abortUnauthorized(c *gin.Context, cfg AuthConfig, err error, message string) {
	logger.Enrich(c.Request.Context(), cfg.Logger).Warn("authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code, msg := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID),
		errors.Is(err, auth.ErrTokenNotYetValid):
		code, msg = dto.ErrCodeTokenInvalid, "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail(code, msg, GetRequestID(c)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetUserID returns the acting user's id resolved by Auth, or ""
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
