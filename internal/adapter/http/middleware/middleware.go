package middleware

import (
	"net/http"
	"strings"
	"time"

	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"
	"warehouse-api/pkg/apperror"
	"warehouse-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// Header names for API key authentication
	HeaderAPIKey = "X-API-Key"

	// Context keys
	CtxPrincipal = "principal"
	CtxUserID    = "user_id"
	CtxUserRole  = "user_role"
)

// ParseCredential extracts the presented API key token. X-API-Key wins
// over Authorization; a "Bearer " prefix on the latter is stripped.
func ParseCredential(xAPIKey, authorization string) (string, bool) {
	if xAPIKey != "" {
		return xAPIKey, true
	}
	if authorization == "" {
		return "", false
	}
	token := strings.TrimPrefix(authorization, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// APIKeyAuth creates a middleware that resolves the presented API key to
// a principal. Unknown, revoked and expired keys are rejected with
// distinct errors before any handler runs.
func APIKeyAuth(keySvc ports.APIKeyService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := ParseCredential(c.GetHeader(HeaderAPIKey), c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, apperror.ErrUnauthenticated())
			c.Abort()
			return
		}

		principal, err := keySvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(CtxPrincipal, principal)
		c.Next()
	}
}

// RequirePermission creates a middleware that gates a route on one key
// permission. It must run after APIKeyAuth; a missing principal is a
// wiring bug and surfaces as a 500, not an auth failure.
func RequirePermission(perm domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil || principal.Key == nil {
			response.Error(c, apperror.ErrGuardMisuse())
			c.Abort()
			return
		}

		if !principal.Key.HasPermission(perm) {
			response.Error(c, apperror.ErrPermissionDenied(string(perm), principal.Key.Permissions))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetPrincipal returns the principal bound by APIKeyAuth, or nil.
func GetPrincipal(c *gin.Context) *domain.Principal {
	v, exists := c.Get(CtxPrincipal)
	if !exists {
		return nil
	}
	principal, ok := v.(*domain.Principal)
	if !ok {
		return nil
	}
	return principal
}

// SessionAuth creates a middleware that validates session JWTs for the
// management surface.
func SessionAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		tokenStr := authHeader[7:]
		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
