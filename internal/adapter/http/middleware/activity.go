package middleware

import (
	"fmt"

	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityTrail creates a middleware that records successful write
// operations on the public surface. Recording is detached and
// best-effort; it never affects the response.
func ActivityTrail(activitySvc ports.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only record successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		var userID uuid.UUID
		if principal := GetPrincipal(c); principal != nil && principal.User != nil {
			userID = principal.User.ID
		} else if v, exists := c.Get(CtxUserID); exists {
			if id, ok := v.(uuid.UUID); ok {
				userID = id
			}
		}

		activitySvc.Record(c.Request.Context(), &domain.ActivityLog{
			Action:      actionForRequest(c.Request.Method),
			Description: fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status()),
			Entity:      "order",
			UserID:      userID,
			IPAddress:   c.ClientIP(),
		})
	}
}

func actionForRequest(method string) string {
	switch method {
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	}
	return "write"
}
