package middleware

import (
	"strings"

	"github.com/xyz-asif/strayrescue/internal/features/identity"
	"github.com/xyz-asif/strayrescue/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Debug headers accepted when allowDebug is set (development only).
const (
	DebugUserHeader = "X-Debug-User-ID"
	DebugRoleHeader = "X-Debug-Role"
)

// Identity resolves the caller from the bearer token and stores the actor on
// the context. Requests without valid credentials are rejected with 401.
func Identity(resolver *identity.Resolver, allowDebug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allowDebug {
			if uid := strings.TrimSpace(c.GetHeader(DebugUserHeader)); uid != "" {
				actor := resolver.ResolveDebug(c.Request.Context(), uid, c.GetHeader(DebugRoleHeader))
				setActor(c, actor)
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header required", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		// Support both "Bearer <token>" (case-insensitive) and raw token in header
		fields := strings.Fields(authHeader)
		var tokenString string
		if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
			tokenString = fields[1]
		} else {
			tokenString = authHeader
		}

		actor, err := resolver.Resolve(c.Request.Context(), tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token", "INVALID_TOKEN")
			c.Abort()
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// setActor also exposes the id and role as plain keys for the rate limiter and request logger.
func setActor(c *gin.Context, actor *identity.Actor) {
	identity.SetOnGin(c, actor)
	c.Set("userID", actor.ID)
	c.Set("role", string(actor.Role))
}
