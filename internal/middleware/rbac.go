package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fazeltamana/Portal/internal/models"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
	"github.com/fazeltamana/Portal/pkg/response"
)

// RequireRoles rejects requests whose token role set does not intersect the
// allowed roles. Route-level RBAC is a coarse first gate; services re-check
// authorization on every operation.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		actor := claims.Actor()
		if actor.HasAnyRole(roles...) {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}
