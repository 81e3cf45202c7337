package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/quizcore/admin-api/internal/domain/entity"
)

// RequireAdmin gates a route group on the session role being admin. An
// absent or malformed role is treated the same as a non-admin one: the
// request is rejected before any input parsing or persistence access.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := entity.ParseRole(c.GetString(CtxUserRoleKey))
		if !ok || role != entity.RoleAdmin {
			unauthorized(c)
			return
		}
		c.Next()
	}
}
