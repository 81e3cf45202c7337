package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/quizcore/admin-api/pkg/helpers"
	"github.com/quizcore/admin-api/pkg/response"
)

// Gin context keys set by Auth on success.
const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
	CtxUserRoleKey  = "userRole"
)

// Auth validates the access token cookie and ensures an active session
// exists in Redis with a matching session id. It sets userID, userEmail and
// userRole in the Gin context on success. Every failure mode is reported as
// a plain Unauthorized: callers learn nothing about which check failed.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			unauthorized(c)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			unauthorized(c)
			return
		}

		// Retrieve session from Redis as a hash
		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			unauthorized(c)
			return
		}
		// A rotated or revoked session invalidates older tokens
		if data["sid"] != claims.SessionID {
			unauthorized(c)
			return
		}

		c.Set(CtxUserIDKey, data["user_id"])
		c.Set(CtxUserEmailKey, data["email"])
		c.Set(CtxUserRoleKey, data["role"])
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	response.Error[any](c, http.StatusUnauthorized, "Unauthorized", nil)
	c.Abort()
}
