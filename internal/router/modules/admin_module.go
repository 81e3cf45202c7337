package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizcore/admin-api/internal/container"
	handlers "github.com/quizcore/admin-api/internal/interface/http"
	"github.com/quizcore/admin-api/internal/interface/middleware"
	"github.com/quizcore/admin-api/pkg/helpers"
)

// AdminModule wires the admin user directory under /api/admin.
// GET    /api/admin/users         list users
// PUT    /api/admin/users         update a user's role
// DELETE /api/admin/users         delete a user (?userId=...)
// GET    /api/admin/users/search  search the directory
// Every route requires an authenticated session with the admin role.

type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.PUT("/users", m.Handler.UpdateRole)
		admin.DELETE("/users", m.Handler.DeleteUser)
		admin.GET("/users/search", m.Handler.Search)
	}
}
