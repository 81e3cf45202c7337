package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/quizcore/admin-api/internal/application"
	"github.com/quizcore/admin-api/internal/domain/entity"
	"github.com/quizcore/admin-api/internal/domain/repository"
	"github.com/quizcore/admin-api/internal/interface/middleware"
	"github.com/quizcore/admin-api/pkg/response"
	"github.com/quizcore/admin-api/pkg/validation"
)

// AdminHandler exposes the admin user directory: list, role update and
// delete. Routes are expected to sit behind the Auth and RequireAdmin
// middlewares; handlers read the caller's email from the Gin context.
type AdminHandler struct {
	Svc    *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

type updateRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// userView is the list/update projection: no password, ever.
type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toView(u *entity.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

// ListUsers GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.internal(c, "list users failed", err)
		return
	}
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, toView(&users[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"users": views}, "users", nil)
}

// UpdateRole PUT /api/admin/users {userId, role}
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "Invalid request body", validation.ToDetails(err))
		return
	}
	if req.UserID == "" || req.Role == "" {
		response.Error[any](c, http.StatusBadRequest, "User ID and role are required", nil)
		return
	}
	role, ok := entity.ParseRole(req.Role)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "Invalid role", nil)
		return
	}

	callerEmail := c.GetString(middleware.CtxUserEmailKey)
	_, err := h.Svc.UpdateUserRole(c.Request.Context(), callerEmail, req.UserID, role)
	switch {
	case err == nil:
		response.Success[any](c, http.StatusOK, nil, fmt.Sprintf("User role updated to %s", role), nil)
	case errors.Is(err, repository.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, application.ErrSelfRoleChange):
		response.Error[any](c, http.StatusBadRequest, "Cannot change your own role", nil)
	case errors.Is(err, application.ErrInvalidRole):
		response.Error[any](c, http.StatusBadRequest, "Invalid role", nil)
	default:
		h.internal(c, "update role failed", err)
	}
}

// DeleteUser DELETE /api/admin/users?userId=...
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.Error[any](c, http.StatusBadRequest, "User ID is required", nil)
		return
	}

	callerEmail := c.GetString(middleware.CtxUserEmailKey)
	_, err := h.Svc.DeleteUser(c.Request.Context(), callerEmail, userID)
	switch {
	case err == nil:
		response.Success[any](c, http.StatusOK, nil, "User deleted successfully", nil)
	case errors.Is(err, repository.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, application.ErrSelfDelete):
		response.Error[any](c, http.StatusBadRequest, "Cannot delete your own account", nil)
	default:
		h.internal(c, "delete user failed", err)
	}
}

// Search GET /api/admin/users/search?q=...&size=...
func (h *AdminHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		h.internal(c, "user search failed", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hits": hits}, "search results", nil)
}

// internal logs the cause with request context and hides it from the caller.
func (h *AdminHandler) internal(c *gin.Context, msg string, err error) {
	if h.Logger != nil {
		h.Logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error(msg)
	}
	response.Error[any](c, http.StatusInternalServerError, "Internal server error", nil)
}
