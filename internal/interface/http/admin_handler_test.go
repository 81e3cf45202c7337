package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizcore/admin-api/internal/application"
	"github.com/quizcore/admin-api/internal/domain/entity"
	"github.com/quizcore/admin-api/internal/domain/repository"
	handlers "github.com/quizcore/admin-api/internal/interface/http"
	"github.com/quizcore/admin-api/internal/interface/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUserRepo implements repository.UserRepository with overridable
// functions and a call counter, so tests can assert that unauthorized
// requests never reach persistence.
type fakeUserRepo struct {
	calls int

	listFn       func(ctx context.Context) ([]entity.User, error)
	getFn        func(ctx context.Context, id string) (*entity.User, error)
	updateRoleFn func(ctx context.Context, id string, role entity.Role) error
	deleteFn     func(ctx context.Context, id string) error
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	f.calls++
	return errors.New("not implemented")
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.calls++
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]entity.User, error) {
	f.calls++
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	f.calls++
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id string, role entity.Role) error {
	f.calls++
	if f.updateRoleFn != nil {
		return f.updateRoleFn(ctx, id, role)
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.calls++
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    struct {
		Users []struct {
			ID        string    `json:"id"`
			Email     string    `json:"email"`
			Role      string    `json:"role"`
			CreatedAt time.Time `json:"createdAt"`
		} `json:"users"`
	} `json:"data"`
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newAdminRouter builds the admin route group the way the real module
// does, with the session injected directly instead of going through the
// cookie/Redis middleware.
func newAdminRouter(repo repository.UserRepository, sessionEmail, sessionRole string) *gin.Engine {
	svc := application.NewAdminService(repo, nil, quietLogger(), nil, nil, false)
	h := handlers.NewAdminHandler(svc, quietLogger())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if sessionEmail != "" {
			c.Set(middleware.CtxUserEmailKey, sessionEmail)
			c.Set(middleware.CtxUserRoleKey, sessionRole)
		}
		c.Next()
	})
	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users", h.UpdateRole)
		admin.DELETE("/users", h.DeleteUser)
		admin.GET("/users/search", h.Search)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestAdminRoutesRejectMissingOrNonAdminSession(t *testing.T) {
	cases := []struct {
		name  string
		email string
		role  string
	}{
		{name: "no session"},
		{name: "plain user", email: "u@x.com", role: "user"},
		{name: "malformed role", email: "u@x.com", role: "superuser"},
	}

	requests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/admin/users", nil},
		{http.MethodPut, "/api/admin/users", gin.H{"userId": "u1", "role": "admin"}},
		{http.MethodDelete, "/api/admin/users?userId=u1", nil},
		{http.MethodGet, "/api/admin/users/search?q=x", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeUserRepo{}
			r := newAdminRouter(repo, tc.email, tc.role)

			for _, rq := range requests {
				w, env := doJSON(t, r, rq.method, rq.path, rq.body)
				assert.Equal(t, http.StatusUnauthorized, w.Code)
				assert.False(t, env.Success)
				assert.Equal(t, "Unauthorized", env.Error)
			}
			// Authorization runs before any persistence access.
			assert.Zero(t, repo.calls)
		})
	}
}

func TestListUsersProjection(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	repo := &fakeUserRepo{
		listFn: func(ctx context.Context) ([]entity.User, error) {
			return []entity.User{
				{ID: "u2", Email: "b@x.com", Password: "bcrypt-hash-b", Role: entity.RoleUser, CreatedAt: now},
				{ID: "u1", Email: "a@x.com", Password: "bcrypt-hash-a", Role: entity.RoleAdmin, CreatedAt: now.Add(-time.Hour)},
			}, nil
		},
	}
	r := newAdminRouter(repo, "a@x.com", "admin")

	w, env := doJSON(t, r, http.MethodGet, "/api/admin/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	require.Len(t, env.Data.Users, 2)

	// Most recently created first
	assert.Equal(t, "u2", env.Data.Users[0].ID)
	assert.True(t, !env.Data.Users[0].CreatedAt.Before(env.Data.Users[1].CreatedAt))

	// The password hash must never appear anywhere in the response.
	assert.NotContains(t, w.Body.String(), "bcrypt-hash")
	assert.NotContains(t, strings.ToLower(w.Body.String()), "password")
}

func TestListUsersInternalError(t *testing.T) {
	repo := &fakeUserRepo{
		listFn: func(ctx context.Context) ([]entity.User, error) {
			return nil, errors.New("connection reset by peer")
		},
	}
	r := newAdminRouter(repo, "a@x.com", "admin")

	w, env := doJSON(t, r, http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", env.Error)
	// Cause stays server-side
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestUpdateRoleValidation(t *testing.T) {
	cases := []struct {
		name    string
		body    gin.H
		status  int
		errText string
	}{
		{"missing both", gin.H{}, http.StatusBadRequest, "User ID and role are required"},
		{"missing role", gin.H{"userId": "u1"}, http.StatusBadRequest, "User ID and role are required"},
		{"missing userId", gin.H{"role": "admin"}, http.StatusBadRequest, "User ID and role are required"},
		{"unknown role", gin.H{"userId": "u1", "role": "superadmin"}, http.StatusBadRequest, "Invalid role"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeUserRepo{}
			r := newAdminRouter(repo, "a@x.com", "admin")

			w, env := doJSON(t, r, http.MethodPut, "/api/admin/users", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.errText, env.Error)
			// Validation failures never touch storage.
			assert.Zero(t, repo.calls)
		})
	}
}

func TestUpdateRoleNotFound(t *testing.T) {
	repo := &fakeUserRepo{}
	r := newAdminRouter(repo, "a@x.com", "admin")

	w, env := doJSON(t, r, http.MethodPut, "/api/admin/users", gin.H{"userId": "u9", "role": "admin"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", env.Error)
}

func TestUpdateRoleSelfTarget(t *testing.T) {
	var updates int
	repo := &fakeUserRepo{
		getFn: func(ctx context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Email: "a@x.com", Role: entity.RoleAdmin}, nil
		},
		updateRoleFn: func(ctx context.Context, id string, role entity.Role) error {
			updates++
			return nil
		},
	}
	r := newAdminRouter(repo, "a@x.com", "admin")

	w, env := doJSON(t, r, http.MethodPut, "/api/admin/users", gin.H{"userId": "u1", "role": "user"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot change your own role", env.Error)
	assert.Zero(t, updates)
}

func TestUpdateRoleSuccess(t *testing.T) {
	var gotID string
	var gotRole entity.Role
	repo := &fakeUserRepo{
		getFn: func(ctx context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Email: "b@x.com", Role: entity.RoleUser}, nil
		},
		updateRoleFn: func(ctx context.Context, id string, role entity.Role) error {
			gotID, gotRole = id, role
			return nil
		},
	}
	r := newAdminRouter(repo, "a@x.com", "admin")

	w, env := doJSON(t, r, http.MethodPut, "/api/admin/users", gin.H{"userId": "u1", "role": "admin"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "User role updated to admin", env.Message)
	assert.Equal(t, "u1", gotID)
	assert.Equal(t, entity.RoleAdmin, gotRole)
}

func TestDeleteUserValidation(t *testing.T) {
	repo := &fakeUserRepo{}
	r := newAdminRouter(repo, "a@x.com", "admin")

	w, env := doJSON(t, r, http.MethodDelete, "/api/admin/users", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User ID is required", env.Error)
	assert.Zero(t, repo.calls)
}

func TestDeleteUserNotFound(t *testing.T) {
	repo := &fakeUserRepo{}
	r := newAdminRouter(repo, "a@x.com", "admin")

	w, env := doJSON(t, r, http.MethodDelete, "/api/admin/users?userId=u9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", env.Error)
}

func TestDeleteUserSelfTarget(t *testing.T) {
	var deletes int
	repo := &fakeUserRepo{
		getFn: func(ctx context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Email: "a@x.com", Role: entity.RoleAdmin}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deletes++
			return nil
		},
	}
	r := newAdminRouter(repo, "a@x.com", "admin")

	w, env := doJSON(t, r, http.MethodDelete, "/api/admin/users?userId=u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot delete your own account", env.Error)
	assert.Zero(t, deletes)
}

func TestDeleteUserSuccess(t *testing.T) {
	repo := &fakeUserRepo{
		getFn: func(ctx context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Email: "b@x.com", Role: entity.RoleUser}, nil
		},
	}
	r := newAdminRouter(repo, "a@x.com", "admin")

	w, env := doJSON(t, r, http.MethodDelete, "/api/admin/users?userId=u2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "User deleted successfully", env.Message)
}
