package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizcore/admin-api/internal/domain/entity"
	"github.com/quizcore/admin-api/internal/domain/repository"
)

// mockUserRepository is a hand-rolled mock of repository.UserRepository
// that records which persistence calls were made.
type mockUserRepository struct {
	users map[string]*entity.User
	list  []entity.User

	listErr   error
	getErr    error
	updateErr error
	deleteErr error

	updateRoleCalls int
	deleteCalls     int
	lastRole        entity.Role
	lastID          string
}

func (m *mockUserRepository) Create(ctx context.Context, u *entity.User) error {
	return errors.New("not implemented")
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.list, nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, id string, role entity.Role) error {
	m.updateRoleCalls++
	m.lastID = id
	m.lastRole = role
	if m.updateErr != nil {
		return m.updateErr
	}
	if u, ok := m.users[id]; ok {
		u.Role = role
		return nil
	}
	return repository.ErrNotFound
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	m.deleteCalls++
	m.lastID = id
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.users[id]; ok {
		delete(m.users, id)
		return nil
	}
	return repository.ErrNotFound
}

func newAdminFixture() (*AdminService, *mockUserRepository) {
	repo := &mockUserRepository{
		users: map[string]*entity.User{
			"u1": {ID: "u1", Email: "a@x.com", Role: entity.RoleAdmin, CreatedAt: time.Now()},
			"u2": {ID: "u2", Email: "b@x.com", Role: entity.RoleUser, CreatedAt: time.Now().Add(-time.Hour)},
		},
	}
	// No redis, indexer, or publisher: side effects must be skipped, not panic.
	svc := NewAdminService(repo, nil, nil, nil, nil, false)
	return svc, repo
}

func TestListUsers(t *testing.T) {
	svc, repo := newAdminFixture()
	repo.list = []entity.User{*repo.users["u1"], *repo.users["u2"]}

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestListUsersRepositoryError(t *testing.T) {
	svc, repo := newAdminFixture()
	repo.listErr = errors.New("connection refused")

	_, err := svc.ListUsers(context.Background())
	assert.Error(t, err)
}

func TestUpdateUserRole(t *testing.T) {
	svc, repo := newAdminFixture()

	u, err := svc.UpdateUserRole(context.Background(), "a@x.com", "u2", entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.Equal(t, 1, repo.updateRoleCalls)
	assert.Equal(t, "u2", repo.lastID)
	assert.Equal(t, entity.RoleAdmin, repo.lastRole)
	assert.Equal(t, entity.RoleAdmin, repo.users["u2"].Role)
}

func TestUpdateUserRoleInvalidRole(t *testing.T) {
	svc, repo := newAdminFixture()

	_, err := svc.UpdateUserRole(context.Background(), "a@x.com", "u2", entity.Role("superadmin"))
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Zero(t, repo.updateRoleCalls)
	assert.Equal(t, entity.RoleUser, repo.users["u2"].Role)
}

func TestUpdateUserRoleNotFound(t *testing.T) {
	svc, repo := newAdminFixture()

	_, err := svc.UpdateUserRole(context.Background(), "a@x.com", "missing", entity.RoleAdmin)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Zero(t, repo.updateRoleCalls)
}

func TestUpdateUserRoleSelfTarget(t *testing.T) {
	svc, repo := newAdminFixture()

	// The caller's own account may not be demoted, even with valid inputs.
	_, err := svc.UpdateUserRole(context.Background(), "a@x.com", "u1", entity.RoleUser)
	assert.ErrorIs(t, err, ErrSelfRoleChange)
	assert.Zero(t, repo.updateRoleCalls)
	assert.Equal(t, entity.RoleAdmin, repo.users["u1"].Role)
}

func TestUpdateUserRolePersistenceError(t *testing.T) {
	svc, repo := newAdminFixture()
	repo.updateErr = errors.New("write timeout")

	_, err := svc.UpdateUserRole(context.Background(), "a@x.com", "u2", entity.RoleAdmin)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSelfRoleChange)
}

func TestDeleteUser(t *testing.T) {
	svc, repo := newAdminFixture()

	u, err := svc.DeleteUser(context.Background(), "a@x.com", "u2")
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", u.Email)
	assert.Equal(t, 1, repo.deleteCalls)
	assert.NotContains(t, repo.users, "u2")
}

func TestDeleteUserNotFound(t *testing.T) {
	svc, repo := newAdminFixture()

	_, err := svc.DeleteUser(context.Background(), "a@x.com", "u9")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Zero(t, repo.deleteCalls)
}

func TestDeleteUserSelfTarget(t *testing.T) {
	svc, repo := newAdminFixture()

	_, err := svc.DeleteUser(context.Background(), "a@x.com", "u1")
	assert.ErrorIs(t, err, ErrSelfDelete)
	assert.Zero(t, repo.deleteCalls)
	assert.Contains(t, repo.users, "u1")
}

func TestSearchUsersWithoutIndex(t *testing.T) {
	svc, _ := newAdminFixture()

	// Without an Elasticsearch client the search degrades to empty results.
	hits, err := svc.SearchUsers(context.Background(), "b@x.com", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
