package repository

import (
	"context"
	"errors"

	"github.com/quizcore/admin-api/internal/domain/entity"
)

// ErrNotFound is returned when no user matches the given identifier.
var ErrNotFound = errors.New("user not found")

// UserRepository defines the interface for user-related database operations.
// List returns users ordered by creation time descending.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	UpdateRole(ctx context.Context, id string, role entity.Role) error
	Delete(ctx context.Context, id string) error
}
