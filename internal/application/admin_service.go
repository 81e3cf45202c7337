package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/quizcore/admin-api/internal/domain/entity"
	repo "github.com/quizcore/admin-api/internal/domain/repository"
	"github.com/quizcore/admin-api/pkg/helpers"
	"github.com/quizcore/admin-api/pkg/mailer"
)

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrSelfRoleChange = errors.New("cannot change own role")
	ErrSelfDelete     = errors.New("cannot delete own account")
)

// AdminService implements the admin user directory: list, role update and
// delete over the user collection. The caller's session email is an
// explicit argument so the self-targeting rules are testable inputs, not
// ambient state. Session, index and mail side effects are best-effort and
// never fail the operation once the write has been persisted.
type AdminService struct {
	Repo        repo.UserRepository
	Redis       *redis.Client
	Logger      *logrus.Logger
	Index       *UserIndexer
	Pub         *helpers.RabbitPublisher
	MailEnabled bool
}

func NewAdminService(r repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, idx *UserIndexer, pub *helpers.RabbitPublisher, mailEnabled bool) *AdminService {
	return &AdminService{Repo: r, Redis: rdb, Logger: logger, Index: idx, Pub: pub, MailEnabled: mailEnabled}
}

// ListUsers returns every user, most recently created first.
func (s *AdminService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.Repo.List(ctx)
}

// UpdateUserRole sets the target user's role. The target may not be the
// caller's own account.
func (s *AdminService) UpdateUserRole(ctx context.Context, callerEmail, userID string, role entity.Role) (*entity.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Email == callerEmail {
		return nil, ErrSelfRoleChange
	}
	if err := s.Repo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	u.Role = role
	u.UpdatedAt = time.Now()

	s.refreshSessionRole(ctx, u)
	s.Index.Index(ctx, u)
	s.notify(ctx, u.Email, mailer.TemplateRoleChanged, map[string]any{"Email": u.Email, "Role": role.String()})

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": role.String(), "by": callerEmail}).Info("user role updated")
	}
	return u, nil
}

// DeleteUser removes the target user permanently. The target may not be
// the caller's own account.
func (s *AdminService) DeleteUser(ctx context.Context, callerEmail, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Email == callerEmail {
		return nil, ErrSelfDelete
	}
	if err := s.Repo.Delete(ctx, userID); err != nil {
		return nil, err
	}

	s.revokeSession(ctx, u.ID)
	s.Index.Remove(ctx, u.ID)
	s.notify(ctx, u.Email, mailer.TemplateAccountDeleted, map[string]any{"Email": u.Email})

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email, "by": callerEmail}).Info("user deleted")
	}
	return u, nil
}

// SearchUsers queries the Elasticsearch projection of the directory.
func (s *AdminService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return s.Index.Search(ctx, q, size)
}

// refreshSessionRole pushes the new role into the target's live session so
// the change takes effect without waiting for re-login.
func (s *AdminService) refreshSessionRole(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := sessionKey(u.ID)
	exists, err := s.Redis.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}
	if err := s.Redis.HSet(ctx, key, "role", u.Role.String()).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("session role refresh failed")
	}
}

func (s *AdminService) revokeSession(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session revoke failed")
	}
}

func (s *AdminService) notify(ctx context.Context, to, template string, data map[string]any) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("failed to publish email job")
	}
}
