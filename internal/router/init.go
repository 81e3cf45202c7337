package router

import (
	"github.com/quizcore/admin-api/internal/application"
	"github.com/quizcore/admin-api/internal/container"
	pginfra "github.com/quizcore/admin-api/internal/infrastructure/postgres"
	handlers "github.com/quizcore/admin-api/internal/interface/http"
	"github.com/quizcore/admin-api/internal/router/modules"
)

// InitModules initializes all application modules and registers them with
// the router registry. Called once during application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	indexer := application.NewUserIndexer(container.GetES(), cfg.ESUsersIndex, logger)

	authSvc := application.NewAuthService(
		repo,
		container.GetJWT(),
		container.GetRedis(),
		logger,
		cfg.SessionTTL,
		indexer,
	)
	adminSvc := application.NewAdminService(
		repo,
		container.GetRedis(),
		logger,
		indexer,
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
	)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	adminHandler := handlers.NewAdminHandler(adminSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewAdminModule(adminHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
