package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/quizforge/quizforge-api/internal/config"
	"github.com/quizforge/quizforge-api/internal/domain"
	"github.com/quizforge/quizforge-api/internal/platform/postgres"
	"github.com/quizforge/quizforge-api/internal/service"
	"github.com/quizforge/quizforge-api/internal/service/auth"
	"github.com/quizforge/quizforge-api/internal/store"
)

// application holds the shared application dependencies so wiring happens in
// one place and cleanup can release them in order.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	progressStore store.ProgressStore

	// Services
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	progressService  service.ProgressService
}

// newApplication creates the application with all dependencies initialized.
// The configuration, logger and database connection must already be
// established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BCryptCost)
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.progressStore = postgres.NewPostgresProgressStore(db, logger)

	clock := domain.SystemClock{}

	app.userService = service.NewUserService(
		app.userStore,
		app.progressStore,
		app.passwordHasher,
		app.passwordVerifier,
		clock,
		db,
		logger,
	)

	app.progressService = service.NewProgressService(
		app.progressStore,
		clock,
		db,
		logger,
	)

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup releases application resources during shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
