package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskify-app/taskify-api/internal/api/middleware"
	"github.com/taskify-app/taskify-api/internal/config"
	"github.com/taskify-app/taskify-api/internal/platform/mail"
	"github.com/taskify-app/taskify-api/internal/platform/postgres"
	"github.com/taskify-app/taskify-api/internal/service"
	"github.com/taskify-app/taskify-api/internal/service/auth"
	"github.com/taskify-app/taskify-api/internal/store"
)

// dependencies are the infrastructure the application is assembled from.
// Production builds them over PostgreSQL; tests substitute in-memory stores.
type dependencies struct {
	users       store.UserStore
	lists       store.ListStore
	tasks       store.TaskStore
	preferences store.PreferenceStore
	tx          store.TxRunner
	mailer      mail.Mailer
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService  auth.JWTService
	userService service.UserService
	sessions    service.SessionService
	resets      service.PasswordResetService
	lists       service.ListService
	tasks       service.TaskService

	authLimiter *middleware.KeyedRateLimiter
}

// newApplication wires the PostgreSQL-backed application.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	deps := dependencies{
		users:       postgres.NewPostgresUserStore(db, logger),
		lists:       postgres.NewPostgresListStore(db, logger),
		tasks:       postgres.NewPostgresTaskStore(db, logger),
		preferences: postgres.NewPostgresPreferenceStore(db, logger),
		tx:          store.NewTxRunner(db),
		mailer:      mail.New(cfg.Mail, logger),
	}

	app, err := assembleApplication(cfg, logger, deps)
	if err != nil {
		return nil, err
	}
	app.db = db
	return app, nil
}

// assembleApplication builds the services over deps.
func assembleApplication(cfg *config.Config, logger *slog.Logger, deps dependencies) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Duration("access_token_lifetime", cfg.Auth.AccessTokenLifetime))

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.userService, err = service.NewUserService(deps.users, deps.tx, hasher, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.sessions, err = service.NewSessionService(deps.users, deps.tx, app.jwtService, hasher, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}

	app.resets, err = service.NewPasswordResetService(
		deps.users,
		deps.tx,
		app.jwtService,
		hasher,
		deps.mailer,
		cfg.Mail.ResetURLBase,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create password reset service: %w", err)
	}

	app.lists, err = service.NewListService(deps.users, deps.lists, deps.preferences, deps.tx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create list service: %w", err)
	}

	app.tasks, err = service.NewTaskService(deps.lists, deps.tasks, deps.tx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.authLimiter = middleware.NewKeyedRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.authLimiter != nil {
		app.authLimiter.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
