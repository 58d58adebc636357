package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	apiMiddleware "github.com/uetodo/uetodo-api/internal/api/middleware"
	"github.com/uetodo/uetodo-api/internal/config"
	"github.com/uetodo/uetodo-api/internal/platform/mail"
	"github.com/uetodo/uetodo-api/internal/platform/objectstore"
	"github.com/uetodo/uetodo-api/internal/platform/postgres"
	"github.com/uetodo/uetodo-api/internal/platform/ratelimit"
	"github.com/uetodo/uetodo-api/internal/redact"
	"github.com/uetodo/uetodo-api/internal/service"
	"github.com/uetodo/uetodo-api/internal/service/auth"
	"github.com/uetodo/uetodo-api/internal/store"
	"github.com/uetodo/uetodo-api/internal/task"
)

// shutdownTimeout bounds both the HTTP drain and the email worker drain.
const shutdownTimeout = 10 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore  store.UserStore
	taskStore  store.TaskStore
	tokenStore store.TokenStore

	// Services
	jwtService       auth.JWTService
	userService      service.UserService
	tokenService     service.TokenService
	authService      service.AuthService
	taskService      service.TaskService
	dashboardService service.DashboardService

	// Background email delivery
	emailQueue *task.TaskQueue
	workerPool *task.WorkerPool

	// Optional rate limiting; nil when Redis is not configured.
	limiter     apiMiddleware.Limiter
	redisClient *redis.Client
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
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

	codes, err := auth.NewCodeGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize code generator: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)

	loc, err := time.LoadLocation(cfg.Dashboard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard timezone %q: %w", cfg.Dashboard.Timezone, err)
	}

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.tokenStore = postgres.NewPostgresTokenStore(db, logger)

	sender, err := mail.NewSender(cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail sender: %w", err)
	}
	app.emailQueue = task.NewTaskQueue(cfg.Task.QueueSize, logger)
	app.workerPool = task.NewWorkerPool(app.emailQueue, task.WorkerPoolConfig{
		WorkerCount: cfg.Task.WorkerCount,
	}, logger)
	app.workerPool.Start()
	mailer := task.NewEmailDispatcher(app.emailQueue, sender, logger)

	// A typed nil must not reach the service, so the uploader stays an untyped
	// nil interface unless storage is enabled.
	var uploader objectstore.Uploader
	if cfg.Storage.Enabled {
		s3Store, err := objectstore.New(ctx, cfg.Storage, logger)
		if err != nil {
			app.emailQueue.Close()
			app.workerPool.Stop()
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		uploader = s3Store
	}

	app.userService = service.NewUserService(app.userStore, hasher, uploader, db, logger)
	app.tokenService = service.NewTokenService(db, app.tokenStore, app.userStore, app.jwtService, codes, cfg.Auth, logger)
	app.authService = service.NewAuthService(app.userService, app.tokenService, hasher, mailer, cfg.Auth, logger)
	app.taskService = service.NewTaskService(app.taskStore, db, logger)
	app.dashboardService = service.NewDashboardService(app.taskStore, loc, logger)

	if cfg.Redis.Addr != "" {
		client, err := ratelimit.NewClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("rate limiting disabled", "error", redact.Error(err))
		} else {
			app.redisClient = client
			app.limiter = ratelimit.NewLimiter(client, ratelimit.DefaultKeyPrefix,
				cfg.Redis.RateLimitRequests,
				time.Duration(cfg.Redis.RateLimitWindowSecs)*time.Second)
			logger.Info("rate limiting enabled",
				"requests", cfg.Redis.RateLimitRequests,
				"window_seconds", cfg.Redis.RateLimitWindowSecs)
		}
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources. Queued emails
// get until shutdownTimeout to go out.
func (app *application) cleanup() {
	if app.workerPool != nil {
		app.emailQueue.Close()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := app.workerPool.Shutdown(ctx); err != nil {
			app.logger.Warn("email workers did not drain before shutdown", "error", err)
		}
		cancel()
	}

	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", redact.Error(err))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", redact.Error(err))
		}
	}

	app.logger.Info("Application shutdown completed")
}
