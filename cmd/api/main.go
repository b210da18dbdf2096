// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"

	"github.com/carterperez-dev/quiz-platform/internal/admin"
	"github.com/carterperez-dev/quiz-platform/internal/audit"
	"github.com/carterperez-dev/quiz-platform/internal/auth"
	"github.com/carterperez-dev/quiz-platform/internal/config"
	"github.com/carterperez-dev/quiz-platform/internal/core"
	"github.com/carterperez-dev/quiz-platform/internal/dashboard"
	"github.com/carterperez-dev/quiz-platform/internal/game"
	"github.com/carterperez-dev/quiz-platform/internal/health"
	"github.com/carterperez-dev/quiz-platform/internal/middleware"
	"github.com/carterperez-dev/quiz-platform/internal/question"
	"github.com/carterperez-dev/quiz-platform/internal/role"
	"github.com/carterperez-dev/quiz-platform/internal/server"
	"github.com/carterperez-dev/quiz-platform/internal/theme"
	"github.com/carterperez-dev/quiz-platform/internal/user"
)

const (
	drainDelay           = 5 * time.Second
	sessionPruneInterval = time.Hour
)

type options struct {
	configPath   string
	migrate      bool
	seedDemo     bool
	generateKeys bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.yaml", "path to config file")
	flag.BoolVar(&opts.migrate, "migrate", false, "apply pending schema migrations before serving")
	flag.BoolVar(&opts.seedDemo, "seed-demo", false, "create the demo admin, teacher and player accounts")
	flag.BoolVar(&opts.generateKeys, "generate-keys", false, "write a new ES256 key pair to the configured paths and exit")
	flag.Parse()

	if err := run(opts); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(opts options) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	logger, syncLogger, err := setupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer syncLogger()
	slog.SetDefault(logger)

	if opts.generateKeys {
		if err := auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
			return err
		}
		logger.Info("generated ES256 key pair",
			"private_key", cfg.JWT.PrivateKeyPath,
			"public_key", cfg.JWT.PublicKeyPath,
		)
		return nil
	}

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	switch {
	case errors.Is(err, core.ErrTelemetryDisabled):
		logger.Info("tracing disabled")
	case err != nil:
		logger.Warn("failed to initialize telemetry", "error", err)
	default:
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
			"sample_rate", cfg.Otel.SampleRate,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if opts.migrate {
		applied, migErr := db.Migrate(ctx)
		if migErr != nil {
			return migErr
		}
		logger.Info("migrations applied", "count", applied)
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	roleResolver := role.NewResolver(role.NewRepository(db.Conn()))

	auditRepo := audit.NewRepository(db.Conn())
	recorder := audit.NewRecorder(auditRepo, cfg.Audit.WriteTimeout, registry)
	auditSvc := audit.NewService(auditRepo, cfg.Audit.ListLimit)

	userSvc := user.NewService(user.NewRepository(db.Conn()), roleResolver, recorder)

	if opts.seedDemo {
		if err := seedDemoAccounts(ctx, userSvc, roleResolver, logger); err != nil {
			return err
		}
	}

	authSvc := auth.NewService(auth.Deps{
		Tokens:     auth.NewRepository(db.Conn()),
		JWT:        jwtManager,
		Users:      userSvc,
		Roles:      roleResolver,
		Audit:      recorder,
		Blacklist:  auth.NewRedisBlacklist(redis.Client),
		Config:     cfg.Auth,
		Registerer: registry,
	})

	gameSvc := game.NewService(game.NewRepository(db.Conn()), recorder)
	questionSvc := question.NewService(question.NewRepository(db.Conn(), db), recorder)
	themeSvc := theme.NewService(theme.NewRepository(db.Conn()), roleResolver, recorder)
	dashboardSvc := dashboard.NewService(dashboard.NewRepository(db.Conn()), auditSvc, roleResolver)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Sessions:   authSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.CaptureOrigin)
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(middleware.NewMetrics(registry).Handler)
	}
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Method(http.MethodGet, cfg.Metrics.Path,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin
	onLoginLimited := func(r *http.Request, key string) {
		logger.Warn("credential endpoint rate limited",
			"key", key,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}
	loginLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:     middleware.PerMinute(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateBurst),
		KeyFunc:   middleware.KeyByIPAndEndpoint,
		OnLimited: onLoginLimited,
	}).Handler

	requirePerm := func(perm string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(roleResolver, perm)
	}

	router.Route("/v1", func(r chi.Router) {
		auth.NewHandler(authSvc, cfg.Auth).RegisterRoutes(r, authenticator, loginLimiter)

		userHandler := user.NewHandler(userSvc)
		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, requirePerm(role.PermManageUsers))

		role.NewHandler(roleResolver).RegisterRoutes(r, authenticator, requirePerm(role.PermManageUsers))
		audit.NewHandler(auditSvc).RegisterRoutes(r, authenticator, requirePerm(role.PermViewActivity))

		game.NewHandler(gameSvc).RegisterRoutes(r, authenticator, requirePerm(role.PermManageGames))
		question.NewHandler(questionSvc).RegisterRoutes(r, authenticator, requirePerm(role.PermManageQuestions))
		theme.NewHandler(themeSvc).RegisterRoutes(r, authenticator)
		dashboard.NewHandler(dashboardSvc).RegisterRoutes(r, authenticator)

		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	go pruneSessions(ctx, authSvc, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// pruneSessions deletes expired and long-revoked refresh tokens until ctx
// is cancelled.
func pruneSessions(ctx context.Context, sessions admin.SessionPruner, logger *slog.Logger) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.PruneExpiredSessions(ctx)
			if err != nil {
				logger.Error("session prune failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("pruned expired sessions", "removed", removed)
			}
		}
	}
}

// setupLogger builds a zap core and exposes it through slog. The returned
// func flushes buffered entries.
func setupLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
		zcfg.Sampling = nil
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stdout"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	zl, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	handler := zapslog.NewHandler(zl.Core(), zapslog.WithCaller(true))
	return slog.New(handler), func() { _ = zl.Sync() }, nil
}
