package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/softqual/evaluation-server/internal/auth"
	"github.com/softqual/evaluation-server/internal/config"
	"github.com/softqual/evaluation-server/internal/httpapi"
	"github.com/softqual/evaluation-server/internal/repository"
	"github.com/softqual/evaluation-server/internal/service"
	"github.com/softqual/evaluation-server/pkg/cache"
	dbbuilder "github.com/softqual/evaluation-server/pkg/database"
	"github.com/softqual/evaluation-server/pkg/httpserver"
)

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	httpServer *httpserver.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbPool, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithInitStatements("PRAGMA foreign_keys = ON"),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	if err := repository.EnsureSchema(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("schema init failed: %w", err)
	}

	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
	)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))

	evaluationRepo := repository.NewEvaluationRepository(dbPool)

	evaluationService := service.NewEvaluationService(evaluationRepo, logger)
	reportingService := service.NewReportingService(evaluationRepo, logger)

	handlers := httpapi.NewHandlers(evaluationService, reportingService, cacheClient, logger, cfg.CacheTTL)

	router := buildRouter(cfg, logger, handlers)

	httpServer, err := httpserver.New(
		httpserver.WithPort(cfg.HTTPPort),
		httpserver.WithLogger(logger),
		httpserver.WithHandler(router),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		httpServer: httpServer,
	}, nil
}

func buildRouter(cfg *config.Config, logger *zap.Logger, handlers *httpapi.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(httpserver.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(pr chi.Router) {
		if cfg.AuthSecret != "" {
			pr.Use(auth.Middleware(auth.NewAuthService(cfg.AuthSecret)))
		}
		pr.Mount("/", handlers.Routes())
	})

	return r
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.httpServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	a.logger.Info("graceful shutdown completed")

	_ = a.logger.Sync()
	return nil
}
