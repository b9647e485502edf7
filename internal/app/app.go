package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"go-course-platform/internal/cache"
	"go-course-platform/internal/config"
	"go-course-platform/internal/database"
	"go-course-platform/internal/handler"
	"go-course-platform/internal/mail"
	"go-course-platform/internal/media"
	"go-course-platform/internal/middleware"
	"go-course-platform/internal/repository"
	"go-course-platform/internal/router"
	"go-course-platform/internal/service"
	"go-course-platform/internal/token"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func(context.Context)
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	slog.Info("connecting to MongoDB")
	db, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName, cfg.DBConnectRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("failed to ensure database indexes: %w", err)
	}
	slog.Info("database ready", "name", cfg.DatabaseName)

	redisClient, err := cache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("redis ready")

	closeAll := func(c context.Context) {
		if err := redisClient.Close(); err != nil {
			slog.Warn("redis close failed", "error", err)
		}
		if err := db.Close(c); err != nil {
			slog.Warn("database close failed", "error", err)
		}
	}

	store, err := newMediaStore(ctx, cfg)
	if err != nil {
		closeAll(context.Background())
		return nil, fmt.Errorf("failed to initialize media store: %w", err)
	}

	mailer, err := newMailer(cfg)
	if err != nil {
		closeAll(context.Background())
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	appRouter := NewHandler(cfg, db, redisClient, store, mailer)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		cleanupFuncs: []func(context.Context){closeAll},
	}, nil
}

// NewHandler wires repositories, services and handlers into the HTTP router.
func NewHandler(cfg *config.Config, db *database.DB, redisClient *redis.Client, store media.Store, mailer service.ActivationMailer) http.Handler {
	tokens := token.NewService()
	sessionCache := cache.NewSessionCache(redisClient)
	userRepo := repository.NewUserRepository(db.Database)
	courseRepo := repository.NewCourseRepository(db.Database)

	sessionService := service.NewSessionService(sessionCache, tokens, service.SessionConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		AccessTTL:     cfg.AccessTTL(),
		RefreshSecret: cfg.RefreshTokenSecret,
		RefreshTTL:    cfg.RefreshTTL(),
	})
	authService := service.NewAuthService(userRepo, sessionService, tokens, mailer, service.ActivationConfig{
		Secret: cfg.ActivationSecret,
		TTL:    cfg.ActivationTTL(),
	})
	userService := service.NewUserService(userRepo, sessionService, store)
	courseService := service.NewCourseService(courseRepo, store)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cookies := handler.CookieConfig{
		Secure:     cfg.IsProduction(),
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
	}

	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(authService, cookies),
		User:    handler.NewUserHandler(userService),
		Course:  handler.NewCourseHandler(courseService),
		Health:  handler.NewHealthHandler(map[string]handler.Pinger{"database": db, "cache": sessionCache}),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	if local, ok := store.(*media.LocalStore); ok {
		handlers.Media = handler.MediaFiles("/media", local.Root())
	}

	return router.New(cfg, middleware.NewAuthMiddleware(sessionService), middleware.NewMetrics(registry), handlers)
}

func newMediaStore(ctx context.Context, cfg *config.Config) (media.Store, error) {
	if cfg.MediaDriver == config.MediaDriverS3 {
		slog.Info("media store: s3", "bucket", cfg.S3Bucket, "region", cfg.S3Region)
		return media.NewS3Store(ctx, media.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
		})
	}

	slog.Info("media store: local", "root", cfg.MediaLocalRoot)
	return media.NewLocalStore(cfg.MediaLocalRoot, cfg.MediaPublicURL)
}

func newMailer(cfg *config.Config) (service.ActivationMailer, error) {
	if !cfg.SMTPConfigured() {
		if cfg.IsProduction() {
			return nil, errors.New("SMTP_HOST is required in production")
		}
		slog.Warn("SMTP not configured, activation codes will be logged")
		return mail.LogMailer{}, nil
	}

	mailer, err := mail.NewMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		return nil, err
	}
	return mailer, nil
}

func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		if err != nil {
			a.cleanup(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.cleanup(shutdownCtx)
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.cleanup(shutdownCtx)
	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup(ctx context.Context) {
	for _, fn := range a.cleanupFuncs {
		fn(ctx)
	}
}
