package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"posts-service/internal/auth"
	"posts-service/internal/config"
	apphttp "posts-service/internal/http"
	"posts-service/internal/logging"
	"posts-service/internal/ratelimit"
	"posts-service/internal/repository"
	"posts-service/internal/repository/postgres"
	"posts-service/internal/repository/sqlite"
	"posts-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logger, logFile, err := logging.New(cfg.Log)
	if err != nil {
		logrus.Fatalf("setup logging: %v", err)
	}
	defer logFile.Close()

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer store.Close()

	if err := store.Init(ctx); err != nil {
		logger.Fatalf("init schema: %v", err)
	}

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:    cfg.Auth.SecretKey,
		Algorithm: cfg.Auth.Algorithm,
		TTL:       cfg.TokenTTL(),
	})
	if err != nil {
		logger.Fatalf("setup tokens: %v", err)
	}

	guard := service.NewGuard(tokens, store.Users)
	userService := service.NewUserService(store.Users, auth.NewPasswordHasher(cfg.Auth.BcryptCost))
	postService := service.NewPostService(store.Posts, guard, service.PostOptions{
		DefaultLimit: cfg.Posts.DefaultLimit,
		MaxLimit:     cfg.Posts.MaxLimit,
		Sanitize:     cfg.Posts.Sanitize,
	})
	voteService := service.NewVoteService(store.Votes)

	limiter, closeLimiter := buildLimiter(cfg, logger)
	defer closeLimiter()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	handler := apphttp.NewHandler(apphttp.Options{
		Users:          userService,
		Posts:          postService,
		Votes:          voteService,
		Guard:          guard,
		Tokens:         tokens,
		Limiter:        limiter,
		Logger:         logger,
		Ping:           store.Ping,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func openStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*repository.Store, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		logger.Infof("using sqlite database %s", cfg.Database.Path)
		return sqlite.NewStore(db), nil
	case "postgres":
		pool, err := postgres.Open(ctx, postgres.Options{
			Host:     cfg.Database.Hostname,
			Port:     cfg.Database.Port,
			User:     cfg.Database.Username,
			Password: cfg.Database.Password,
			Database: cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			return nil, err
		}
		logger.Infof("using postgres database %s on %s:%d", cfg.Database.Name, cfg.Database.Hostname, cfg.Database.Port)
		return postgres.NewStore(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// buildLimiter shares counters through redis when configured so that replicas enforce one budget.
func buildLimiter(cfg config.Config, logger *logrus.Logger) (ratelimit.Limiter, func()) {
	if cfg.RateLimit.PerMinute <= 0 {
		logger.Info("rate limiting disabled")
		return nil, func() {}
	}
	if cfg.Redis.Addr == "" {
		return ratelimit.NewMemory(cfg.RateLimit.PerMinute), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	logger.Infof("using redis rate limiter at %s", cfg.Redis.Addr)
	return ratelimit.NewRedis(client, cfg.RateLimit.PerMinute), func() {
		if err := client.Close(); err != nil {
			logger.Warnf("close redis: %v", err)
		}
	}
}
