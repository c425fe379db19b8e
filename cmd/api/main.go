package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-api-employees/internal/config"
	"github.com/go-api-employees/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-api-employees/internal/infrastructure/jwt"
	"github.com/go-api-employees/internal/infrastructure/postgres"
	redisinfra "github.com/go-api-employees/internal/infrastructure/redis"
	s3infra "github.com/go-api-employees/internal/infrastructure/s3"
	"github.com/go-api-employees/internal/infrastructure/smtp"
	"github.com/go-api-employees/internal/infrastructure/spreadsheet"
	transporthttp "github.com/go-api-employees/internal/transport/http"
	appmiddleware "github.com/go-api-employees/internal/transport/http/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	setupLogger(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	userRepo, sessionRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	redisClient, err := redisinfra.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	s3Store := s3infra.NewStore(s3infra.NewClient(cfg), cfg.S3BucketName, cfg.S3PublicURL)

	// 5 requests/second, burst of 10.
	limiter := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	defer limiter.Stop()

	deps := &transporthttp.Deps{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		ObjectStore: s3Store,
		Cache:       redisinfra.NewCache(redisClient, "employee-api"),
		Parser:      spreadsheet.NewParser(),
		Mailer:      smtp.NewMailer(cfg),
		JWTProvider: jwtProvider,
		RateLimiter: limiter,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	slog.Info("server stopped")
}

func setupLogger(level, format string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// openStore builds the user and session repositories for the configured backend.
func openStore(ctx context.Context, cfg *config.Config) (transporthttp.UserRepository, transporthttp.SessionRepository, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return postgres.NewUserRepo(db), postgres.NewSessionRepo(db), closeDB(db), nil
	case "dynamo", "":
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		return dynamo.NewUserRepo(client, cfg.DynamoTables.Users),
			dynamo.NewSessionRepo(client, cfg.DynamoTables.Sessions),
			func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			slog.Warn("close database", "err", err)
		}
	}
}
