package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/notes-api/config"
	"github.com/ErlanBelekov/notes-api/internal/email"
	"github.com/ErlanBelekov/notes-api/internal/health"
	"github.com/ErlanBelekov/notes-api/internal/infrastructure/cache"
	"github.com/ErlanBelekov/notes-api/internal/infrastructure/store"
	ctxlog "github.com/ErlanBelekov/notes-api/internal/log"
	"github.com/ErlanBelekov/notes-api/internal/metrics"
	"github.com/ErlanBelekov/notes-api/internal/repository"
	"github.com/ErlanBelekov/notes-api/internal/security/password"
	"github.com/ErlanBelekov/notes-api/internal/security/token"
	httptransport "github.com/ErlanBelekov/notes-api/internal/transport/http"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/respond"
	"github.com/ErlanBelekov/notes-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	db, err := store.Open(ctx, store.Options{
		Driver:      cfg.DatabaseDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx); err != nil {
			stop()
			log.Fatalf("migrate: %v", err)
		}
	}

	// Users
	var users repository.UserRepository = db.Users
	if cfg.UserCacheTTL > 0 {
		cached, err := cache.NewUserRepository(ctx, db.Users, cfg.UserCacheTTL, logger)
		if err != nil {
			stop()
			log.Fatalf("user cache: %v", err)
		}
		defer cached.Close()
		users = cached
	}

	tokens, err := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		stop()
		log.Fatalf("token service: %v", err)
	}
	hasher := password.NewHasher(cfg.BcryptCost)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	mode := respond.ParseStatusMode(cfg.HTTPStatusMode)

	authUsecase := usecase.NewAuthUsecase(users, hasher, tokens, sender, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Notes
	noteUsecase := usecase.NewNoteUsecase(db.Notes)
	noteHandler := handler.NewNoteHandler(noteUsecase, mode, logger)

	metrics.Register()
	checker := health.NewChecker(db.Driver, db, logger, prometheus.DefaultRegisterer)
	probes, err := checker.Schedule(ctx, cfg.HealthCheckSchedule)
	if err != nil {
		stop()
		log.Fatalf("health schedule: %v", err)
	}

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, authHandler, noteHandler, middleware.Auth(tokens, users, mode, logger), cfg.CORSAllowOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "driver", db.Driver, "status_mode", mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	<-probes.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
