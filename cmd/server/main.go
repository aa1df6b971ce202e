package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/convoo/convoo-backend/config"
	"github.com/convoo/convoo-backend/internal/email"
	"github.com/convoo/convoo-backend/internal/expiry"
	"github.com/convoo/convoo-backend/internal/health"
	"github.com/convoo/convoo-backend/internal/infrastructure/mongodb"
	ctxlog "github.com/convoo/convoo-backend/internal/log"
	"github.com/convoo/convoo-backend/internal/metrics"
	httptransport "github.com/convoo/convoo-backend/internal/transport/http"
	"github.com/convoo/convoo-backend/internal/transport/http/handler"
	"github.com/convoo/convoo-backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}

	userRepo := mongodb.NewUserRepository(db)
	pendingRepo := mongodb.NewPendingUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		stop()
		log.Fatalf("indexes: %v", err)
	}
	if err := pendingRepo.EnsureIndexes(ctx); err != nil {
		stop()
		log.Fatalf("indexes: %v", err)
	}

	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	verificationUsecase := usecase.NewVerificationUsecase(pendingRepo, userRepo, sender, []byte(cfg.JWTSecret), cfg.FrontendURL)
	authUsecase := usecase.NewAuthUsecase(userRepo, []byte(cfg.JWTSecret))
	authHandler := handler.NewAuthHandler(verificationUsecase, authUsecase, logger, cfg.Env != "local")

	metrics.Register()
	checker := health.NewChecker(db, logger, prometheus.DefaultRegisterer)

	sweeper := expiry.NewSweeper(pendingRepo, logger, time.Duration(cfg.SweepIntervalMin)*time.Minute)
	if err := sweeper.Start(); err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, []byte(cfg.JWTSecret)),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
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

	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		logger.Error("db disconnect", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
