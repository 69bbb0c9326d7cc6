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

	"github.com/anonto42/picfeed/internal/engine"
	"github.com/anonto42/picfeed/internal/router"
	"github.com/anonto42/picfeed/pkg/config"
	"github.com/anonto42/picfeed/pkg/firebase"
	"github.com/anonto42/picfeed/pkg/logger"
	"github.com/anonto42/picfeed/pkg/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	if err := cfg.Validate(); err != nil {
		zlog.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var firebaseApp *firebase.App
	if cfg.NeedsFirebase() {
		firebaseApp, err = firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket, zlog)
		if err != nil {
			zlog.Fatal("failed to initialize firebase", zap.Error(err))
		}
	}

	store, closeStore, err := buildStore(ctx, cfg, firebaseApp, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize storage", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}
	defer closeStore()

	uploader, err := buildUploader(ctx, cfg, firebaseApp)
	if err != nil {
		zlog.Fatal("failed to initialize media storage", zap.String("backend", cfg.MediaBackend), zap.Error(err))
	}

	auth, err := buildAuth(ctx, cfg, firebaseApp)
	if err != nil {
		zlog.Fatal("failed to initialize authentication", zap.String("mode", cfg.AuthMode), zap.Error(err))
	}

	service := engine.NewService(store, uploader, engine.Options{
		Logger:   zlog,
		Metrics:  engine.NewMetrics(prometheus.DefaultRegisterer),
		PageSize: cfg.FeedPageSize,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, zlog)
	router.SetupRoutes(e, service, auth, zlog)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zlog.Info("metrics listening", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("metrics server stopped", zap.Error(err))
		}
	}()
	go func() {
		zlog.Info("server listening", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageBackend))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("metrics server shutdown", zap.Error(err))
	}
}
