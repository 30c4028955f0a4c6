package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/api"
	"hotel-booking-backend/internal/auth"
	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/db"
	"hotel-booking-backend/internal/guest"
	"hotel-booking-backend/internal/importer"
	"hotel-booking-backend/internal/listing"
	"hotel-booking-backend/internal/mw"
	"hotel-booking-backend/internal/notification"
	"hotel-booking-backend/internal/store"
)

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger := newLogger(cfg.Log)
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(logger.GetLevel())
	logger.Infof("configuration loaded successfully from %s", configPath)

	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Info("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	pages := mw.NewResponseCache(cfg.Server.CacheTTL)

	deps := api.Deps{
		Listing:       listing.NewFacade(appStore, appStore),
		Guests:        guest.NewService(appStore, guest.WithLogger(logger)),
		Bookings:      booking.NewEngine(appStore, appStore, appStore, booking.WithLogger(logger)),
		Auth:          auth.NewManager(cfg.Auth),
		Subscriptions: appStore,
		Pages:         pages,
		Log:           logger,
	}

	if cfg.Push.Enabled() {
		options := notification.OptionsFromConfig(cfg.Push)
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, appStore, options,
			notification.WithLogger(logger))
		pool.Start(ctx)
		deps.Notifier = pool
		deps.WebPush = options
		logger.Infof("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Warn("VAPID keys are not configured; booking notifications are disabled")
	}

	// Seed and sync the catalog in the background
	importerSvc := importer.NewService(&cfg.Importer, appStore,
		importer.WithLogger(logger), importer.WithOnChange(pages.Flush))
	go importerSvc.Run(ctx)

	router := api.NewRouter(api.NewHandler(deps), cfg)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Infof("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Info("Server gracefully stopped")
}
