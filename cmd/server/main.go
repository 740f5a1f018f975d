package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medsecure/medsecure-api/internal/attachment"
	"github.com/medsecure/medsecure-api/internal/config"
	"github.com/medsecure/medsecure-api/internal/gateway"
	"github.com/medsecure/medsecure-api/internal/poller"
	"github.com/medsecure/medsecure-api/internal/router"
	"github.com/medsecure/medsecure-api/internal/service"
	"github.com/medsecure/medsecure-api/internal/storage"
	"github.com/medsecure/medsecure-api/internal/store"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting Med-Secure API server...")

	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"config_path": configPath,
		"log_level":   logger.GetLevel().String(),
	}).Info("Configuration loaded successfully")

	backend, err := openBackend(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize storage backend")
	}
	defer backend.Close()

	logger.WithField("backend", cfg.Storage.Backend).Info("Storage backend initialized")

	gatewayClient := gateway.NewClient(&cfg.Gateway, logger)
	attachmentClient := attachment.NewClient(&cfg.Attachment, logger)

	requestStore := store.NewRequestStore(backend, gatewayClient, logger)
	profileStore := store.NewProfileStore(backend, logger)
	ehrService := service.NewEHRService(gatewayClient, logger)
	statsService := service.NewStatsService(requestStore, gatewayClient, logger)

	logger.Info("Services initialized successfully")

	// Creations interrupted before ledger confirmation are surfaced at
	// startup so an operator can reconcile them.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	if orphaned, err := requestStore.FindPendingConfirmations(startupCtx); err == nil && len(orphaned) > 0 {
		logger.WithField("count", len(orphaned)).Warn("Requests awaiting ledger confirmation found in storage")
	}
	cancelStartup()

	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()

	if cfg.Polling.Enabled {
		statsPoller := poller.New(cfg.Polling.Interval, logger)
		go statsPoller.Run(pollCtx, statsService.Refresh)
		logger.WithField("interval", cfg.Polling.Interval.String()).Info("Dashboard polling started")
	}

	ginRouter := router.SetupRouter(&router.Dependencies{
		Config:           cfg,
		Logger:           logger,
		RequestStore:     requestStore,
		ProfileStore:     profileStore,
		Gateway:          gatewayClient,
		AttachmentClient: attachmentClient,
		EHRService:       ehrService,
		StatsService:     statsService,
	})

	serverAddr := cfg.Server.GetServerAddress()
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        ginRouter,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		logger.WithField("addr", serverAddr).Info("Starting HTTP server...")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopPolling()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited gracefully")
}

func openBackend(cfg *config.Config, logger *logrus.Logger) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return storage.NewMemoryBackend(), nil
	case config.BackendSQL:
		return storage.NewSQLBackend(&cfg.Storage.SQL, logger)
	default:
		return storage.NewLevelDBBackend(cfg.Storage.Path, logger)
	}
}
