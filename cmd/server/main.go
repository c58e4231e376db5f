package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "tenantvault-backend/internal/api/http"
	"tenantvault-backend/internal/cache"
	"tenantvault-backend/internal/config"
	"tenantvault-backend/internal/jobs"
	"tenantvault-backend/internal/logger"
	"tenantvault-backend/internal/repository/postgres"
	"tenantvault-backend/internal/security"
	"tenantvault-backend/internal/service"
	"tenantvault-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Tenant Vault backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Storage Provider
	var objectHandler *httpapi.ObjectHandler
	var storageProvider storage.Provider
	if cfg.Storage.Type == "local" {
		logger.Info("Using local storage backend", "upload_dir", cfg.Storage.UploadDir)
		local, err := storage.NewLocalProvider(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize local storage", "error", err)
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		storageProvider = local
		objectHandler = httpapi.NewObjectHandler(local)
	} else {
		log.Fatalf("Unsupported storage type: %s", cfg.Storage.Type)
	}

	// Initialize Services
	emailService := service.NewEmailService(cfg.SendGrid)
	purchaseService := service.NewPurchaseService(store, emailService, cfg.Retention)
	metricsService := service.NewMetricsService(store.Cases(), cache.NewMemory(),
		time.Duration(cfg.Metrics.CacheTTLSeconds)*time.Second)

	// Initialize Job Runner (behind the manual scan trigger)
	jobRunner := jobs.NewJobRunner(
		&jobs.Repos{
			Cases:     store.Cases(),
			Purchases: store.Purchases(),
			Assets:    store.Assets(),
			Deadlines: store.Deadlines(),
			Audits:    store.Audits(),
		},
		&jobs.Services{
			Email:   emailService,
			Storage: storageProvider,
		},
		cfg,
	)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize HTTP API
	webhookHandler := httpapi.NewPaymentWebhookHandler(purchaseService, cfg.Webhook.Secret)
	scanHandler := httpapi.NewScanHandler(tokenManager, jobRunner, metricsService)
	router := httpapi.NewRouter(webhookHandler, scanHandler, objectHandler)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // the scan trigger runs the whole batch
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
