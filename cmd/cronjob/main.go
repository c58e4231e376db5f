package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"tenantvault-backend/internal/config"
	"tenantvault-backend/internal/jobs"
	"tenantvault-backend/internal/logger"
	"tenantvault-backend/internal/repository/postgres"
	"tenantvault-backend/internal/scheduler"
	"tenantvault-backend/internal/service"
	"tenantvault-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'escalate-reminders', 'daily-scan')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Tenant Vault cronjob runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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
	var storageProvider storage.Provider
	if cfg.Storage.Type == "local" {
		local, err := storage.NewLocalProvider(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize local storage", "error", err)
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		storageProvider = local
	} else {
		log.Fatalf("Unsupported storage type: %s", cfg.Storage.Type)
	}

	// Initialize Services
	emailService := service.NewEmailService(cfg.SendGrid)

	// Initialize Job Runner
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

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "escalate-reminders":
		jobRunner.EscalateRetentionReminders()
	case "expire-retention":
		jobRunner.ExpirePastRetention()
	case "purge-expired":
		jobRunner.PurgeExpiredCases()
	case "deadline-reminders":
		jobRunner.SendDeadlineReminders()
	case "daily-scan":
		jobRunner.RunDailyScan()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - escalate-reminders\n")
		fmt.Printf("  - expire-retention\n")
		fmt.Printf("  - purge-expired\n")
		fmt.Printf("  - deadline-reminders\n")
		fmt.Printf("  - daily-scan\n")
		os.Exit(1)
	}
}
