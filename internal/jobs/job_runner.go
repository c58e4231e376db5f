package jobs

import (
	"time"

	"tenantvault-backend/internal/config"
	"tenantvault-backend/internal/logger"
	"tenantvault-backend/internal/repository"
	"tenantvault-backend/internal/service"
	"tenantvault-backend/internal/storage"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos    *Repos
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Repos holds the repository dependencies needed by jobs
type Repos struct {
	Cases     repository.CaseRepository
	Purchases repository.PurchaseRepository
	Assets    repository.AssetRepository
	Deadlines repository.DeadlineRepository
	Audits    repository.AuditRepository
}

// Services holds the service dependencies needed by jobs
type Services struct {
	Email   service.EmailService
	Storage storage.Provider
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos *Repos, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos:    repos,
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

// NewJobRunnerWithClock is used by tests that need a fixed scan time.
func NewJobRunnerWithClock(repos *Repos, services *Services, cfg *config.Config, now func() time.Time) *JobRunner {
	return &JobRunner{
		repos:    repos,
		services: services,
		config:   cfg,
		now:      now,
	}
}

// Config exposes the configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunDailyScan runs the full transition scan in dependency order:
// reminders before expiry, expiry before purge. Every step is idempotent,
// so a retried invocation is harmless.
func (jr *JobRunner) RunDailyScan() {
	jr.EscalateRetentionReminders()
	jr.ExpirePastRetention()
	jr.PurgeExpiredCases()
	jr.SendDeadlineReminders()
}
