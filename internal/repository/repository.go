package repository

import (
	"context"
	"time"

	"tenantvault-backend/internal/domain"
)

type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id int64) (*domain.Case, error)
	Update(ctx context.Context, c *domain.Case) error

	// Scanner selections. Each returns only rows eligible for the
	// corresponding transition at the given instant.
	ListReminderCandidates(ctx context.Context, now time.Time) ([]domain.Case, error)
	ListExpired(ctx context.Context, now time.Time) ([]domain.Case, error)
	ListGraceExpired(ctx context.Context, now time.Time) ([]domain.Case, error)
	// ListPendingFinalNotice returns pending-deletion cases whose final
	// expiry notice has not gone out yet.
	ListPendingFinalNotice(ctx context.Context) ([]domain.Case, error)

	// DeleteCascade removes the case row and everything that structurally
	// depends on it (assets, deadlines, purchases) in one transaction.
	DeleteCascade(ctx context.Context, id int64) error

	CountByDeletionStatus(ctx context.Context) (map[domain.DeletionStatus]int64, error)
}

type PurchaseRepository interface {
	// Create inserts a purchase row. A (case_id, pack_type) collision for
	// evidence packs, or a payment_ref collision for any pack, returns
	// ErrDuplicate.
	Create(ctx context.Context, p *domain.Purchase) error
	ListByCase(ctx context.Context, caseID int64) ([]domain.Purchase, error)
	ExistsForPack(ctx context.Context, caseID int64, pack domain.PackType) (bool, error)
}

type AssetRepository interface {
	Create(ctx context.Context, a *domain.Asset) error
	ListByCase(ctx context.Context, caseID int64) ([]domain.Asset, error)
}

type DeadlineRepository interface {
	Create(ctx context.Context, d *domain.Deadline) error
	// ListUpcoming returns deadlines due on or after the given day.
	ListUpcoming(ctx context.Context, onOrAfter time.Time) ([]domain.Deadline, error)
	MarkNotified(ctx context.Context, id int64, at time.Time) error
}

type AuditRepository interface {
	Create(ctx context.Context, a *domain.PurgeAudit) error
}

// Store bundles the repositories behind one handle. WithTx runs fn against
// a store bound to a single database transaction; purchase ingestion uses
// it so the ledger insert and the case retention update commit together.
type Store interface {
	Cases() CaseRepository
	Purchases() PurchaseRepository
	Assets() AssetRepository
	Deadlines() DeadlineRepository
	Audits() AuditRepository

	WithTx(ctx context.Context, fn func(Store) error) error
}
