package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/repository"
)

type caseRepository struct {
	db DBTX
}

func NewCaseRepository(db DBTX) repository.CaseRepository {
	return &caseRepository{db: db}
}

const caseColumns = `id, owner_id, owner_email, title, stay_type, checkin_completed_at, handover_completed_at,
	retention_until, storage_years_purchased, deletion_status, grace_until, retention_reminder_level,
	expiry_notified_at, final_expiry_notified_at, purchase_type, created_on, updated_on`

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	query := `INSERT INTO cases (owner_id, owner_email, title, stay_type, storage_years_purchased, deletion_status, retention_reminder_level, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	if c.StorageYearsPurchased == 0 {
		c.StorageYearsPurchased = 1
	}
	if c.DeletionStatus == "" {
		c.DeletionStatus = domain.DeletionStatusActive
	}
	return r.db.QueryRowContext(ctx, query,
		c.OwnerID, c.OwnerEmail, c.Title, c.StayType, c.StorageYearsPurchased,
		c.DeletionStatus, c.RetentionReminderLevel, now, now).Scan(&c.ID)
}

func (r *caseRepository) GetByID(ctx context.Context, id int64) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`
	c, err := scanCase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *caseRepository) Update(ctx context.Context, c *domain.Case) error {
	query := `UPDATE cases SET
		checkin_completed_at = $1,
		handover_completed_at = $2,
		retention_until = $3,
		storage_years_purchased = $4,
		deletion_status = $5,
		grace_until = $6,
		retention_reminder_level = $7,
		expiry_notified_at = $8,
		final_expiry_notified_at = $9,
		purchase_type = $10,
		updated_on = $11
	WHERE id = $12`
	var purchaseType *string
	if c.PurchaseType != nil {
		s := string(*c.PurchaseType)
		purchaseType = &s
	}
	res, err := r.db.ExecContext(ctx, query,
		c.CheckinCompletedAt, c.HandoverCompletedAt, c.RetentionUntil,
		c.StorageYearsPurchased, c.DeletionStatus, c.GraceUntil,
		c.RetentionReminderLevel, c.ExpiryNotifiedAt, c.FinalExpiryNotifiedAt,
		purchaseType, time.Now(), c.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListReminderCandidates returns active, retention-protected cases whose
// expiry is still ahead of now and whose reminder level can still rise.
func (r *caseRepository) ListReminderCandidates(ctx context.Context, now time.Time) ([]domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases
	          WHERE deletion_status = $1
	            AND retention_until IS NOT NULL
	            AND retention_until >= $2
	            AND retention_reminder_level < 3
	          ORDER BY retention_until ASC`
	return r.listCases(ctx, query, domain.DeletionStatusActive, now)
}

func (r *caseRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases
	          WHERE deletion_status = $1
	            AND retention_until IS NOT NULL
	            AND retention_until < $2
	          ORDER BY retention_until ASC`
	return r.listCases(ctx, query, domain.DeletionStatusActive, now)
}

func (r *caseRepository) ListGraceExpired(ctx context.Context, now time.Time) ([]domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases
	          WHERE deletion_status = $1
	            AND grace_until IS NOT NULL
	            AND grace_until < $2
	          ORDER BY grace_until ASC`
	return r.listCases(ctx, query, domain.DeletionStatusPendingDeletion, now)
}

func (r *caseRepository) ListPendingFinalNotice(ctx context.Context) ([]domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases
	          WHERE deletion_status = $1
	            AND final_expiry_notified_at IS NULL
	          ORDER BY grace_until ASC`
	return r.listCases(ctx, query, domain.DeletionStatusPendingDeletion)
}

// DeleteCascade removes the case row; assets, purchases and deadlines go
// with it through their ON DELETE CASCADE foreign keys.
func (r *caseRepository) DeleteCascade(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *caseRepository) CountByDeletionStatus(ctx context.Context) (map[domain.DeletionStatus]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT deletion_status, count(*) FROM cases GROUP BY deletion_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.DeletionStatus]int64)
	for rows.Next() {
		var status domain.DeletionStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *caseRepository) listCases(ctx context.Context, query string, args ...any) ([]domain.Case, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, *c)
	}
	return cases, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*domain.Case, error) {
	c := &domain.Case{}
	var purchaseType sql.NullString
	err := row.Scan(&c.ID, &c.OwnerID, &c.OwnerEmail, &c.Title, &c.StayType,
		&c.CheckinCompletedAt, &c.HandoverCompletedAt, &c.RetentionUntil,
		&c.StorageYearsPurchased, &c.DeletionStatus, &c.GraceUntil,
		&c.RetentionReminderLevel, &c.ExpiryNotifiedAt, &c.FinalExpiryNotifiedAt,
		&purchaseType, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if purchaseType.Valid {
		pt := domain.PackType(purchaseType.String)
		c.PurchaseType = &pt
	}
	return c, nil
}
