package postgres

import (
	"context"
	"errors"
	"time"

	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/repository"

	"github.com/lib/pq"
)

type purchaseRepository struct {
	db DBTX
}

func NewPurchaseRepository(db DBTX) repository.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	query := `INSERT INTO purchases (case_id, owner_id, pack_type, amount_cents, currency, payment_ref, years, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		p.CaseID, p.OwnerID, p.PackType, p.AmountCents, p.Currency,
		p.PaymentRef, p.Years, time.Now()).Scan(&p.ID)
	if err != nil {
		// The unique indexes on (case_id, pack_type) for evidence packs
		// and on payment_ref are the concurrency guard against retried
		// webhook deliveries; surface collisions as duplicates.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *purchaseRepository) ListByCase(ctx context.Context, caseID int64) ([]domain.Purchase, error) {
	query := `SELECT id, case_id, owner_id, pack_type, amount_cents, currency, payment_ref, years, created_on
	          FROM purchases WHERE case_id = $1 ORDER BY created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.CaseID, &p.OwnerID, &p.PackType,
			&p.AmountCents, &p.Currency, &p.PaymentRef, &p.Years, &p.CreatedOn); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (r *purchaseRepository) ExistsForPack(ctx context.Context, caseID int64, pack domain.PackType) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM purchases WHERE case_id = $1 AND pack_type = $2)`
	err := r.db.QueryRowContext(ctx, query, caseID, pack).Scan(&exists)
	return exists, err
}
