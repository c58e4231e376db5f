package postgres

import (
	"context"

	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/repository"
)

type auditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, a *domain.PurgeAudit) error {
	query := `INSERT INTO purge_audits (id, event, case_id, owner_id, reason, asset_count, occurred_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Event, a.CaseID, a.OwnerID, a.Reason, a.AssetCount, a.OccurredOn)
	return err
}
