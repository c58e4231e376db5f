package postgres

import (
	"context"
	"time"

	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/repository"
)

type assetRepository struct {
	db DBTX
}

func NewAssetRepository(db DBTX) repository.AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, a *domain.Asset) error {
	query := `INSERT INTO assets (case_id, kind, storage_key, file_name, size_bytes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		a.CaseID, a.Kind, a.StorageKey, a.FileName, a.SizeBytes, time.Now()).Scan(&a.ID)
}

func (r *assetRepository) ListByCase(ctx context.Context, caseID int64) ([]domain.Asset, error) {
	query := `SELECT id, case_id, kind, storage_key, file_name, size_bytes, created_on
	          FROM assets WHERE case_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(&a.ID, &a.CaseID, &a.Kind, &a.StorageKey, &a.FileName, &a.SizeBytes, &a.CreatedOn); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}
