package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tenantvault-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can
// run standalone or inside a transaction opened by Store.WithTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db        *sql.DB
	cases     repository.CaseRepository
	purchases repository.PurchaseRepository
	assets    repository.AssetRepository
	deadlines repository.DeadlineRepository
	audits    repository.AuditRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		cases:     NewCaseRepository(db),
		purchases: NewPurchaseRepository(db),
		assets:    NewAssetRepository(db),
		deadlines: NewDeadlineRepository(db),
		audits:    NewAuditRepository(db),
	}
}

func (s *Store) Cases() repository.CaseRepository          { return s.cases }
func (s *Store) Purchases() repository.PurchaseRepository  { return s.purchases }
func (s *Store) Assets() repository.AssetRepository        { return s.assets }
func (s *Store) Deadlines() repository.DeadlineRepository  { return s.deadlines }
func (s *Store) Audits() repository.AuditRepository        { return s.audits }

// WithTx runs fn against a store whose repositories share one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &txStore{
		cases:     NewCaseRepository(tx),
		purchases: NewPurchaseRepository(tx),
		assets:    NewAssetRepository(tx),
		deadlines: NewDeadlineRepository(tx),
		audits:    NewAuditRepository(tx),
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txStore is the transaction-bound view handed to WithTx callbacks.
// Nested transactions are not supported; fn runs in the outer one.
type txStore struct {
	cases     repository.CaseRepository
	purchases repository.PurchaseRepository
	assets    repository.AssetRepository
	deadlines repository.DeadlineRepository
	audits    repository.AuditRepository
}

func (s *txStore) Cases() repository.CaseRepository         { return s.cases }
func (s *txStore) Purchases() repository.PurchaseRepository { return s.purchases }
func (s *txStore) Assets() repository.AssetRepository       { return s.assets }
func (s *txStore) Deadlines() repository.DeadlineRepository { return s.deadlines }
func (s *txStore) Audits() repository.AuditRepository       { return s.audits }

func (s *txStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}
