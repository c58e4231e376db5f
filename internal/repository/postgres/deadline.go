package postgres

import (
	"context"
	"time"

	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/repository"

	"github.com/lib/pq"
)

type deadlineRepository struct {
	db DBTX
}

func NewDeadlineRepository(db DBTX) repository.DeadlineRepository {
	return &deadlineRepository{db: db}
}

func (r *deadlineRepository) Create(ctx context.Context, d *domain.Deadline) error {
	if len(d.OffsetsDays) == 0 {
		d.OffsetsDays = domain.DefaultDeadlineOffsets
	}
	query := `INSERT INTO deadlines (case_id, owner_id, title, due_date, offsets_days, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		d.CaseID, d.OwnerID, d.Title, d.DueDate, pq.Array(d.OffsetsDays), time.Now()).Scan(&d.ID)
}

func (r *deadlineRepository) ListUpcoming(ctx context.Context, onOrAfter time.Time) ([]domain.Deadline, error) {
	query := `SELECT id, case_id, owner_id, title, due_date, offsets_days, last_notification_sent_at, created_on
	          FROM deadlines WHERE due_date >= $1 ORDER BY due_date ASC`
	rows, err := r.db.QueryContext(ctx, query, onOrAfter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deadlines []domain.Deadline
	for rows.Next() {
		var d domain.Deadline
		var offsets pq.Int32Array
		if err := rows.Scan(&d.ID, &d.CaseID, &d.OwnerID, &d.Title, &d.DueDate,
			&offsets, &d.LastNotificationSentAt, &d.CreatedOn); err != nil {
			return nil, err
		}
		d.OffsetsDays = []int32(offsets)
		deadlines = append(deadlines, d)
	}
	return deadlines, rows.Err()
}

func (r *deadlineRepository) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE deadlines SET last_notification_sent_at = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
