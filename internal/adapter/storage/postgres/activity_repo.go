package postgres

import (
	"context"
	"fmt"

	"warehouse-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ActivityRepo implements ports.ActivityRepository. The table is
// append-only; the only mutation besides insert is the administrative
// delete.
type ActivityRepo struct {
	pool Pool
}

// NewActivityRepo creates a new ActivityRepo.
func NewActivityRepo(pool Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

const activityColumns = `id, action, description, entity, entity_id, user_id, ip_address, created_at`

// Create appends one audit record.
func (r *ActivityRepo) Create(ctx context.Context, e *domain.ActivityLog) error {
	query := `INSERT INTO activity_logs (id, action, description, entity, entity_id, user_id, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.Action, e.Description, e.Entity, e.EntityID, e.UserID,
		e.IPAddress, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List returns all audit records, newest first.
func (r *ActivityRepo) List(ctx context.Context) ([]domain.ActivityLog, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_logs ORDER BY created_at DESC`
	return r.queryLogs(ctx, query)
}

// ListRecent returns the newest limit records.
func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_logs ORDER BY created_at DESC LIMIT $1`
	return r.queryLogs(ctx, query, limit)
}

// ListByUser returns all records attributed to userID.
func (r *ActivityRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ActivityLog, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_logs WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryLogs(ctx, query, userID)
}

func (r *ActivityRepo) queryLogs(ctx context.Context, query string, args ...any) ([]domain.ActivityLog, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.ActivityLog
	for rows.Next() {
		var e domain.ActivityLog
		if err := scanActivity(rows, &e); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}

func scanActivity(row pgx.Row, e *domain.ActivityLog) error {
	return row.Scan(
		&e.ID, &e.Action, &e.Description, &e.Entity, &e.EntityID,
		&e.UserID, &e.IPAddress, &e.CreatedAt,
	)
}

// Delete removes one record (administrative use only).
func (r *ActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activity_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete activity log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
