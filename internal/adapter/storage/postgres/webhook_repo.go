package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warehouse-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WebhookRepo implements ports.WebhookRepository.
type WebhookRepo struct {
	pool Pool
}

// NewWebhookRepo creates a new WebhookRepo.
func NewWebhookRepo(pool Pool) *WebhookRepo {
	return &WebhookRepo{pool: pool}
}

const webhookColumns = `id, user_id, name, url, description, events, is_active, secret, last_triggered_at, failure_count, created_at, updated_at`

func scanWebhook(row pgx.Row) (*domain.Webhook, error) {
	w := &domain.Webhook{}
	err := row.Scan(
		&w.ID, &w.UserID, &w.Name, &w.URL, &w.Description, &w.Events,
		&w.IsActive, &w.Secret, &w.LastTriggeredAt, &w.FailureCount,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Create inserts a new webhook.
func (r *WebhookRepo) Create(ctx context.Context, w *domain.Webhook) error {
	query := `INSERT INTO webhooks (id, user_id, name, url, description, events, is_active, secret, last_triggered_at, failure_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.UserID, w.Name, w.URL, w.Description, w.Events,
		w.IsActive, w.Secret, w.LastTriggeredAt, w.FailureCount,
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook: %w", err)
	}
	return nil
}

// GetByID fetches a webhook owned by userID. Returns nil, nil on miss.
func (r *WebhookRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE id = $1 AND user_id = $2`

	w, err := scanWebhook(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook by id: %w", err)
	}
	return w, nil
}

// ListByUser fetches all webhooks owned by userID, newest first.
func (r *WebhookRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE user_id = $1 ORDER BY created_at DESC`

	return r.queryWebhooks(ctx, query, userID)
}

// ListActiveByEvent fetches the owner's active webhooks subscribed to event.
func (r *WebhookRepo) ListActiveByEvent(ctx context.Context, userID uuid.UUID, event domain.WebhookEvent) ([]domain.Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks
		WHERE user_id = $1 AND is_active AND $2 = ANY(events)
		ORDER BY created_at`

	return r.queryWebhooks(ctx, query, userID, event)
}

func (r *WebhookRepo) queryWebhooks(ctx context.Context, query string, args ...any) ([]domain.Webhook, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []domain.Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan webhook: %w", err)
		}
		webhooks = append(webhooks, *w)
	}
	return webhooks, rows.Err()
}

// Update overwrites the mutable fields of a webhook.
func (r *WebhookRepo) Update(ctx context.Context, w *domain.Webhook) error {
	query := `UPDATE webhooks
		SET name=$1, url=$2, description=$3, events=$4, is_active=$5, secret=$6, updated_at=$7
		WHERE id=$8`

	_, err := r.pool.Exec(ctx, query,
		w.Name, w.URL, w.Description, w.Events, w.IsActive, w.Secret,
		w.UpdatedAt, w.ID,
	)
	if err != nil {
		return fmt.Errorf("update webhook: %w", err)
	}
	return nil
}

// Delete removes a webhook.
func (r *WebhookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

// RecordTrigger stamps a successful dispatch.
func (r *WebhookRepo) RecordTrigger(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE webhooks SET last_triggered_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("record webhook trigger: %w", err)
	}
	return nil
}

// RecordFailure bumps the failure counter.
func (r *WebhookRepo) RecordFailure(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE webhooks SET failure_count = failure_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("record webhook failure: %w", err)
	}
	return nil
}
