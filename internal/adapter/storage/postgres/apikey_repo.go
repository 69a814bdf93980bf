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

// APIKeyRepo implements ports.APIKeyRepository.
type APIKeyRepo struct {
	pool Pool
}

// NewAPIKeyRepo creates a new APIKeyRepo.
func NewAPIKeyRepo(pool Pool) *APIKeyRepo {
	return &APIKeyRepo{pool: pool}
}

const apiKeyColumns = `id, secret_token, user_id, display_name, description, permissions, is_active, expires_at, last_used_at, created_at, updated_at`

func scanAPIKey(row pgx.Row) (*domain.APIKey, error) {
	k := &domain.APIKey{}
	err := row.Scan(
		&k.ID, &k.SecretToken, &k.UserID, &k.DisplayName, &k.Description,
		&k.Permissions, &k.IsActive, &k.ExpiresAt, &k.LastUsedAt,
		&k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return k, nil
}

// Create inserts a new API key.
func (r *APIKeyRepo) Create(ctx context.Context, k *domain.APIKey) error {
	query := `INSERT INTO api_keys (id, secret_token, user_id, display_name, description, permissions, is_active, expires_at, last_used_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		k.ID, k.SecretToken, k.UserID, k.DisplayName, k.Description,
		k.Permissions, k.IsActive, k.ExpiresAt, k.LastUsedAt,
		k.CreatedAt, k.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert api key: %w", err)
	}
	return nil
}

// GetByToken fetches a key by its secret token. Returns nil, nil on miss.
func (r *APIKeyRepo) GetByToken(ctx context.Context, token string) (*domain.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE secret_token = $1`

	k, err := scanAPIKey(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get api key by token: %w", err)
	}
	return k, nil
}

// GetByID fetches a key owned by userID. Returns nil, nil on miss.
func (r *APIKeyRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = $1 AND user_id = $2`

	k, err := scanAPIKey(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get api key by id: %w", err)
	}
	return k, nil
}

// ListByUser fetches all keys owned by userID, newest first.
func (r *APIKeyRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []domain.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, *k)
	}
	return keys, rows.Err()
}

// Update overwrites the mutable fields of a key.
func (r *APIKeyRepo) Update(ctx context.Context, k *domain.APIKey) error {
	query := `UPDATE api_keys
		SET display_name=$1, description=$2, permissions=$3, is_active=$4, expires_at=$5, updated_at=$6
		WHERE id=$7`

	_, err := r.pool.Exec(ctx, query,
		k.DisplayName, k.Description, k.Permissions, k.IsActive, k.ExpiresAt,
		k.UpdatedAt, k.ID,
	)
	if err != nil {
		return fmt.Errorf("update api key: %w", err)
	}
	return nil
}

// Delete hard-deletes a key.
func (r *APIKeyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	return nil
}

// TouchLastUsed sets last_used_at. Validity is unaffected.
func (r *APIKeyRepo) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("touch api key: %w", err)
	}
	return nil
}
