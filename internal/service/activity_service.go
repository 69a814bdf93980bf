package service

import (
	"context"
	"fmt"
	"time"

	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"
	"warehouse-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const recordTimeout = 5 * time.Second

// ActivityServiceImpl implements ports.ActivityService. Writes are
// detached and best-effort: a failed audit record is logged, never the
// caller's error.
type ActivityServiceImpl struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService creates a new ActivityServiceImpl.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) *ActivityServiceImpl {
	return &ActivityServiceImpl{repo: repo, log: log}
}

// Record assigns an ID and server timestamp and persists the entry in a
// detached goroutine.
func (s *ActivityServiceImpl) Record(ctx context.Context, entry *domain.ActivityLog) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now().UTC()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Warn().Err(err).Str("action", entry.Action).Msg("failed to record activity")
		}
	}()
}

// List returns all activity entries, newest first.
func (s *ActivityServiceImpl) List(ctx context.Context) ([]domain.ActivityLog, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list activity: %w", err))
	}
	return entries, nil
}

// ListRecent returns the latest entries up to limit.
func (s *ActivityServiceImpl) ListRecent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list recent activity: %w", err))
	}
	return entries, nil
}

// ListByUser returns all entries attributed to one user.
func (s *ActivityServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ActivityLog, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list user activity: %w", err))
	}
	return entries, nil
}

// Delete removes one entry through the explicit administrative endpoint.
func (s *ActivityServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.ErrNotFound("Activity log")
	}
	return nil
}
