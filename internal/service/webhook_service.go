package service

import (
	"context"
	"fmt"
	"time"

	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"
	"warehouse-api/pkg/apperror"

	"github.com/google/uuid"
)

// WebhookServiceImpl implements ports.WebhookService: owner-scoped CRUD
// over notification destinations.
type WebhookServiceImpl struct {
	repo ports.WebhookRepository
}

// NewWebhookService creates a new WebhookServiceImpl.
func NewWebhookService(repo ports.WebhookRepository) *WebhookServiceImpl {
	return &WebhookServiceImpl{repo: repo}
}

// Create registers a new webhook for userID.
func (s *WebhookServiceImpl) Create(ctx context.Context, userID uuid.UUID, req ports.CreateWebhookRequest) (*domain.Webhook, error) {
	events := req.Events
	if events == nil {
		events = append([]domain.WebhookEvent(nil), domain.DefaultWebhookEvents...)
	}
	for _, ev := range events {
		if !domain.ValidWebhookEvent(ev) {
			return nil, apperror.Validation(fmt.Sprintf("unknown event: %s", ev))
		}
	}

	now := time.Now().UTC()
	webhook := &domain.Webhook{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
		Events:      events,
		IsActive:    true,
		Secret:      req.Secret,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, webhook); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create webhook: %w", err))
	}
	return webhook, nil
}

// List returns all webhooks owned by userID.
func (s *WebhookServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]domain.Webhook, error) {
	webhooks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list webhooks: %w", err))
	}
	return webhooks, nil
}

// Get returns one webhook owned by userID.
func (s *WebhookServiceImpl) Get(ctx context.Context, userID, webhookID uuid.UUID) (*domain.Webhook, error) {
	webhook, err := s.repo.GetByID(ctx, webhookID, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get webhook: %w", err))
	}
	if webhook == nil {
		return nil, apperror.ErrNotFound("Webhook")
	}
	return webhook, nil
}

// Update applies owner-initiated mutations to a webhook.
func (s *WebhookServiceImpl) Update(ctx context.Context, userID, webhookID uuid.UUID, req ports.UpdateWebhookRequest) (*domain.Webhook, error) {
	webhook, err := s.repo.GetByID(ctx, webhookID, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get webhook: %w", err))
	}
	if webhook == nil {
		return nil, apperror.ErrNotFound("Webhook")
	}

	if req.Name != nil {
		webhook.Name = *req.Name
	}
	if req.URL != nil {
		webhook.URL = *req.URL
	}
	if req.Description != nil {
		webhook.Description = *req.Description
	}
	if req.Events != nil {
		for _, ev := range req.Events {
			if !domain.ValidWebhookEvent(ev) {
				return nil, apperror.Validation(fmt.Sprintf("unknown event: %s", ev))
			}
		}
		webhook.Events = req.Events
	}
	if req.IsActive != nil {
		webhook.IsActive = *req.IsActive
	}
	if req.Secret != nil {
		webhook.Secret = *req.Secret
	}
	webhook.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, webhook); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update webhook: %w", err))
	}
	return webhook, nil
}

// Delete removes a webhook owned by userID.
func (s *WebhookServiceImpl) Delete(ctx context.Context, userID, webhookID uuid.UUID) error {
	webhook, err := s.repo.GetByID(ctx, webhookID, userID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get webhook: %w", err))
	}
	if webhook == nil {
		return apperror.ErrNotFound("Webhook")
	}
	if err := s.repo.Delete(ctx, webhook.ID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete webhook: %w", err))
	}
	return nil
}
