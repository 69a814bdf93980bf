package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"warehouse-api/config"
	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"

	"github.com/rs/zerolog"
)

const dispatchTimeout = 10 * time.Second

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NotificationPayload is the JSON structure sent on order completion.
type NotificationPayload struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// NotifierServiceImpl implements ports.NotifierService. Delivery is a
// single fire-and-forget attempt per destination; the outcome is logged
// and recorded as best-effort bookkeeping, never surfaced to callers.
type NotifierServiceImpl struct {
	webhookRepo ports.WebhookRepository
	httpClient  HTTPClient
	cfg         config.NotifierConfig
	log         zerolog.Logger
}

// NewNotifierService creates a new NotifierServiceImpl. A nil httpClient
// falls back to a default client with the configured timeout.
func NewNotifierService(
	webhookRepo ports.WebhookRepository,
	httpClient HTTPClient,
	cfg config.NotifierConfig,
	log zerolog.Logger,
) *NotifierServiceImpl {
	if cfg.Timeout <= 0 {
		cfg.Timeout = dispatchTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &NotifierServiceImpl{
		webhookRepo: webhookRepo,
		httpClient:  httpClient,
		cfg:         cfg,
		log:         log,
	}
}

// Dispatch evaluates the completion trigger and, when it fires, detaches
// delivery. Returns whether a dispatch was accepted; it never reports
// delivery outcome.
func (s *NotifierServiceImpl) Dispatch(ctx context.Context, order *domain.Order) bool {
	if order.Status != domain.OrderStatusCompleted || order.OrderID == "" {
		return false
	}

	payload := NotificationPayload{
		OrderID: order.OrderID,
		Status:  string(order.Status),
	}

	webhooks, err := s.webhookRepo.ListActiveByEvent(ctx, order.UserID, domain.EventForStatus(order.Status))
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", order.OrderID).Msg("notifier: webhook lookup failed")
		webhooks = nil
	}

	if len(webhooks) > 0 {
		for _, wh := range webhooks {
			wh := wh
			go s.deliverWebhook(wh, payload)
		}
		return true
	}

	if s.cfg.Endpoint == "" {
		s.log.Warn().Str("order_id", order.OrderID).Msg("notifier: no destination configured, skipping")
		return false
	}

	go s.deliverGlobal(payload)
	return true
}

// deliverWebhook makes the single delivery attempt to one webhook and
// records the outcome on the webhook row.
func (s *NotifierServiceImpl) deliverWebhook(wh domain.Webhook, payload NotificationPayload) {
	headers := map[string]string{}
	if wh.Secret != "" {
		headers["x-webhook-secret"] = wh.Secret
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	if s.deliver(ctx, wh.URL, payload, headers) {
		if err := s.webhookRepo.RecordTrigger(ctx, wh.ID, time.Now().UTC()); err != nil {
			s.log.Warn().Err(err).Str("webhook_id", wh.ID.String()).Msg("notifier: failed to record trigger")
		}
		return
	}
	if err := s.webhookRepo.RecordFailure(ctx, wh.ID); err != nil {
		s.log.Warn().Err(err).Str("webhook_id", wh.ID.String()).Msg("notifier: failed to record failure")
	}
}

// deliverGlobal makes the single delivery attempt to the configured
// global endpoint.
func (s *NotifierServiceImpl) deliverGlobal(payload NotificationPayload) {
	headers := map[string]string{}
	if s.cfg.APIKey != "" {
		headers["X-API-Key"] = s.cfg.APIKey
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	s.deliver(ctx, s.cfg.Endpoint, payload, headers)
}

func (s *NotifierServiceImpl) deliver(ctx context.Context, url string, payload NotificationPayload, headers map[string]string) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("order_id", payload.OrderID).Msg("notifier: failed to marshal payload")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		s.log.Error().Err(err).Str("order_id", payload.OrderID).Msg("notifier: failed to create request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", payload.OrderID).Str("url", url).Msg("notifier: delivery failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.log.Info().Str("order_id", payload.OrderID).Int("status", resp.StatusCode).Msg("notifier: delivered")
		return true
	}

	s.log.Warn().Str("order_id", payload.OrderID).Int("status", resp.StatusCode).Str("url", url).Msg("notifier: non-2xx response")
	return false
}
