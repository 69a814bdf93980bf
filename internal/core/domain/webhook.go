package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEvent names an order-status transition a webhook may subscribe to.
type WebhookEvent = string

const (
	EventOrderCompleted  WebhookEvent = "order.completed"
	EventOrderProcessing WebhookEvent = "order.processing"
	EventOrderReceived   WebhookEvent = "order.received"
)

// DefaultWebhookEvents is the subscription set assigned when a webhook is
// created without an explicit one.
var DefaultWebhookEvents = []WebhookEvent{EventOrderCompleted}

// AllWebhookEvents lists every subscribable event.
var AllWebhookEvents = []WebhookEvent{EventOrderCompleted, EventOrderProcessing, EventOrderReceived}

// EventForStatus maps an order status to its webhook event name.
func EventForStatus(status OrderStatus) WebhookEvent {
	return "order." + string(status)
}

// ValidWebhookEvent reports whether ev is a known event name.
func ValidWebhookEvent(ev WebhookEvent) bool {
	for _, e := range AllWebhookEvents {
		if e == ev {
			return true
		}
	}
	return false
}

// Webhook is an owner-managed outbound notification destination.
// The secret is stored in plaintext by design; callers must treat it as
// sensitive.
type Webhook struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	Name            string         `json:"name"`
	URL             string         `json:"url"`
	Description     string         `json:"description,omitempty"`
	Events          []WebhookEvent `json:"events"`
	IsActive        bool           `json:"is_active"`
	Secret          string         `json:"secret,omitempty"`
	LastTriggeredAt *time.Time     `json:"last_triggered_at,omitempty"`
	FailureCount    int            `json:"failure_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// SubscribesTo reports whether the webhook listens for ev.
func (w *Webhook) SubscribesTo(ev WebhookEvent) bool {
	for _, e := range w.Events {
		if e == ev {
			return true
		}
	}
	return false
}
