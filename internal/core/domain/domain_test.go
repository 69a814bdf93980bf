package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAPIKey_IsValid(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name      string
		isActive  bool
		expiresAt *time.Time
		want      bool
	}{
		{"active without expiry", true, nil, true},
		{"active with future expiry", true, &tomorrow, true},
		{"active but expired", true, &yesterday, false},
		{"inactive without expiry", false, nil, false},
		{"inactive with future expiry", false, &tomorrow, false},
		{"inactive and expired", false, &yesterday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := &APIKey{IsActive: tt.isActive, ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, k.IsValid(now))
		})
	}
}

func TestAPIKey_IsExpired(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)

	k := &APIKey{IsActive: true}
	assert.False(t, k.IsExpired(now))

	k.ExpiresAt = &yesterday
	assert.True(t, k.IsExpired(now))
}

func TestAPIKey_HasPermission(t *testing.T) {
	k := &APIKey{Permissions: []Permission{PermOrderRead}}

	assert.True(t, k.HasPermission(PermOrderRead))
	assert.False(t, k.HasPermission(PermOrderCreate))
	assert.False(t, k.HasPermission(PermOrderDelete))
}

func TestValidPermission(t *testing.T) {
	for _, p := range AllPermissions {
		assert.True(t, ValidPermission(p))
	}
	assert.False(t, ValidPermission("order:admin"))
	assert.False(t, ValidPermission(""))
}

func TestComputeTotal(t *testing.T) {
	items := []LineItem{
		{ProductID: uuid.New(), Quantity: 3, UnitPrice: 100},
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: 250},
	}
	assert.Equal(t, int64(800), ComputeTotal(items))
	assert.Equal(t, int64(0), ComputeTotal(nil))
}

func TestEventForStatus(t *testing.T) {
	assert.Equal(t, EventOrderCompleted, EventForStatus(OrderStatusCompleted))
	assert.Equal(t, EventOrderProcessing, EventForStatus(OrderStatusProcessing))
	assert.Equal(t, EventOrderReceived, EventForStatus(OrderStatusReceived))
}

func TestWebhook_SubscribesTo(t *testing.T) {
	w := &Webhook{Events: []WebhookEvent{EventOrderCompleted, EventOrderReceived}}

	assert.True(t, w.SubscribesTo(EventOrderCompleted))
	assert.True(t, w.SubscribesTo(EventOrderReceived))
	assert.False(t, w.SubscribesTo(EventOrderProcessing))
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusReceived))
	assert.True(t, ValidOrderStatus(OrderStatusProcessing))
	assert.True(t, ValidOrderStatus(OrderStatusCompleted))
	assert.False(t, ValidOrderStatus("shipped"))
}
