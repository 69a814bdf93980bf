package dto

import (
	"time"

	"warehouse-api/internal/core/domain"
)

// SignupRequest is the request body for user registration.
type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the response body for successful signup/login.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"` // Unix timestamp
}

// UserResponse is the serializable view of a user.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// FromUser converts a domain user to its response view.
func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// CreateKeyRequest is the request body for API key creation.
type CreateKeyRequest struct {
	DisplayName string     `json:"display_name" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"max=500"`
	Permissions []string   `json:"permissions" binding:"omitempty,dive,oneof=order:create order:update order:read order:delete"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// UpdateKeyRequest is the request body for API key updates. Absent fields
// are left unchanged.
type UpdateKeyRequest struct {
	DisplayName *string    `json:"display_name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=500"`
	Permissions []string   `json:"permissions,omitempty" binding:"omitempty,dive,oneof=order:create order:update order:read order:delete"`
	IsActive    *bool      `json:"is_active,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	ClearExpiry bool       `json:"clear_expiry,omitempty"`
}

// APIKeyResponse is the serializable view of an API key. The secret token
// is never included; see KeyCreatedResponse.
type APIKeyResponse struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Description string     `json:"description,omitempty"`
	Permissions []string   `json:"permissions"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// KeyCreatedResponse carries the raw token exactly once, at creation.
type KeyCreatedResponse struct {
	APIKeyResponse
	SecretToken string `json:"secret_token"`
	Warning     string `json:"warning"`
}

// FromAPIKey converts a domain key to its response view.
func FromAPIKey(k *domain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:          k.ID.String(),
		DisplayName: k.DisplayName,
		Description: k.Description,
		Permissions: k.Permissions,
		IsActive:    k.IsActive,
		ExpiresAt:   k.ExpiresAt,
		LastUsedAt:  k.LastUsedAt,
		CreatedAt:   k.CreatedAt,
		UpdatedAt:   k.UpdatedAt,
	}
}

// LineItemRequest is one product/quantity/price line on an order request.
type LineItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	UnitPrice int64  `json:"unit_price" binding:"gte=0"`
}

// CreateOrderRequest is the request body for order creation on both the
// management and public surfaces.
type CreateOrderRequest struct {
	Description string            `json:"description" binding:"required,max=1000"`
	Status      string            `json:"status" binding:"omitempty,oneof=received processing completed"`
	LineItems   []LineItemRequest `json:"line_items,omitempty" binding:"omitempty,dive"`
	TotalAmount *int64            `json:"total_amount,omitempty" binding:"omitempty,gte=0"`
	OrderID     string            `json:"order_id" binding:"max=100"`
	CustRefNo   string            `json:"cust_ref_no" binding:"max=100"`
	InvoiceURL  string            `json:"invoice_url" binding:"omitempty,safe_url"`
	Packages    []domain.Package  `json:"packages,omitempty"`
}

// UpdateOrderRequest is the request body for order updates. Absent fields
// are left unchanged.
type UpdateOrderRequest struct {
	Description *string           `json:"description,omitempty" binding:"omitempty,max=1000"`
	Status      *string           `json:"status,omitempty" binding:"omitempty,oneof=received processing completed"`
	LineItems   []LineItemRequest `json:"line_items,omitempty" binding:"omitempty,dive"`
	TotalAmount *int64            `json:"total_amount,omitempty" binding:"omitempty,gte=0"`
	OrderID     *string           `json:"order_id,omitempty" binding:"omitempty,max=100"`
	CustRefNo   *string           `json:"cust_ref_no,omitempty" binding:"omitempty,max=100"`
	InvoiceURL  *string           `json:"invoice_url,omitempty" binding:"omitempty,safe_url"`
	Packages    []domain.Package  `json:"packages,omitempty"`
}

// OrderListResponse is the paginated list envelope.
type OrderListResponse struct {
	Orders      []domain.Order `json:"orders"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	TotalOrders int64          `json:"totalOrders"`
}

// CreateWebhookRequest is the request body for webhook registration.
type CreateWebhookRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	URL         string   `json:"url" binding:"required,safe_url"`
	Description string   `json:"description" binding:"max=500"`
	Events      []string `json:"events" binding:"omitempty,dive,oneof=order.completed order.processing order.received"`
	Secret      string   `json:"secret" binding:"max=200"`
}

// UpdateWebhookRequest is the request body for webhook updates. Absent
// fields are left unchanged.
type UpdateWebhookRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	URL         *string  `json:"url,omitempty" binding:"omitempty,safe_url"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=500"`
	Events      []string `json:"events,omitempty" binding:"omitempty,dive,oneof=order.completed order.processing order.received"`
	IsActive    *bool    `json:"is_active,omitempty"`
	Secret      *string  `json:"secret,omitempty" binding:"omitempty,max=200"`
}

// CreateLogRequest is the request body for explicit activity recording.
type CreateLogRequest struct {
	Action      string `json:"action" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Entity      string `json:"entity" binding:"max=100"`
	EntityID    string `json:"entity_id" binding:"max=100"`
}

// StatsResponse is the response for order statistics.
type StatsResponse struct {
	Total    int64                            `json:"total"`
	ByStatus map[domain.OrderStatus]int64 `json:"by_status"`
}
