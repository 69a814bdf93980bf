package ports

import (
	"context"
	"time"

	"warehouse-api/internal/core/domain"

	"github.com/google/uuid"
)

// TokenService handles session JWT operations.
type TokenService interface {
	Generate(userID uuid.UUID, role domain.UserRole) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   domain.UserRole
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TouchStore debounces the opportunistic last_used_at write so a busy
// key hits the database at most once per interval.
type TouchStore interface {
	// ShouldTouch returns true if no touch was recorded for keyID within
	// ttl, recording one as a side effect.
	ShouldTouch(ctx context.Context, keyID uuid.UUID, ttl time.Duration) (bool, error)
}

// --- Service Ports (Business Logic) ---

// AuthService defines user signup/login.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// SignupRequest holds validated input for user registration.
type SignupRequest struct {
	Name     string
	Email    string
	Password string
	Role     domain.UserRole
}

// AuthResult carries the authenticated user and their session token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// APIKeyService defines key management and the authenticator core.
type APIKeyService interface {
	// Create returns the key with SecretToken populated; that is the only
	// time the raw token is ever exposed.
	Create(ctx context.Context, userID uuid.UUID, req CreateKeyRequest) (*domain.APIKey, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.APIKey, error)
	Get(ctx context.Context, userID, keyID uuid.UUID) (*domain.APIKey, error)
	Update(ctx context.Context, userID, keyID uuid.UUID, req UpdateKeyRequest) (*domain.APIKey, error)
	// Revoke hard-deletes the key.
	Revoke(ctx context.Context, userID, keyID uuid.UUID) error

	// Authenticate resolves a presented token to a principal, rejecting
	// unknown, revoked and expired keys with distinct errors. On success
	// it detaches a best-effort last_used_at touch before returning.
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// CreateKeyRequest holds validated input for key creation.
type CreateKeyRequest struct {
	DisplayName string
	Description string
	Permissions []domain.Permission // nil = defaults
	ExpiresAt   *time.Time
}

// UpdateKeyRequest holds owner-initiated key mutations. Nil fields are
// left unchanged.
type UpdateKeyRequest struct {
	DisplayName *string
	Description *string
	Permissions []domain.Permission
	IsActive    *bool
	ExpiresAt   *time.Time
	ClearExpiry bool
}

// OrderService defines order business logic for both surfaces.
type OrderService interface {
	Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, error)
	// CreatePublic additionally checks and decrements product stock for
	// line items before creating the order.
	CreatePublic(ctx context.Context, principal *domain.Principal, req CreateOrderRequest) (*domain.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, params OrderListParams) (*OrderPage, error)
	Update(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*domain.Order, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
	Search(ctx context.Context, query string) ([]domain.Order, error)
	Stats(ctx context.Context) (map[domain.OrderStatus]int64, error)
}

// CreateOrderRequest holds validated input for order creation.
type CreateOrderRequest struct {
	UserID      uuid.UUID
	Description string
	Status      domain.OrderStatus
	LineItems   []domain.LineItem
	TotalAmount *int64 // required when LineItems is empty
	OrderID     string
	CustRefNo   string
	InvoiceURL  string
	Packages    []domain.Package
}

// UpdateOrderRequest holds partial order mutations. Nil fields are left
// unchanged.
type UpdateOrderRequest struct {
	Description *string
	Status      *domain.OrderStatus
	LineItems   []domain.LineItem
	TotalAmount *int64
	OrderID     *string
	CustRefNo   *string
	InvoiceURL  *string
	Packages    []domain.Package
}

// OrderPage is the paginated list envelope.
type OrderPage struct {
	Orders      []domain.Order
	TotalPages  int
	CurrentPage int
	TotalOrders int64
}

// NotifierService is the order lifecycle notifier. Dispatch evaluates
// whether the order's state warrants an external notification and, if so,
// fires it detached from the caller; the return value only signals that a
// dispatch was accepted, never its outcome.
type NotifierService interface {
	Dispatch(ctx context.Context, order *domain.Order) bool
}

// ActivityService is the best-effort audit-trail recorder plus its
// read-side queries.
type ActivityService interface {
	// Record persists one audit entry with a server-assigned timestamp,
	// detached from the caller. Failures are logged, never propagated.
	Record(ctx context.Context, entry *domain.ActivityLog)
	List(ctx context.Context) ([]domain.ActivityLog, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ActivityLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ActivityLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// WebhookService defines owner-scoped webhook management.
type WebhookService interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateWebhookRequest) (*domain.Webhook, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Webhook, error)
	Get(ctx context.Context, userID, webhookID uuid.UUID) (*domain.Webhook, error)
	Update(ctx context.Context, userID, webhookID uuid.UUID, req UpdateWebhookRequest) (*domain.Webhook, error)
	Delete(ctx context.Context, userID, webhookID uuid.UUID) error
}

// CreateWebhookRequest holds validated input for webhook creation.
type CreateWebhookRequest struct {
	Name        string
	URL         string
	Description string
	Events      []domain.WebhookEvent // nil = defaults
	Secret      string
}

// UpdateWebhookRequest holds partial webhook mutations. Nil fields are
// left unchanged.
type UpdateWebhookRequest struct {
	Name        *string
	URL         *string
	Description *string
	Events      []domain.WebhookEvent
	IsActive    *bool
	Secret      *string
}
