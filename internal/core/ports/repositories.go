package ports

import (
	"context"
	"time"

	"warehouse-api/internal/core/domain"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// APIKeyRepository defines persistence operations for API keys.
// Owner-scoped reads take the owning user's ID so a key is only ever
// visible to its creator.
type APIKeyRepository interface {
	Create(ctx context.Context, key *domain.APIKey) error
	GetByToken(ctx context.Context, token string) (*domain.APIKey, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.APIKey, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.APIKey, error)
	Update(ctx context.Context, key *domain.APIKey) error
	// Delete hard-deletes the key. Revocation leaves no tombstone.
	Delete(ctx context.Context, id uuid.UUID) error
	// TouchLastUsed sets last_used_at without altering validity.
	TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error
}

// OrderListParams holds filter + pagination for listing orders.
type OrderListParams struct {
	Status *domain.OrderStatus
	Page   int
	Limit  int
}

// OrderRepository defines persistence operations for orders. Packages and
// their items travel embedded inside the order document.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params OrderListParams) ([]domain.Order, int64, error)
	Search(ctx context.Context, query string) ([]domain.Order, error)
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
}

// ProductRepository defines persistence operations for stocked products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// UpdateQuantity overwrites the stock level. The read-check-write
	// around it is not atomic with order creation; last writer wins.
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int64) error
}

// WebhookRepository defines persistence operations for webhooks.
type WebhookRepository interface {
	Create(ctx context.Context, webhook *domain.Webhook) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Webhook, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Webhook, error)
	// ListActiveByEvent returns the owner's active webhooks subscribed
	// to the given event.
	ListActiveByEvent(ctx context.Context, userID uuid.UUID, event domain.WebhookEvent) ([]domain.Webhook, error)
	Update(ctx context.Context, webhook *domain.Webhook) error
	Delete(ctx context.Context, id uuid.UUID) error
	// RecordTrigger and RecordFailure are best-effort dispatch
	// bookkeeping; they never feed back into delivery decisions.
	RecordTrigger(ctx context.Context, id uuid.UUID, at time.Time) error
	RecordFailure(ctx context.Context, id uuid.UUID) error
}

// ActivityRepository defines persistence for the append-only audit trail.
type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context) ([]domain.ActivityLog, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ActivityLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ActivityLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
