package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"

	"github.com/google/uuid"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email already exists")
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// --- In-Memory API Key Repo ---

type inMemoryAPIKeyRepo struct {
	mu   sync.RWMutex
	keys map[uuid.UUID]*domain.APIKey
}

func newInMemoryAPIKeyRepo() *inMemoryAPIKeyRepo {
	return &inMemoryAPIKeyRepo{keys: make(map[uuid.UUID]*domain.APIKey)}
}

func (r *inMemoryAPIKeyRepo) Create(ctx context.Context, key *domain.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[key.ID] = key
	return nil
}

func (r *inMemoryAPIKeyRepo) GetByToken(ctx context.Context, token string) (*domain.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, k := range r.keys {
		if k.SecretToken == token {
			return k, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAPIKeyRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.keys[id]
	if !ok || k.UserID != userID {
		return nil, nil
	}
	return k, nil
}

func (r *inMemoryAPIKeyRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.APIKey
	for _, k := range r.keys {
		if k.UserID == userID {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (r *inMemoryAPIKeyRepo) Update(ctx context.Context, key *domain.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[key.ID]; !ok {
		return fmt.Errorf("api key not found")
	}
	r.keys[key.ID] = key
	return nil
}

func (r *inMemoryAPIKeyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[id]; !ok {
		return fmt.Errorf("api key not found")
	}
	delete(r.keys, id)
	return nil
}

func (r *inMemoryAPIKeyRepo) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[id]
	if !ok {
		return fmt.Errorf("api key not found")
	}
	k.LastUsedAt = &at
	return nil
}

// --- In-Memory Order Repo ---

type inMemoryOrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

func newInMemoryOrderRepo() *inMemoryOrderRepo {
	return &inMemoryOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *inMemoryOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *inMemoryOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *inMemoryOrderRepo) Update(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("order not found")
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *inMemoryOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order not found")
	}
	delete(r.orders, id)
	return nil
}

func (r *inMemoryOrderRepo) sorted() []domain.Order {
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *inMemoryOrderRepo) List(ctx context.Context, params ports.OrderListParams) ([]domain.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []domain.Order
	for _, o := range r.sorted() {
		if params.Status != nil && o.Status != *params.Status {
			continue
		}
		filtered = append(filtered, o)
	}

	total := int64(len(filtered))
	start := (params.Page - 1) * params.Limit
	if start >= len(filtered) {
		return nil, total, nil
	}
	end := start + params.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (r *inMemoryOrderRepo) Search(ctx context.Context, query string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var out []domain.Order
	for _, o := range r.sorted() {
		if strings.Contains(strings.ToLower(o.Description), q) ||
			strings.Contains(strings.ToLower(string(o.Status)), q) ||
			strings.Contains(strings.ToLower(o.CustRefNo), q) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *inMemoryOrderRepo) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.OrderStatus]int64)
	for _, o := range r.orders {
		counts[o.Status]++
	}
	return counts, nil
}

// --- In-Memory Product Repo ---

type inMemoryProductRepo struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*domain.Product
}

func newInMemoryProductRepo() *inMemoryProductRepo {
	return &inMemoryProductRepo{products: make(map[uuid.UUID]*domain.Product)}
}

func (r *inMemoryProductRepo) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *inMemoryProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *inMemoryProductRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product not found")
	}
	p.Quantity = quantity
	return nil
}

// --- In-Memory Webhook Repo ---

type inMemoryWebhookRepo struct {
	mu       sync.RWMutex
	webhooks map[uuid.UUID]*domain.Webhook
}

func newInMemoryWebhookRepo() *inMemoryWebhookRepo {
	return &inMemoryWebhookRepo{webhooks: make(map[uuid.UUID]*domain.Webhook)}
}

func (r *inMemoryWebhookRepo) Create(ctx context.Context, webhook *domain.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.webhooks[webhook.ID] = webhook
	return nil
}

func (r *inMemoryWebhookRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.webhooks[id]
	if !ok || w.UserID != userID {
		return nil, nil
	}
	return w, nil
}

func (r *inMemoryWebhookRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Webhook
	for _, w := range r.webhooks {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *inMemoryWebhookRepo) ListActiveByEvent(ctx context.Context, userID uuid.UUID, event domain.WebhookEvent) ([]domain.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Webhook
	for _, w := range r.webhooks {
		if w.UserID == userID && w.IsActive && w.SubscribesTo(event) {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *inMemoryWebhookRepo) Update(ctx context.Context, webhook *domain.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.webhooks[webhook.ID]; !ok {
		return fmt.Errorf("webhook not found")
	}
	r.webhooks[webhook.ID] = webhook
	return nil
}

func (r *inMemoryWebhookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.webhooks[id]; !ok {
		return fmt.Errorf("webhook not found")
	}
	delete(r.webhooks, id)
	return nil
}

func (r *inMemoryWebhookRepo) RecordTrigger(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.webhooks[id]
	if !ok {
		return fmt.Errorf("webhook not found")
	}
	w.LastTriggeredAt = &at
	return nil
}

func (r *inMemoryWebhookRepo) RecordFailure(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.webhooks[id]
	if !ok {
		return fmt.Errorf("webhook not found")
	}
	w.FailureCount++
	return nil
}

// --- In-Memory Activity Repo ---

type inMemoryActivityRepo struct {
	mu      sync.RWMutex
	entries []domain.ActivityLog
}

func newInMemoryActivityRepo() *inMemoryActivityRepo {
	return &inMemoryActivityRepo{}
}

func (r *inMemoryActivityRepo) Create(ctx context.Context, entry *domain.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]domain.ActivityLog{*entry}, r.entries...)
	return nil
}

func (r *inMemoryActivityRepo) List(ctx context.Context) ([]domain.ActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.ActivityLog(nil), r.entries...), nil
}

func (r *inMemoryActivityRepo) ListRecent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	return append([]domain.ActivityLog(nil), r.entries[:limit]...), nil
}

func (r *inMemoryActivityRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ActivityLog
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *inMemoryActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("activity log not found")
}
