package domain

import (
	"time"

	"github.com/google/uuid"
)

// Permission is a capability string granted to an API key.
type Permission = string

// Fixed permission vocabulary for the public order API.
const (
	PermOrderCreate Permission = "order:create"
	PermOrderUpdate Permission = "order:update"
	PermOrderRead   Permission = "order:read"
	PermOrderDelete Permission = "order:delete"
)

// DefaultPermissions is the permission set assigned when a key is created
// without an explicit one.
var DefaultPermissions = []Permission{PermOrderCreate, PermOrderUpdate, PermOrderRead}

// AllPermissions lists every permission a key may be granted.
var AllPermissions = []Permission{PermOrderCreate, PermOrderUpdate, PermOrderRead, PermOrderDelete}

// APIKey maps an opaque secret token to a user and a permission set.
type APIKey struct {
	ID          uuid.UUID    `json:"id"`
	SecretToken string       `json:"-"` // Shown only at creation
	UserID      uuid.UUID    `json:"user_id"`
	DisplayName string       `json:"display_name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions"`
	IsActive    bool         `json:"is_active"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	LastUsedAt  *time.Time   `json:"last_used_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsValid reports whether the key may authenticate requests:
// active and either unexpiring or not yet expired.
func (k *APIKey) IsValid(now time.Time) bool {
	if !k.IsActive {
		return false
	}
	if k.ExpiresAt != nil && k.ExpiresAt.Before(now) {
		return false
	}
	return true
}

// IsExpired reports whether the key carries an expiry in the past.
func (k *APIKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}

// HasPermission reports whether the key's permission set contains perm.
func (k *APIKey) HasPermission(perm Permission) bool {
	for _, p := range k.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// ValidPermission reports whether perm belongs to the fixed vocabulary.
func ValidPermission(perm Permission) bool {
	for _, p := range AllPermissions {
		if p == perm {
			return true
		}
	}
	return false
}
