package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only audit record of a state-changing action.
// It is never updated; deletion happens only through the explicit
// administrative endpoint.
type ActivityLog struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Entity      string    `json:"entity"`
	EntityID    string    `json:"entity_id"`
	UserID      uuid.UUID `json:"user_id"`
	IPAddress   string    `json:"ip_address"`
	CreatedAt   time.Time `json:"created_at"`
}
