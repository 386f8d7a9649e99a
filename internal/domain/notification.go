package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Kind      string // "task_assigned", "aml_status_changed", ...
	Message   string
	ReadAt    *time.Time
	CreatedAt time.Time
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, tenantID, userID, id uuid.UUID, readAt time.Time) error
}
