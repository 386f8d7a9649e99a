package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// ValidTransition checks if a task state transition is allowed.
// Allowed: open->in_progress, in_progress->done, in_progress->open,
// done->in_progress (reopen).
func (s TaskStatus) ValidTransition(to TaskStatus) bool {
	switch s {
	case TaskStatusOpen:
		return to == TaskStatusInProgress
	case TaskStatusInProgress:
		return to == TaskStatusDone || to == TaskStatusOpen
	case TaskStatusDone:
		return to == TaskStatusInProgress
	default:
		return false
	}
}

type Task struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	ClientID    uuid.UUID
	AssignedTo  *uuid.UUID
	Title       string
	Description string
	Status      TaskStatus
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Task, error)
	ListByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]*Task, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*Task, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status TaskStatus) error
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
