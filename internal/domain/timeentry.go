package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeEntry records hours an employee worked for a client, optionally
// against a task. Hours use decimal arithmetic so fractional entries
// (0.25h increments are common) sum without drift.
type TimeEntry struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	ClientID  uuid.UUID
	TaskID    *uuid.UUID
	UserID    uuid.UUID
	Hours     decimal.Decimal
	WorkDate  time.Time
	Notes     string
	Billable  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks entry invariants that do not require repository access.
// Cross-entity checks (client/task belonging to the same tenant) are done
// by the caller via tenant-scoped lookups.
func (e *TimeEntry) Validate() error {
	if !e.Hours.IsPositive() {
		return fmt.Errorf("hours must be greater than zero: %w", ErrValidation)
	}
	if e.ClientID == uuid.Nil {
		return fmt.Errorf("client id is required: %w", ErrValidation)
	}
	if e.UserID == uuid.Nil {
		return fmt.Errorf("user id is required: %w", ErrValidation)
	}
	if e.WorkDate.IsZero() {
		return fmt.Errorf("work date is required: %w", ErrValidation)
	}
	return nil
}

// TimeEntryDetail is a time entry joined with the names of its user,
// client and task. The reporting layer consumes these so it never has to
// resolve references itself.
type TimeEntryDetail struct {
	TimeEntry
	UserName   string
	ClientName string
	TaskName   string // empty when the entry has no task
}

// TimeEntryFilter narrows time entry listings. Nil fields are ignored;
// From and To are inclusive.
type TimeEntryFilter struct {
	UserID   *uuid.UUID
	ClientID *uuid.UUID
	From     *time.Time
	To       *time.Time
}

type TimeEntryRepository interface {
	Create(ctx context.Context, e *TimeEntry) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TimeEntry, error)
	Update(ctx context.Context, e *TimeEntry) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, f TimeEntryFilter) ([]*TimeEntry, error)
	ListDetailed(ctx context.Context, tenantID uuid.UUID, f TimeEntryFilter) ([]*TimeEntryDetail, error)
}
