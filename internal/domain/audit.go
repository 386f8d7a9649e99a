package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one append-only record of a security- or business-relevant
// action. Actions are dot-namespaced ("client.create"); entries are never
// updated after the write returns. TenantID is nil for vendor-level actions
// that happen outside any license.
type AuditEntry struct {
	ID         uuid.UUID
	TenantID   *uuid.UUID
	ActorID    uuid.UUID
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}

// AuditFilter narrows audit queries. All set fields combine with AND.
// Start and End are inclusive; either may be nil for an open range.
type AuditFilter struct {
	ActorID    *uuid.UUID
	Action     string
	TargetType string
	Start      *time.Time
	End        *time.Time
	Limit      int
}

// Matches reports whether an entry satisfies every set filter field plus
// the tenant scope. Both date bounds are inclusive. Limit is ignored here;
// it applies to the result set, not individual entries.
func (f AuditFilter) Matches(e *AuditEntry, tenantID *uuid.UUID) bool {
	if tenantID != nil {
		if e.TenantID == nil || *e.TenantID != *tenantID {
			return false
		}
	}
	if f.ActorID != nil && e.ActorID != *f.ActorID {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.TargetType != "" && e.TargetType != f.TargetType {
		return false
	}
	if f.Start != nil && e.CreatedAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && e.CreatedAt.After(*f.End) {
		return false
	}
	return true
}

type AuditRepository interface {
	Record(ctx context.Context, e *AuditEntry) error
	Query(ctx context.Context, tenantID *uuid.UUID, f AuditFilter) ([]*AuditEntry, error)
}
