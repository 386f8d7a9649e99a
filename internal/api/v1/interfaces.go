package v1

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/firmdesk/firmdesk/internal/audit"
	"github.com/firmdesk/firmdesk/internal/domain"
	"github.com/firmdesk/firmdesk/internal/server/middleware"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Tenants() domain.TenantRepository
	Users() domain.UserRepository
	Clients() domain.ClientRepository
	Tasks() domain.TaskRepository
	TimeEntries() domain.TimeEntryRepository
	Notifications() domain.NotificationRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, tenantID uuid.UUID, email, password, name, role string) (*domain.User, error)
	Login(ctx context.Context, tenantID uuid.UUID, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// Auditor abstracts the audit trail for handler testing.
// *audit.Service satisfies this interface.
type Auditor interface {
	RecordBestEffort(ctx context.Context, tenantID *uuid.UUID, actorID uuid.UUID, category audit.Category, verb, targetID string, metadata map[string]any, ip, userAgent string)
	Query(ctx context.Context, tenantID *uuid.UUID, f domain.AuditFilter) ([]*domain.AuditEntry, error)
}

// Notifier abstracts in-app notification delivery for handler testing.
// *notify.Notifier satisfies this interface.
type Notifier interface {
	NotifyBestEffort(ctx context.Context, tenantID, userID uuid.UUID, kind, message string)
}

// requestMeta pulls the client IP and User-Agent the middleware captured,
// for the audit trail.
func requestMeta(ctx context.Context) (ip, userAgent string) {
	return middleware.ClientIPFromContext(ctx), middleware.UserAgentFromContext(ctx)
}

// optionalID converts a query-parameter UUID into a filter value, mapping
// the zero UUID (parameter absent) to nil.
func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// optionalTime converts a query-parameter timestamp into a filter value,
// mapping the zero time (parameter absent) to nil.
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
