package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// Context keys populated by the middleware chain. Auth sets the identity
// keys from verified token claims; RequestMeta sets the request keys for
// the audit trail.
const (
	ContextKeyTenantID  contextKey = "tenant_id"
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserRole  contextKey = "role"
	ContextKeyClientIP  contextKey = "client_ip"
	ContextKeyUserAgent contextKey = "user_agent"
)

// TenantIDFromContext returns the firm ID Auth stored from the token
// claims. Vendor tokens carry the zero UUID, so ok is true even for them;
// RequireTenant is what keeps zero-tenant callers off firm routes.
func TenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyTenantID).(uuid.UUID)
	return v, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyUserRole).(string)
	return v, ok
}

// ClientIPFromContext returns the client IP RequestMeta captured, or "" if
// the middleware did not run.
func ClientIPFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyClientIP).(string)
	return v
}

func UserAgentFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyUserAgent).(string)
	return v
}
