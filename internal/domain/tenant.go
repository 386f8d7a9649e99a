package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is an accounting firm's license: the isolation boundary for all
// other entities. Every query against tenant-owned data must carry the
// tenant ID.
type Tenant struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	Settings     map[string]any
	MaxEmployees int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	List(ctx context.Context) ([]*Tenant, error)
}
