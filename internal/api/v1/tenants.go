package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/firmdesk/firmdesk/internal/audit"
	"github.com/firmdesk/firmdesk/internal/domain"
	"github.com/firmdesk/firmdesk/internal/server/middleware"
)

type CreateTenantInput struct {
	Body struct {
		Name         string `json:"name" minLength:"1" maxLength:"255" doc:"Firm name"`
		Slug         string `json:"slug" minLength:"1" maxLength:"63" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-safe slug (lowercase alphanumeric with hyphens)"`
		MaxEmployees int    `json:"max_employees,omitempty" minimum:"0" doc:"Seat cap for the license (0 = unlimited)"`
	}
}

type CreateTenantOutput struct {
	Body *domain.Tenant
}

type ListTenantsOutput struct {
	Body []*domain.Tenant
}

type GetTenantInput struct {
	ID uuid.UUID `path:"id" doc:"Firm ID"`
}

type GetTenantOutput struct {
	Body *domain.Tenant
}

type UpdateTenantInput struct {
	ID   uuid.UUID `path:"id" doc:"Firm ID"`
	Body struct {
		Name         string         `json:"name,omitempty" maxLength:"255" doc:"Firm name"`
		MaxEmployees *int           `json:"max_employees,omitempty" minimum:"0" doc:"Seat cap for the license"`
		Settings     map[string]any `json:"settings,omitempty" doc:"Firm-level settings"`
	}
}

type UpdateTenantOutput struct {
	Body *domain.Tenant
}

// RegisterTenantRoutes wires firm license management. All routes are
// vendor-only; the RBAC check lives here rather than in router middleware so
// humatest can exercise it.
func RegisterTenantRoutes(api huma.API, store DataStore, auditor Auditor) {
	huma.Register(api, huma.Operation{
		OperationID: "create-tenant",
		Method:      http.MethodPost,
		Path:        "/tenants",
		Summary:     "Create a new firm license",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *CreateTenantInput) (*CreateTenantOutput, error) {
		actorID, err := requireVendor(ctx)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		t := &domain.Tenant{
			ID:           uuid.New(),
			Name:         input.Body.Name,
			Slug:         input.Body.Slug,
			MaxEmployees: input.Body.MaxEmployees,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := store.Tenants().Create(ctx, t); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("slug already in use")
			}
			return nil, huma.Error500InternalServerError("failed to create firm", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, nil, actorID, audit.CategoryLicense, "create", t.ID.String(),
			map[string]any{"slug": t.Slug}, ip, ua)

		return &CreateTenantOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/tenants",
		Summary:     "List all firm licenses",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, _ *struct{}) (*ListTenantsOutput, error) {
		if _, err := requireVendor(ctx); err != nil {
			return nil, err
		}

		tenants, err := store.Tenants().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list firms", err)
		}

		return &ListTenantsOutput{Body: tenants}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/tenants/{id}",
		Summary:     "Get a firm license by ID",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *GetTenantInput) (*GetTenantOutput, error) {
		if _, err := requireVendor(ctx); err != nil {
			return nil, err
		}

		t, err := store.Tenants().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("firm not found")
			}
			return nil, huma.Error500InternalServerError("failed to get firm", err)
		}

		return &GetTenantOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-tenant",
		Method:      http.MethodPut,
		Path:        "/tenants/{id}",
		Summary:     "Update a firm license",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *UpdateTenantInput) (*UpdateTenantOutput, error) {
		actorID, err := requireVendor(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Tenants().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("firm not found")
			}
			return nil, huma.Error500InternalServerError("failed to get firm", err)
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.MaxEmployees != nil {
			existing.MaxEmployees = *input.Body.MaxEmployees
		}
		if input.Body.Settings != nil {
			existing.Settings = input.Body.Settings
		}
		existing.UpdatedAt = time.Now()

		if err := store.Tenants().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update firm", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, nil, actorID, audit.CategoryLicense, "update", existing.ID.String(), nil, ip, ua)

		return &UpdateTenantOutput{Body: existing}, nil
	})
}

// requireVendor returns the acting user's ID, or a 403 when the caller does
// not hold the vendor role.
func requireVendor(ctx context.Context) (uuid.UUID, error) {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok || role != middleware.RoleVendor {
		return uuid.Nil, huma.Error403Forbidden("vendor role required")
	}
	actorID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error403Forbidden("missing user context")
	}
	return actorID, nil
}
