package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/firmdesk/firmdesk/internal/audit"
	"github.com/firmdesk/firmdesk/internal/auth"
	"github.com/firmdesk/firmdesk/internal/domain"
	"github.com/firmdesk/firmdesk/internal/server/middleware"
)

type CreateUserInput struct {
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Initial password"` //nolint:gosec // G117: credential DTO
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Role     string `json:"role" enum:"license_admin,employee" doc:"User role"`
	}
}

type CreateUserOutput struct {
	Body *domain.User
}

type ListUsersOutput struct {
	Body []*domain.User
}

type GetUserInput struct {
	ID uuid.UUID `path:"id" doc:"User ID"`
}

type GetUserOutput struct {
	Body *domain.User
}

type UpdateUserInput struct {
	ID   uuid.UUID `path:"id" doc:"User ID"`
	Body struct {
		Name string `json:"name,omitempty" maxLength:"255" doc:"Display name"`
		Role string `json:"role,omitempty" enum:",license_admin,employee" doc:"User role"`
	}
}

type UpdateUserOutput struct {
	Body *domain.User
}

type DeleteUserInput struct {
	ID uuid.UUID `path:"id" doc:"User ID"`
}

// RegisterUserRoutes wires user management for a firm. All routes require
// the license_admin role (or vendor).
func RegisterUserRoutes(api huma.API, store DataStore, authSvc AuthService, auditor Auditor) {
	huma.Register(api, huma.Operation{
		OperationID: "create-user",
		Method:      http.MethodPost,
		Path:        "/users",
		Summary:     "Create a user in the firm",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *CreateUserInput) (*CreateUserOutput, error) {
		tenantID, actorID, err := requireLicenseAdmin(ctx)
		if err != nil {
			return nil, err
		}

		tenant, err := store.Tenants().GetByID(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to look up firm", err)
		}

		// Seat cap: 0 means unlimited.
		if tenant.MaxEmployees > 0 {
			existing, listErr := store.Users().List(ctx, tenantID)
			if listErr != nil {
				return nil, huma.Error500InternalServerError("failed to count users", listErr)
			}
			if len(existing) >= tenant.MaxEmployees {
				return nil, huma.Error409Conflict("employee seat limit reached for this license")
			}
		}

		user, err := authSvc.Register(ctx, tenantID, input.Body.Email, input.Body.Password, input.Body.Name, input.Body.Role)
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error409Conflict("user already exists")
			}
			return nil, huma.Error500InternalServerError("failed to create user", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryUser, "create", user.ID.String(),
			map[string]any{"role": user.Role}, ip, ua)

		user.PasswordHash = ""
		return &CreateUserOutput{Body: user}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List users in the firm",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
		tenantID, _, err := requireLicenseAdmin(ctx)
		if err != nil {
			return nil, err
		}

		users, err := store.Users().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users", err)
		}

		for _, u := range users {
			u.PasswordHash = ""
		}

		return &ListUsersOutput{Body: users}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/users/{id}",
		Summary:     "Get a user by ID",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *GetUserInput) (*GetUserOutput, error) {
		tenantID, _, err := requireLicenseAdmin(ctx)
		if err != nil {
			return nil, err
		}

		user, err := store.Users().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		user.PasswordHash = ""
		return &GetUserOutput{Body: user}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-user",
		Method:      http.MethodPut,
		Path:        "/users/{id}",
		Summary:     "Update a user",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UpdateUserInput) (*UpdateUserOutput, error) {
		tenantID, actorID, err := requireLicenseAdmin(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Users().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Role != "" {
			existing.Role = input.Body.Role
		}
		existing.UpdatedAt = time.Now()

		if err := store.Users().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update user", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryUser, "update", existing.ID.String(), nil, ip, ua)

		existing.PasswordHash = ""
		return &UpdateUserOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-user",
		Method:      http.MethodDelete,
		Path:        "/users/{id}",
		Summary:     "Delete a user",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *DeleteUserInput) (*struct{}, error) {
		tenantID, actorID, err := requireLicenseAdmin(ctx)
		if err != nil {
			return nil, err
		}

		if input.ID == actorID {
			return nil, huma.Error400BadRequest("cannot delete your own account")
		}

		if err := store.Users().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete user", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryUser, "delete", input.ID.String(), nil, ip, ua)

		return nil, nil
	})
}

// requireLicenseAdmin returns the caller's tenant and user IDs, or a 403
// unless the caller is a license admin or the vendor.
func requireLicenseAdmin(ctx context.Context) (tenantID, actorID uuid.UUID, err error) {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok || (role != middleware.RoleLicenseAdmin && role != middleware.RoleVendor) {
		return uuid.Nil, uuid.Nil, huma.Error403Forbidden("license admin role required")
	}
	tenantID, ok = middleware.TenantIDFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, huma.Error403Forbidden("missing tenant context")
	}
	actorID, ok = middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, huma.Error403Forbidden("missing user context")
	}
	return tenantID, actorID, nil
}

// requireUser returns the caller's tenant and user IDs for endpoints open to
// any authenticated role.
func requireUser(ctx context.Context) (tenantID, actorID uuid.UUID, err error) {
	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, huma.Error403Forbidden("missing tenant context")
	}
	actorID, ok = middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, huma.Error403Forbidden("missing user context")
	}
	return tenantID, actorID, nil
}
