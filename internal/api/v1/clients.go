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
	"github.com/firmdesk/firmdesk/internal/notify"
)

type CreateClientInput struct {
	Body struct {
		Name      string `json:"name" minLength:"1" maxLength:"255" doc:"Client name"`
		OrgNumber string `json:"org_number,omitempty" maxLength:"32" doc:"Organization number"`
		Email     string `json:"email,omitempty" maxLength:"255" doc:"Contact email"`
		Phone     string `json:"phone,omitempty" maxLength:"32" doc:"Contact phone"`
		Notes     string `json:"notes,omitempty" doc:"Free-form notes"`
	}
}

type CreateClientOutput struct {
	Body *domain.Client
}

type ListClientsOutput struct {
	Body []*domain.Client
}

type GetClientInput struct {
	ID uuid.UUID `path:"id" doc:"Client ID"`
}

type GetClientOutput struct {
	Body *domain.Client
}

type UpdateClientInput struct {
	ID   uuid.UUID `path:"id" doc:"Client ID"`
	Body struct {
		Name      string `json:"name,omitempty" maxLength:"255" doc:"Client name"`
		OrgNumber string `json:"org_number,omitempty" maxLength:"32" doc:"Organization number"`
		Email     string `json:"email,omitempty" maxLength:"255" doc:"Contact email"`
		Phone     string `json:"phone,omitempty" maxLength:"32" doc:"Contact phone"`
		Notes     string `json:"notes,omitempty" doc:"Free-form notes"`
	}
}

type UpdateClientOutput struct {
	Body *domain.Client
}

type TransitionAMLStatusInput struct {
	ID   uuid.UUID `path:"id" doc:"Client ID"`
	Body struct {
		Status string `json:"status" enum:"not_started,in_review,approved,rejected" doc:"Target AML status"`
	}
}

type TransitionAMLStatusOutput struct {
	Body *domain.Client
}

type DeleteClientInput struct {
	ID uuid.UUID `path:"id" doc:"Client ID"`
}

func RegisterClientRoutes(api huma.API, store DataStore, auditor Auditor, notifier Notifier) {
	huma.Register(api, huma.Operation{
		OperationID: "create-client",
		Method:      http.MethodPost,
		Path:        "/clients",
		Summary:     "Create a new client",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *CreateClientInput) (*CreateClientOutput, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		c := &domain.Client{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Name:      input.Body.Name,
			OrgNumber: input.Body.OrgNumber,
			Email:     input.Body.Email,
			Phone:     input.Body.Phone,
			AMLStatus: domain.AMLNotStarted,
			Notes:     input.Body.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Clients().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create client", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryClient, "create", c.ID.String(), nil, ip, ua)

		return &CreateClientOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/clients",
		Summary:     "List clients in the firm",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, _ *struct{}) (*ListClientsOutput, error) {
		tenantID, _, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		clients, err := store.Clients().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list clients", err)
		}

		return &ListClientsOutput{Body: clients}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-client",
		Method:      http.MethodGet,
		Path:        "/clients/{id}",
		Summary:     "Get a client by ID",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *GetClientInput) (*GetClientOutput, error) {
		tenantID, _, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		c, err := store.Clients().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("client not found")
			}
			return nil, huma.Error500InternalServerError("failed to get client", err)
		}

		return &GetClientOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-client",
		Method:      http.MethodPut,
		Path:        "/clients/{id}",
		Summary:     "Update a client",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *UpdateClientInput) (*UpdateClientOutput, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Clients().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("client not found")
			}
			return nil, huma.Error500InternalServerError("failed to get client", err)
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.OrgNumber != "" {
			existing.OrgNumber = input.Body.OrgNumber
		}
		if input.Body.Email != "" {
			existing.Email = input.Body.Email
		}
		if input.Body.Phone != "" {
			existing.Phone = input.Body.Phone
		}
		if input.Body.Notes != "" {
			existing.Notes = input.Body.Notes
		}
		existing.UpdatedAt = time.Now()

		if err := store.Clients().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update client", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryClient, "update", existing.ID.String(), nil, ip, ua)

		return &UpdateClientOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-client-aml-status",
		Method:      http.MethodPatch,
		Path:        "/clients/{id}/aml",
		Summary:     "Transition a client's AML review status",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *TransitionAMLStatusInput) (*TransitionAMLStatusOutput, error) {
		// AML review decisions are restricted to license admins.
		tenantID, actorID, err := requireLicenseAdmin(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Clients().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("client not found")
			}
			return nil, huma.Error500InternalServerError("failed to get client", err)
		}

		target := domain.AMLStatus(input.Body.Status)
		if !existing.AMLStatus.ValidTransition(target) {
			return nil, huma.Error400BadRequest("invalid AML status transition from " + string(existing.AMLStatus) + " to " + string(target))
		}

		reviewedAt := time.Now()
		if err := store.Clients().UpdateAMLStatus(ctx, tenantID, input.ID, target, reviewedAt); err != nil {
			return nil, huma.Error500InternalServerError("failed to update AML status", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryAML, "status_change", existing.ID.String(),
			map[string]any{"from": string(existing.AMLStatus), "to": string(target)}, ip, ua)

		notifier.NotifyBestEffort(ctx, tenantID, actorID, notify.KindAMLStatusChanged,
			"AML status for "+existing.Name+" changed to "+string(target))

		existing.AMLStatus = target
		existing.AMLReviewedAt = &reviewedAt
		existing.UpdatedAt = reviewedAt

		return &TransitionAMLStatusOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-client",
		Method:      http.MethodDelete,
		Path:        "/clients/{id}",
		Summary:     "Delete a client",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *DeleteClientInput) (*struct{}, error) {
		tenantID, actorID, err := requireLicenseAdmin(ctx)
		if err != nil {
			return nil, err
		}

		if err := store.Clients().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("client not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete client", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryClient, "delete", input.ID.String(), nil, ip, ua)

		return nil, nil
	})
}
