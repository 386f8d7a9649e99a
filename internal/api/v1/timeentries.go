package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/firmdesk/firmdesk/internal/audit"
	"github.com/firmdesk/firmdesk/internal/domain"
	"github.com/firmdesk/firmdesk/internal/server/middleware"
)

type CreateTimeEntryInput struct {
	Body struct {
		ClientID uuid.UUID  `json:"client_id" doc:"Client ID"`
		TaskID   *uuid.UUID `json:"task_id,omitempty" doc:"Optional task ID"`
		Hours    string     `json:"hours" minLength:"1" doc:"Hours worked, decimal string (e.g. \"1.25\")"`
		WorkDate time.Time  `json:"work_date" doc:"Date the work was performed"`
		Notes    string     `json:"notes,omitempty" doc:"Free-form notes"`
		Billable bool       `json:"billable,omitempty" doc:"Whether the time is billable"`
	}
}

type CreateTimeEntryOutput struct {
	Body *domain.TimeEntry
}

type ListTimeEntriesInput struct {
	UserID   uuid.UUID `query:"user_id" doc:"Filter by employee"`
	ClientID uuid.UUID `query:"client_id" doc:"Filter by client"`
	From     time.Time `query:"from" doc:"Inclusive start of work date range"`
	To       time.Time `query:"to" doc:"Inclusive end of work date range"`
}

type ListTimeEntriesOutput struct {
	Body []*domain.TimeEntry
}

type GetTimeEntryInput struct {
	ID uuid.UUID `path:"id" doc:"Time entry ID"`
}

type GetTimeEntryOutput struct {
	Body *domain.TimeEntry
}

type UpdateTimeEntryInput struct {
	ID   uuid.UUID `path:"id" doc:"Time entry ID"`
	Body struct {
		TaskID   *uuid.UUID `json:"task_id,omitempty" doc:"Task ID"`
		Hours    string     `json:"hours,omitempty" doc:"Hours worked, decimal string"`
		WorkDate *time.Time `json:"work_date,omitempty" doc:"Date the work was performed"`
		Notes    *string    `json:"notes,omitempty" doc:"Free-form notes"`
		Billable *bool      `json:"billable,omitempty" doc:"Whether the time is billable"`
	}
}

type UpdateTimeEntryOutput struct {
	Body *domain.TimeEntry
}

type DeleteTimeEntryInput struct {
	ID uuid.UUID `path:"id" doc:"Time entry ID"`
}

func RegisterTimeEntryRoutes(api huma.API, store DataStore, auditor Auditor) {
	huma.Register(api, huma.Operation{
		OperationID: "create-time-entry",
		Method:      http.MethodPost,
		Path:        "/time-entries",
		Summary:     "Record hours worked",
		Tags:        []string{"Time"},
	}, func(ctx context.Context, input *CreateTimeEntryInput) (*CreateTimeEntryOutput, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		hours, err := decimal.NewFromString(input.Body.Hours)
		if err != nil {
			return nil, huma.Error400BadRequest("hours must be a decimal number")
		}

		if _, err := store.Clients().GetByID(ctx, tenantID, input.Body.ClientID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("client not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate client")
		}

		if input.Body.TaskID != nil {
			if _, err := store.Tasks().GetByID(ctx, tenantID, *input.Body.TaskID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("task not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate task")
			}
		}

		now := time.Now()
		e := &domain.TimeEntry{
			ID:        uuid.New(),
			TenantID:  tenantID,
			ClientID:  input.Body.ClientID,
			TaskID:    input.Body.TaskID,
			UserID:    actorID,
			Hours:     hours,
			WorkDate:  input.Body.WorkDate,
			Notes:     input.Body.Notes,
			Billable:  input.Body.Billable,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := e.Validate(); err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		if err := store.TimeEntries().Create(ctx, e); err != nil {
			return nil, huma.Error500InternalServerError("failed to create time entry", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryTime, "create", e.ID.String(),
			map[string]any{"hours": hours.String()}, ip, ua)

		return &CreateTimeEntryOutput{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-time-entries",
		Method:      http.MethodGet,
		Path:        "/time-entries",
		Summary:     "List time entries",
		Tags:        []string{"Time"},
	}, func(ctx context.Context, input *ListTimeEntriesInput) (*ListTimeEntriesOutput, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		f := domain.TimeEntryFilter{
			UserID:   optionalID(input.UserID),
			ClientID: optionalID(input.ClientID),
			From:     optionalTime(input.From),
			To:       optionalTime(input.To),
		}

		// Employees only see their own entries.
		if role, _ := middleware.RoleFromContext(ctx); role == middleware.RoleEmployee {
			f.UserID = &actorID
		}

		entries, err := store.TimeEntries().List(ctx, tenantID, f)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list time entries", err)
		}

		return &ListTimeEntriesOutput{Body: entries}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-time-entry",
		Method:      http.MethodGet,
		Path:        "/time-entries/{id}",
		Summary:     "Get a time entry by ID",
		Tags:        []string{"Time"},
	}, func(ctx context.Context, input *GetTimeEntryInput) (*GetTimeEntryOutput, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		e, err := store.TimeEntries().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("time entry not found")
			}
			return nil, huma.Error500InternalServerError("failed to get time entry", err)
		}

		if role, _ := middleware.RoleFromContext(ctx); role == middleware.RoleEmployee && e.UserID != actorID {
			return nil, huma.Error403Forbidden("cannot view another employee's time entry")
		}

		return &GetTimeEntryOutput{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-time-entry",
		Method:      http.MethodPut,
		Path:        "/time-entries/{id}",
		Summary:     "Update a time entry",
		Tags:        []string{"Time"},
	}, func(ctx context.Context, input *UpdateTimeEntryInput) (*UpdateTimeEntryOutput, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.TimeEntries().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("time entry not found")
			}
			return nil, huma.Error500InternalServerError("failed to get time entry", err)
		}

		if role, _ := middleware.RoleFromContext(ctx); role == middleware.RoleEmployee && existing.UserID != actorID {
			return nil, huma.Error403Forbidden("cannot edit another employee's time entry")
		}

		if input.Body.Hours != "" {
			hours, parseErr := decimal.NewFromString(input.Body.Hours)
			if parseErr != nil {
				return nil, huma.Error400BadRequest("hours must be a decimal number")
			}
			existing.Hours = hours
		}
		if input.Body.TaskID != nil {
			if _, err := store.Tasks().GetByID(ctx, tenantID, *input.Body.TaskID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("task not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate task")
			}
			existing.TaskID = input.Body.TaskID
		}
		if input.Body.WorkDate != nil {
			existing.WorkDate = *input.Body.WorkDate
		}
		if input.Body.Notes != nil {
			existing.Notes = *input.Body.Notes
		}
		if input.Body.Billable != nil {
			existing.Billable = *input.Body.Billable
		}
		existing.UpdatedAt = time.Now()

		if err := existing.Validate(); err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		if err := store.TimeEntries().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update time entry", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryTime, "update", existing.ID.String(), nil, ip, ua)

		return &UpdateTimeEntryOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-time-entry",
		Method:      http.MethodDelete,
		Path:        "/time-entries/{id}",
		Summary:     "Delete a time entry",
		Tags:        []string{"Time"},
	}, func(ctx context.Context, input *DeleteTimeEntryInput) (*struct{}, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.TimeEntries().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("time entry not found")
			}
			return nil, huma.Error500InternalServerError("failed to get time entry", err)
		}

		if role, _ := middleware.RoleFromContext(ctx); role == middleware.RoleEmployee && existing.UserID != actorID {
			return nil, huma.Error403Forbidden("cannot delete another employee's time entry")
		}

		if err := store.TimeEntries().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("time entry not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete time entry", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryTime, "delete", input.ID.String(), nil, ip, ua)

		return nil, nil
	})
}
