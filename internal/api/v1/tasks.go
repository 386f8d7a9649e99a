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

type CreateTaskInput struct {
	Body struct {
		ClientID    uuid.UUID  `json:"client_id" doc:"Client ID"`
		Title       string     `json:"title" minLength:"1" maxLength:"500" doc:"Task title"`
		Description string     `json:"description,omitempty" doc:"Task description"`
		AssignedTo  *uuid.UUID `json:"assigned_to,omitempty" doc:"Assigned user ID"`
		DueDate     *time.Time `json:"due_date,omitempty" doc:"Due date"`
	}
}

type CreateTaskOutput struct {
	Body *domain.Task
}

type ListTasksInput struct {
	ClientID uuid.UUID `query:"client_id" doc:"Filter by client"`
}

type ListTasksOutput struct {
	Body []*domain.Task
}

type GetTaskInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

type GetTaskOutput struct {
	Body *domain.Task
}

type UpdateTaskInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Title       string     `json:"title,omitempty" maxLength:"500" doc:"Task title"`
		Description string     `json:"description,omitempty" doc:"Task description"`
		AssignedTo  *uuid.UUID `json:"assigned_to,omitempty" doc:"Assigned user ID"`
		DueDate     *time.Time `json:"due_date,omitempty" doc:"Due date"`
	}
}

type UpdateTaskOutput struct {
	Body *domain.Task
}

type TransitionTaskStatusInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Status string `json:"status" enum:"open,in_progress,done" doc:"Target status"`
	}
}

type TransitionTaskStatusOutput struct {
	Body *domain.Task
}

type DeleteTaskInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

func RegisterTaskRoutes(api huma.API, store DataStore, auditor Auditor, notifier Notifier) {
	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/tasks",
		Summary:     "Create a new task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := store.Clients().GetByID(ctx, tenantID, input.Body.ClientID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("client not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate client")
		}

		if input.Body.AssignedTo != nil {
			if _, err := store.Users().GetByID(ctx, tenantID, *input.Body.AssignedTo); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("assignee not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate assignee")
			}
		}

		now := time.Now()
		t := &domain.Task{
			ID:          uuid.New(),
			TenantID:    tenantID,
			ClientID:    input.Body.ClientID,
			AssignedTo:  input.Body.AssignedTo,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Status:      domain.TaskStatusOpen,
			DueDate:     input.Body.DueDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Tasks().Create(ctx, t); err != nil {
			return nil, huma.Error500InternalServerError("failed to create task", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryTask, "create", t.ID.String(), nil, ip, ua)

		if t.AssignedTo != nil && *t.AssignedTo != actorID {
			notifier.NotifyBestEffort(ctx, tenantID, *t.AssignedTo, notify.KindTaskAssigned,
				"You were assigned: "+t.Title)
		}

		return &CreateTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks in the firm",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		tenantID, _, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		if input.ClientID != uuid.Nil {
			tasks, err := store.Tasks().ListByClient(ctx, tenantID, input.ClientID)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to list tasks", err)
			}
			return &ListTasksOutput{Body: tasks}, nil
		}

		tasks, err := store.Tasks().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tasks", err)
		}

		return &ListTasksOutput{Body: tasks}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		tenantID, _, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		t, err := store.Tasks().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		return &GetTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPut,
		Path:        "/tasks/{id}",
		Summary:     "Update a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Tasks().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		previousAssignee := existing.AssignedTo

		if input.Body.Title != "" {
			existing.Title = input.Body.Title
		}
		if input.Body.Description != "" {
			existing.Description = input.Body.Description
		}
		if input.Body.AssignedTo != nil {
			if _, err := store.Users().GetByID(ctx, tenantID, *input.Body.AssignedTo); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("assignee not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate assignee")
			}
			existing.AssignedTo = input.Body.AssignedTo
		}
		if input.Body.DueDate != nil {
			existing.DueDate = input.Body.DueDate
		}
		existing.UpdatedAt = time.Now()

		if err := store.Tasks().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update task", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryTask, "update", existing.ID.String(), nil, ip, ua)

		newlyAssigned := existing.AssignedTo != nil &&
			(previousAssignee == nil || *previousAssignee != *existing.AssignedTo)
		if newlyAssigned && *existing.AssignedTo != actorID {
			notifier.NotifyBestEffort(ctx, tenantID, *existing.AssignedTo, notify.KindTaskAssigned,
				"You were assigned: "+existing.Title)
		}

		return &UpdateTaskOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-task-status",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}/status",
		Summary:     "Transition task status",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *TransitionTaskStatusInput) (*TransitionTaskStatusOutput, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Tasks().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		target := domain.TaskStatus(input.Body.Status)
		if !existing.Status.ValidTransition(target) {
			return nil, huma.Error400BadRequest("invalid status transition from " + string(existing.Status) + " to " + string(target))
		}

		if err := store.Tasks().UpdateStatus(ctx, tenantID, input.ID, target); err != nil {
			return nil, huma.Error500InternalServerError("failed to update task status", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryTask, "status_change", existing.ID.String(),
			map[string]any{"from": string(existing.Status), "to": string(target)}, ip, ua)

		if existing.AssignedTo != nil && *existing.AssignedTo != actorID {
			notifier.NotifyBestEffort(ctx, tenantID, *existing.AssignedTo, notify.KindTaskStatusChange,
				existing.Title+" moved to "+string(target))
		}

		existing.Status = target
		existing.UpdatedAt = time.Now()

		return &TransitionTaskStatusOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{id}",
		Summary:     "Delete a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DeleteTaskInput) (*struct{}, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		if err := store.Tasks().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete task", err)
		}

		ip, ua := requestMeta(ctx)
		auditor.RecordBestEffort(ctx, &tenantID, actorID, audit.CategoryTask, "delete", input.ID.String(), nil, ip, ua)

		return nil, nil
	})
}
