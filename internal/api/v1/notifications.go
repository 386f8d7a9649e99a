package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/firmdesk/firmdesk/internal/domain"
)

type ListNotificationsInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Max results"`
}

type ListNotificationsOutput struct {
	Body []*domain.Notification
}

type MarkNotificationReadInput struct {
	ID uuid.UUID `path:"id" doc:"Notification ID"`
}

type MarkNotificationReadOutput struct {
	Body struct {
		ReadAt time.Time `json:"read_at"`
	}
}

// RegisterNotificationRoutes wires the caller's own notification feed.
func RegisterNotificationRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/notifications",
		Summary:     "List your notifications, newest first",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		notifications, err := store.Notifications().ListByUser(ctx, tenantID, actorID, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list notifications", err)
		}

		return &ListNotificationsOutput{Body: notifications}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-notification-read",
		Method:      http.MethodPatch,
		Path:        "/notifications/{id}/read",
		Summary:     "Mark one of your notifications as read",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *MarkNotificationReadInput) (*MarkNotificationReadOutput, error) {
		tenantID, actorID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		readAt := time.Now()
		if err := store.Notifications().MarkRead(ctx, tenantID, actorID, input.ID, readAt); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("notification not found")
			}
			return nil, huma.Error500InternalServerError("failed to mark notification read", err)
		}

		out := &MarkNotificationReadOutput{}
		out.Body.ReadAt = readAt
		return out, nil
	})
}
