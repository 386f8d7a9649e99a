package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/firmdesk/firmdesk/internal/api/v1"
	"github.com/firmdesk/firmdesk/internal/domain"
)

func TestListNotifications(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("own_feed", func(t *testing.T) {
		t.Parallel()

		store := &mockDataStore{
			notifications: &mockNotificationRepo{
				listByUserFunc: func(_ context.Context, tid, uid uuid.UUID, limit int) ([]*domain.Notification, error) {
					assert.Equal(t, tenantID, tid)
					assert.Equal(t, userID, uid)
					assert.Equal(t, 50, limit)
					return []*domain.Notification{
						{ID: uuid.New(), TenantID: tenantID, UserID: userID, Kind: "task_assigned", Message: "You were assigned to Bookkeeping Q3", CreatedAt: time.Now()},
					}, nil
				},
			},
		}

		_, api := humatest.New(t)
		v1.RegisterNotificationRoutes(api, store)

		resp := api.GetCtx(employeeCtx(tenantID, userID), "/notifications")
		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.Notification
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "task_assigned", body[0].Kind)
		assert.Nil(t, body[0].ReadAt)
	})

	t.Run("custom_limit", func(t *testing.T) {
		t.Parallel()

		store := &mockDataStore{
			notifications: &mockNotificationRepo{
				listByUserFunc: func(_ context.Context, _, _ uuid.UUID, limit int) ([]*domain.Notification, error) {
					assert.Equal(t, 5, limit)
					return nil, nil
				},
			},
		}

		_, api := humatest.New(t)
		v1.RegisterNotificationRoutes(api, store)

		resp := api.GetCtx(employeeCtx(tenantID, userID), "/notifications?limit=5")
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("missing_tenant", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterNotificationRoutes(api, &mockDataStore{})

		resp := api.Get("/notifications")
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

func TestMarkNotificationRead(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	userID := uuid.New()
	notifID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		store := &mockDataStore{
			notifications: &mockNotificationRepo{
				markReadFunc: func(_ context.Context, tid, uid, id uuid.UUID, readAt time.Time) error {
					assert.Equal(t, tenantID, tid)
					assert.Equal(t, userID, uid)
					assert.Equal(t, notifID, id)
					assert.WithinDuration(t, time.Now(), readAt, time.Minute)
					return nil
				},
			},
		}

		_, api := humatest.New(t)
		v1.RegisterNotificationRoutes(api, store)

		resp := api.PatchCtx(employeeCtx(tenantID, userID), "/notifications/"+notifID.String()+"/read")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			ReadAt time.Time `json:"read_at"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(t, body.ReadAt.IsZero())
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		store := &mockDataStore{
			notifications: &mockNotificationRepo{
				markReadFunc: func(_ context.Context, _, _, _ uuid.UUID, _ time.Time) error {
					return domain.ErrNotFound
				},
			},
		}

		_, api := humatest.New(t)
		v1.RegisterNotificationRoutes(api, store)

		resp := api.PatchCtx(employeeCtx(tenantID, userID), "/notifications/"+uuid.NewString()+"/read")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("cannot_read_someone_elses", func(t *testing.T) {
		t.Parallel()

		// The repository scopes by the acting user, so a foreign
		// notification simply does not match.
		store := &mockDataStore{
			notifications: &mockNotificationRepo{
				markReadFunc: func(_ context.Context, _, uid, _ uuid.UUID, _ time.Time) error {
					assert.Equal(t, userID, uid)
					return domain.ErrNotFound
				},
			},
		}

		_, api := humatest.New(t)
		v1.RegisterNotificationRoutes(api, store)

		resp := api.PatchCtx(employeeCtx(tenantID, userID), "/notifications/"+uuid.NewString()+"/read")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
