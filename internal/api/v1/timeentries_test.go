package v1_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/firmdesk/firmdesk/internal/api/v1"
	"github.com/firmdesk/firmdesk/internal/audit"
	"github.com/firmdesk/firmdesk/internal/domain"
)

func TestCreateTimeEntry(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	userID := uuid.New()
	clientID := uuid.New()

	clientRepo := &mockClientRepo{
		getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Client, error) {
			return &domain.Client{ID: clientID, TenantID: tenantID}, nil
		},
	}

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var created *domain.TimeEntry
		_, api := humatest.New(t)
		auditor := &mockAuditor{}
		store := &mockDataStore{
			clients: clientRepo,
			timeEntries: &mockTimeEntryRepo{
				createFunc: func(_ context.Context, e *domain.TimeEntry) error {
					created = e
					return nil
				},
			},
		}
		v1.RegisterTimeEntryRoutes(api, store, auditor)

		resp := api.PostCtx(employeeCtx(tenantID, userID), "/time-entries", map[string]any{
			"client_id": clientID.String(),
			"hours":     "1.25",
			"work_date": "2026-08-20T00:00:00Z",
			"notes":     "Reconciliation",
			"billable":  true,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, created)
		assert.Equal(t, tenantID, created.TenantID)
		assert.Equal(t, userID, created.UserID, "entry is always recorded for the caller")
		assert.True(t, created.Hours.Equal(decimal.RequireFromString("1.25")))
		assert.True(t, created.Billable)

		require.Len(t, auditor.recorded, 1)
		assert.Equal(t, audit.CategoryTime, auditor.recorded[0].category)
		assert.Equal(t, "create", auditor.recorded[0].verb)
		assert.Equal(t, "1.25", auditor.recorded[0].metadata["hours"])
	})

	t.Run("zero_hours_rejected", func(t *testing.T) {
		t.Parallel()

		var createCalled bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			clients: clientRepo,
			timeEntries: &mockTimeEntryRepo{
				createFunc: func(_ context.Context, _ *domain.TimeEntry) error {
					createCalled = true
					return nil
				},
			},
		}
		v1.RegisterTimeEntryRoutes(api, store, &mockAuditor{})

		resp := api.PostCtx(employeeCtx(tenantID, userID), "/time-entries", map[string]any{
			"client_id": clientID.String(),
			"hours":     "0",
			"work_date": "2026-08-20T00:00:00Z",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.False(t, createCalled)
	})

	t.Run("negative_hours_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{clients: clientRepo, timeEntries: &mockTimeEntryRepo{}}
		v1.RegisterTimeEntryRoutes(api, store, &mockAuditor{})

		resp := api.PostCtx(employeeCtx(tenantID, userID), "/time-entries", map[string]any{
			"client_id": clientID.String(),
			"hours":     "-2",
			"work_date": "2026-08-20T00:00:00Z",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("non_decimal_hours_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{clients: clientRepo, timeEntries: &mockTimeEntryRepo{}}
		v1.RegisterTimeEntryRoutes(api, store, &mockAuditor{})

		resp := api.PostCtx(employeeCtx(tenantID, userID), "/time-entries", map[string]any{
			"client_id": clientID.String(),
			"hours":     "two",
			"work_date": "2026-08-20T00:00:00Z",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("unknown_client_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			clients: &mockClientRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Client, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterTimeEntryRoutes(api, store, &mockAuditor{})

		resp := api.PostCtx(employeeCtx(tenantID, userID), "/time-entries", map[string]any{
			"client_id": uuid.New().String(),
			"hours":     "1",
			"work_date": "2026-08-20T00:00:00Z",
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("unknown_task_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			clients: clientRepo,
			tasks: &mockTaskRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Task, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterTimeEntryRoutes(api, store, &mockAuditor{})

		resp := api.PostCtx(employeeCtx(tenantID, userID), "/time-entries", map[string]any{
			"client_id": clientID.String(),
			"task_id":   uuid.New().String(),
			"hours":     "1",
			"work_date": "2026-08-20T00:00:00Z",
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestListTimeEntries(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("employee_scoped_to_own_entries", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			timeEntries: &mockTimeEntryRepo{
				listFunc: func(_ context.Context, tid uuid.UUID, f domain.TimeEntryFilter) ([]*domain.TimeEntry, error) {
					assert.Equal(t, tenantID, tid)
					require.NotNil(t, f.UserID)
					assert.Equal(t, userID, *f.UserID, "employee filter forced to own ID")
					return nil, nil
				},
			},
		}
		v1.RegisterTimeEntryRoutes(api, store, &mockAuditor{})

		// Even an explicit user_id for someone else is overridden.
		resp := api.GetCtx(employeeCtx(tenantID, userID), "/time-entries?user_id="+uuid.New().String())
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("admin_sees_requested_filter", func(t *testing.T) {
		t.Parallel()

		otherID := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			timeEntries: &mockTimeEntryRepo{
				listFunc: func(_ context.Context, _ uuid.UUID, f domain.TimeEntryFilter) ([]*domain.TimeEntry, error) {
					require.NotNil(t, f.UserID)
					assert.Equal(t, otherID, *f.UserID)
					return nil, nil
				},
			},
		}
		v1.RegisterTimeEntryRoutes(api, store, &mockAuditor{})

		resp := api.GetCtx(adminCtx(tenantID, userID), "/time-entries?user_id="+otherID.String())
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("admin_without_filters_sees_everything", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			timeEntries: &mockTimeEntryRepo{
				listFunc: func(_ context.Context, _ uuid.UUID, f domain.TimeEntryFilter) ([]*domain.TimeEntry, error) {
					assert.Nil(t, f.UserID)
					assert.Nil(t, f.ClientID)
					assert.Nil(t, f.From)
					assert.Nil(t, f.To)
					return nil, nil
				},
			},
		}
		v1.RegisterTimeEntryRoutes(api, store, &mockAuditor{})

		resp := api.GetCtx(adminCtx(tenantID, userID), "/time-entries")
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("date_range_passed_through", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			timeEntries: &mockTimeEntryRepo{
				listFunc: func(_ context.Context, _ uuid.UUID, f domain.TimeEntryFilter) ([]*domain.TimeEntry, error) {
					require.NotNil(t, f.From)
					require.NotNil(t, f.To)
					assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), f.From.UTC())
					assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), f.To.UTC())
					return nil, nil
				},
			},
		}
		v1.RegisterTimeEntryRoutes(api, store, &mockAuditor{})

		resp := api.GetCtx(adminCtx(tenantID, userID), "/time-entries?from=2026-08-01T00:00:00Z&to=2026-08-31T00:00:00Z")
		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestUpdateTimeEntry(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	ownerID := uuid.New()
	entryID := uuid.New()

	newStore := func(updated **domain.TimeEntry) *mockDataStore {
		return &mockDataStore{
			timeEntries: &mockTimeEntryRepo{
				getByIDFunc: func(_ context.Context, _, id uuid.UUID) (*domain.TimeEntry, error) {
					return &domain.TimeEntry{
						ID:       id,
						TenantID: tenantID,
						ClientID: uuid.New(),
						UserID:   ownerID,
						Hours:    decimal.NewFromInt(2),
						WorkDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
					}, nil
				},
				updateFunc: func(_ context.Context, e *domain.TimeEntry) error {
					if updated != nil {
						*updated = e
					}
					return nil
				},
			},
		}
	}

	t.Run("owner_can_update", func(t *testing.T) {
		t.Parallel()

		var updated *domain.TimeEntry
		_, api := humatest.New(t)
		v1.RegisterTimeEntryRoutes(api, newStore(&updated), &mockAuditor{})

		resp := api.PutCtx(employeeCtx(tenantID, ownerID), "/time-entries/"+entryID.String(), map[string]any{
			"hours": "3.5",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, updated)
		assert.True(t, updated.Hours.Equal(decimal.RequireFromString("3.5")))
	})

	t.Run("other_employee_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterTimeEntryRoutes(api, newStore(nil), &mockAuditor{})

		resp := api.PutCtx(employeeCtx(tenantID, uuid.New()), "/time-entries/"+entryID.String(), map[string]any{
			"hours": "3.5",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("admin_can_update_any", func(t *testing.T) {
		t.Parallel()

		var updated *domain.TimeEntry
		_, api := humatest.New(t)
		v1.RegisterTimeEntryRoutes(api, newStore(&updated), &mockAuditor{})

		resp := api.PutCtx(adminCtx(tenantID, uuid.New()), "/time-entries/"+entryID.String(), map[string]any{
			"notes": "Adjusted after review",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, updated)
		assert.Equal(t, "Adjusted after review", updated.Notes)
	})
}
