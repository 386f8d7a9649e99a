package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/firmdesk/firmdesk/internal/api/v1"
	"github.com/firmdesk/firmdesk/internal/domain"
)

func detailEntry(userID, clientID uuid.UUID, userName, clientName, hours string, workDate time.Time) *domain.TimeEntryDetail {
	return &domain.TimeEntryDetail{
		TimeEntry: domain.TimeEntry{
			ID:       uuid.New(),
			UserID:   userID,
			ClientID: clientID,
			Hours:    decimal.RequireFromString(hours),
			WorkDate: workDate,
			Billable: true,
		},
		UserName:   userName,
		ClientName: clientName,
	}
}

func TestTimeReport(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	adminID := uuid.New()
	emp1 := uuid.New()
	emp2 := uuid.New()
	cli1 := uuid.New()
	cli2 := uuid.New()
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	entries := []*domain.TimeEntryDetail{
		detailEntry(emp1, cli1, "Alice", "Acme", "4.0", day),
		detailEntry(emp2, cli1, "Bob", "Acme", "1.5", day),
		detailEntry(emp2, cli2, "Bob", "Beta", "1.5", day),
	}

	t.Run("aggregates_by_employee_and_client", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			timeEntries: &mockTimeEntryRepo{
				listDetailedFunc: func(_ context.Context, tid uuid.UUID, _ domain.TimeEntryFilter) ([]*domain.TimeEntryDetail, error) {
					assert.Equal(t, tenantID, tid)
					return entries, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store)

		resp := api.GetCtx(adminCtx(tenantID, adminID), "/reports/time")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			ByEmployee []v1.ReportGroup `json:"by_employee"`
			ByClient   []v1.ReportGroup `json:"by_client"`
			TotalHours string           `json:"total_hours"`
			TotalEntries int            `json:"total_entries"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

		assert.Equal(t, "7", body.TotalHours)
		assert.Equal(t, 3, body.TotalEntries)

		require.Len(t, body.ByEmployee, 2)
		assert.Equal(t, "Alice", body.ByEmployee[0].Name) // sorted by name
		assert.Equal(t, "4", body.ByEmployee[0].TotalHours)
		assert.Equal(t, "Bob", body.ByEmployee[1].Name)
		assert.Equal(t, "3", body.ByEmployee[1].TotalHours)
		assert.Equal(t, 2, body.ByEmployee[1].EntryCount)

		require.Len(t, body.ByClient, 2)
		assert.Equal(t, "Acme", body.ByClient[0].Name)
		assert.Equal(t, "5.5", body.ByClient[0].TotalHours)
		assert.Equal(t, "Beta", body.ByClient[1].Name)
		assert.Equal(t, "1.5", body.ByClient[1].TotalHours)
	})

	t.Run("empty_report", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			timeEntries: &mockTimeEntryRepo{
				listDetailedFunc: func(_ context.Context, _ uuid.UUID, _ domain.TimeEntryFilter) ([]*domain.TimeEntryDetail, error) {
					return nil, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store)

		resp := api.GetCtx(adminCtx(tenantID, adminID), "/reports/time")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			TotalHours   string `json:"total_hours"`
			TotalEntries int    `json:"total_entries"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "0", body.TotalHours)
		assert.Zero(t, body.TotalEntries)
	})

	t.Run("employee_scoped_to_own_hours", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			timeEntries: &mockTimeEntryRepo{
				listDetailedFunc: func(_ context.Context, _ uuid.UUID, f domain.TimeEntryFilter) ([]*domain.TimeEntryDetail, error) {
					require.NotNil(t, f.UserID)
					assert.Equal(t, emp1, *f.UserID)
					return nil, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store)

		resp := api.GetCtx(employeeCtx(tenantID, emp1), "/reports/time?user_id="+emp2.String())
		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestExportTimeReport(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	adminID := uuid.New()
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	entries := []*domain.TimeEntryDetail{
		detailEntry(uuid.New(), uuid.New(), "Alice", "Acme", "4.0", day),
	}

	newStore := func() *mockDataStore {
		return &mockDataStore{
			timeEntries: &mockTimeEntryRepo{
				listDetailedFunc: func(_ context.Context, _ uuid.UUID, _ domain.TimeEntryFilter) ([]*domain.TimeEntryDetail, error) {
					return entries, nil
				},
			},
		}
	}

	t.Run("tabular_is_csv", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterReportRoutes(api, newStore())

		resp := api.GetCtx(adminCtx(tenantID, adminID), "/reports/time/export?format=tabular")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/csv")

		out := resp.Body.String()
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Date,Client,Employee,Task,Notes,Hours,Billable", lines[0])
		assert.Contains(t, lines[1], "2026-08-20")
		assert.Contains(t, lines[1], "Acme")
		assert.Contains(t, lines[1], "Alice")
	})

	t.Run("narrative_is_plain_text", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterReportRoutes(api, newStore())

		resp := api.GetCtx(adminCtx(tenantID, adminID), "/reports/time/export?format=narrative")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, resp.Body.String(), "Total hours:")
	})

	t.Run("default_format_is_tabular", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterReportRoutes(api, newStore())

		resp := api.GetCtx(adminCtx(tenantID, adminID), "/reports/time/export")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/csv")
	})

	t.Run("unknown_format_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterReportRoutes(api, newStore())

		// The enum constraint rejects it before the handler runs.
		resp := api.GetCtx(adminCtx(tenantID, adminID), "/reports/time/export?format=xml")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}
