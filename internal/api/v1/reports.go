package v1

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/firmdesk/firmdesk/internal/domain"
	"github.com/firmdesk/firmdesk/internal/report"
	"github.com/firmdesk/firmdesk/internal/server/middleware"
)

type TimeReportInput struct {
	UserID   uuid.UUID `query:"user_id" doc:"Filter by employee"`
	ClientID uuid.UUID `query:"client_id" doc:"Filter by client"`
	From     time.Time `query:"from" doc:"Inclusive start of work date range"`
	To       time.Time `query:"to" doc:"Inclusive end of work date range"`
}

// ReportGroup is one employee or client bucket in a time report.
type ReportGroup struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	TotalHours string    `json:"total_hours"`
	EntryCount int       `json:"entry_count"`
}

type TimeReportOutput struct {
	Body struct {
		ByEmployee   []ReportGroup `json:"by_employee"`
		ByClient     []ReportGroup `json:"by_client"`
		TotalHours   string        `json:"total_hours"`
		TotalEntries int           `json:"total_entries"`
	}
}

type ExportTimeReportInput struct {
	Format   string    `query:"format" enum:"tabular,narrative" default:"tabular" doc:"Export format"`
	UserID   uuid.UUID `query:"user_id" doc:"Filter by employee"`
	ClientID uuid.UUID `query:"client_id" doc:"Filter by client"`
	From     time.Time `query:"from" doc:"Inclusive start of work date range"`
	To       time.Time `query:"to" doc:"Inclusive end of work date range"`
}

type ExportTimeReportOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func RegisterReportRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "time-report",
		Method:      http.MethodGet,
		Path:        "/reports/time",
		Summary:     "Aggregate hours by employee and client",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *TimeReportInput) (*TimeReportOutput, error) {
		entries, err := fetchReportEntries(ctx, store,
			optionalID(input.UserID), optionalID(input.ClientID),
			optionalTime(input.From), optionalTime(input.To))
		if err != nil {
			return nil, err
		}

		summary := report.Aggregate(entries)

		out := &TimeReportOutput{}
		out.Body.ByEmployee = toReportGroups(summary.ByEmployee)
		out.Body.ByClient = toReportGroups(summary.ByClient)
		out.Body.TotalHours = summary.TotalHours.String()
		out.Body.TotalEntries = summary.TotalEntries
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "export-time-report",
		Method:      http.MethodGet,
		Path:        "/reports/time/export",
		Summary:     "Export time entries as CSV or plain text",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *ExportTimeReportInput) (*ExportTimeReportOutput, error) {
		entries, err := fetchReportEntries(ctx, store,
			optionalID(input.UserID), optionalID(input.ClientID),
			optionalTime(input.From), optionalTime(input.To))
		if err != nil {
			return nil, err
		}

		format := report.Format(input.Format)
		data, err := report.Render(entries, format)
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedFormat) {
				return nil, huma.Error400BadRequest("unsupported export format: " + input.Format)
			}
			return nil, huma.Error500InternalServerError("failed to render report", err)
		}

		contentType := "text/plain; charset=utf-8"
		if format == report.FormatTabular {
			contentType = "text/csv; charset=utf-8"
		}

		return &ExportTimeReportOutput{ContentType: contentType, Body: data}, nil
	})
}

// fetchReportEntries loads denormalized entries for the caller's firm,
// narrowing employees to their own hours.
func fetchReportEntries(ctx context.Context, store DataStore, userID, clientID *uuid.UUID, from, to *time.Time) ([]*domain.TimeEntryDetail, error) {
	tenantID, actorID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	f := domain.TimeEntryFilter{
		UserID:   userID,
		ClientID: clientID,
		From:     from,
		To:       to,
	}

	if role, _ := middleware.RoleFromContext(ctx); role == middleware.RoleEmployee {
		f.UserID = &actorID
	}

	entries, err := store.TimeEntries().ListDetailed(ctx, tenantID, f)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load time entries", err)
	}

	return entries, nil
}

// toReportGroups flattens a group map into a slice sorted by name, with ID
// as the tiebreaker so output is deterministic.
func toReportGroups(groups map[uuid.UUID]*report.Group) []ReportGroup {
	out := make([]ReportGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, ReportGroup{
			ID:         g.ID,
			Name:       g.Name,
			TotalHours: g.TotalHours.String(),
			EntryCount: len(g.Entries),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
