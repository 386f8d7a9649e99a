package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/firmdesk/firmdesk/internal/domain"
)

type QueryAuditInput struct {
	ActorID    uuid.UUID `query:"actor_id" doc:"Filter by acting user"`
	Action     string    `query:"action" doc:"Filter by exact action (e.g. client.create)"`
	TargetType string    `query:"target_type" doc:"Filter by target type"`
	Start      time.Time `query:"start" doc:"Inclusive start of time range"`
	End        time.Time `query:"end" doc:"Inclusive end of time range"`
	Limit      int       `query:"limit" minimum:"1" maximum:"1000" default:"100" doc:"Max results"`
}

// AuditEntryView is the read shape of one audit record.
type AuditEntryView struct {
	ID         uuid.UUID      `json:"id"`
	ActorID    uuid.UUID      `json:"actor_id"`
	Action     string         `json:"action"`
	TargetType string         `json:"target_type"`
	TargetID   string         `json:"target_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	IP         string         `json:"ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

type QueryAuditOutput struct {
	Body []AuditEntryView
}

// RegisterAuditRoutes wires the audit trail query endpoint. Reading the
// trail is restricted to license admins; results are always scoped to the
// caller's firm.
func RegisterAuditRoutes(api huma.API, auditor Auditor) {
	huma.Register(api, huma.Operation{
		OperationID: "query-audit-log",
		Method:      http.MethodGet,
		Path:        "/audit",
		Summary:     "Query the firm's audit trail",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *QueryAuditInput) (*QueryAuditOutput, error) {
		tenantID, _, err := requireLicenseAdmin(ctx)
		if err != nil {
			return nil, err
		}

		entries, err := auditor.Query(ctx, &tenantID, domain.AuditFilter{
			ActorID:    optionalID(input.ActorID),
			Action:     input.Action,
			TargetType: input.TargetType,
			Start:      optionalTime(input.Start),
			End:        optionalTime(input.End),
			Limit:      input.Limit,
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to query audit trail", err)
		}

		views := make([]AuditEntryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, AuditEntryView{
				ID:         e.ID,
				ActorID:    e.ActorID,
				Action:     e.Action,
				TargetType: e.TargetType,
				TargetID:   e.TargetID,
				Metadata:   e.Metadata,
				IP:         e.IP,
				UserAgent:  e.UserAgent,
				CreatedAt:  e.CreatedAt,
			})
		}

		return &QueryAuditOutput{Body: views}, nil
	})
}
