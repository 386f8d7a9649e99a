package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/firmdesk/firmdesk/internal/domain"
)

// DefaultQueryLimit bounds audit queries that do not set an explicit limit.
const DefaultQueryLimit = 100

// Service validates and appends audit entries, and exposes filtered reads
// over the log. Entries are immutable once Record returns.
type Service struct {
	repo domain.AuditRepository
}

func NewService(repo domain.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Record validates required fields, assigns ID and CreatedAt, and appends
// the entry. On a validation failure nothing is appended. TenantID, IP and
// UserAgent are optional; Metadata defaults to an empty document.
func (s *Service) Record(ctx context.Context, e *domain.AuditEntry) (*domain.AuditEntry, error) {
	if e.ActorID == uuid.Nil {
		return nil, fmt.Errorf("audit.Record: actor id is required: %w", domain.ErrValidation)
	}
	if e.Action == "" {
		return nil, fmt.Errorf("audit.Record: action is required: %w", domain.ErrValidation)
	}
	if e.TargetType == "" {
		return nil, fmt.Errorf("audit.Record: target type is required: %w", domain.ErrValidation)
	}
	if e.TargetID == "" {
		return nil, fmt.Errorf("audit.Record: target id is required: %w", domain.ErrValidation)
	}

	e.ID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	if e.Metadata == nil {
		e.Metadata = map[string]any{}
	}

	if err := s.repo.Record(ctx, e); err != nil {
		return nil, fmt.Errorf("audit.Record: %w", err)
	}

	return e, nil
}

// RecordAction is the convenience entry point handlers use: it derives the
// action string and target-type label from the category taxonomy and
// delegates to Record. Unknown categories fail validation.
func (s *Service) RecordAction(ctx context.Context, tenantID *uuid.UUID, actorID uuid.UUID, category Category, verb, targetID string, metadata map[string]any, ip, userAgent string) (*domain.AuditEntry, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("audit.RecordAction: unknown category %q: %w", category, domain.ErrValidation)
	}
	if verb == "" {
		return nil, fmt.Errorf("audit.RecordAction: verb is required: %w", domain.ErrValidation)
	}

	return s.Record(ctx, &domain.AuditEntry{
		TenantID:   tenantID,
		ActorID:    actorID,
		Action:     category.Action(verb),
		TargetType: category.TargetType(),
		TargetID:   targetID,
		Metadata:   metadata,
		IP:         ip,
		UserAgent:  userAgent,
	})
}

// Query returns entries matching all set filter fields, newest first,
// truncated to the limit (DefaultQueryLimit when unset). Zero matches is
// an empty slice, not an error.
func (s *Service) Query(ctx context.Context, tenantID *uuid.UUID, f domain.AuditFilter) ([]*domain.AuditEntry, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultQueryLimit
	}

	entries, err := s.repo.Query(ctx, tenantID, f)
	if err != nil {
		return nil, fmt.Errorf("audit.Query: %w", err)
	}

	if entries == nil {
		entries = []*domain.AuditEntry{}
	}

	return entries, nil
}

// RecordBestEffort records an audit entry and only logs on failure. Used
// where the domain action already succeeded and must not be rolled back
// because the audit append failed.
func (s *Service) RecordBestEffort(ctx context.Context, tenantID *uuid.UUID, actorID uuid.UUID, category Category, verb, targetID string, metadata map[string]any, ip, userAgent string) {
	if _, err := s.RecordAction(ctx, tenantID, actorID, category, verb, targetID, metadata, ip, userAgent); err != nil {
		log.Error().Err(err).Str("action", category.Action(verb)).Msg("audit record failed")
	}
}
