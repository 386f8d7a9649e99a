package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AMLStatus string

const (
	AMLNotStarted AMLStatus = "not_started"
	AMLInReview   AMLStatus = "in_review"
	AMLApproved   AMLStatus = "approved"
	AMLRejected   AMLStatus = "rejected"
)

// ValidTransition checks if an AML status change is allowed.
// Allowed: not_started->in_review, in_review->approved, in_review->rejected,
// rejected->in_review (resubmission), approved->in_review (periodic re-check).
func (s AMLStatus) ValidTransition(to AMLStatus) bool {
	switch s {
	case AMLNotStarted:
		return to == AMLInReview
	case AMLInReview:
		return to == AMLApproved || to == AMLRejected
	case AMLApproved, AMLRejected:
		return to == AMLInReview
	default:
		return false
	}
}

// Client is a customer of the accounting firm.
type Client struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	Name          string
	OrgNumber     string
	Email         string
	Phone         string
	AMLStatus     AMLStatus
	AMLReviewedAt *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ClientRepository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	Update(ctx context.Context, c *Client) error
	UpdateAMLStatus(ctx context.Context, tenantID, id uuid.UUID, status AMLStatus, reviewedAt time.Time) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*Client, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
