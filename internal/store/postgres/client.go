package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firmdesk/firmdesk/internal/domain"
)

type ClientRepo struct {
	pool *pgxpool.Pool
}

func NewClientRepo(pool *pgxpool.Pool) *ClientRepo {
	return &ClientRepo{pool: pool}
}

func (r *ClientRepo) Create(ctx context.Context, c *domain.Client) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO clients (id, tenant_id, name, org_number, email, phone, aml_status, aml_reviewed_at, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.TenantID, c.Name, c.OrgNumber, c.Email, c.Phone,
		c.AMLStatus, c.AMLReviewedAt, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("clientRepo.Create: %w", err)
	}

	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Client, error) {
	var c domain.Client

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, org_number, email, phone, aml_status, aml_reviewed_at, notes, created_at, updated_at
		 FROM clients WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.OrgNumber, &c.Email, &c.Phone,
		&c.AMLStatus, &c.AMLReviewedAt, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *ClientRepo) Update(ctx context.Context, c *domain.Client) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clients SET name = $1, org_number = $2, email = $3, phone = $4, notes = $5, updated_at = now()
		 WHERE tenant_id = $6 AND id = $7`,
		c.Name, c.OrgNumber, c.Email, c.Phone, c.Notes, c.TenantID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("clientRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clientRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ClientRepo) UpdateAMLStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.AMLStatus, reviewedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clients SET aml_status = $1, aml_reviewed_at = $2, updated_at = now()
		 WHERE tenant_id = $3 AND id = $4`,
		status, reviewedAt, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("clientRepo.UpdateAMLStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clientRepo.UpdateAMLStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ClientRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Client, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, org_number, email, phone, aml_status, aml_reviewed_at, notes, created_at, updated_at
		 FROM clients WHERE tenant_id = $1
		 ORDER BY name, created_at
		 LIMIT 1000`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.List: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(
			&c.ID, &c.TenantID, &c.Name, &c.OrgNumber, &c.Email, &c.Phone,
			&c.AMLStatus, &c.AMLReviewedAt, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("clientRepo.List: scan: %w", err)
		}
		clients = append(clients, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clientRepo.List: rows: %w", err)
	}

	return clients, nil
}

func (r *ClientRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM clients WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("clientRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clientRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
