package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firmdesk/firmdesk/internal/domain"
)

type TimeEntryRepo struct {
	pool *pgxpool.Pool
}

func NewTimeEntryRepo(pool *pgxpool.Pool) *TimeEntryRepo {
	return &TimeEntryRepo{pool: pool}
}

func (r *TimeEntryRepo) Create(ctx context.Context, e *domain.TimeEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO time_entries (id, tenant_id, client_id, task_id, user_id, hours, work_date, notes, billable, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.TenantID, e.ClientID, e.TaskID, e.UserID,
		e.Hours, e.WorkDate, e.Notes, e.Billable, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("timeEntryRepo.Create: %w", err)
	}

	return nil
}

func (r *TimeEntryRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.TimeEntry, error) {
	var e domain.TimeEntry

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, client_id, task_id, user_id, hours, work_date, notes, billable, created_at, updated_at
		 FROM time_entries WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(
		&e.ID, &e.TenantID, &e.ClientID, &e.TaskID, &e.UserID,
		&e.Hours, &e.WorkDate, &e.Notes, &e.Billable, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("timeEntryRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("timeEntryRepo.GetByID: %w", err)
	}

	return &e, nil
}

func (r *TimeEntryRepo) Update(ctx context.Context, e *domain.TimeEntry) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE time_entries SET client_id = $1, task_id = $2, hours = $3, work_date = $4, notes = $5, billable = $6, updated_at = now()
		 WHERE tenant_id = $7 AND id = $8`,
		e.ClientID, e.TaskID, e.Hours, e.WorkDate, e.Notes, e.Billable, e.TenantID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("timeEntryRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("timeEntryRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes an entry permanently. Time entries have no soft delete.
func (r *TimeEntryRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM time_entries WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("timeEntryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("timeEntryRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TimeEntryRepo) List(ctx context.Context, tenantID uuid.UUID, f domain.TimeEntryFilter) ([]*domain.TimeEntry, error) {
	where, args := entryFilterClause(tenantID, f, "")

	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, client_id, task_id, user_id, hours, work_date, notes, billable, created_at, updated_at
		 FROM time_entries `+where+`
		 ORDER BY work_date, created_at
		 LIMIT 10000`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("timeEntryRepo.List: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.ClientID, &e.TaskID, &e.UserID,
			&e.Hours, &e.WorkDate, &e.Notes, &e.Billable, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("timeEntryRepo.List: scan: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("timeEntryRepo.List: rows: %w", err)
	}

	return entries, nil
}

// ListDetailed joins user, client and task names onto each entry so the
// reporting layer never resolves references itself. Deleted tasks degrade
// to an empty task name via the LEFT JOIN.
func (r *TimeEntryRepo) ListDetailed(ctx context.Context, tenantID uuid.UUID, f domain.TimeEntryFilter) ([]*domain.TimeEntryDetail, error) {
	where, args := entryFilterClause(tenantID, f, "te.")

	rows, err := r.pool.Query(ctx,
		`SELECT te.id, te.tenant_id, te.client_id, te.task_id, te.user_id, te.hours, te.work_date,
		        te.notes, te.billable, te.created_at, te.updated_at,
		        u.name, c.name, COALESCE(t.title, '')
		 FROM time_entries te
		 JOIN users u ON u.id = te.user_id
		 JOIN clients c ON c.id = te.client_id
		 LEFT JOIN tasks t ON t.id = te.task_id
		 `+where+`
		 ORDER BY te.work_date, te.created_at
		 LIMIT 10000`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("timeEntryRepo.ListDetailed: %w", err)
	}
	defer rows.Close()

	var details []*domain.TimeEntryDetail
	for rows.Next() {
		var d domain.TimeEntryDetail
		if err := rows.Scan(
			&d.ID, &d.TenantID, &d.ClientID, &d.TaskID, &d.UserID,
			&d.Hours, &d.WorkDate, &d.Notes, &d.Billable, &d.CreatedAt, &d.UpdatedAt,
			&d.UserName, &d.ClientName, &d.TaskName,
		); err != nil {
			return nil, fmt.Errorf("timeEntryRepo.ListDetailed: scan: %w", err)
		}
		details = append(details, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("timeEntryRepo.ListDetailed: rows: %w", err)
	}

	return details, nil
}

// entryFilterClause builds the WHERE clause for time entry listings.
// prefix qualifies column names when the query joins other tables.
func entryFilterClause(tenantID uuid.UUID, f domain.TimeEntryFilter, prefix string) (string, []any) {
	conds := []string{prefix + "tenant_id = $1"}
	args := []any{tenantID}

	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, fmt.Sprintf("%suser_id = $%d", prefix, len(args)))
	}
	if f.ClientID != nil {
		args = append(args, *f.ClientID)
		conds = append(conds, fmt.Sprintf("%sclient_id = $%d", prefix, len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("%swork_date >= $%d", prefix, len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("%swork_date <= $%d", prefix, len(args)))
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}
