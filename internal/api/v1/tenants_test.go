package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/firmdesk/firmdesk/internal/api/v1"
	"github.com/firmdesk/firmdesk/internal/audit"
	"github.com/firmdesk/firmdesk/internal/domain"
)

func TestCreateTenant(t *testing.T) {
	t.Parallel()

	vendorID := uuid.New()

	t.Run("vendor_creates_firm", func(t *testing.T) {
		t.Parallel()

		var created *domain.Tenant
		_, api := humatest.New(t)
		auditor := &mockAuditor{}
		store := &mockDataStore{
			tenants: &mockTenantRepo{
				createFunc: func(_ context.Context, tenant *domain.Tenant) error {
					created = tenant
					return nil
				},
			},
		}
		v1.RegisterTenantRoutes(api, store, auditor)

		resp := api.PostCtx(vendorCtx(vendorID), "/tenants", map[string]any{
			"name":          "Acme Accounting",
			"slug":          "acme",
			"max_employees": 25,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, created)
		assert.Equal(t, "Acme Accounting", created.Name)
		assert.Equal(t, "acme", created.Slug)
		assert.Equal(t, 25, created.MaxEmployees)

		require.Len(t, auditor.recorded, 1)
		rec := auditor.recorded[0]
		assert.Equal(t, audit.CategoryLicense, rec.category)
		assert.Equal(t, "create", rec.verb)
		assert.Equal(t, vendorID, rec.actorID)
		assert.Nil(t, rec.tenantID, "license actions are vendor-level, outside any firm")
	})

	t.Run("license_admin_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterTenantRoutes(api, &mockDataStore{}, &mockAuditor{})

		resp := api.PostCtx(adminCtx(uuid.New(), uuid.New()), "/tenants", map[string]any{
			"name": "Acme Accounting",
			"slug": "acme",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("duplicate_slug", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			tenants: &mockTenantRepo{
				createFunc: func(_ context.Context, _ *domain.Tenant) error {
					return domain.ErrConflict
				},
			},
		}
		v1.RegisterTenantRoutes(api, store, &mockAuditor{})

		resp := api.PostCtx(vendorCtx(vendorID), "/tenants", map[string]any{
			"name": "Acme Accounting",
			"slug": "acme",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("invalid_slug_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterTenantRoutes(api, &mockDataStore{}, &mockAuditor{})

		resp := api.PostCtx(vendorCtx(vendorID), "/tenants", map[string]any{
			"name": "Acme Accounting",
			"slug": "Not A Slug!",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestListTenants(t *testing.T) {
	t.Parallel()

	t.Run("vendor_lists_all", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			tenants: &mockTenantRepo{
				listFunc: func(_ context.Context) ([]*domain.Tenant, error) {
					return []*domain.Tenant{{ID: uuid.New()}, {ID: uuid.New()}}, nil
				},
			},
		}
		v1.RegisterTenantRoutes(api, store, &mockAuditor{})

		resp := api.GetCtx(vendorCtx(uuid.New()), "/tenants")
		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.Tenant
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body, 2)
	})

	t.Run("employee_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterTenantRoutes(api, &mockDataStore{}, &mockAuditor{})

		resp := api.GetCtx(employeeCtx(uuid.New(), uuid.New()), "/tenants")
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

func TestUpdateTenant(t *testing.T) {
	t.Parallel()

	vendorID := uuid.New()
	firmID := uuid.New()

	t.Run("updates_seat_cap", func(t *testing.T) {
		t.Parallel()

		var updated *domain.Tenant
		_, api := humatest.New(t)
		store := &mockDataStore{
			tenants: &mockTenantRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Tenant, error) {
					return &domain.Tenant{ID: id, Name: "Acme", Slug: "acme", MaxEmployees: 10}, nil
				},
				updateFunc: func(_ context.Context, tenant *domain.Tenant) error {
					updated = tenant
					return nil
				},
			},
		}
		v1.RegisterTenantRoutes(api, store, &mockAuditor{})

		resp := api.PutCtx(vendorCtx(vendorID), "/tenants/"+firmID.String(), map[string]any{
			"max_employees": 50,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, updated)
		assert.Equal(t, 50, updated.MaxEmployees)
		assert.Equal(t, "Acme", updated.Name, "unset fields keep their values")
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			tenants: &mockTenantRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Tenant, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterTenantRoutes(api, store, &mockAuditor{})

		resp := api.PutCtx(vendorCtx(vendorID), "/tenants/"+firmID.String(), map[string]any{
			"name": "Renamed",
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
