package v1_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/firmdesk/firmdesk/internal/audit"
	"github.com/firmdesk/firmdesk/internal/domain"
	"github.com/firmdesk/firmdesk/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject tenant/user/role into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(tenantID, userID uuid.UUID, role string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyTenantID, tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	return ctx
}

func employeeCtx(tenantID, userID uuid.UUID) context.Context {
	return userCtx(tenantID, userID, middleware.RoleEmployee)
}

func adminCtx(tenantID, userID uuid.UUID) context.Context {
	return userCtx(tenantID, userID, middleware.RoleLicenseAdmin)
}

func vendorCtx(userID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, middleware.RoleVendor)
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	tenants       domain.TenantRepository
	users         domain.UserRepository
	clients       domain.ClientRepository
	tasks         domain.TaskRepository
	timeEntries   domain.TimeEntryRepository
	notifications domain.NotificationRepository
}

func (m *mockDataStore) Tenants() domain.TenantRepository             { return m.tenants }
func (m *mockDataStore) Users() domain.UserRepository                 { return m.users }
func (m *mockDataStore) Clients() domain.ClientRepository             { return m.clients }
func (m *mockDataStore) Tasks() domain.TaskRepository                 { return m.tasks }
func (m *mockDataStore) TimeEntries() domain.TimeEntryRepository      { return m.timeEntries }
func (m *mockDataStore) Notifications() domain.NotificationRepository { return m.notifications }

// ---------------------------------------------------------------------------
// Mock TenantRepository
// ---------------------------------------------------------------------------

type mockTenantRepo struct {
	createFunc    func(ctx context.Context, t *domain.Tenant) error
	getByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	getBySlugFunc func(ctx context.Context, slug string) (*domain.Tenant, error)
	updateFunc    func(ctx context.Context, t *domain.Tenant) error
	listFunc      func(ctx context.Context) ([]*domain.Tenant, error)
}

func (m *mockTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	return m.createFunc(ctx, t)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockTenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	return m.listFunc(ctx)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, tenantID, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
	listFunc       func(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error)
	deleteFunc     func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, tenantID, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockUserRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock ClientRepository
// ---------------------------------------------------------------------------

type mockClientRepo struct {
	createFunc          func(ctx context.Context, c *domain.Client) error
	getByIDFunc         func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Client, error)
	updateFunc          func(ctx context.Context, c *domain.Client) error
	updateAMLStatusFunc func(ctx context.Context, tenantID, id uuid.UUID, status domain.AMLStatus, reviewedAt time.Time) error
	listFunc            func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Client, error)
	deleteFunc          func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockClientRepo) Create(ctx context.Context, c *domain.Client) error {
	return m.createFunc(ctx, c)
}

func (m *mockClientRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Client, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockClientRepo) Update(ctx context.Context, c *domain.Client) error {
	return m.updateFunc(ctx, c)
}

func (m *mockClientRepo) UpdateAMLStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.AMLStatus, reviewedAt time.Time) error {
	return m.updateAMLStatusFunc(ctx, tenantID, id, status, reviewedAt)
}

func (m *mockClientRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Client, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockClientRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock TaskRepository
// ---------------------------------------------------------------------------

type mockTaskRepo struct {
	createFunc       func(ctx context.Context, t *domain.Task) error
	getByIDFunc      func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Task, error)
	listByClientFunc func(ctx context.Context, tenantID, clientID uuid.UUID) ([]*domain.Task, error)
	listFunc         func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Task, error)
	updateStatusFunc func(ctx context.Context, tenantID, id uuid.UUID, status domain.TaskStatus) error
	updateFunc       func(ctx context.Context, t *domain.Task) error
	deleteFunc       func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return m.createFunc(ctx, t)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Task, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockTaskRepo) ListByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]*domain.Task, error) {
	return m.listByClientFunc(ctx, tenantID, clientID)
}

func (m *mockTaskRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Task, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.TaskStatus) error {
	return m.updateStatusFunc(ctx, tenantID, id, status)
}

func (m *mockTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTaskRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock TimeEntryRepository
// ---------------------------------------------------------------------------

type mockTimeEntryRepo struct {
	createFunc       func(ctx context.Context, e *domain.TimeEntry) error
	getByIDFunc      func(ctx context.Context, tenantID, id uuid.UUID) (*domain.TimeEntry, error)
	updateFunc       func(ctx context.Context, e *domain.TimeEntry) error
	deleteFunc       func(ctx context.Context, tenantID, id uuid.UUID) error
	listFunc         func(ctx context.Context, tenantID uuid.UUID, f domain.TimeEntryFilter) ([]*domain.TimeEntry, error)
	listDetailedFunc func(ctx context.Context, tenantID uuid.UUID, f domain.TimeEntryFilter) ([]*domain.TimeEntryDetail, error)
}

func (m *mockTimeEntryRepo) Create(ctx context.Context, e *domain.TimeEntry) error {
	return m.createFunc(ctx, e)
}

func (m *mockTimeEntryRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.TimeEntry, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockTimeEntryRepo) Update(ctx context.Context, e *domain.TimeEntry) error {
	return m.updateFunc(ctx, e)
}

func (m *mockTimeEntryRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

func (m *mockTimeEntryRepo) List(ctx context.Context, tenantID uuid.UUID, f domain.TimeEntryFilter) ([]*domain.TimeEntry, error) {
	return m.listFunc(ctx, tenantID, f)
}

func (m *mockTimeEntryRepo) ListDetailed(ctx context.Context, tenantID uuid.UUID, f domain.TimeEntryFilter) ([]*domain.TimeEntryDetail, error) {
	return m.listDetailedFunc(ctx, tenantID, f)
}

// ---------------------------------------------------------------------------
// Mock NotificationRepository
// ---------------------------------------------------------------------------

type mockNotificationRepo struct {
	createFunc     func(ctx context.Context, n *domain.Notification) error
	listByUserFunc func(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]*domain.Notification, error)
	markReadFunc   func(ctx context.Context, tenantID, userID, id uuid.UUID, readAt time.Time) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return m.createFunc(ctx, n)
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]*domain.Notification, error) {
	return m.listByUserFunc(ctx, tenantID, userID, limit)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, tenantID, userID, id uuid.UUID, readAt time.Time) error {
	return m.markReadFunc(ctx, tenantID, userID, id, readAt)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc func(ctx context.Context, tenantID uuid.UUID, email, password, name, role string) (*domain.User, error)
	loginFunc    func(ctx context.Context, tenantID uuid.UUID, email, password string) (string, string, error)
	refreshFunc  func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, tenantID uuid.UUID, email, password, name, role string) (*domain.User, error) {
	return m.registerFunc(ctx, tenantID, email, password, name, role)
}

func (m *mockAuthService) Login(ctx context.Context, tenantID uuid.UUID, email, password string) (string, string, error) {
	return m.loginFunc(ctx, tenantID, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshFunc(ctx, refreshToken)
}

// ---------------------------------------------------------------------------
// Mock Auditor — records calls for assertion
// ---------------------------------------------------------------------------

type auditedAction struct {
	tenantID  *uuid.UUID
	actorID   uuid.UUID
	category  audit.Category
	verb      string
	targetID  string
	metadata  map[string]any
	ip        string
	userAgent string
}

type mockAuditor struct {
	recorded  []auditedAction
	queryFunc func(ctx context.Context, tenantID *uuid.UUID, f domain.AuditFilter) ([]*domain.AuditEntry, error)
}

func (m *mockAuditor) RecordBestEffort(_ context.Context, tenantID *uuid.UUID, actorID uuid.UUID, category audit.Category, verb, targetID string, metadata map[string]any, ip, userAgent string) {
	m.recorded = append(m.recorded, auditedAction{
		tenantID:  tenantID,
		actorID:   actorID,
		category:  category,
		verb:      verb,
		targetID:  targetID,
		metadata:  metadata,
		ip:        ip,
		userAgent: userAgent,
	})
}

func (m *mockAuditor) Query(ctx context.Context, tenantID *uuid.UUID, f domain.AuditFilter) ([]*domain.AuditEntry, error) {
	if m.queryFunc == nil {
		return nil, nil
	}
	return m.queryFunc(ctx, tenantID, f)
}

// ---------------------------------------------------------------------------
// Mock Notifier — records calls for assertion
// ---------------------------------------------------------------------------

type sentNotification struct {
	tenantID uuid.UUID
	userID   uuid.UUID
	kind     string
	message  string
}

type mockNotifier struct {
	sent []sentNotification
}

func (m *mockNotifier) NotifyBestEffort(_ context.Context, tenantID, userID uuid.UUID, kind, message string) {
	m.sent = append(m.sent, sentNotification{
		tenantID: tenantID,
		userID:   userID,
		kind:     kind,
		message:  message,
	})
}
