package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/firmdesk/firmdesk/internal/api/v1"
	"github.com/firmdesk/firmdesk/internal/audit"
	"github.com/firmdesk/firmdesk/internal/auth"
	"github.com/firmdesk/firmdesk/internal/notify"
	"github.com/firmdesk/firmdesk/internal/store/postgres"
)

func registerAuthRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service, auditor *audit.Service) {
	v1.RegisterAuthRoutes(api, store, authSvc, auditor)
}

func registerVendorRoutes(api huma.API, store *postgres.Store, auditor *audit.Service) {
	v1.RegisterTenantRoutes(api, store, auditor)
}

func registerFirmRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service, auditor *audit.Service, notifier *notify.Notifier) {
	v1.RegisterUserRoutes(api, store, authSvc, auditor)
	v1.RegisterClientRoutes(api, store, auditor, notifier)
	v1.RegisterTaskRoutes(api, store, auditor, notifier)
	v1.RegisterTimeEntryRoutes(api, store, auditor)
	v1.RegisterReportRoutes(api, store)
	v1.RegisterAuditRoutes(api, auditor)
	v1.RegisterNotificationRoutes(api, store)
}
