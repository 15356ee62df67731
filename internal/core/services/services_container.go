package services

import (
	"time"

	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	portssvc "github.com/harborbank/corebank_backend/internal/core/ports/services"
)

// NewServiceContainer wires the repository layer into the service façades.
func NewServiceContainer(repos portsrepo.RepositoryProvider, opTimeout time.Duration) *portssvc.ServiceContainer {
	audit := NewActivityAuditRecorder(repos.ActivityRepo)

	return &portssvc.ServiceContainer{
		Account:      NewAccountService(repos.AccountRepo, repos.ProfileRepo, audit),
		Ledger:       NewLedgerService(repos.LedgerRepo, repos.AccountRepo, opTimeout),
		Profile:      NewProfileService(repos.ProfileRepo, repos.AccountRepo, audit),
		Reporting:    NewReportingService(repos.ReportingRepo, repos.LedgerRepo, repos.AccountRepo, repos.ActivityRepo),
		Notification: NewNotificationService(repos.NotificationRepo),
	}
}
