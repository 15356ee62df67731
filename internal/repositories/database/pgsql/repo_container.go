package pgsql

import (
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		LedgerRepo:       newPgxLedgerRepository(dbPool),
		ProfileRepo:      newPgxProfileRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
		ActivityRepo:     newPgxActivityRepository(dbPool),
		OutboxRepo:       newPgxOutboxRepository(dbPool),
		ReportingRepo:    newReportingRepository(dbPool),
	}
}
