package services

import (
	"context"
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingSvcFacade is the read-only query façade over committed state.
type ReportingSvcFacade interface {
	// GetBalanceHistory replays one account's ledger rows in timestamp
	// order, producing the balance after each row.
	GetBalanceHistory(ctx context.Context, accountID string, actor domain.Actor) ([]domain.BalancePoint, error)

	// GetBankOverview returns the staff dashboard headline numbers.
	GetBankOverview(ctx context.Context, actor domain.Actor) (*domain.BankOverview, error)

	// GetTypeSummary aggregates transactions by type over [from, to) (staff only).
	GetTypeSummary(ctx context.Context, from, to time.Time, actor domain.Actor) ([]domain.TypeSummaryRow, error)

	// GetTodaySummary aggregates today's committed transactions (staff only).
	GetTodaySummary(ctx context.Context, actor domain.Actor) (*domain.DaySummary, error)

	// ListLargeTransactions returns transactions at or above threshold (staff only).
	ListLargeTransactions(ctx context.Context, threshold decimal.Decimal, limit int, actor domain.Actor) ([]domain.Transaction, error)

	// GetTopCustomers ranks customers by total balance (staff only).
	GetTopCustomers(ctx context.Context, limit int, actor domain.Actor) ([]domain.TopCustomerRow, error)

	// ListRecentTransactions returns the newest ledger rows bank-wide (staff only).
	ListRecentTransactions(ctx context.Context, limit int, actor domain.Actor) ([]domain.Transaction, error)

	// ListRecentActivities returns recent administrative audit rows (staff only).
	ListRecentActivities(ctx context.Context, limit int, actor domain.Actor) ([]domain.ActivityLog, error)
}

// NotificationSvcFacade reads and settles a profile's notifications.
type NotificationSvcFacade interface {
	// ListNotifications retrieves the actor's notifications, newest first.
	ListNotifications(ctx context.Context, limit int, actor domain.Actor) ([]domain.Notification, error)

	// MarkNotificationRead flags one of the actor's notifications as read.
	MarkNotificationRead(ctx context.Context, notificationID string, actor domain.Actor) error
}
