package repositories

import (
	"context"
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines read-only aggregate queries over committed
// state. Nothing here mutates the ledger.
type ReportingRepository interface {
	// GetBankOverview returns customer/account counts and total held balance.
	GetBankOverview(ctx context.Context) (*domain.BankOverview, error)

	// GetTypeSummary aggregates transactions by type over [from, to).
	GetTypeSummary(ctx context.Context, from, to time.Time) ([]domain.TypeSummaryRow, error)

	// GetDaySummary aggregates the transactions committed on one day.
	GetDaySummary(ctx context.Context, day time.Time) (*domain.DaySummary, error)

	// ListLargeTransactions returns transactions at or above threshold, largest first.
	ListLargeTransactions(ctx context.Context, threshold decimal.Decimal, limit int) ([]domain.Transaction, error)

	// GetTopCustomers ranks customers by total account balance, descending.
	GetTopCustomers(ctx context.Context, limit int) ([]domain.TopCustomerRow, error)
}
