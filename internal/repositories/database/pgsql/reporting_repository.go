package pgsql

import (
	"context"
	"time"

	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{BaseRepository: BaseRepository{Pool: db}}
}

// GetBankOverview returns customer/account counts and total held balance.
func (r *reportingRepository) GetBankOverview(ctx context.Context) (*domain.BankOverview, error) {
	query := `
		SELECT
			(SELECT COUNT(DISTINCT p.profile_id)
			   FROM profiles p
			   JOIN accounts a ON a.owner_id = p.profile_id
			  WHERE p.role = 'CUSTOMER' AND p.deleted_at IS NULL) AS total_customers,
			(SELECT COUNT(*) FROM accounts) AS total_accounts,
			(SELECT COALESCE(SUM(balance), 0) FROM accounts) AS total_balance;
	`
	var overview domain.BankOverview
	err := r.Pool.QueryRow(ctx, query).Scan(
		&overview.TotalCustomers,
		&overview.TotalAccounts,
		&overview.TotalBalance,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bank overview", err)
	}
	return &overview, nil
}

// GetTypeSummary aggregates transactions by type over [from, to).
func (r *reportingRepository) GetTypeSummary(ctx context.Context, from, to time.Time) ([]domain.TypeSummaryRow, error) {
	query := `
		SELECT transaction_type, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE timestamp >= $1 AND timestamp < $2
		GROUP BY transaction_type
		ORDER BY transaction_type;
	`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query type summary", err)
	}
	defer rows.Close()

	result := []domain.TypeSummaryRow{}
	for rows.Next() {
		var row domain.TypeSummaryRow
		var txnType string
		if err := rows.Scan(&txnType, &row.Count, &row.TotalAmount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan type summary row", err)
		}
		row.TransactionType = domain.TransactionType(txnType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating type summary rows", err)
	}
	return result, nil
}

// GetDaySummary aggregates the transactions committed on one calendar day (UTC).
func (r *reportingRepository) GetDaySummary(ctx context.Context, day time.Time) (*domain.DaySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE timestamp >= $1 AND timestamp < $2;
	`
	summary := domain.DaySummary{Date: start}
	if err := r.Pool.QueryRow(ctx, query, start, end).Scan(&summary.Count, &summary.TotalAmount); err != nil {
		return nil, apperrors.NewAppError(500, "failed to query day summary", err)
	}
	return &summary, nil
}

// ListLargeTransactions returns transactions at or above threshold, largest first.
func (r *reportingRepository) ListLargeTransactions(ctx context.Context, threshold decimal.Decimal, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE amount >= $1
		ORDER BY amount DESC, timestamp DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, threshold, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query large transactions", err)
	}
	return scanTransactionRows(rows)
}

// GetTopCustomers ranks customers by total account balance, descending.
func (r *reportingRepository) GetTopCustomers(ctx context.Context, limit int) ([]domain.TopCustomerRow, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `
		SELECT p.profile_id, p.name, COALESCE(SUM(a.balance), 0) AS total_balance
		FROM profiles p
		JOIN accounts a ON a.owner_id = p.profile_id
		WHERE p.role = 'CUSTOMER' AND p.deleted_at IS NULL
		GROUP BY p.profile_id, p.name
		ORDER BY total_balance DESC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query top customers", err)
	}
	defer rows.Close()

	result := []domain.TopCustomerRow{}
	for rows.Next() {
		var row domain.TopCustomerRow
		if err := rows.Scan(&row.ProfileID, &row.Name, &row.TotalBalance); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan top customer row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating top customer rows", err)
	}
	return result, nil
}
