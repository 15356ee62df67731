package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	portsrepo "github.com/harborbank/corebank_backend/internal/core/ports/repositories"
	portssvc "github.com/harborbank/corebank_backend/internal/core/ports/services"
	"github.com/harborbank/corebank_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// ReportingService answers read-only queries from committed state. It never
// writes and never sees uncommitted data.
type ReportingService struct {
	reportingRepo portsrepo.ReportingRepository
	ledgerRepo    portsrepo.LedgerReader
	accountRepo   portsrepo.AccountReader
	activityRepo  portsrepo.ActivityRepositoryFacade
}

func NewReportingService(reportingRepo portsrepo.ReportingRepository, ledgerRepo portsrepo.LedgerReader, accountRepo portsrepo.AccountReader, activityRepo portsrepo.ActivityRepositoryFacade) *ReportingService {
	return &ReportingService{
		reportingRepo: reportingRepo,
		ledgerRepo:    ledgerRepo,
		accountRepo:   accountRepo,
		activityRepo:  activityRepo,
	}
}

// GetBalanceHistory replays an account's ledger rows oldest first, yielding
// the balance after each row. The final point matches the stored balance
// because every balance change writes a row in the same commit.
func (s *ReportingService) GetBalanceHistory(ctx context.Context, accountID string, actor domain.Actor) ([]domain.BalancePoint, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for balance history", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	if !actor.IsStaff() && account.OwnerID != actor.ProfileID {
		return nil, fmt.Errorf("account %s does not belong to the caller: %w", accountID, apperrors.ErrForbidden)
	}

	txns, err := s.ledgerRepo.FindTransactionsByAccount(ctx, accountID)
	if err != nil {
		logger.Error("Failed to load transactions for balance history", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	points := make([]domain.BalancePoint, len(txns))
	running := decimal.Zero
	for i := range txns {
		running = running.Add(txns[i].SignedAmount())
		points[i] = domain.BalancePoint{Transaction: txns[i], Balance: running}
	}
	return points, nil
}

func (s *ReportingService) GetBankOverview(ctx context.Context, actor domain.Actor) (*domain.BankOverview, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("bank overview is a staff report: %w", apperrors.ErrForbidden)
	}

	overview, err := s.reportingRepo.GetBankOverview(ctx)
	if err != nil {
		logger.Error("Failed to load bank overview", slog.String("error", err.Error()))
		return nil, err
	}
	return overview, nil
}

func (s *ReportingService) GetTypeSummary(ctx context.Context, from, to time.Time, actor domain.Actor) ([]domain.TypeSummaryRow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("type summary is a staff report: %w", apperrors.ErrForbidden)
	}
	if !to.After(from) {
		return nil, fmt.Errorf("summary range end must be after start: %w", apperrors.ErrValidation)
	}

	rows, err := s.reportingRepo.GetTypeSummary(ctx, from, to)
	if err != nil {
		logger.Error("Failed to load type summary", slog.String("error", err.Error()))
		return nil, err
	}
	if rows == nil {
		return []domain.TypeSummaryRow{}, nil
	}
	return rows, nil
}

func (s *ReportingService) GetTodaySummary(ctx context.Context, actor domain.Actor) (*domain.DaySummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("day summary is a staff report: %w", apperrors.ErrForbidden)
	}

	summary, err := s.reportingRepo.GetDaySummary(ctx, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to load day summary", slog.String("error", err.Error()))
		return nil, err
	}
	return summary, nil
}

func (s *ReportingService) ListLargeTransactions(ctx context.Context, threshold decimal.Decimal, limit int, actor domain.Actor) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("large transaction report is staff only: %w", apperrors.ErrForbidden)
	}
	if threshold.IsNegative() {
		return nil, fmt.Errorf("threshold must not be negative: %w", apperrors.ErrValidation)
	}

	txns, err := s.reportingRepo.ListLargeTransactions(ctx, threshold, limit)
	if err != nil {
		logger.Error("Failed to list large transactions", slog.String("error", err.Error()))
		return nil, err
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

func (s *ReportingService) GetTopCustomers(ctx context.Context, limit int, actor domain.Actor) ([]domain.TopCustomerRow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("customer ranking is a staff report: %w", apperrors.ErrForbidden)
	}
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.reportingRepo.GetTopCustomers(ctx, limit)
	if err != nil {
		logger.Error("Failed to load top customers", slog.String("error", err.Error()))
		return nil, err
	}
	if rows == nil {
		return []domain.TopCustomerRow{}, nil
	}
	return rows, nil
}

func (s *ReportingService) ListRecentTransactions(ctx context.Context, limit int, actor domain.Actor) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("recent transaction feed is staff only: %w", apperrors.ErrForbidden)
	}
	if limit <= 0 {
		limit = 20
	}

	txns, err := s.ledgerRepo.ListRecentTransactions(ctx, limit)
	if err != nil {
		logger.Error("Failed to list recent transactions", slog.String("error", err.Error()))
		return nil, err
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

func (s *ReportingService) ListRecentActivities(ctx context.Context, limit int, actor domain.Actor) ([]domain.ActivityLog, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("activity log is staff only: %w", apperrors.ErrForbidden)
	}
	if limit <= 0 {
		limit = 20
	}

	activities, err := s.activityRepo.ListActivities(ctx, limit)
	if err != nil {
		logger.Error("Failed to list activities", slog.String("error", err.Error()))
		return nil, err
	}
	if activities == nil {
		return []domain.ActivityLog{}, nil
	}
	return activities, nil
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)
