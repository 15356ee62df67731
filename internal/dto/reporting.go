package dto

import (
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalancePointResponse is one step of a reconstructed balance history.
type BalancePointResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
}

// BalanceHistoryResponse is the full replay for one account.
type BalanceHistoryResponse struct {
	AccountID string                 `json:"accountID"`
	Points    []BalancePointResponse `json:"points"`
}

// OverviewResponse is the staff dashboard headline.
type OverviewResponse struct {
	TotalCustomers int64           `json:"totalCustomers"`
	TotalAccounts  int64           `json:"totalAccounts"`
	TotalBalance   decimal.Decimal `json:"totalBalance"`
}

// TypeSummaryRowResponse aggregates one transaction type over a range.
type TypeSummaryRowResponse struct {
	TransactionType domain.TransactionType `json:"transactionType"`
	Count           int64                  `json:"count"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
}

// TypeSummaryResponse is the per-type aggregate report.
type TypeSummaryResponse struct {
	FromDate string                   `json:"fromDate"`
	ToDate   string                   `json:"toDate"`
	Rows     []TypeSummaryRowResponse `json:"rows"`
}

// DaySummaryResponse aggregates one day's transactions.
type DaySummaryResponse struct {
	Date        string          `json:"date"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// TopCustomerResponse ranks one customer by total balance.
type TopCustomerResponse struct {
	ProfileID    string          `json:"profileID"`
	Name         string          `json:"name"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
}

// ToBalanceHistoryResponse converts replayed balance points to the DTO
func ToBalanceHistoryResponse(accountID string, points []domain.BalancePoint) BalanceHistoryResponse {
	res := BalanceHistoryResponse{
		AccountID: accountID,
		Points:    make([]BalancePointResponse, len(points)),
	}
	for i, p := range points {
		res.Points[i] = BalancePointResponse{
			Transaction: ToTransactionResponse(&p.Transaction),
			Balance:     p.Balance,
		}
	}
	return res
}

// ToOverviewResponse converts a domain.BankOverview to its DTO
func ToOverviewResponse(o *domain.BankOverview) OverviewResponse {
	return OverviewResponse{
		TotalCustomers: o.TotalCustomers,
		TotalAccounts:  o.TotalAccounts,
		TotalBalance:   o.TotalBalance,
	}
}

// ToTypeSummaryResponse converts summary rows to the DTO
func ToTypeSummaryResponse(rows []domain.TypeSummaryRow, from, to time.Time) TypeSummaryResponse {
	res := TypeSummaryResponse{
		FromDate: from.Format("2006-01-02"),
		ToDate:   to.Format("2006-01-02"),
		Rows:     make([]TypeSummaryRowResponse, len(rows)),
	}
	for i, r := range rows {
		res.Rows[i] = TypeSummaryRowResponse{
			TransactionType: r.TransactionType,
			Count:           r.Count,
			TotalAmount:     r.TotalAmount,
		}
	}
	return res
}

// ToDaySummaryResponse converts a domain.DaySummary to its DTO
func ToDaySummaryResponse(s *domain.DaySummary) DaySummaryResponse {
	return DaySummaryResponse{
		Date:        s.Date.Format("2006-01-02"),
		Count:       s.Count,
		TotalAmount: s.TotalAmount,
	}
}

// ActivityResponse is one administrative audit entry.
type ActivityResponse struct {
	ActivityID string    `json:"activityID"`
	ProfileID  string    `json:"profileID"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// ToListActivityResponse converts audit rows to DTOs
func ToListActivityResponse(activities []domain.ActivityLog) []ActivityResponse {
	res := make([]ActivityResponse, len(activities))
	for i, a := range activities {
		res[i] = ActivityResponse{
			ActivityID: a.ActivityID,
			ProfileID:  a.ProfileID,
			Action:     a.Action,
			Timestamp:  a.Timestamp,
		}
	}
	return res
}

// ToListTopCustomerResponse converts ranking rows to DTOs
func ToListTopCustomerResponse(rows []domain.TopCustomerRow) []TopCustomerResponse {
	res := make([]TopCustomerResponse, len(rows))
	for i, r := range rows {
		res[i] = TopCustomerResponse{
			ProfileID:    r.ProfileID,
			Name:         r.Name,
			TotalBalance: r.TotalBalance,
		}
	}
	return res
}
