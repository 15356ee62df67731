package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalancePoint is one step of an account's reconstructed balance history:
// the transaction and the balance after applying it.
type BalancePoint struct {
	Transaction Transaction     `json:"transaction"`
	Balance     decimal.Decimal `json:"balance"`
}

// TypeSummaryRow aggregates transactions of one type over a date range.
type TypeSummaryRow struct {
	TransactionType TransactionType `json:"transactionType"`
	Count           int64           `json:"count"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
}

// TopCustomerRow ranks a customer by the sum of their account balances.
type TopCustomerRow struct {
	ProfileID    string          `json:"profileID"`
	Name         string          `json:"name"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
}

// BankOverview is the admin dashboard headline: customers with at least one
// account, total accounts, and total money held.
type BankOverview struct {
	TotalCustomers int64           `json:"totalCustomers"`
	TotalAccounts  int64           `json:"totalAccounts"`
	TotalBalance   decimal.Decimal `json:"totalBalance"`
}

// DaySummary aggregates the transactions committed on a single day.
type DaySummary struct {
	Date        time.Time       `json:"date"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
