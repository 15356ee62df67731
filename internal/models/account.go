package models

import "github.com/shopspring/decimal"

// Account is the DB shape of a customer account with its persisted balance.
type Account struct {
	AccountID   string          `db:"account_id"`
	OwnerID     string          `db:"owner_id"`
	AccountType string          `db:"account_type"`
	Balance     decimal.Decimal `db:"balance"`
	Status      string          `db:"status"`
	AuditFields
}
