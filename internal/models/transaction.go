package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the DB shape of one append-only ledger row. Rows are
// inserted inside the ledger commit and never updated afterwards.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	TransactionType string          `db:"transaction_type"`
	AccountID       string          `db:"account_id"`
	TargetAccountID sql.NullString  `db:"target_account_id"` // Set only on transfer legs
	TransferGroupID sql.NullString  `db:"transfer_group_id"`
	Amount          decimal.Decimal `db:"amount"`
	Timestamp       time.Time       `db:"timestamp"`
	CreatedBy       string          `db:"created_by"`
}
