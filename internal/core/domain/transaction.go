package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of ledger entry. A transfer always produces a
// TransferOut on the source account and a TransferIn on the target, sharing
// the same amount and transfer group.
type TransactionType string

const (
	Deposit     TransactionType = "DEPOSIT"
	Withdraw    TransactionType = "WITHDRAW"
	TransferOut TransactionType = "TRANSFER_OUT"
	TransferIn  TransactionType = "TRANSFER_IN"
)

// Credits reports whether the entry type increases the account balance.
func (t TransactionType) Credits() bool {
	return t == Deposit || t == TransferIn
}

// Transaction is one immutable row of the append-only ledger. Rows are never
// updated or deleted once committed.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	TransactionType TransactionType `json:"transactionType"`
	AccountID       string          `json:"accountID"` // The account debited/credited by this row
	TargetAccountID string          `json:"targetAccountID,omitempty"`
	TransferGroupID string          `json:"transferGroupID,omitempty"` // Shared by both legs of a transfer
	Amount          decimal.Decimal `json:"amount"`                    // Strictly positive, scale 2
	Timestamp       time.Time       `json:"timestamp"`                 // Commit time
	CreatedBy       string          `json:"createdBy"`                 // Acting ProfileID
}

// SignedAmount returns the amount with the sign this entry applies to its
// account's balance: positive for deposit/transfer_in, negative otherwise.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.TransactionType.Credits() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// TransferResult bundles the two legs produced by a committed transfer.
type TransferResult struct {
	Out Transaction `json:"out"`
	In  Transaction `json:"in"`
}
