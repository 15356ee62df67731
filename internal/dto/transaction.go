package dto

import (
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest defines the data for a deposit. Amount must be strictly
// positive; the dgt0 rule rejects zero and negatives at the boundary.
type DepositRequest struct {
	AccountID string          `json:"accountID" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" binding:"required,dgt0"`
}

// WithdrawRequest defines the data for a withdrawal.
type WithdrawRequest struct {
	AccountID string          `json:"accountID" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" binding:"required,dgt0"`
}

// TransferRequest defines the data for a two-legged transfer.
type TransferRequest struct {
	SourceAccountID string          `json:"sourceAccountID" binding:"required,uuid"`
	TargetAccountID string          `json:"targetAccountID" binding:"required,uuid"`
	Amount          decimal.Decimal `json:"amount" binding:"required,dgt0"`
}

// TransactionResponse defines the data returned for one ledger row.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	TransactionType domain.TransactionType `json:"transactionType"`
	AccountID       string                 `json:"accountID"`
	TargetAccountID string                 `json:"targetAccountID,omitempty"`
	TransferGroupID string                 `json:"transferGroupID,omitempty"`
	Amount          decimal.Decimal        `json:"amount"`
	Timestamp       time.Time              `json:"timestamp"`
}

// TransferResponse bundles both legs of a committed transfer.
type TransferResponse struct {
	Out TransactionResponse `json:"out"`
	In  TransactionResponse `json:"in"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		TransactionType: txn.TransactionType,
		AccountID:       txn.AccountID,
		TargetAccountID: txn.TargetAccountID,
		TransferGroupID: txn.TransferGroupID,
		Amount:          txn.Amount,
		Timestamp:       txn.Timestamp,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to DTOs
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}

// ToTransferResponse converts a domain.TransferResult to its DTO
func ToTransferResponse(result *domain.TransferResult) TransferResponse {
	return TransferResponse{
		Out: ToTransactionResponse(&result.Out),
		In:  ToTransactionResponse(&result.In),
	}
}
