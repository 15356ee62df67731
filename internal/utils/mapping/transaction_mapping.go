package mapping

import (
	"database/sql"

	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/harborbank/corebank_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:   d.TransactionID,
		TransactionType: string(d.TransactionType),
		AccountID:       d.AccountID,
		Amount:          d.Amount,
		Timestamp:       d.Timestamp,
		CreatedBy:       d.CreatedBy,
	}
	if d.TargetAccountID != "" {
		m.TargetAccountID = sql.NullString{String: d.TargetAccountID, Valid: true}
	}
	if d.TransferGroupID != "" {
		m.TransferGroupID = sql.NullString{String: d.TransferGroupID, Valid: true}
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		TransactionType: domain.TransactionType(m.TransactionType),
		AccountID:       m.AccountID,
		TargetAccountID: m.TargetAccountID.String,
		TransferGroupID: m.TransferGroupID.String,
		Amount:          m.Amount,
		Timestamp:       m.Timestamp,
		CreatedBy:       m.CreatedBy,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
