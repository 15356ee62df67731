package dto

import (
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
// New accounts always start PENDING with balance 0.00.
type CreateAccountRequest struct {
	OwnerID     string             `json:"ownerID" binding:"required,uuid"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=CHECKING SAVINGS"`
}

// AccountDecisionRequest carries a staff review decision for a pending account.
type AccountDecisionRequest struct {
	Decision domain.StatusDecision `json:"decision" binding:"required,oneof=APPROVE REJECT"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID   string               `json:"accountID"`
	OwnerID     string               `json:"ownerID"`
	AccountType domain.AccountType   `json:"accountType"`
	Balance     decimal.Decimal      `json:"balance"`
	Status      domain.AccountStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
	CreatedBy   string               `json:"createdBy"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   acc.AccountID,
		OwnerID:     acc.OwnerID,
		AccountType: acc.AccountType,
		Balance:     acc.Balance,
		Status:      acc.Status,
		CreatedAt:   acc.CreatedAt,
		CreatedBy:   acc.CreatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
