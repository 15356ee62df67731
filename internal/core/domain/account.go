package domain

import "github.com/shopspring/decimal"

// AccountType is the product type of a customer account.
type AccountType string

const (
	Checking AccountType = "CHECKING"
	Savings  AccountType = "SAVINGS"
)

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t AccountType) bool {
	return t == Checking || t == Savings
}

// AccountStatus is the lifecycle state of an account. New accounts start
// PENDING; a staff decision moves them to APPROVED or REJECTED exactly once.
// Only APPROVED accounts may transact; REJECTED is terminal.
type AccountStatus string

const (
	StatusPending  AccountStatus = "PENDING"
	StatusApproved AccountStatus = "APPROVED"
	StatusRejected AccountStatus = "REJECTED"
)

// StatusDecision is a staff review outcome for a pending account.
type StatusDecision string

const (
	DecisionApprove StatusDecision = "APPROVE"
	DecisionReject  StatusDecision = "REJECT"
)

// Account represents a customer account with its materialized balance.
// The balance is only ever changed inside the ledger store's atomic commit
// and is non-negative at every committed state.
type Account struct {
	AccountID   string          `json:"accountID"` // Primary Key (UUID)
	OwnerID     string          `json:"ownerID"`   // FK -> Profile.profileID; immutable after creation
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"` // Scale 2, >= 0 at rest
	Status      AccountStatus   `json:"status"`
	AuditFields
}

// CanTransact reports whether the account may participate in ledger operations.
func (a *Account) CanTransact() bool {
	return a.Status == StatusApproved
}

// NextStatus returns the status resulting from a staff decision on a pending
// account. Accounts that already left PENDING never transition again.
func NextStatus(current AccountStatus, decision StatusDecision) (AccountStatus, bool) {
	if current != StatusPending {
		return current, false
	}
	switch decision {
	case DecisionApprove:
		return StatusApproved, true
	case DecisionReject:
		return StatusRejected, true
	}
	return current, false
}
