package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the acting user is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInvalidAmount indicates a zero or negative monetary amount.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrInsufficientFunds indicates the operation would drive a balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrAccountNotApproved indicates the account is not in the approved state.
var ErrAccountNotApproved = errors.New("account is not approved for transactions")

// ErrSameAccountTransfer indicates source and target of a transfer are the same account.
var ErrSameAccountTransfer = errors.New("cannot transfer to the same account")

// ErrInvalidTransition indicates an account status change the state machine forbids.
var ErrInvalidTransition = errors.New("invalid account status transition")

// ErrConflict indicates a concurrent-modification conflict that persisted across retries.
var ErrConflict = errors.New("operation conflicted with a concurrent update")

// ErrTimeout indicates the operation did not complete within its deadline.
var ErrTimeout = errors.New("operation timed out")
