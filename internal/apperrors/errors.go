package apperrors

import "errors"

// ErrNotFound indicates that a requested resource (account, owner, transaction) could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidAmount indicates a zero, negative or malformed monetary amount.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrInsufficientFunds indicates a debit that would take an account balance below zero.
var ErrInsufficientFunds = errors.New("insufficient balance")

// ErrSameAccount indicates a transfer whose source and destination are the same account.
var ErrSameAccount = errors.New("cannot transfer to the same account")

// ErrExhaustedRetries indicates that identifier generation could not find a free value
// within the bounded number of attempts.
var ErrExhaustedRetries = errors.New("identifier generation exhausted retries")

// ErrStorageFailure indicates an error from the underlying durable store.
// Any partial balance mutation has been rolled back when this is returned.
var ErrStorageFailure = errors.New("storage failure")

// ErrAuditMirror indicates that the secondary audit log could not be read or
// written. The primary store is the system of record; this error never
// reverses a committed financial transaction.
var ErrAuditMirror = errors.New("audit mirror failure")
