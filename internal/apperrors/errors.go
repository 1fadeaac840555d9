package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidRange indicates that a requested history range is not one of
	// the supported range identifiers.
	ErrInvalidRange = errors.New("invalid history range")

	// ErrNoSymbols indicates that a quote request named no symbols.
	ErrNoSymbols = errors.New("no symbols provided")

	// ErrUnknownTransactionKind indicates a transaction row with a kind the
	// ledger does not understand.
	ErrUnknownTransactionKind = errors.New("unknown transaction kind")
)
