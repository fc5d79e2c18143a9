package domain

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrOutOfStock          = errors.New("out of stock")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrProductNameRequired = errors.New("product name required")
	ErrUserIDRequired      = errors.New("user id required")
	ErrInvalidID           = errors.New("invalid id")
	ErrStoreBusy           = errors.New("store busy")
	// ErrInvariantViolation marks states that must be impossible, such as two
	// ledger rows referencing the same key. Callers surface it distinctly from
	// ordinary user errors.
	ErrInvariantViolation = errors.New("invariant violation")
)
