package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState is returned when an operation would violate a
	// business rule, e.g. a settlement paying oneself or expense shares
	// that do not sum to the expense amount.
	ErrInvalidState = errors.New("invalid state")

	// ErrPrecision is returned when a monetary amount or computation
	// cannot be represented in the minimum currency unit.
	ErrPrecision = errors.New("amount precision below minimum currency unit")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")
)
