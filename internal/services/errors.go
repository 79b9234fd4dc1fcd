package services

import "errors"

// Error taxonomy for the billing core. Handlers map these to HTTP status
// codes; services wrap them with fmt.Errorf("...: %w", Err...) so callers
// can test with errors.Is.
var (
	// ErrNotFound covers missing rows and cross-tenant lookups alike, so a
	// foreign school cannot learn whether an order exists.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the entity exists but the requested transition
	// is illegal for its current status.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation means the request was malformed and rejected before any
	// mutation.
	ErrValidation = errors.New("validation failed")

	// ErrProvider means an external payment gateway call failed. For refunds
	// this aborts the whole operation.
	ErrProvider = errors.New("payment provider error")
)
