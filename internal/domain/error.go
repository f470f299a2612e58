package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrItemUnavailable: a referenced menu item no longer resolves in the
	// catalog snapshot. Recovered with a re-selection prompt, never fatal.
	ErrItemUnavailable = errors.New("menu item unavailable")

	// ErrEmptyCart: checkout or payment selection attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrTurnInProgress: another turn currently holds the per-customer lock.
	ErrTurnInProgress = errors.New("a turn is already in progress for this customer")

	// ErrOrderNotFound: the order orchestrator does not know the order id.
	ErrOrderNotFound = errors.New("order not found")
)
