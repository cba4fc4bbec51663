package bank

import "errors"

var (
	// ErrInvalidName is returned for empty or whitespace-only names.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidAmount is returned for amounts below the minimum unit and for
	// negative opening balances.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidRate is returned for negative interest rates.
	ErrInvalidRate = errors.New("invalid interest rate")

	// ErrInvalidAccountNumber is returned for account numbers that cannot be
	// embedded in a confirmation code.
	ErrInvalidAccountNumber = errors.New("invalid account number")
)
