package domain

import "errors"

var (
	// ErrUnknownProduct is returned for names missing from the catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrInvalidQuantity is returned for quantities below 1.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrInvalidPayment is returned for negative payments.
	ErrInvalidPayment = errors.New("payment must be zero or greater")
	// ErrEmptyCart is returned when settling a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInsufficientPayment is returned when the payment is below the cart total.
	ErrInsufficientPayment = errors.New("payment is less than the cart total")
	// ErrPersistenceFailure wraps any failure to record a sale.
	ErrPersistenceFailure = errors.New("sale could not be recorded")
	// ErrPartialWrite marks a sale whose detailed rows were written but whose
	// summary row was not.
	ErrPartialWrite = errors.New("sale partially recorded")
	// ErrSettlementPending is returned for cart changes while a partially
	// recorded sale is waiting to be settled.
	ErrSettlementPending = errors.New("a partially recorded sale must be settled first")
)
