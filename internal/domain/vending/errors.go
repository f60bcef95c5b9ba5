package vending

import "errors"

// Purchase rejections. The machine's contents are unchanged whenever one of these is returned.
var (
	// ErrUnknownProduct is returned when the machine has no slot for the product
	ErrUnknownProduct = errors.New("unknown product")

	// ErrNotForSale is returned when the slot does not hold enough units for the sell policy
	ErrNotForSale = errors.New("product not available for sale")

	// ErrInsufficientFunds is returned when the inserted coins are worth less than the price
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoExactChange is returned when change cannot be made from the pooled coins
	ErrNoExactChange = errors.New("cannot make exact change")

	// ErrForeignCoins is returned when inserted coins use a different denomination set
	ErrForeignCoins = errors.New("coins do not match the machine's denominations")
)

var (
	// ErrNotEmpty is returned by New when the stock table already holds units
	ErrNotEmpty = errors.New("machine must be constructed empty")

	// ErrHandleConsumed is the panic value when a machine handle is used after a transition
	ErrHandleConsumed = errors.New("machine handle already consumed by a transition")
)
