package coin

import "errors"

var (
	// ErrInvalidDenominations is returned when a denomination set is empty, non-positive or not strictly descending
	ErrInvalidDenominations = errors.New("invalid denomination set")

	// ErrUnknownDenomination is returned when a coin face value is not part of the denomination set
	ErrUnknownDenomination = errors.New("unknown denomination")

	// ErrNegativeCount is returned when a ledger is built with a negative coin count
	ErrNegativeCount = errors.New("negative coin count")
)
