package stock

import "errors"

var (
	// ErrUnknownSlot is reported when restocking a product the machine has no slot for
	ErrUnknownSlot = errors.New("no slot for product")

	// ErrInvalidQuantity is reported when a restock quantity is negative
	ErrInvalidQuantity = errors.New("invalid restock quantity")

	// ErrOverCapacity is reported when a restock would exceed a slot's capacity
	ErrOverCapacity = errors.New("restock exceeds capacity")

	// ErrInvalidTable is returned when a table cannot be built from its slot specs
	ErrInvalidTable = errors.New("invalid stock table")
)

// RestockWarning reports a restock entry that was rejected or adjusted.
// Warnings never abort the rest of the batch.
type RestockWarning struct {
	Product   string
	Requested int
	Discarded int
	Err       error
}

// Error implements error so warnings can be joined and logged
func (w RestockWarning) Error() string {
	return w.Product + ": " + w.Err.Error()
}

// Unwrap exposes the underlying sentinel for errors.Is
func (w RestockWarning) Unwrap() error {
	return w.Err
}
