package event

// Type identifies the type of domain event
type Type string

const (
	TypeMachineStocked    Type = "machine.stocked"
	TypeRestockWarning    Type = "restock.warning"
	TypePurchaseCompleted Type = "purchase.completed"
	TypePurchaseRejected  Type = "purchase.rejected"
	TypeStateChanged      Type = "machine.state_changed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeMachineStocked,
		TypeRestockWarning,
		TypePurchaseCompleted,
		TypePurchaseRejected,
		TypeStateChanged:
		return true
	default:
		return false
	}
}
