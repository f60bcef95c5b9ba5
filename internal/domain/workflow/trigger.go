package workflow

// Trigger represents an operation that can move the machine between states
type Trigger string

const (
	TriggerStock    Trigger = "STOCK"
	TriggerPurchase Trigger = "PURCHASE"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
