package workflow

// State represents the occupancy state of a vending machine
type State string

const (
	StateEmpty     State = "EMPTY"
	StateCanAccept State = "CAN_ACCEPT"
	StateFull      State = "FULL"
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid machine state
func (s State) IsValid() bool {
	switch s {
	case StateEmpty, StateCanAccept, StateFull:
		return true
	default:
		return false
	}
}
