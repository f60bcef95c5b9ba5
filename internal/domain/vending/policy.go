package vending

import "github.com/garyjia/vending-machine/internal/domain/coin"

// SellPolicy decides how many units a slot must hold before one may be sold
type SellPolicy string

const (
	// PolicyKeepLastUnit only sells while more than one unit is on hand, so the
	// last unit of a product is never sold. This is the machine's historical rule.
	PolicyKeepLastUnit SellPolicy = "keep_last_unit"

	// PolicySellLastUnit sells while any unit is on hand
	PolicySellLastUnit SellPolicy = "sell_last_unit"
)

// IsValid returns true if the policy is a known policy
func (p SellPolicy) IsValid() bool {
	switch p {
	case PolicyKeepLastUnit, PolicySellLastUnit:
		return true
	default:
		return false
	}
}

// String returns the string representation of the policy
func (p SellPolicy) String() string {
	return string(p)
}

// allows reports whether a slot holding onHand units may sell one
func (p SellPolicy) allows(onHand int) bool {
	if p == PolicySellLastUnit {
		return onHand > 0
	}
	return onHand > 1
}

// Option configures a machine at construction
type Option func(*machine)

// WithSellPolicy sets the sell policy. Unknown policies are ignored.
func WithSellPolicy(p SellPolicy) Option {
	return func(m *machine) {
		if p.IsValid() {
			m.policy = p
		}
	}
}

// WithStrategy sets how change is drawn from the coin pool. Unknown strategies are ignored.
func WithStrategy(s coin.Strategy) Option {
	return func(m *machine) {
		if s.IsValid() {
			m.strategy = s
		}
	}
}
