package entity

import "fmt"

// Product is an item sold by the machine. The name is its identity.
type Product struct {
	Name  string `json:"name" mapstructure:"name"`
	Price int    `json:"price" mapstructure:"price"` // in the minor currency unit
}

// Validate checks the product has a name and a positive price
func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("product %s: price must be positive, got %d", p.Name, p.Price)
	}
	return nil
}

// String returns the product as name@price
func (p Product) String() string {
	return fmt.Sprintf("%s@%d", p.Name, p.Price)
}
