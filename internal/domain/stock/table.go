package stock

import (
	"fmt"
	"slices"
	"sort"

	"github.com/garyjia/vending-machine/internal/domain/entity"
)

// Occupancy classifies a table's contents
type Occupancy string

const (
	OccupancyEmpty   Occupancy = "EMPTY"
	OccupancyPartial Occupancy = "PARTIAL"
	OccupancyFull    Occupancy = "FULL"
)

// String returns the string representation of the occupancy
func (o Occupancy) String() string {
	return string(o)
}

// SlotSpec describes one slot when building a table
type SlotSpec struct {
	Product  entity.Product
	Capacity int
}

// Slot is a product's on-hand count and capacity.
// 0 <= OnHand <= Capacity holds between operations.
type Slot struct {
	Product  entity.Product
	OnHand   int
	Capacity int
}

// Table maps products to their slots
type Table struct {
	slots map[string]*Slot
	order []string
}

// NewTable builds a table with every slot at zero on-hand
func NewTable(specs []SlotSpec) (*Table, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: at least one slot is required", ErrInvalidTable)
	}

	t := &Table{slots: make(map[string]*Slot, len(specs))}
	for _, spec := range specs {
		if err := spec.Product.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}
		if spec.Capacity <= 0 {
			return nil, fmt.Errorf("%w: product %s: capacity must be positive, got %d", ErrInvalidTable, spec.Product.Name, spec.Capacity)
		}
		if _, exists := t.slots[spec.Product.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate product %s", ErrInvalidTable, spec.Product.Name)
		}
		t.slots[spec.Product.Name] = &Slot{Product: spec.Product, Capacity: spec.Capacity}
		t.order = append(t.order, spec.Product.Name)
	}
	return t, nil
}

// IsEmpty returns true if every slot has nothing on hand
func (t *Table) IsEmpty() bool {
	for _, s := range t.slots {
		if s.OnHand != 0 {
			return false
		}
	}
	return true
}

// IsFull returns true if every slot is at capacity
func (t *Table) IsFull() bool {
	for _, s := range t.slots {
		if s.OnHand != s.Capacity {
			return false
		}
	}
	return true
}

// Occupancy classifies the table. Since every capacity is positive a table is
// never both empty and full.
func (t *Table) Occupancy() Occupancy {
	switch {
	case t.IsEmpty():
		return OccupancyEmpty
	case t.IsFull():
		return OccupancyFull
	default:
		return OccupancyPartial
	}
}

// Restock adds quantities to the named slots, clamped to each slot's capacity.
// Entries for unknown products, negative quantities and overflow are reported
// as warnings; the remaining entries are still applied. Entries are processed
// in name order so warnings are deterministic.
func (t *Table) Restock(additions map[string]int) []RestockWarning {
	names := make([]string, 0, len(additions))
	for name := range additions {
		names = append(names, name)
	}
	sort.Strings(names)

	var warnings []RestockWarning
	for _, name := range names {
		qty := additions[name]
		slot, ok := t.slots[name]
		if !ok {
			warnings = append(warnings, RestockWarning{Product: name, Requested: qty, Discarded: qty, Err: ErrUnknownSlot})
			continue
		}
		if qty < 0 {
			warnings = append(warnings, RestockWarning{Product: name, Requested: qty, Err: ErrInvalidQuantity})
			continue
		}

		room := slot.Capacity - slot.OnHand
		if qty > room {
			warnings = append(warnings, RestockWarning{Product: name, Requested: qty, Discarded: qty - room, Err: ErrOverCapacity})
			qty = room
		}
		slot.OnHand += qty
	}
	return warnings
}

// Lookup returns a copy of the named slot
func (t *Table) Lookup(name string) (Slot, bool) {
	s, ok := t.slots[name]
	if !ok {
		return Slot{}, false
	}
	return *s, true
}

// Take removes one unit from the named slot.
// Taking from an unknown or empty slot is a programming error and panics.
func (t *Table) Take(name string) entity.Product {
	s, ok := t.slots[name]
	if !ok {
		panic(fmt.Sprintf("stock: take from unknown slot %s", name))
	}
	if s.OnHand == 0 {
		panic(fmt.Sprintf("stock: take from empty slot %s", name))
	}
	s.OnHand--
	return s.Product
}

// Snapshot returns copies of all slots in the order they were declared
func (t *Table) Snapshot() []Slot {
	out := make([]Slot, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.slots[name])
	}
	return out
}

// Products returns the product names in the order they were declared
func (t *Table) Products() []string {
	return slices.Clone(t.order)
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	c := &Table{
		slots: make(map[string]*Slot, len(t.slots)),
		order: slices.Clone(t.order),
	}
	for name, s := range t.slots {
		cp := *s
		c.slots[name] = &cp
	}
	return c
}
