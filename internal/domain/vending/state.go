package vending

import (
	"github.com/garyjia/vending-machine/internal/domain/coin"
	"github.com/garyjia/vending-machine/internal/domain/stock"
	"github.com/garyjia/vending-machine/internal/domain/workflow"
)

// Machine is a vending machine tagged with its state. The only implementations
// are Empty, CanAccept and Full; callers recover the concrete state with a type
// switch, and only the concrete types expose Stock and Purchase:
//
//	Empty     Stock
//	CanAccept Stock, Purchase
//	Full      Purchase
//
// Every handle is single use. Stock and Purchase consume the handle they are
// called on and return a fresh one; touching a consumed handle panics with
// ErrHandleConsumed.
type Machine interface {
	// State returns the tag
	State() workflow.State

	// Cash returns a copy of the machine's coins
	Cash() coin.Ledger

	// Slots returns a copy of every slot
	Slots() []stock.Slot

	// Slot returns a copy of the named slot
	Slot(name string) (stock.Slot, bool)

	// Operations lists the operations the tag permits
	Operations() []workflow.Trigger

	sealed()
}

// Stocked is the result of Stock: Empty (nothing was added), CanAccept or Full
type Stocked = Machine

// Purchased is the result of Purchase: Empty or CanAccept after a sale, or the
// originating tag after a rejection
type Purchased = Machine

type handle struct {
	m *machine
}

// take hands the machine to a transition and invalidates the handle
func (h *handle) take() *machine {
	m := h.peek()
	h.m = nil
	return m
}

func (h *handle) peek() *machine {
	if h == nil || h.m == nil {
		panic(ErrHandleConsumed)
	}
	return h.m
}

// view carries the read-only operations shared by every tag
type view struct {
	h *handle
}

func (v view) Cash() coin.Ledger {
	return v.h.peek().cash.Clone()
}

func (v view) Slots() []stock.Slot {
	return v.h.peek().table.Snapshot()
}

func (v view) Slot(name string) (stock.Slot, bool) {
	return v.h.peek().table.Lookup(name)
}

func (v view) sealed() {}

// Empty is a machine with nothing on hand in any slot
type Empty struct{ view }

// CanAccept is a machine that is neither empty nor full
type CanAccept struct{ view }

// Full is a machine with every slot at capacity
type Full struct{ view }

// State returns StateEmpty
func (e Empty) State() workflow.State { return workflow.StateEmpty }

// State returns StateCanAccept
func (c CanAccept) State() workflow.State { return workflow.StateCanAccept }

// State returns StateFull
func (f Full) State() workflow.State { return workflow.StateFull }

func (e Empty) Operations() []workflow.Trigger     { return workflow.Permitted(e.State()) }
func (c CanAccept) Operations() []workflow.Trigger { return workflow.Permitted(c.State()) }
func (f Full) Operations() []workflow.Trigger      { return workflow.Permitted(f.State()) }

// Stock restocks the machine. Unknown products, negative quantities and
// overflow are reported as warnings without aborting the other entries.
func (e Empty) Stock(additions map[string]int) (Stocked, []stock.RestockWarning) {
	return stockFrom(e.h, workflow.StateEmpty, additions)
}

// Stock restocks the machine. See Empty.Stock.
func (c CanAccept) Stock(additions map[string]int) (Stocked, []stock.RestockWarning) {
	return stockFrom(c.h, workflow.StateCanAccept, additions)
}

// Purchase sells one unit of the named product for the inserted coins.
// On success the receipt holds the product and the change, the machine keeps
// the price and the slot loses one unit. On rejection the error says why and
// the returned machine has the same contents and tag as before.
func (c CanAccept) Purchase(name string, coins coin.Ledger) (Purchased, Receipt, error) {
	return purchaseFrom(c.h, workflow.StateCanAccept, name, coins)
}

// Purchase sells one unit of the named product. See CanAccept.Purchase.
func (f Full) Purchase(name string, coins coin.Ledger) (Purchased, Receipt, error) {
	return purchaseFrom(f.h, workflow.StateFull, name, coins)
}
