package vending

import (
	"context"
	"fmt"

	"github.com/garyjia/vending-machine/internal/domain/coin"
	"github.com/garyjia/vending-machine/internal/domain/entity"
	"github.com/garyjia/vending-machine/internal/domain/stock"
	"github.com/garyjia/vending-machine/internal/domain/workflow"
)

// machine is the untyped core: the sole owner of a stock table and a coin ledger
type machine struct {
	table    *stock.Table
	cash     coin.Ledger
	policy   SellPolicy
	strategy coin.Strategy
}

// Receipt is the result of a successful purchase. It holds copies only.
type Receipt struct {
	Product entity.Product
	Paid    int
	Change  coin.Ledger
}

// New builds an Empty machine from a table with nothing on hand and the float
// of coins the machine starts with. The table is copied; later changes the
// caller makes to it are not seen by the machine.
func New(table *stock.Table, float coin.Ledger, opts ...Option) (Empty, error) {
	if table == nil {
		return Empty{}, fmt.Errorf("%w: no stock table", stock.ErrInvalidTable)
	}
	if !table.IsEmpty() {
		return Empty{}, fmt.Errorf("%w: stock table has units on hand", ErrNotEmpty)
	}
	if float.Denominations().Len() == 0 {
		return Empty{}, fmt.Errorf("%w: float has no denomination set", ErrForeignCoins)
	}

	m := &machine{
		table:    table.Clone(),
		cash:     float.Clone(),
		policy:   PolicyKeepLastUnit,
		strategy: coin.StrategyGreedy,
	}
	for _, opt := range opts {
		opt(m)
	}
	return Empty{view{&handle{m: m}}}, nil
}

// wrap tags the machine with the state its contents imply
func (m *machine) wrap() Machine {
	v := view{&handle{m: m}}
	switch m.table.Occupancy() {
	case stock.OccupancyEmpty:
		return Empty{v}
	case stock.OccupancyFull:
		return Full{v}
	default:
		return CanAccept{v}
	}
}

func (m *machine) purchase(name string, coins coin.Ledger) (Receipt, error) {
	slot, ok := m.table.Lookup(name)
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %s", ErrUnknownProduct, name)
	}
	if !m.policy.allows(slot.OnHand) {
		return Receipt{}, fmt.Errorf("%w: %s has %d on hand under %s", ErrNotForSale, name, slot.OnHand, m.policy)
	}
	if !coins.Denominations().Equal(m.cash.Denominations()) {
		return Receipt{}, fmt.Errorf("%w: got %v, want %v", ErrForeignCoins, coins.Denominations(), m.cash.Denominations())
	}

	price := slot.Product.Price
	paid := coins.Total()
	if paid < price {
		return Receipt{}, fmt.Errorf("%w: %s costs %d, inserted %d", ErrInsufficientFunds, name, price, paid)
	}

	res, ok := coin.TradeWith(m.strategy, m.cash, coins, price)
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %d owed from %s", ErrNoExactChange, paid-price, m.cash.Combine(coins))
	}

	m.cash = res.Machine
	product := m.table.Take(name)
	return Receipt{Product: product, Paid: paid, Change: res.Change}, nil
}

// mustAllow panics if the lifecycle forbids a transition. Only a defect in
// this package can trigger it.
func mustAllow(from workflow.State, trigger workflow.Trigger, to workflow.State) {
	if err := workflow.Check(context.Background(), from, trigger, to); err != nil {
		panic(fmt.Sprintf("vending: %v", err))
	}
}

func stockFrom(h *handle, from workflow.State, additions map[string]int) (Stocked, []stock.RestockWarning) {
	m := h.take()
	warnings := m.table.Restock(additions)
	next := m.wrap()
	mustAllow(from, workflow.TriggerStock, next.State())
	return next, warnings
}

func purchaseFrom(h *handle, from workflow.State, name string, coins coin.Ledger) (Purchased, Receipt, error) {
	m := h.take()
	receipt, err := m.purchase(name, coins)
	next := m.wrap()
	if err != nil {
		// rejected: contents untouched, so the tag is unchanged too
		return next, Receipt{}, err
	}
	mustAllow(from, workflow.TriggerPurchase, next.State())
	return next, receipt, nil
}
