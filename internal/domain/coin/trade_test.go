package coin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrade_ReturnsChangeFromPool(t *testing.T) {
	machine := ledgerOf(t, map[int]int{1: 5})
	customer := ledgerOf(t, map[int]int{10: 1})

	res, ok := Trade(machine, customer, 7)
	require.True(t, ok)

	assert.True(t, res.Change.Equal(ledgerOf(t, map[int]int{1: 3})), "change %s", res.Change)
	assert.True(t, res.Machine.Equal(ledgerOf(t, map[int]int{10: 1, 1: 2})), "machine %s", res.Machine)
	assert.Equal(t, 12, res.Machine.Total())

	// 5 + 10 coins in, 12 kept and 3 handed back; the kept 12 is the float plus the price
	assert.Equal(t, machine.Total()+customer.Total(), res.Machine.Total()+res.Change.Total())
	assert.Equal(t, machine.Total()+7, res.Machine.Total())

	// inputs untouched
	assert.Equal(t, 5, machine.Total())
	assert.Equal(t, 10, customer.Total())
}

func TestTrade_InsufficientFunds(t *testing.T) {
	machine := ledgerOf(t, map[int]int{1: 5})
	customer := ledgerOf(t, map[int]int{5: 1})

	_, ok := Trade(machine, customer, 7)
	assert.False(t, ok)
}

func TestTrade_NoExactChange(t *testing.T) {
	machine := Empty(DefaultDenominations)
	customer := ledgerOf(t, map[int]int{5: 1})

	_, ok := Trade(machine, customer, 2)
	assert.False(t, ok)
	assert.True(t, machine.IsZero())
}

func TestTrade_ExactPayment(t *testing.T) {
	machine := Empty(DefaultDenominations)
	customer := ledgerOf(t, map[int]int{5: 1, 2: 1})

	res, ok := Trade(machine, customer, 7)
	require.True(t, ok)
	assert.True(t, res.Change.IsZero())
	assert.True(t, res.Machine.Equal(customer))
}

func TestTradeWith_MinimalStrategy(t *testing.T) {
	machine := ledgerOf(t, map[int]int{5: 1, 2: 3})
	customer := ledgerOf(t, map[int]int{10: 1})

	_, ok := TradeWith(StrategyGreedy, machine, customer, 4)
	assert.False(t, ok)

	res, ok := TradeWith(StrategyMinimal, machine, customer, 4)
	require.True(t, ok)
	assert.Equal(t, 6, res.Change.Total())
}

func TestTrade_ConservesValueAndFabricatesNothing(t *testing.T) {
	machines := []map[int]int{
		{},
		{1: 5},
		{20: 1, 10: 2, 5: 2, 2: 3, 1: 4},
		{50: 2, 1: 1},
	}
	payments := []map[int]int{
		{10: 1},
		{50: 1, 2: 1},
		{20: 3},
		{5: 1, 1: 2},
	}

	for _, strategy := range []Strategy{StrategyGreedy, StrategyMinimal} {
		for _, m := range machines {
			for _, c := range payments {
				machine, customer := ledgerOf(t, m), ledgerOf(t, c)
				pooled := machine.Combine(customer)

				for price := 1; price <= customer.Total()+1; price++ {
					res, ok := TradeWith(strategy, machine, customer, price)
					if !ok {
						continue
					}
					// the price stays in the machine's ledger, so no coin leaves or appears
					assert.Equal(t, machine.Total()+customer.Total(), res.Machine.Total()+res.Change.Total())
					assert.Equal(t, machine.Total()+price, res.Machine.Total())
					assert.Equal(t, customer.Total()-price, res.Change.Total())
					assert.True(t, pooled.Covers(res.Machine))
					assert.True(t, pooled.Covers(res.Change))
				}
			}
		}
	}
}
