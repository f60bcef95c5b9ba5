package coin

// TradeResult is the outcome of a successful trade
type TradeResult struct {
	// Machine is the machine's coin inventory after the trade
	Machine Ledger
	// Change is what is handed back to the customer
	Change Ledger
}

// Trade pools the customer's coins with the machine's, keeps price and returns
// exact change drawn from the pool with the greedy strategy.
func Trade(machine, customer Ledger, price int) (TradeResult, bool) {
	return TradeWith(StrategyGreedy, machine, customer, price)
}

// TradeWith is Trade with an explicit change strategy. It has no side effects:
// the inputs are left untouched and the caller applies the result.
func TradeWith(strategy Strategy, machine, customer Ledger, price int) (TradeResult, bool) {
	paid := customer.Total()
	if paid < price {
		return TradeResult{}, false
	}

	pooled := machine.Combine(customer)
	change, ok := pooled.decompose(strategy, paid-price)
	if !ok {
		return TradeResult{}, false
	}

	return TradeResult{
		Machine: pooled.Subtract(change),
		Change:  change,
	}, true
}
