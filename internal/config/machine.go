package config

import (
	"fmt"
	"strconv"

	"github.com/garyjia/vending-machine/internal/domain/coin"
	"github.com/garyjia/vending-machine/internal/domain/entity"
	"github.com/garyjia/vending-machine/internal/domain/stock"
	"github.com/garyjia/vending-machine/internal/domain/vending"
)

// Denominations returns the configured denomination set
func (c *Config) Denominations() (coin.Denominations, error) {
	return coin.NewDenominations(c.Machine.Denominations...)
}

// FloatLedger returns the starting coins over denoms
func (c *Config) FloatLedger(denoms coin.Denominations) (coin.Ledger, error) {
	byFace := make(map[int]int, len(c.Machine.Float))
	for key, count := range c.Machine.Float {
		face, err := strconv.Atoi(key)
		if err != nil {
			return coin.Ledger{}, fmt.Errorf("%w: %q", coin.ErrUnknownDenomination, key)
		}
		byFace[face] = count
	}
	return coin.FromCounts(denoms, byFace)
}

// SlotSpecs returns the stock table layout in declaration order
func (c *Config) SlotSpecs() []stock.SlotSpec {
	specs := make([]stock.SlotSpec, len(c.Products))
	for i, p := range c.Products {
		specs[i] = stock.SlotSpec{
			Product:  entity.Product{Name: p.Name, Price: p.Price},
			Capacity: p.Capacity,
		}
	}
	return specs
}

// Additions merges the restock entries into one batch
func (c *Config) Additions() map[string]int {
	additions := make(map[string]int, len(c.Restock))
	for _, r := range c.Restock {
		additions[r.Product] += r.Quantity
	}
	return additions
}

// MachineOptions returns the sale rules as machine options
func (c *Config) MachineOptions() []vending.Option {
	return []vending.Option{
		vending.WithSellPolicy(vending.SellPolicy(c.Machine.SellPolicy)),
		vending.WithStrategy(coin.Strategy(c.Machine.ChangeStrategy)),
	}
}

// NewMachine builds an empty machine from the configuration
func (c *Config) NewMachine() (vending.Empty, error) {
	denoms, err := c.Denominations()
	if err != nil {
		return vending.Empty{}, err
	}
	float, err := c.FloatLedger(denoms)
	if err != nil {
		return vending.Empty{}, err
	}
	table, err := stock.NewTable(c.SlotSpecs())
	if err != nil {
		return vending.Empty{}, err
	}
	return vending.New(table, float, c.MachineOptions()...)
}
