package stock

import (
	"errors"
	"testing"

	"github.com/garyjia/vending-machine/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable([]SlotSpec{
		{Product: entity.Product{Name: "cola", Price: 7}, Capacity: 3},
		{Product: entity.Product{Name: "chips", Price: 12}, Capacity: 2},
	})
	require.NoError(t, err)
	return table
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name    string
		specs   []SlotSpec
		wantErr bool
	}{
		{
			name:  "valid table",
			specs: []SlotSpec{{Product: entity.Product{Name: "cola", Price: 7}, Capacity: 3}},
		},
		{
			name:    "no slots",
			specs:   nil,
			wantErr: true,
		},
		{
			name:    "zero capacity",
			specs:   []SlotSpec{{Product: entity.Product{Name: "cola", Price: 7}, Capacity: 0}},
			wantErr: true,
		},
		{
			name:    "free product",
			specs:   []SlotSpec{{Product: entity.Product{Name: "cola", Price: 0}, Capacity: 1}},
			wantErr: true,
		},
		{
			name: "duplicate product",
			specs: []SlotSpec{
				{Product: entity.Product{Name: "cola", Price: 7}, Capacity: 1},
				{Product: entity.Product{Name: "cola", Price: 9}, Capacity: 2},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewTable(tt.specs)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTable)
				return
			}
			require.NoError(t, err)
			assert.True(t, table.IsEmpty())
		})
	}
}

func TestTable_Occupancy(t *testing.T) {
	table := newTestTable(t)
	assert.Equal(t, OccupancyEmpty, table.Occupancy())

	table.Restock(map[string]int{"cola": 1})
	assert.Equal(t, OccupancyPartial, table.Occupancy())

	table.Restock(map[string]int{"cola": 2, "chips": 2})
	assert.Equal(t, OccupancyFull, table.Occupancy())
	assert.True(t, table.IsFull())
	assert.False(t, table.IsEmpty())
}

func TestTable_OccupancyIsExclusive(t *testing.T) {
	for cola := 0; cola <= 3; cola++ {
		for chips := 0; chips <= 2; chips++ {
			table := newTestTable(t)
			table.Restock(map[string]int{"cola": cola, "chips": chips})

			classes := 0
			if table.IsEmpty() {
				classes++
			}
			if table.IsFull() {
				classes++
			}
			assert.LessOrEqual(t, classes, 1, "cola=%d chips=%d", cola, chips)
		}
	}
}

func TestTable_Restock(t *testing.T) {
	t.Run("unknown product is reported and the rest applied", func(t *testing.T) {
		table := newTestTable(t)

		warnings := table.Restock(map[string]int{"cola": 2, "gum": 5})

		require.Len(t, warnings, 1)
		assert.Equal(t, "gum", warnings[0].Product)
		assert.True(t, errors.Is(warnings[0], ErrUnknownSlot))
		slot, _ := table.Lookup("cola")
		assert.Equal(t, 2, slot.OnHand)
	})

	t.Run("overflow is clamped to capacity", func(t *testing.T) {
		table := newTestTable(t)

		warnings := table.Restock(map[string]int{"chips": 5})

		require.Len(t, warnings, 1)
		assert.ErrorIs(t, warnings[0].Err, ErrOverCapacity)
		assert.Equal(t, 3, warnings[0].Discarded)
		slot, _ := table.Lookup("chips")
		assert.Equal(t, 2, slot.OnHand)
	})

	t.Run("negative quantity is skipped", func(t *testing.T) {
		table := newTestTable(t)
		table.Restock(map[string]int{"cola": 2})

		warnings := table.Restock(map[string]int{"cola": -1})

		require.Len(t, warnings, 1)
		assert.ErrorIs(t, warnings[0].Err, ErrInvalidQuantity)
		slot, _ := table.Lookup("cola")
		assert.Equal(t, 2, slot.OnHand)
	})

	t.Run("empty additions change nothing", func(t *testing.T) {
		table := newTestTable(t)

		assert.Empty(t, table.Restock(nil))
		assert.True(t, table.IsEmpty())
	})
}

func TestTable_Take(t *testing.T) {
	table := newTestTable(t)
	table.Restock(map[string]int{"cola": 1})

	p := table.Take("cola")
	assert.Equal(t, "cola", p.Name)
	assert.True(t, table.IsEmpty())

	assert.Panics(t, func() { table.Take("cola") })
	assert.Panics(t, func() { table.Take("gum") })
}

func TestTable_CloneAndSnapshotDoNotAlias(t *testing.T) {
	table := newTestTable(t)
	table.Restock(map[string]int{"cola": 1})

	clone := table.Clone()
	clone.Restock(map[string]int{"cola": 2})

	snap := table.Snapshot()
	snap[0].OnHand = 99

	slot, _ := table.Lookup("cola")
	assert.Equal(t, 1, slot.OnHand)
	assert.Equal(t, []string{"cola", "chips"}, table.Products())
}
