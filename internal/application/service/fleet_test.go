package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/garyjia/vending-machine/internal/application/dispatcher"
	"github.com/garyjia/vending-machine/internal/domain/coin"
	"github.com/garyjia/vending-machine/internal/domain/entity"
	"github.com/garyjia/vending-machine/internal/domain/event"
	"github.com/garyjia/vending-machine/internal/domain/stock"
	"github.com/garyjia/vending-machine/internal/domain/vending"
	"github.com/garyjia/vending-machine/internal/domain/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newEmptyMachine(t *testing.T) vending.Empty {
	t.Helper()
	table, err := stock.NewTable([]stock.SlotSpec{
		{Product: entity.Product{Name: "cola", Price: 7}, Capacity: 3},
	})
	require.NoError(t, err)
	m, err := vending.New(table, coin.Empty(coin.DefaultDenominations))
	require.NoError(t, err)
	return m
}

func TestFleet_AddAndGet(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := NewFleet(WithLogger(zap.New(core)))

	op, err := f.Add("lobby", newEmptyMachine(t))
	require.NoError(t, err)
	assert.Equal(t, "lobby", op.ID())

	got, err := f.Get("lobby")
	require.NoError(t, err)
	assert.Same(t, op, got)

	_, err = f.Add("lobby", newEmptyMachine(t))
	assert.ErrorIs(t, err, ErrDuplicateMachine)

	_, err = f.Add("", newEmptyMachine(t))
	assert.Error(t, err)

	_, err = f.Get("basement")
	assert.ErrorIs(t, err, ErrUnknownMachine)

	assert.Equal(t, 1, logs.FilterMessage("Machine registered").Len())
}

func TestFleet_MachinesAreIndependent(t *testing.T) {
	f := NewFleet()
	ctx := context.Background()

	_, err := f.Add("b", newEmptyMachine(t))
	require.NoError(t, err)
	_, err = f.Add("a", newEmptyMachine(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, f.IDs())

	state, _, err := f.Stock(ctx, "a", map[string]int{"cola": 3})
	require.NoError(t, err)
	assert.Equal(t, workflow.StateFull, state)

	assert.Equal(t, map[string]workflow.State{
		"a": workflow.StateFull,
		"b": workflow.StateEmpty,
	}, f.States())

	_, err = f.Purchase(ctx, "b", "cola", []int{5, 2})
	assert.ErrorIs(t, err, ErrMachineEmpty)

	receipt, err := f.Purchase(ctx, "a", "cola", []int{5, 2})
	require.NoError(t, err)
	assert.True(t, receipt.Change.IsZero())
	assert.Equal(t, workflow.StateCanAccept, f.States()["a"])

	_, _, err = f.Stock(ctx, "c", map[string]int{"cola": 1})
	assert.ErrorIs(t, err, ErrUnknownMachine)
	_, err = f.Purchase(ctx, "c", "cola", nil)
	assert.ErrorIs(t, err, ErrUnknownMachine)
}

func TestFleet_ConcurrentAccess(t *testing.T) {
	f := NewFleet()
	ctx := context.Background()
	ids := []string{"m1", "m2", "m3", "m4"}
	for _, id := range ids {
		_, err := f.Add(id, newEmptyMachine(t))
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _, _ = f.Stock(ctx, id, map[string]int{"cola": 3})
			_, _ = f.Purchase(ctx, id, "cola", []int{5, 2})
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		op, err := f.Get(id)
		require.NoError(t, err)
		assert.Equal(t, 7, op.Cash().Total(), id)
		assert.Equal(t, workflow.StateCanAccept, op.State(), id)
	}
}

func TestFleet_HandlersCanReadFleet(t *testing.T) {
	d := dispatcher.NewDispatcher()
	f := NewFleet(WithDispatcher(d))
	_, err := f.Add("lobby", newEmptyMachine(t))
	require.NoError(t, err)

	var snapshots []map[string]workflow.State
	d.Subscribe(event.TypeStateChanged, func(context.Context, *event.Event) error {
		snapshots = append(snapshots, f.States())
		return nil
	})

	finishWithin(t, 2*time.Second, func() {
		_, _, err := f.Stock(context.Background(), "lobby", map[string]int{"cola": 3})
		assert.NoError(t, err)
	})

	require.Len(t, snapshots, 1)
	assert.Equal(t, workflow.StateFull, snapshots[0]["lobby"])
}
