package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/garyjia/vending-machine/internal/application/dispatcher"
	"github.com/garyjia/vending-machine/internal/domain/stock"
	"github.com/garyjia/vending-machine/internal/domain/vending"
	"github.com/garyjia/vending-machine/internal/domain/workflow"
	"go.uber.org/zap"
)

// Fleet holds independent machines by ID. Each operator keeps its own lock,
// so machines never wait on each other.
type Fleet struct {
	dispatcher dispatcher.Dispatcher
	logger     *zap.Logger

	mu        sync.RWMutex
	operators map[string]Operator
}

// FleetOption configures a fleet
type FleetOption func(*Fleet)

// WithDispatcher sets the dispatcher shared by every machine in the fleet
func WithDispatcher(d dispatcher.Dispatcher) FleetOption {
	return func(f *Fleet) {
		f.dispatcher = d
	}
}

// WithLogger sets the fleet logger
func WithLogger(logger *zap.Logger) FleetOption {
	return func(f *Fleet) {
		f.logger = logger
	}
}

// NewFleet creates an empty fleet
func NewFleet(opts ...FleetOption) *Fleet {
	f := &Fleet{
		logger:    zap.NewNop(),
		operators: make(map[string]Operator),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.dispatcher == nil {
		f.dispatcher = dispatcher.NewDispatcher(dispatcher.WithLogger(f.logger))
	}
	return f
}

// Add takes ownership of an empty machine under id
func (f *Fleet) Add(id string, m vending.Empty) (Operator, error) {
	if id == "" {
		return nil, fmt.Errorf("machine id cannot be empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.operators[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateMachine, id)
	}
	op := NewOperator(id, m, f.dispatcher, f.logger)
	f.operators[id] = op

	f.logger.Info("Machine registered", zap.String("machine_id", id), zap.Int("fleet_size", len(f.operators)))
	return op, nil
}

// Get returns the operator for id
func (f *Fleet) Get(id string) (Operator, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	op, ok := f.operators[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMachine, id)
	}
	return op, nil
}

// IDs returns the registered machine IDs in sorted order
func (f *Fleet) IDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	ids := make([]string, 0, len(f.operators))
	for id := range f.operators {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// States returns the current state of every machine. Operators are read
// after the fleet lock is released, so the fleet never waits on a machine.
func (f *Fleet) States() map[string]workflow.State {
	f.mu.RLock()
	ops := make(map[string]Operator, len(f.operators))
	for id, op := range f.operators {
		ops[id] = op
	}
	f.mu.RUnlock()

	out := make(map[string]workflow.State, len(ops))
	for id, op := range ops {
		out[id] = op.State()
	}
	return out
}

// Stock restocks the machine registered under id
func (f *Fleet) Stock(ctx context.Context, id string, additions map[string]int) (workflow.State, []stock.RestockWarning, error) {
	op, err := f.Get(id)
	if err != nil {
		return "", nil, err
	}
	return op.Stock(ctx, additions)
}

// Purchase buys from the machine registered under id
func (f *Fleet) Purchase(ctx context.Context, id, product string, inserted []int) (vending.Receipt, error) {
	op, err := f.Get(id)
	if err != nil {
		return vending.Receipt{}, err
	}
	return op.Purchase(ctx, product, inserted)
}
