package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/garyjia/vending-machine/internal/application/dispatcher"
	"github.com/garyjia/vending-machine/internal/domain/coin"
	"github.com/garyjia/vending-machine/internal/domain/event"
	"github.com/garyjia/vending-machine/internal/domain/stock"
	"github.com/garyjia/vending-machine/internal/domain/vending"
	"github.com/garyjia/vending-machine/internal/domain/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Operator owns one vending machine and serializes every operation on it
type Operator interface {
	// ID returns the machine identifier used in events and logs
	ID() string

	// State returns the machine's current state
	State() workflow.State

	// Cash returns a copy of the coins held by the machine
	Cash() coin.Ledger

	// Slots returns a copy of every slot
	Slots() []stock.Slot

	// Stock restocks the machine and returns its new state plus any per-entry warnings
	Stock(ctx context.Context, additions map[string]int) (workflow.State, []stock.RestockWarning, error)

	// Purchase sells one unit of product for the inserted coins, given as face values
	Purchase(ctx context.Context, product string, inserted []int) (vending.Receipt, error)
}

type operatorImpl struct {
	mu         sync.Mutex
	id         string
	machine    vending.Machine
	dispatcher dispatcher.Dispatcher
	logger     *zap.Logger
}

// NewOperator takes ownership of an empty machine. The caller must not use m afterwards.
func NewOperator(id string, m vending.Empty, d dispatcher.Dispatcher, logger *zap.Logger) Operator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if d == nil {
		d = dispatcher.NewDispatcher(dispatcher.WithLogger(logger))
	}
	return &operatorImpl{
		id:         id,
		machine:    m,
		dispatcher: d,
		logger:     logger.With(zap.String("machine_id", id)),
	}
}

func (o *operatorImpl) ID() string {
	return o.id
}

func (o *operatorImpl) State() workflow.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.machine.State()
}

func (o *operatorImpl) Cash() coin.Ledger {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.machine.Cash()
}

func (o *operatorImpl) Slots() []stock.Slot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.machine.Slots()
}

// Stock restocks an Empty or CanAccept machine
func (o *operatorImpl) Stock(ctx context.Context, additions map[string]int) (workflow.State, []stock.RestockWarning, error) {
	state, warnings, events, err := o.stock(additions)
	o.publish(ctx, events)
	return state, warnings, err
}

// Purchase sells from a CanAccept or Full machine
func (o *operatorImpl) Purchase(ctx context.Context, product string, inserted []int) (vending.Receipt, error) {
	receipt, events, err := o.purchase(product, inserted)
	o.publish(ctx, events)
	return receipt, err
}

// stock runs the transition under the lock and returns the events to publish once it is released
func (o *operatorImpl) stock(additions map[string]int) (workflow.State, []stock.RestockWarning, []*event.Event, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	from := o.machine.State()
	var (
		next     vending.Stocked
		warnings []stock.RestockWarning
	)
	switch m := o.machine.(type) {
	case vending.Empty:
		next, warnings = m.Stock(additions)
	case vending.CanAccept:
		next, warnings = m.Stock(additions)
	case vending.Full:
		o.logger.Info("Stock refused", zap.String("state", from.String()))
		return from, nil, nil, fmt.Errorf("%w: cannot stock", ErrMachineFull)
	default:
		panic(fmt.Sprintf("service: unexpected machine type %T", o.machine))
	}
	o.machine = next

	correlationID := uuid.NewString()
	events := make([]*event.Event, 0, len(warnings)+2)
	for _, w := range warnings {
		events = append(events, event.NewEventWithCorrelation(event.TypeRestockWarning, o.id, map[string]any{
			"product":   w.Product,
			"requested": w.Requested,
			"discarded": w.Discarded,
			"reason":    w.Err.Error(),
		}, correlationID))
	}
	if len(warnings) > 0 {
		o.logger.Warn("Restock warnings", zap.Error(joinWarnings(warnings)))
	}

	events = append(events, event.NewEventWithCorrelation(event.TypeMachineStocked, o.id, map[string]any{
		"state": next.State().String(),
	}, correlationID))
	events = o.appendStateChanged(events, from, next.State(), correlationID)

	o.logger.Info("Machine stocked",
		zap.String("from", from.String()),
		zap.String("state", next.State().String()),
		zap.Int("warnings", len(warnings)))

	return next.State(), warnings, events, nil
}

func (o *operatorImpl) purchase(product string, inserted []int) (vending.Receipt, []*event.Event, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	correlationID := uuid.NewString()
	from := o.machine.State()

	coins, err := coin.ParseCoins(o.machine.Cash().Denominations(), inserted)
	if err != nil {
		return vending.Receipt{}, o.rejected(product, inserted, err, correlationID), err
	}

	var (
		next    vending.Purchased
		receipt vending.Receipt
	)
	switch m := o.machine.(type) {
	case vending.CanAccept:
		next, receipt, err = m.Purchase(product, coins)
	case vending.Full:
		next, receipt, err = m.Purchase(product, coins)
	case vending.Empty:
		err = fmt.Errorf("%w: cannot sell %s", ErrMachineEmpty, product)
		return vending.Receipt{}, o.rejected(product, inserted, err, correlationID), err
	default:
		panic(fmt.Sprintf("service: unexpected machine type %T", o.machine))
	}
	o.machine = next

	if err != nil {
		return vending.Receipt{}, o.rejected(product, inserted, err, correlationID), err
	}

	events := []*event.Event{
		event.NewEventWithCorrelation(event.TypePurchaseCompleted, o.id, map[string]any{
			"product": receipt.Product.Name,
			"price":   receipt.Product.Price,
			"paid":    receipt.Paid,
			"change":  receipt.Change.String(),
		}, correlationID),
	}
	events = o.appendStateChanged(events, from, next.State(), correlationID)

	o.logger.Info("Purchase completed",
		zap.String("product", receipt.Product.Name),
		zap.Int("paid", receipt.Paid),
		zap.Stringer("change", receipt.Change),
		zap.String("state", next.State().String()))

	return receipt, events, nil
}

func (o *operatorImpl) rejected(product string, inserted []int, reason error, correlationID string) []*event.Event {
	o.logger.Info("Purchase rejected",
		zap.String("product", product),
		zap.Ints("refund", inserted),
		zap.Error(reason))

	return []*event.Event{
		event.NewEventWithCorrelation(event.TypePurchaseRejected, o.id, map[string]any{
			"product": product,
			"refund":  inserted,
			"reason":  reason.Error(),
		}, correlationID),
	}
}

func (o *operatorImpl) appendStateChanged(events []*event.Event, from, to workflow.State, correlationID string) []*event.Event {
	if from == to {
		return events
	}
	return append(events, event.NewEventWithCorrelation(event.TypeStateChanged, o.id, map[string]any{
		"from": from.String(),
		"to":   to.String(),
	}, correlationID))
}

// publish dispatches events with the lock released, so handlers may read the
// machine back. The machine has already moved on, so handler failures are
// logged rather than returned.
func (o *operatorImpl) publish(ctx context.Context, events []*event.Event) {
	for _, evt := range events {
		if err := o.dispatcher.Dispatch(ctx, evt); err != nil {
			o.logger.Warn("Event handler failed",
				zap.String("event_type", evt.Type.String()),
				zap.String("event_id", evt.ID),
				zap.Error(err))
		}
	}
}

func joinWarnings(warnings []stock.RestockWarning) error {
	errs := make([]error, len(warnings))
	for i, w := range warnings {
		errs[i] = w
	}
	return errors.Join(errs...)
}
