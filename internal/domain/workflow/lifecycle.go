package workflow

import (
	"context"
	"fmt"
	"sync"
)

type outcomeKey struct{}

// WithOutcome records the state a machine's contents imply after an operation.
// Lifecycle guards compare it against each candidate target.
func WithOutcome(ctx context.Context, s State) context.Context {
	return context.WithValue(ctx, outcomeKey{}, s)
}

// OutcomeFrom returns the state recorded by WithOutcome
func OutcomeFrom(ctx context.Context) (State, bool) {
	s, ok := ctx.Value(outcomeKey{}).(State)
	return s, ok
}

func outcomeIs(s State) GuardFunc {
	return func(ctx context.Context) bool {
		got, ok := OutcomeFrom(ctx)
		return ok && got == s
	}
}

// NewLifecycle returns the vending machine transition table:
//
//	EMPTY      --STOCK-->    EMPTY (nothing added) | CAN_ACCEPT | FULL
//	CAN_ACCEPT --STOCK-->    CAN_ACCEPT | FULL
//	CAN_ACCEPT --PURCHASE--> EMPTY | CAN_ACCEPT
//	FULL       --PURCHASE--> EMPTY | CAN_ACCEPT
//
// A full machine cannot be stocked and an empty one cannot sell.
func NewLifecycle() StateMachineBuilder {
	b := NewBuilder()

	b.Configure(StateEmpty).
		PermitIf(TriggerStock, StateCanAccept, outcomeIs(StateCanAccept)).
		PermitIf(TriggerStock, StateFull, outcomeIs(StateFull)).
		PermitIf(TriggerStock, StateEmpty, outcomeIs(StateEmpty))

	b.Configure(StateCanAccept).
		PermitIf(TriggerStock, StateCanAccept, outcomeIs(StateCanAccept)).
		PermitIf(TriggerStock, StateFull, outcomeIs(StateFull)).
		PermitIf(TriggerPurchase, StateCanAccept, outcomeIs(StateCanAccept)).
		PermitIf(TriggerPurchase, StateEmpty, outcomeIs(StateEmpty))

	b.Configure(StateFull).
		PermitIf(TriggerPurchase, StateCanAccept, outcomeIs(StateCanAccept)).
		PermitIf(TriggerPurchase, StateEmpty, outcomeIs(StateEmpty))

	return b
}

// lifecycle is built on first use and never reconfigured afterwards
var lifecycle = sync.OnceValue(func() *stateMachineBuilder {
	return NewLifecycle().(*stateMachineBuilder)
})

// Check verifies that trigger may move a machine from one state to another.
// The shared table is read directly, so no machine is built per call.
func Check(ctx context.Context, from State, trigger Trigger, to State) error {
	if !from.IsValid() || !to.IsValid() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, from, to)
	}
	got, err := resolve(WithOutcome(ctx, to), lifecycle().configurations, from, trigger)
	if err != nil {
		return err
	}
	if got != to {
		return fmt.Errorf("%w: %s moved %s to %s, want %s", ErrInvalidTransition, trigger, from, got, to)
	}
	return nil
}

// Permitted returns the operations a machine in state s accepts
func Permitted(s State) []Trigger {
	if !s.IsValid() {
		return nil
	}
	return lifecycle().triggersFor(s)
}
