package service

import "errors"

var (
	// ErrMachineEmpty is returned when purchasing from a machine with nothing on hand
	ErrMachineEmpty = errors.New("machine is empty")

	// ErrMachineFull is returned when stocking a machine whose slots are all at capacity
	ErrMachineFull = errors.New("machine is full")
)

var (
	// ErrUnknownMachine is returned when a fleet has no machine with the given ID
	ErrUnknownMachine = errors.New("unknown machine")

	// ErrDuplicateMachine is returned when a machine ID is registered twice
	ErrDuplicateMachine = errors.New("machine already registered")
)
