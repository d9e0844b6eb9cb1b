package emu

import (
	"errors"

	"github.com/sarchlab/lc3sim/insts"
	"github.com/sarchlab/lc3sim/internal/translate"
)

var f = translate.From

var (
	// ErrInvalidOpcode is wrapped by faults raised for the reserved opcode.
	ErrInvalidOpcode = errors.New(f("invalid opcode"))
	// ErrAddressOutOfRange is wrapped by faults raised for addresses
	// outside [0, 65535].
	ErrAddressOutOfRange = errors.New(f("address out of range"))

	// ErrCycleLimit is reported when the instruction limit halts a run.
	ErrCycleLimit = errors.New(f("cycle limit reached"))
	// ErrStopped is reported when Stop halts a run.
	ErrStopped = errors.New(f("stopped"))
)

// FaultKind classifies a runtime fault.
type FaultKind uint8

// Fault kinds.
const (
	FaultInvalidOpcode FaultKind = iota
	FaultAddressOutOfRange
)

// Fault is a terminal runtime fault. It records the faulting instruction so
// a host can report it.
type Fault struct {
	Kind   FaultKind
	PC     uint16   // Address of the faulting instruction
	Word   uint16   // Faulting instruction word
	Opcode insts.Op // Decoded opcode
	Addr   int      // Offending address, for FaultAddressOutOfRange
}

func (e *Fault) Error() string {
	switch e.Kind {
	case FaultInvalidOpcode:
		return f("invalid opcode %#x (word %#04x) at PC=%#04x", uint8(e.Opcode), e.Word, e.PC)
	case FaultAddressOutOfRange:
		return f("%v address %#x out of range at PC=%#04x", e.Opcode, e.Addr, e.PC)
	default:
		return f("fault %d at PC=%#04x", e.Kind, e.PC)
	}
}

func (e *Fault) Unwrap() error {
	switch e.Kind {
	case FaultInvalidOpcode:
		return ErrInvalidOpcode
	case FaultAddressOutOfRange:
		return ErrAddressOutOfRange
	default:
		return nil
	}
}

func addressFault(addr int) *Fault {
	return &Fault{Kind: FaultAddressOutOfRange, Addr: addr}
}
