package emu

// Standard LC-3 trap vectors.
const (
	TrapGETC  uint8 = 0x20 // read a character, no echo
	TrapOUT   uint8 = 0x21 // write the character in R0
	TrapPUTS  uint8 = 0x22 // write the word string at R0
	TrapIN    uint8 = 0x23 // prompt, read and echo a character
	TrapPUTSP uint8 = 0x24 // write the packed byte string at R0
	TrapHALT  uint8 = 0x25 // halt the machine
)

// TrapOutcome tells the run loop whether to continue after a TRAP.
type TrapOutcome uint8

// Trap outcomes. The zero value halts.
const (
	TrapHalt TrapOutcome = iota
	TrapContinue
)

// TrapHandler is the interface for servicing TRAP instructions.
//
// The handler runs after the PC has advanced past the TRAP and may read or
// modify the machine. TRAP itself does not write R7 or the condition code.
type TrapHandler interface {
	HandleTrap(vector uint8, m *Machine) TrapOutcome
}

// TrapFunc adapts an ordinary function to a TrapHandler.
type TrapFunc func(vector uint8, m *Machine) TrapOutcome

// HandleTrap calls fn(vector, m).
func (fn TrapFunc) HandleTrap(vector uint8, m *Machine) TrapOutcome {
	return fn(vector, m)
}

// DefaultTrapHandler halts on every vector.
type DefaultTrapHandler struct{}

// HandleTrap always halts.
func (DefaultTrapHandler) HandleTrap(uint8, *Machine) TrapOutcome {
	return TrapHalt
}
