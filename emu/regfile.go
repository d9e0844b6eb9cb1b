// Package emu provides functional LC-3 emulation.
package emu

// CondFlag is the condition code. Exactly one flag holds at a time.
type CondFlag uint8

// Condition codes, using the PSR bit positions.
const (
	FlagPositive CondFlag = 1 << 0
	FlagZero     CondFlag = 1 << 1
	FlagNegative CondFlag = 1 << 2
)

func (c CondFlag) String() string {
	switch c {
	case FlagNegative:
		return "N"
	case FlagZero:
		return "Z"
	case FlagPositive:
		return "P"
	default:
		return "?"
	}
}

// Classify returns the condition code for a value written to a register.
func Classify(value uint16) CondFlag {
	switch {
	case value == 0:
		return FlagZero
	case value&0x8000 != 0:
		return FlagNegative
	default:
		return FlagPositive
	}
}

// NumRegs is the number of general-purpose registers.
const NumRegs = 8

// LinkReg holds subroutine return addresses by convention.
const LinkReg = 7

// RegFile represents the LC-3 register file.
// It contains 8 general-purpose registers (R0-R7), the program counter (PC)
// and the condition code.
type RegFile struct {
	// R holds general-purpose registers R0-R7.
	R [NumRegs]uint16

	// PC is the program counter.
	PC uint16

	// cond is zero until the first flag-setting write; Flags reports Z then.
	cond CondFlag
}

// ReadReg reads a register value. Only the low 3 bits of reg are used.
func (r *RegFile) ReadReg(reg uint8) uint16 {
	return r.R[reg&7]
}

// WriteReg writes a value to a register and sets the condition code from
// the value written.
func (r *RegFile) WriteReg(reg uint8, value uint16) {
	r.R[reg&7] = value
	r.cond = Classify(value)
}

// SetReg writes a register without touching the condition code.
func (r *RegFile) SetReg(reg uint8, value uint16) {
	r.R[reg&7] = value
}

// Flags returns the current condition code.
func (r *RegFile) Flags() CondFlag {
	if r.cond == 0 {
		return FlagZero
	}
	return r.cond
}

// SetFlags overrides the condition code. Values other than a single flag are
// ignored.
func (r *RegFile) SetFlags(c CondFlag) {
	switch c {
	case FlagNegative, FlagZero, FlagPositive:
		r.cond = c
	}
}
