package emu

import "github.com/sarchlab/lc3sim/insts"

// ALU implements LC-3 arithmetic, logic and shift operations.
// Every result passes through WriteReg, so the condition code always
// reflects the value written.
type ALU struct {
	machine *Machine
}

// NewALU creates a new ALU connected to the given machine.
func NewALU(machine *Machine) *ALU {
	return &ALU{machine: machine}
}

// ADD performs Rd = Rs1 + (imm5 or Rs2), modulo 2^16.
func (a *ALU) ADD(inst *insts.Instruction) {
	op1 := a.machine.ReadReg(inst.Rs1)
	a.machine.WriteReg(inst.Rd, op1+a.operand2(inst))
}

// AND performs Rd = Rs1 & (imm5 or Rs2).
func (a *ALU) AND(inst *insts.Instruction) {
	op1 := a.machine.ReadReg(inst.Rs1)
	a.machine.WriteReg(inst.Rd, op1&a.operand2(inst))
}

// NOT performs Rd = ^Rs1.
func (a *ALU) NOT(inst *insts.Instruction) {
	a.machine.WriteReg(inst.Rd, ^a.machine.ReadReg(inst.Rs1))
}

// SHF performs Rd = Rs1 shifted by ShiftAmount bits.
func (a *ALU) SHF(inst *insts.Instruction) {
	value := a.machine.ReadReg(inst.Rs1)
	a.machine.WriteReg(inst.Rd, applyShift(value, inst.Shift, inst.ShiftAmount))
}

func (a *ALU) operand2(inst *insts.Instruction) uint16 {
	if inst.ImmMode {
		return inst.Imm
	}
	return a.machine.ReadReg(inst.Rs2)
}

// applyShift applies a shift operation to a 16-bit value.
func applyShift(value uint16, mode insts.ShiftMode, amount uint8) uint16 {
	if amount == 0 {
		return value
	}
	switch mode {
	case insts.ShiftRightLogical:
		return value >> amount
	case insts.ShiftRightArithmetic:
		return uint16(int16(value) >> amount)
	default:
		return value << amount
	}
}
