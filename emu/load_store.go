package emu

import "github.com/sarchlab/lc3sim/insts"

// LoadStoreUnit implements LC-3 load, store and address operations.
//
// Every address is computed and checked before anything is written, so a
// faulting instruction leaves registers and memory untouched.
type LoadStoreUnit struct {
	machine *Machine
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given machine.
func NewLoadStoreUnit(machine *Machine) *LoadStoreUnit {
	return &LoadStoreUnit{machine: machine}
}

// LD performs Rd = mem[PC + PCoffset9]
func (lsu *LoadStoreUnit) LD(inst *insts.Instruction) error {
	value, err := lsu.machine.ReadMem(lsu.machine.pcRelative(inst.Offset))
	if err != nil {
		return err
	}
	lsu.machine.WriteReg(inst.Rd, value)
	return nil
}

// LDI performs Rd = mem[mem[PC + PCoffset9]]
func (lsu *LoadStoreUnit) LDI(inst *insts.Instruction) error {
	pointer, err := lsu.machine.ReadMem(lsu.machine.pcRelative(inst.Offset))
	if err != nil {
		return err
	}
	value, err := lsu.machine.ReadMem(int(pointer))
	if err != nil {
		return err
	}
	lsu.machine.WriteReg(inst.Rd, value)
	return nil
}

// LDR performs Rd = mem[BaseR + offset6]
func (lsu *LoadStoreUnit) LDR(inst *insts.Instruction) error {
	value, err := lsu.machine.ReadMem(lsu.baseOffset(inst))
	if err != nil {
		return err
	}
	lsu.machine.WriteReg(inst.Rd, value)
	return nil
}

// ST performs mem[PC + PCoffset9] = SR
func (lsu *LoadStoreUnit) ST(inst *insts.Instruction) error {
	return lsu.machine.WriteMem(lsu.machine.pcRelative(inst.Offset), lsu.machine.ReadReg(inst.Rd))
}

// STI performs mem[mem[PC + PCoffset9]] = SR
func (lsu *LoadStoreUnit) STI(inst *insts.Instruction) error {
	pointer, err := lsu.machine.ReadMem(lsu.machine.pcRelative(inst.Offset))
	if err != nil {
		return err
	}
	return lsu.machine.WriteMem(int(pointer), lsu.machine.ReadReg(inst.Rd))
}

// STR performs mem[BaseR + offset6] = SR
func (lsu *LoadStoreUnit) STR(inst *insts.Instruction) error {
	return lsu.machine.WriteMem(lsu.baseOffset(inst), lsu.machine.ReadReg(inst.Rd))
}

// LEA performs Rd = PC + PCoffset9. No memory is accessed; the result is
// register arithmetic and wraps modulo 2^16.
func (lsu *LoadStoreUnit) LEA(inst *insts.Instruction) {
	lsu.machine.WriteReg(inst.Rd, uint16(lsu.machine.pcRelative(inst.Offset)))
}

func (lsu *LoadStoreUnit) baseOffset(inst *insts.Instruction) int {
	return int(lsu.machine.ReadReg(inst.BaseR)) + int(inst.Offset)
}
