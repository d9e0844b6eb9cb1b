package emu

import "github.com/sarchlab/lc3sim/insts"

// BranchUnit implements LC-3 control transfer operations.
// All PC-relative targets are taken from the already advanced PC.
type BranchUnit struct {
	machine *Machine
}

// NewBranchUnit creates a new BranchUnit connected to the given machine.
func NewBranchUnit(machine *Machine) *BranchUnit {
	return &BranchUnit{machine: machine}
}

// BR branches to PC + PCoffset9 if any asserted n/z/p bit matches the
// condition code; otherwise the PC is unchanged.
func (b *BranchUnit) BR(inst *insts.Instruction) error {
	if !b.CheckCondition(inst) {
		return nil
	}
	return b.machine.SetPC(b.machine.pcRelative(inst.Offset))
}

// CheckCondition reports whether the instruction's n/z/p bits match the
// current condition code. A BR with no bits set never branches.
func (b *BranchUnit) CheckCondition(inst *insts.Instruction) bool {
	switch b.machine.Flags() {
	case FlagNegative:
		return inst.N
	case FlagZero:
		return inst.Z
	case FlagPositive:
		return inst.P
	default:
		return false
	}
}

// JMP branches to the address in BaseR. JMP R7 is RET.
func (b *BranchUnit) JMP(inst *insts.Instruction) error {
	return b.machine.SetPC(int(b.machine.ReadReg(inst.BaseR)))
}

// JSR saves the return address in R7 and branches to PC + PCoffset11 (JSR)
// or to the address in BaseR (JSRR). The link write does not touch the
// condition code.
func (b *BranchUnit) JSR(inst *insts.Instruction) error {
	// Read target first (in case BaseR is R7)
	var target int
	if inst.Long {
		target = b.machine.pcRelative(inst.Offset)
	} else {
		target = int(b.machine.ReadReg(inst.BaseR))
	}
	if !InRange(target) {
		return addressFault(target)
	}

	b.machine.regFile.SetReg(LinkReg, b.machine.PC())
	return b.machine.SetPC(target)
}
