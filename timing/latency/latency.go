// Package latency provides instruction timing models for LC-3 simulation.
//
// The latency values can be configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/lc3sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given
// instruction, excluding fetch and data memory accesses.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch inst.Op {
	case insts.OpADD, insts.OpAND, insts.OpNOT, insts.OpLEA:
		return t.config.ALULatency

	case insts.OpSHF:
		return t.config.ShiftLatency

	case insts.OpBR, insts.OpJMP, insts.OpJSR:
		return t.config.BranchLatency

	case insts.OpLD, insts.OpLDR, insts.OpLDI:
		return t.config.LoadLatency

	case insts.OpST, insts.OpSTR, insts.OpSTI:
		return t.config.StoreLatency

	case insts.OpTRAP:
		return t.config.TrapLatency

	default:
		return 1
	}
}

// MemoryAccesses returns the number of data memory accesses the
// instruction performs. Indirect forms read a pointer first.
func (t *Table) MemoryAccesses(inst *insts.Instruction) int {
	if inst == nil {
		return 0
	}

	switch inst.Op {
	case insts.OpLD, insts.OpLDR, insts.OpST, insts.OpSTR:
		return 1
	case insts.OpLDI, insts.OpSTI:
		return 2
	default:
		return 0
	}
}

// IsMemoryOp returns true if the instruction accesses data memory.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	return t.MemoryAccesses(inst) > 0
}

// IsLoadOp returns true if the instruction is a load operation.
func (t *Table) IsLoadOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpLD || inst.Op == insts.OpLDR || inst.Op == insts.OpLDI
}

// IsStoreOp returns true if the instruction is a store operation.
func (t *Table) IsStoreOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpST || inst.Op == insts.OpSTR || inst.Op == insts.OpSTI
}

// IsBranchOp returns true if the instruction may transfer control.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpBR, insts.OpJMP, insts.OpJSR:
		return true
	default:
		return false
	}
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
