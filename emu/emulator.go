// Package emu provides functional LC-3 emulation.
package emu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/sarchlab/lc3sim/insts"
	"github.com/sarchlab/lc3sim/loader"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true once the emulator has stopped executing.
	Halted bool

	// Err is why the emulator halted: a *Fault, ErrCycleLimit, ErrStopped
	// or a context error. It is nil for a TRAP halt.
	Err error
}

// RunState is the state of the run loop.
type RunState uint8

// Run loop states. StateHalted is terminal until the next load or reset.
const (
	StateRunning RunState = iota
	StateHalted
)

func (s RunState) String() string {
	if s == StateHalted {
		return "halted"
	}
	return "running"
}

// StepHook observes each retired instruction. pc is the address the
// instruction was fetched from. It must not modify the machine.
type StepHook func(pc uint16, inst *insts.Instruction, m *Machine)

// Emulator executes LC-3 instructions functionally.
type Emulator struct {
	regFile     *RegFile
	memory      *Memory
	machine     *Machine
	decoder     *insts.Decoder
	trapHandler TrapHandler
	stepHook    StepHook

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	stderr io.Writer

	// Execution state
	state            RunState
	haltErr          error
	stopRequested    atomic.Bool
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStderr sets the writer for run diagnostics.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stderr = w
	}
}

// WithTrapHandler sets the handler invoked by TRAP. A nil handler halts on
// every TRAP.
func WithTrapHandler(handler TrapHandler) EmulatorOption {
	return func(e *Emulator) {
		e.trapHandler = handler
	}
}

// WithStepHook sets an observer called after every retired instruction.
func WithStepHook(hook StepHook) EmulatorOption {
	return func(e *Emulator) {
		e.stepHook = hook
	}
}

// WithMemoryObserver sets an observer called for every data memory access
// made through the machine.
func WithMemoryObserver(observer MemoryObserver) EmulatorOption {
	return func(e *Emulator) {
		e.machine.observer = observer
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new LC-3 emulator with zeroed memory and registers.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	regFile := &RegFile{}
	memory := NewMemory()
	machine := NewMachine(regFile, memory)

	e := &Emulator{
		regFile:     regFile,
		memory:      memory,
		machine:     machine,
		decoder:     insts.NewDecoder(),
		trapHandler: DefaultTrapHandler{},
		stderr:      os.Stderr,
		alu:         NewALU(machine),
		lsu:         NewLoadStoreUnit(machine),
		branchUnit:  NewBranchUnit(machine),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Machine returns the emulator's machine state.
func (e *Emulator) Machine() *Machine {
	return e.machine
}

// InstructionCount returns the number of instructions retired.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// RunState returns the run loop state.
func (e *Emulator) RunState() RunState {
	return e.state
}

// Halted reports whether the emulator has halted.
func (e *Emulator) Halted() bool {
	return e.state == StateHalted
}

// Err returns why the emulator halted, or nil.
func (e *Emulator) Err() error {
	return e.haltErr
}

// LoadProgram copies words into memory at origin, sets the PC to origin and
// puts the emulator in the running state.
func (e *Emulator) LoadProgram(origin uint16, words []uint16) error {
	if err := e.memory.Load(origin, words); err != nil {
		return err
	}
	e.regFile.PC = origin
	e.state = StateRunning
	e.haltErr = nil
	e.stopRequested.Store(false)
	return nil
}

// LoadImage loads a parsed program image.
func (e *Emulator) LoadImage(img *loader.Image) error {
	return e.LoadProgram(img.Origin, img.Words)
}

// Reset clears memory, registers and counters and leaves the emulator
// running at PC 0.
func (e *Emulator) Reset() {
	*e.regFile = RegFile{}
	e.memory.Clear()
	e.instructionCount = 0
	e.state = StateRunning
	e.haltErr = nil
	e.stopRequested.Store(false)
}

// Stop asks the run loop to halt before the next instruction. It is safe to
// call from another goroutine.
func (e *Emulator) Stop() {
	e.stopRequested.Store(true)
}

// Step executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	if e.state == StateHalted {
		return StepResult{Halted: true, Err: e.haltErr}
	}

	// Check instruction limit before executing
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return e.halt(ErrCycleLimit)
	}

	// 1. Fetch
	pc := e.regFile.PC
	word := e.machine.Fetch(pc)

	// 2. Decode
	inst := e.decoder.Decode(word)

	// 3. Execute
	halt, err := e.execute(inst)
	if err != nil {
		var fault *Fault
		if errors.As(err, &fault) {
			fault.PC = pc
			fault.Word = word
			fault.Opcode = inst.Op
		}
		e.regFile.PC = pc
		return e.halt(err)
	}

	e.instructionCount++

	if e.stepHook != nil {
		e.stepHook(pc, inst, e.machine)
	}

	if halt {
		return e.halt(nil)
	}
	return StepResult{}
}

// Run executes instructions until the emulator halts. An external stop
// request or ctx cancellation is honored between instructions.
// Returns nil after a TRAP halt, otherwise the reason for halting. The PC
// never wraps: executing past 0xFFFF is an ErrAddressOutOfRange fault, so a
// run through zeroed memory without an instruction limit ends there.
func (e *Emulator) Run(ctx context.Context) error {
	for {
		if e.state == StateRunning {
			if e.stopRequested.Load() {
				e.halt(ErrStopped)
			} else if err := ctx.Err(); err != nil {
				e.halt(err)
			}
		}

		result := e.Step()
		if !result.Halted {
			continue
		}

		var fault *Fault
		if errors.As(result.Err, &fault) {
			_, _ = fmt.Fprintf(e.stderr, "Emulation fault: %v\n", fault)
		}
		return result.Err
	}
}

func (e *Emulator) halt(err error) StepResult {
	e.state = StateHalted
	e.haltErr = err
	return StepResult{Halted: true, Err: err}
}

// execute advances the PC past inst and dispatches it.
// Returns true if the instruction halts the emulator.
func (e *Emulator) execute(inst *insts.Instruction) (bool, error) {
	if err := e.machine.AdvancePC(); err != nil {
		return false, err
	}

	switch inst.Op {
	case insts.OpADD:
		e.alu.ADD(inst)
	case insts.OpAND:
		e.alu.AND(inst)
	case insts.OpNOT:
		e.alu.NOT(inst)
	case insts.OpSHF:
		e.alu.SHF(inst)
	case insts.OpBR:
		return false, e.branchUnit.BR(inst)
	case insts.OpJMP:
		return false, e.branchUnit.JMP(inst)
	case insts.OpJSR:
		return false, e.branchUnit.JSR(inst)
	case insts.OpLD:
		return false, e.lsu.LD(inst)
	case insts.OpLDI:
		return false, e.lsu.LDI(inst)
	case insts.OpLDR:
		return false, e.lsu.LDR(inst)
	case insts.OpST:
		return false, e.lsu.ST(inst)
	case insts.OpSTI:
		return false, e.lsu.STI(inst)
	case insts.OpSTR:
		return false, e.lsu.STR(inst)
	case insts.OpLEA:
		e.lsu.LEA(inst)
	case insts.OpTRAP:
		return e.executeTrap(inst), nil
	case insts.OpInvalid:
		return true, &Fault{Kind: FaultInvalidOpcode}
	}

	return false, nil
}

// executeTrap hands the vector to the trap handler.
func (e *Emulator) executeTrap(inst *insts.Instruction) bool {
	if e.trapHandler == nil {
		return true
	}
	return e.trapHandler.HandleTrap(inst.TrapVector, e.machine) != TrapContinue
}
