package emu

// State is a read-only snapshot of a machine.
type State struct {
	Registers [NumRegs]uint16
	PC        uint16
	Flags     CondFlag
	Memory    []uint16
}

// MemoryObserver is told about each data memory access. Accesses of an
// instruction that later faults are reported too.
type MemoryObserver func(addr uint16, write bool)

// Machine owns the register file and memory of one simulated run.
type Machine struct {
	regFile  *RegFile
	memory   *Memory
	observer MemoryObserver
}

// NewMachine creates a machine over the given register file and memory.
func NewMachine(regFile *RegFile, memory *Memory) *Machine {
	return &Machine{regFile: regFile, memory: memory}
}

// RegFile returns the machine's register file.
func (m *Machine) RegFile() *RegFile {
	return m.regFile
}

// Memory returns the machine's memory.
func (m *Machine) Memory() *Memory {
	return m.memory
}

// Fetch reads the instruction word at pc.
func (m *Machine) Fetch(pc uint16) uint16 {
	return m.memory.words[pc]
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.regFile.PC
}

// AdvancePC moves the PC to the next word. The top of memory has no next
// word.
func (m *Machine) AdvancePC() error {
	return m.SetPC(int(m.regFile.PC) + 1)
}

// SetPC sets the program counter.
func (m *Machine) SetPC(addr int) error {
	if !InRange(addr) {
		return addressFault(addr)
	}
	m.regFile.PC = uint16(addr)
	return nil
}

// ReadReg reads general-purpose register n.
func (m *Machine) ReadReg(n uint8) uint16 {
	return m.regFile.ReadReg(n)
}

// WriteReg writes general-purpose register n and updates the condition code.
func (m *Machine) WriteReg(n uint8, value uint16) {
	m.regFile.WriteReg(n, value)
}

// ReadMem reads the word at addr.
func (m *Machine) ReadMem(addr int) (uint16, error) {
	v, err := m.memory.Read(addr)
	if err == nil && m.observer != nil {
		m.observer(uint16(addr), false)
	}
	return v, err
}

// WriteMem writes the word at addr.
func (m *Machine) WriteMem(addr int, value uint16) error {
	if err := m.memory.Write(addr, value); err != nil {
		return err
	}
	if m.observer != nil {
		m.observer(uint16(addr), true)
	}
	return nil
}

// Flags returns the condition code.
func (m *Machine) Flags() CondFlag {
	return m.regFile.Flags()
}

// Snapshot copies the machine state.
func (m *Machine) Snapshot() State {
	return State{
		Registers: m.regFile.R,
		PC:        m.regFile.PC,
		Flags:     m.regFile.Flags(),
		Memory:    m.memory.Snapshot(),
	}
}

// pcRelative returns the advanced PC plus offset, without wrapping.
func (m *Machine) pcRelative(offset int16) int {
	return int(m.regFile.PC) + int(offset)
}
