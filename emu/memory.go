package emu

// MemorySize is the number of 16-bit words in the address space.
const MemorySize = 1 << 16

// Memory is the flat word-addressed LC-3 memory.
//
// Addresses are ints so that handler arithmetic that leaves the address
// space is reported instead of silently wrapping.
type Memory struct {
	words [MemorySize]uint16
}

// NewMemory creates a zero-filled memory.
func NewMemory() *Memory {
	return &Memory{}
}

// InRange reports whether addr is a valid word address.
func InRange(addr int) bool {
	return addr >= 0 && addr < MemorySize
}

// Read returns the word at addr.
func (m *Memory) Read(addr int) (uint16, error) {
	if !InRange(addr) {
		return 0, addressFault(addr)
	}
	return m.words[addr], nil
}

// Write stores value at addr.
func (m *Memory) Write(addr int, value uint16) error {
	if !InRange(addr) {
		return addressFault(addr)
	}
	m.words[addr] = value
	return nil
}

// Load copies words into memory starting at origin, overwriting prior
// contents. Nothing is written if the block does not fit.
func (m *Memory) Load(origin uint16, words []uint16) error {
	end := int(origin) + len(words)
	if end > MemorySize {
		return addressFault(end - 1)
	}
	copy(m.words[origin:end], words)
	return nil
}

// Snapshot returns a copy of the whole address space.
func (m *Memory) Snapshot() []uint16 {
	out := make([]uint16, MemorySize)
	copy(out, m.words[:])
	return out
}

// Clear zeroes every word.
func (m *Memory) Clear() {
	m.words = [MemorySize]uint16{}
}
