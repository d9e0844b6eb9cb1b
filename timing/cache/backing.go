package cache

import (
	"github.com/sarchlab/lc3sim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// ReadBlock fetches n words from the backing memory. Words past the end of
// memory read as zero.
func (m *MemoryBacking) ReadBlock(addr uint16, n int) []uint16 {
	data := make([]uint16, n)
	for i := range data {
		word, err := m.memory.Read(int(addr) + i)
		if err != nil {
			break
		}
		data[i] = word
	}
	return data
}

// WriteBlock stores words to the backing memory, dropping any that fall past
// the end of memory.
func (m *MemoryBacking) WriteBlock(addr uint16, data []uint16) {
	for i, word := range data {
		if err := m.memory.Write(int(addr)+i, word); err != nil {
			return
		}
	}
}
