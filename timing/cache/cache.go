// Package cache provides word-addressed cache modeling using Akita cache
// components.
package cache

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters. Sizes are in 16-bit words.
type Config struct {
	// Size in words
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in words
	BlockSize int
	// HitLatency in cycles
	HitLatency uint64
	// MissLatency in cycles (includes memory access time)
	MissLatency uint64
}

// DefaultInstConfig returns the default instruction cache configuration.
func DefaultInstConfig() Config {
	return Config{
		Size:          1024,
		Associativity: 2,
		BlockSize:     8,
		HitLatency:    1,
		MissLatency:   10,
	}
}

// DefaultDataConfig returns the default data cache configuration.
func DefaultDataConfig() Config {
	return Config{
		Size:          1024,
		Associativity: 4,
		BlockSize:     8,
		HitLatency:    1,
		MissLatency:   10,
	}
}

// Validate checks that the geometry describes at least one set and that the
// block size is a power of two no larger than the address space.
func (c Config) Validate() error {
	if c.Associativity <= 0 || c.BlockSize <= 0 {
		return fmt.Errorf("cache: associativity and block size must be > 0")
	}
	if c.BlockSize&(c.BlockSize-1) != 0 || c.BlockSize > 1<<16 {
		return fmt.Errorf("cache: block size %d is not a power of two within the address space", c.BlockSize)
	}
	if c.Size < c.Associativity*c.BlockSize {
		return fmt.Errorf("cache: size %d holds no complete set", c.Size)
	}
	return nil
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Latency is the number of cycles this access takes.
	Latency uint64
	// Data is the word read (for load operations).
	Data uint16
	// Evicted is true if a valid block was replaced.
	Evicted bool
	// EvictedAddr is the address of the evicted block (if Evicted is true).
	EvictedAddr uint16
}

// Cache is a write-back, write-allocate cache built on an Akita directory.
type Cache struct {
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Data storage - indexed by (setID * associativity + wayID)
	dataStore [][]uint16

	stats Statistics

	// Next level (for fetching on miss and writeback)
	backing BackingStore
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// HitRate returns hits over total accesses, or 0 before any access.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// BackingStore is the next level in the memory hierarchy.
type BackingStore interface {
	// ReadBlock fetches n words starting at addr.
	ReadBlock(addr uint16, n int) []uint16
	// WriteBlock stores words starting at addr.
	WriteBlock(addr uint16, data []uint16)
}

// New creates a new cache with the given configuration. A nil backing store
// makes the cache tag-only: missed blocks fill with zeros and writebacks are
// counted but dropped.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]uint16, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]uint16, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint16) uint64 {
	size := uint64(c.config.BlockSize)
	return uint64(addr) / size * size
}

func (c *Cache) lookup(addr uint16) *akitacache.Block {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block == nil || !block.IsValid {
		return nil
	}
	return block
}

// Contains reports whether addr is currently cached.
func (c *Cache) Contains(addr uint16) bool {
	return c.lookup(addr) != nil
}

// Read performs a cache read of one word.
func (c *Cache) Read(addr uint16) AccessResult {
	c.stats.Reads++

	if block := c.lookup(addr); block != nil {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := c.offset(addr)
		return AccessResult{
			Hit:     true,
			Latency: c.config.HitLatency,
			Data:    c.dataStore[c.blockIndex(block)][offset],
		}
	}

	c.stats.Misses++
	return c.handleMiss(addr, false, 0)
}

// Write performs a cache write of one word.
// Uses write-allocate policy: on miss, fetch the block first, then write.
func (c *Cache) Write(addr uint16, data uint16) AccessResult {
	c.stats.Writes++

	if block := c.lookup(addr); block != nil {
		c.stats.Hits++
		c.directory.Visit(block)

		c.dataStore[c.blockIndex(block)][c.offset(addr)] = data
		block.IsDirty = true

		return AccessResult{
			Hit:     true,
			Latency: c.config.HitLatency,
		}
	}

	c.stats.Misses++
	return c.handleMiss(addr, true, data)
}

func (c *Cache) offset(addr uint16) int {
	return int(addr) % c.config.BlockSize
}

func (c *Cache) handleMiss(addr uint16, isWrite bool, writeData uint16) AccessResult {
	result := AccessResult{
		Hit:     false,
		Latency: c.config.MissLatency,
	}

	blockAddr := c.blockAddr(addr)

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return result
	}

	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = uint16(victim.Tag)

		if victim.IsDirty {
			c.stats.Writebacks++
			if c.backing != nil {
				c.backing.WriteBlock(uint16(victim.Tag), victimData)
			}
		}
	}

	if c.backing != nil {
		copy(victimData, c.backing.ReadBlock(uint16(blockAddr), c.config.BlockSize))
	} else {
		clear(victimData)
	}

	// Tag holds the block-aligned address.
	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false

	if isWrite {
		victimData[c.offset(addr)] = writeData
		victim.IsDirty = true
	} else {
		result.Data = victimData[c.offset(addr)]
	}

	c.directory.Visit(victim)

	return result
}

// Invalidate drops the block holding addr without writeback.
func (c *Cache) Invalidate(addr uint16) {
	if block := c.lookup(addr); block != nil {
		block.IsValid = false
		block.IsDirty = false
	}
}

// Flush writes back all dirty blocks and invalidates them.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty {
				c.stats.Writebacks++
				if c.backing != nil {
					c.backing.WriteBlock(uint16(block.Tag), c.dataStore[c.blockIndex(block)])
				}
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all cache lines without writeback and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
