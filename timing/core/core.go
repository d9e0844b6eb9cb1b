// Package core provides the cycle-approximate LC-3 core model.
// It wraps the functional emulator and charges cycles for every retired
// instruction.
package core

import (
	"context"

	"github.com/sarchlab/lc3sim/emu"
	"github.com/sarchlab/lc3sim/insts"
	"github.com/sarchlab/lc3sim/timing/branch"
	"github.com/sarchlab/lc3sim/timing/cache"
	"github.com/sarchlab/lc3sim/timing/latency"
)

// Config selects the latency table and cache geometry of a core.
type Config struct {
	Latency *latency.TimingConfig
	ICache  cache.Config
	DCache  cache.Config

	// NoCaches charges Latency.MemoryLatency for every memory access.
	NoCaches bool

	// Predictor enables branch prediction. When nil every taken control
	// transfer pays the penalty; otherwise only mispredicted ones do.
	Predictor *branch.Config
}

// DefaultConfig returns the default core configuration.
func DefaultConfig() Config {
	return Config{
		Latency: latency.DefaultTimingConfig(),
		ICache:  cache.DefaultInstConfig(),
		DCache:  cache.DefaultDataConfig(),
	}
}

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// FetchCycles is the number of cycles spent fetching.
	FetchCycles uint64
	// MemoryCycles is the number of cycles spent on data accesses.
	MemoryCycles uint64
	// BranchPenalties is the number of control transfers that paid the
	// redirect penalty.
	BranchPenalties uint64

	ICache    cache.Statistics
	DCache    cache.Statistics
	Predictor branch.Stats
}

// CPI returns cycles per instruction, or 0 before anything retires.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Core runs an emulator and accounts cycles per retired instruction.
type Core struct {
	emulator *emu.Emulator
	table    *latency.Table
	config   Config

	icache    *cache.Cache
	dcache    *cache.Cache
	predictor *branch.Predictor

	trace emu.StepHook

	// Data accesses of the instruction in flight.
	pending []access

	stats Stats
}

type access struct {
	addr  uint16
	write bool
}

// NewCore creates a core whose emulator is built from opts. The core installs
// its own step hook and memory observer; use WithTrace to observe retired
// instructions.
func NewCore(config Config, opts ...emu.EmulatorOption) *Core {
	if config.Latency == nil {
		config.Latency = latency.DefaultTimingConfig()
	}

	c := &Core{
		table:  latency.NewTableWithConfig(config.Latency),
		config: config,
	}
	if !config.NoCaches {
		c.icache = cache.New(config.ICache, nil)
		c.dcache = cache.New(config.DCache, nil)
	}
	if config.Predictor != nil {
		c.predictor = branch.New(*config.Predictor)
	}

	opts = append(opts,
		emu.WithStepHook(c.retire),
		emu.WithMemoryObserver(c.observe),
	)
	c.emulator = emu.NewEmulator(opts...)

	return c
}

// WithTrace sets a hook called after each retired instruction has been
// charged.
func (c *Core) WithTrace(hook emu.StepHook) *Core {
	c.trace = hook
	return c
}

// Emulator returns the functional emulator driven by the core.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// Config returns the core configuration.
func (c *Core) Config() Config {
	return c.config
}

// Halted returns true if the core has halted.
func (c *Core) Halted() bool {
	return c.emulator.Halted()
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	stats := c.stats
	if c.icache != nil {
		stats.ICache = c.icache.Stats()
		stats.DCache = c.dcache.Stats()
	}
	if c.predictor != nil {
		stats.Predictor = c.predictor.Stats()
	}
	return stats
}

// LoadProgram loads words at origin and clears pending accesses.
func (c *Core) LoadProgram(origin uint16, words []uint16) error {
	c.pending = c.pending[:0]
	return c.emulator.LoadProgram(origin, words)
}

// Step executes one instruction.
func (c *Core) Step() emu.StepResult {
	c.pending = c.pending[:0]
	return c.emulator.Step()
}

// Run executes the core until it halts.
func (c *Core) Run(ctx context.Context) error {
	c.pending = c.pending[:0]
	return c.emulator.Run(ctx)
}

// Reset clears the emulator, caches and statistics.
func (c *Core) Reset() {
	c.emulator.Reset()
	if c.icache != nil {
		c.icache.Reset()
		c.dcache.Reset()
	}
	if c.predictor != nil {
		c.predictor.Reset()
	}
	c.pending = c.pending[:0]
	c.stats = Stats{}
}

func (c *Core) observe(addr uint16, write bool) {
	c.pending = append(c.pending, access{addr: addr, write: write})
}

// retire charges fetch, execution, data accesses and redirect penalty for
// the instruction fetched at pc.
func (c *Core) retire(pc uint16, inst *insts.Instruction, m *emu.Machine) {
	fetch := c.memoryAccess(c.icache, access{addr: pc})

	var memory uint64
	for _, a := range c.pending {
		memory += c.memoryAccess(c.dcache, a)
	}
	c.pending = c.pending[:0]

	cycles := fetch + c.table.GetLatency(inst) + memory
	if c.table.IsBranchOp(inst) && c.redirect(pc, m.PC()) {
		cycles += c.config.Latency.BranchTakenPenalty
		c.stats.BranchPenalties++
	}

	c.stats.Cycles += cycles
	c.stats.FetchCycles += fetch
	c.stats.MemoryCycles += memory
	c.stats.Instructions++

	if c.trace != nil {
		c.trace(pc, inst, m)
	}
}

// redirect reports whether the control transfer at pc, which continued at
// next, pays the penalty.
func (c *Core) redirect(pc, next uint16) bool {
	taken := int(next) != int(pc)+1
	if c.predictor == nil {
		return taken
	}

	pred := c.predictor.Predict(pc)
	c.predictor.Update(pc, pred, taken, next)
	return !pred.Correct(taken, next)
}

func (c *Core) memoryAccess(target *cache.Cache, a access) uint64 {
	if target == nil {
		return c.config.Latency.MemoryLatency
	}
	if a.write {
		return target.Write(a.addr, 0).Latency
	}
	return target.Read(a.addr).Latency
}
