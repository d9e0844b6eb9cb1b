package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for different instruction classes.
// Values are in cycles of a simple in-order LC-3 implementation.
type TimingConfig struct {
	// ALULatency is the execution latency for ADD, AND, NOT and LEA.
	// Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// ShiftLatency is the execution latency for SHF. Default: 1 cycle.
	ShiftLatency uint64 `json:"shift_latency"`

	// BranchLatency is the base execution latency for BR, JMP and JSR.
	// Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// BranchTakenPenalty is the additional cycles lost when control
	// leaves the sequential path. Default: 2 cycles.
	BranchTakenPenalty uint64 `json:"branch_taken_penalty"`

	// LoadLatency is the execution latency of LD, LDI and LDR excluding the
	// memory access itself. Default: 2 cycles.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the execution latency of ST, STI and STR excluding
	// the memory access itself. Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// TrapLatency is the latency for TRAP (service time is external).
	// Default: 1 cycle.
	TrapLatency uint64 `json:"trap_latency"`

	// MemoryLatency is the cost of one memory access when no cache is
	// modeled. Default: 10 cycles.
	MemoryLatency uint64 `json:"memory_latency"`
}

// DefaultTimingConfig returns a TimingConfig with default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:         1,
		ShiftLatency:       1,
		BranchLatency:      1,
		BranchTakenPenalty: 2,
		LoadLatency:        2,
		StoreLatency:       1,
		TrapLatency:        1,
		MemoryLatency:      10,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their defaults.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
// BranchTakenPenalty may be zero.
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.ShiftLatency == 0 {
		return fmt.Errorf("shift_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	if c.TrapLatency == 0 {
		return fmt.Errorf("trap_latency must be > 0")
	}
	if c.MemoryLatency == 0 {
		return fmt.Errorf("memory_latency must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
