// Package insts provides LC-3 instruction definitions and decoding.
//
// This package implements decoding of 16-bit LC-3 machine words into
// structured instruction representations. Every one of the 16 opcode values
// maps to an explicit Op, including the reserved slot, which decodes to
// OpInvalid rather than falling through to a default.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x1261) // ADD R1, R1, #1
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, int16(inst.Imm))
package insts
