package benchmarks

import "github.com/sarchlab/lc3sim/emu"

// GetMicrobenchmarks returns the standard set of microbenchmarks.
// Each benchmark targets a specific characteristic of the timing model.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		memoryCopy(),
		functionCalls(),
		branchTaken(),
		mixedOperations(),
		multiplyLoop(),
		loopSimulation(),
	}
}

// GetCoreBenchmarks returns a minimal set of core benchmarks for quick
// validation: a loop, a multiply and branch-heavy code.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		loopSimulation(),
		multiplyLoop(),
		branchTaken(),
	}
}

// 1. Arithmetic Sequential - ALU throughput with independent operations
func arithmeticSequential() Benchmark {
	words := make([]uint16, 0, 21)
	for i := 0; i < 20; i++ {
		reg := uint8(i % 5)
		words = append(words, EncodeADDImm(reg, reg, 1))
	}
	words = append(words, EncodeHALT())

	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "20 independent ADDs over R0-R4 - measures ALU throughput",
		Program:     BuildProgram(words...),
		ExpectedR0:  4,
	}
}

// 2. Dependency Chain - the same register through 20 ADDs
func dependencyChain() Benchmark {
	words := make([]uint16, 0, 21)
	for i := 0; i < 20; i++ {
		words = append(words, EncodeADDImm(0, 0, 1))
	}
	words = append(words, EncodeHALT())

	return Benchmark{
		Name:        "dependency_chain",
		Description: "20 dependent ADDs (R0 = R0 + 1)",
		Program:     BuildProgram(words...),
		ExpectedR0:  20,
	}
}

// 3. Memory Sequential - sums an 8-word array with LDR
func memorySequential() Benchmark {
	return Benchmark{
		Name:        "memory_sequential",
		Description: "Sum of an 8-word array via LDR - data cache friendly",
		Program: BuildProgram(
			EncodeLEA(1, 9),        // R1 = &data
			EncodeANDImm(0, 0, 0),  // R0 = 0
			EncodeANDImm(2, 2, 0),  // R2 = 0
			EncodeADDImm(2, 2, 8),  // R2 = 8
			EncodeLDR(3, 1, 0),     // loop: R3 = *R1
			EncodeADDReg(0, 0, 3),  // R0 += R3
			EncodeADDImm(1, 1, 1),  // R1++
			EncodeADDImm(2, 2, -1), // R2--
			EncodeBR(false, false, true, -5),
			EncodeHALT(),
			1, 2, 3, 4, 5, 6, 7, 8, // data
		),
		ExpectedR0: 36,
	}
}

// 4. Memory Copy - copies a block set up in memory and counts the words
func memoryCopy() Benchmark {
	const (
		src   = 0x4000
		dst   = 0x5000
		count = 16
	)

	return Benchmark{
		Name:        "memory_copy",
		Description: "16-word LDR/STR block copy between distant regions",
		Setup: func(m *emu.Machine) {
			for i := 0; i < count; i++ {
				_ = m.WriteMem(src+i, uint16(i+1))
			}
		},
		Program: BuildProgram(
			EncodeLD(1, 11),        // R1 = src
			EncodeLD(2, 11),        // R2 = dst
			EncodeLD(4, 11),        // R4 = count
			EncodeANDImm(0, 0, 0),  // R0 = 0
			EncodeLDR(3, 1, 0),     // loop: R3 = *R1
			EncodeSTR(3, 2, 0),     // *R2 = R3
			EncodeADDImm(1, 1, 1),  // R1++
			EncodeADDImm(2, 2, 1),  // R2++
			EncodeADDImm(0, 0, 1),  // R0++
			EncodeADDImm(4, 4, -1), // R4--
			EncodeBR(false, false, true, -7),
			EncodeHALT(),
			src, dst, count,
		),
		ExpectedR0: count,
	}
}

// 5. Function Calls - JSR/RET overhead
func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "5 JSR/RET pairs to an increment subroutine",
		Program: BuildProgram(
			EncodeANDImm(0, 0, 0),
			EncodeJSR(5),
			EncodeJSR(4),
			EncodeJSR(3),
			EncodeJSR(2),
			EncodeJSR(1),
			EncodeHALT(),
			EncodeADDImm(0, 0, 1), // subroutine
			EncodeRET(),
		),
		ExpectedR0: 5,
	}
}

// 6. Branch Taken - unconditional branch over dead code in a loop
func branchTaken() Benchmark {
	return Benchmark{
		Name:        "branch_taken",
		Description: "10 iterations, each taking an unconditional and a loop branch",
		Program: BuildProgram(
			EncodeANDImm(0, 0, 0),
			EncodeANDImm(1, 1, 0),
			EncodeADDImm(1, 1, 10),
			EncodeBR(true, true, true, 1), // loop: skip next
			EncodeADDImm(0, 0, 15),        // never executed
			EncodeADDImm(0, 0, 1),
			EncodeADDImm(1, 1, -1),
			EncodeBR(false, false, true, -5),
			EncodeHALT(),
		),
		ExpectedR0: 10,
	}
}

// 7. Mixed Operations - shifts, NOT and every memory addressing mode
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "SHF, NOT, ST, STI, LD and LDI round trip",
		Program: BuildProgram(
			EncodeANDImm(0, 0, 0),
			EncodeADDImm(0, 0, 5),
			EncodeSHF(0, 0, 0, 2), // R0 = 20
			EncodeST(0, 8),        // data = R0
			EncodeNOT(1, 0),
			EncodeADDImm(1, 1, 1), // R1 = -20
			EncodeSTI(1, 6),       // *ptr = R1
			EncodeLD(2, 4),        // R2 = data
			EncodeLDI(3, 4),       // R3 = *ptr
			EncodeADDReg(0, 2, 3), // R0 = 0
			EncodeADDReg(0, 0, 2), // R0 = 20
			EncodeHALT(),
			0,                  // data
			ProgramOrigin + 14, // ptr
			0,                  // target
		),
		ExpectedR0: 20,
	}
}

// 8. Multiply Loop - 7 * 6 by repeated addition
func multiplyLoop() Benchmark {
	return Benchmark{
		Name:        "multiply_loop",
		Description: "7 * 6 by repeated addition",
		Program: BuildProgram(
			EncodeANDImm(0, 0, 0),
			EncodeANDImm(1, 1, 0),
			EncodeADDImm(1, 1, 7),
			EncodeANDImm(2, 2, 0),
			EncodeADDImm(2, 2, 6),
			EncodeADDReg(0, 0, 1), // loop
			EncodeADDImm(2, 2, -1),
			EncodeBR(false, false, true, -3),
			EncodeHALT(),
		),
		ExpectedR0: 42,
	}
}

// 9. Loop Simulation - counting loop
func loopSimulation() Benchmark {
	return Benchmark{
		Name:        "loop_simulation",
		Description: "10-iteration counting loop adding 3 each pass",
		Program: BuildProgram(
			EncodeANDImm(0, 0, 0),
			EncodeADDImm(1, 0, 10),
			EncodeADDImm(0, 0, 3), // loop
			EncodeADDImm(1, 1, -1),
			EncodeBR(false, false, true, -3),
			EncodeHALT(),
		),
		ExpectedR0: 30,
	}
}
