package emu_test

import (
	"bytes"
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lc3sim/emu"
	"github.com/sarchlab/lc3sim/insts"
	"github.com/sarchlab/lc3sim/loader"
)

func ctx() context.Context {
	return context.Background()
}

var _ = Describe("Emulator", func() {
	var (
		e         *emu.Emulator
		stderrBuf *bytes.Buffer
	)

	BeforeEach(func() {
		stderrBuf = &bytes.Buffer{}
		e = emu.NewEmulator(
			emu.WithStderr(stderrBuf),
		)
	})

	Describe("NewEmulator", func() {
		It("should create an emulator with initialized components", func() {
			Expect(e).NotTo(BeNil())
			Expect(e.RegFile()).NotTo(BeNil())
			Expect(e.Memory()).NotTo(BeNil())
			Expect(e.Machine().RegFile()).To(BeIdenticalTo(e.RegFile()))
			Expect(e.Machine().Memory()).To(BeIdenticalTo(e.Memory()))
			Expect(e.RunState()).To(Equal(emu.StateRunning))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagZero))
		})
	})

	Describe("LoadProgram", func() {
		It("should set the PC to the origin", func() {
			Expect(e.LoadProgram(0x4000, []uint16{haltWord})).To(Succeed())

			Expect(e.RegFile().PC).To(Equal(uint16(0x4000)))
			Expect(e.Memory().Read(0x4000)).To(Equal(uint16(haltWord)))
		})

		It("should load an image at its default origin", func() {
			img, err := loader.Parse(bytes.NewReader([]byte{0x00, 0x00, 0x10, 0x20}))
			Expect(err).NotTo(HaveOccurred())

			Expect(e.LoadImage(img)).To(Succeed())

			Expect(e.RegFile().PC).To(Equal(uint16(0x3000)))
			Expect(e.Memory().Read(0x3000)).To(Equal(uint16(0x1020)))
		})

		It("should load an image at an explicit origin", func() {
			img, err := loader.Parse(bytes.NewReader([]byte{0x40, 0x00, 0x12, 0x34}))
			Expect(err).NotTo(HaveOccurred())

			Expect(e.LoadImage(img)).To(Succeed())

			Expect(e.Memory().Read(0x4000)).To(Equal(uint16(0x1234)))
			Expect(e.Memory().Read(0x3000)).To(Equal(uint16(0)))
		})

		It("should rearm a halted emulator", func() {
			Expect(e.LoadProgram(0x3000, []uint16{haltWord})).To(Succeed())
			Expect(e.Step().Halted).To(BeTrue())

			Expect(e.LoadProgram(0x3000, []uint16{encodeADDImm(0, 0, 1)})).To(Succeed())

			Expect(e.RunState()).To(Equal(emu.StateRunning))
			Expect(e.Step().Halted).To(BeFalse())
		})
	})

	Describe("Step", func() {
		It("should halt on TRAP with the default handler", func() {
			Expect(e.LoadProgram(0x3000, []uint16{haltWord})).To(Succeed())

			result := e.Step()

			Expect(result.Halted).To(BeTrue())
			Expect(result.Err).To(BeNil())
			Expect(e.RunState()).To(Equal(emu.StateHalted))
			Expect(e.RegFile().PC).To(Equal(uint16(0x3001)))
			Expect(e.InstructionCount()).To(Equal(uint64(1)))
		})

		It("should halt on TRAP for every vector", func() {
			for _, vector := range []uint8{0x00, 0x20, 0x21, 0x25, 0xFF} {
				Expect(e.LoadProgram(0x3000, []uint16{encodeTRAP(vector)})).To(Succeed())
				Expect(e.Step().Halted).To(BeTrue())
			}
		})

		It("should dispatch every opcode other than the reserved one", func() {
			for op := uint16(0); op < 16; op++ {
				if insts.Op(op) == insts.OpInvalid {
					continue
				}
				e.Reset()
				Expect(e.LoadProgram(0x3000, []uint16{op << 12})).To(Succeed())

				result := e.Step()

				Expect(errors.Is(result.Err, emu.ErrInvalidOpcode)).To(BeFalse(),
					"opcode %d", op)
			}
		})

		It("should fault on the reserved opcode and leave registers unmodified", func() {
			for i := uint8(0); i < emu.NumRegs; i++ {
				e.RegFile().WriteReg(i, uint16(i)*0x1111+1)
			}
			before := e.RegFile().R
			flags := e.RegFile().Flags()
			Expect(e.LoadProgram(0x3000, []uint16{0x8ABC})).To(Succeed())

			result := e.Step()

			Expect(result.Halted).To(BeTrue())
			Expect(errors.Is(result.Err, emu.ErrInvalidOpcode)).To(BeTrue())
			var fault *emu.Fault
			Expect(errors.As(result.Err, &fault)).To(BeTrue())
			Expect(fault.Kind).To(Equal(emu.FaultInvalidOpcode))
			Expect(fault.Opcode).To(Equal(insts.OpInvalid))
			Expect(fault.PC).To(Equal(uint16(0x3000)))
			Expect(fault.Word).To(Equal(uint16(0x8ABC)))
			Expect(e.RegFile().R).To(Equal(before))
			Expect(e.RegFile().Flags()).To(Equal(flags))
			Expect(e.RegFile().PC).To(Equal(uint16(0x3000)))
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
		})

		It("should not execute anything once halted", func() {
			Expect(e.LoadProgram(0x3000, []uint16{0x8000, encodeADDImm(0, 0, 1)})).To(Succeed())
			first := e.Step()

			second := e.Step()

			Expect(second.Halted).To(BeTrue())
			Expect(second.Err).To(Equal(first.Err))
			Expect(e.RegFile().ReadReg(0)).To(Equal(uint16(0)))
			Expect(e.RegFile().PC).To(Equal(uint16(0x3000)))
		})

		It("should fault when the PC cannot advance past the top of memory", func() {
			Expect(e.LoadProgram(0xFFFF, []uint16{encodeADDImm(0, 0, 1)})).To(Succeed())

			result := e.Step()

			Expect(errors.Is(result.Err, emu.ErrAddressOutOfRange)).To(BeTrue())
			Expect(e.RegFile().ReadReg(0)).To(Equal(uint16(0)))
			Expect(e.RegFile().PC).To(Equal(uint16(0xFFFF)))
		})

		It("should call the step hook after each retired instruction", func() {
			var seen []insts.Op
			e = emu.NewEmulator(emu.WithStepHook(func(_ uint16, inst *insts.Instruction, m *emu.Machine) {
				seen = append(seen, inst.Op)
			}))
			Expect(e.LoadProgram(0x3000, []uint16{encodeADDImm(0, 0, 1), encodeNOT(1, 0), haltWord})).To(Succeed())

			Expect(e.Run(ctx())).To(Succeed())

			Expect(seen).To(Equal([]insts.Op{insts.OpADD, insts.OpNOT, insts.OpTRAP}))
		})

		It("should report data accesses to the memory observer", func() {
			type access struct {
				addr  uint16
				write bool
			}
			var seen []access
			var pcs []uint16
			e = emu.NewEmulator(
				emu.WithMemoryObserver(func(addr uint16, write bool) {
					seen = append(seen, access{addr, write})
				}),
				emu.WithStepHook(func(pc uint16, _ *insts.Instruction, _ *emu.Machine) {
					pcs = append(pcs, pc)
				}),
			)
			Expect(e.LoadProgram(0x3000, []uint16{
				encodeLDI(0, 2), // R0 = mem[mem[0x3003]]
				encodeST(0, 2),  // mem[0x3004] = R0
				haltWord,
				0x3002,
			})).To(Succeed())

			Expect(e.Run(ctx())).To(Succeed())

			Expect(seen).To(Equal([]access{{0x3003, false}, {0x3002, false}, {0x3004, true}}))
			Expect(pcs).To(Equal([]uint16{0x3000, 0x3001, 0x3002}))
		})
	})

	Describe("Run", func() {
		It("should run a counting loop to completion", func() {
			Expect(e.LoadProgram(0x3000, []uint16{
				encodeANDImm(0, 0, 0),            // R0 = 0
				encodeADDImm(1, 0, 10),           // R1 = 10
				encodeADDImm(0, 0, 3),            // loop: R0 += 3
				encodeADDImm(1, 1, -1),           // R1--
				encodeBR(false, false, true, -3), // BRp loop
				haltWord,
			})).To(Succeed())

			Expect(e.Run(ctx())).To(Succeed())

			Expect(e.RegFile().ReadReg(0)).To(Equal(uint16(30)))
			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(0)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagZero))
			Expect(e.InstructionCount()).To(Equal(uint64(2 + 3*10 + 1)))
		})

		It("should only stop on the cycle limit when running through zeroed memory", func() {
			e = emu.NewEmulator(emu.WithMaxInstructions(1000))
			Expect(e.LoadProgram(0x3000, []uint16{0x0000})).To(Succeed())

			err := e.Run(ctx())

			Expect(err).To(MatchError(emu.ErrCycleLimit))
			Expect(e.InstructionCount()).To(Equal(uint64(1000)))
			Expect(e.RegFile().PC).To(Equal(uint16(0x3000 + 1000)))
			Expect(e.Halted()).To(BeTrue())
		})

		It("should fault at the top of memory when running through zeroed memory without a limit", func() {
			Expect(e.LoadProgram(0x3000, []uint16{0x0000})).To(Succeed())

			err := e.Run(ctx())

			Expect(errors.Is(err, emu.ErrAddressOutOfRange)).To(BeTrue())
			var fault *emu.Fault
			Expect(errors.As(err, &fault)).To(BeTrue())
			Expect(fault.PC).To(Equal(uint16(0xFFFF)))
			Expect(e.InstructionCount()).To(Equal(uint64(0xFFFF - 0x3000)))
		})

		It("should report faults and write a diagnostic", func() {
			Expect(e.LoadProgram(0x3000, []uint16{encodeADDImm(0, 0, 1), 0x8000})).To(Succeed())

			err := e.Run(ctx())

			var fault *emu.Fault
			Expect(errors.As(err, &fault)).To(BeTrue())
			Expect(fault.PC).To(Equal(uint16(0x3001)))
			Expect(stderrBuf.String()).To(ContainSubstring("Emulation fault"))
		})

		It("should honor a stop request before the next instruction", func() {
			Expect(e.LoadProgram(0x3000, []uint16{encodeADDImm(0, 0, 1)})).To(Succeed())
			e.Stop()

			err := e.Run(ctx())

			Expect(err).To(MatchError(emu.ErrStopped))
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
		})

		It("should stop from a step hook", func() {
			var stopper *emu.Emulator
			stopper = emu.NewEmulator(emu.WithStepHook(func(_ uint16, inst *insts.Instruction, m *emu.Machine) {
				if m.ReadReg(0) == 5 {
					stopper.Stop()
				}
			}))
			Expect(stopper.LoadProgram(0x3000, []uint16{
				encodeADDImm(0, 0, 1),
				encodeBR(true, true, true, -2),
			})).To(Succeed())

			err := stopper.Run(ctx())

			Expect(err).To(MatchError(emu.ErrStopped))
			Expect(stopper.RegFile().ReadReg(0)).To(Equal(uint16(5)))
		})

		It("should honor context cancellation", func() {
			Expect(e.LoadProgram(0x3000, []uint16{encodeBR(true, true, true, -1)})).To(Succeed())
			cancelled, cancel := context.WithCancel(ctx())
			cancel()

			err := e.Run(cancelled)

			Expect(err).To(MatchError(context.Canceled))
			Expect(e.Halted()).To(BeTrue())
		})
	})

	Describe("Reset", func() {
		It("should clear memory, registers and halt state", func() {
			Expect(e.LoadProgram(0x3000, []uint16{encodeADDImm(0, 0, -1), haltWord})).To(Succeed())
			Expect(e.Run(ctx())).To(Succeed())

			e.Reset()

			Expect(e.RegFile().ReadReg(0)).To(Equal(uint16(0)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagZero))
			Expect(e.Memory().Read(0x3000)).To(Equal(uint16(0)))
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
			Expect(e.RunState()).To(Equal(emu.StateRunning))
		})
	})

	Describe("Snapshot", func() {
		It("should capture registers, PC, flags and memory", func() {
			Expect(e.LoadProgram(0x3000, []uint16{encodeADDImm(2, 2, -3), haltWord})).To(Succeed())
			Expect(e.Run(ctx())).To(Succeed())

			state := e.Machine().Snapshot()

			Expect(state.Registers[2]).To(Equal(uint16(0xFFFD)))
			Expect(state.PC).To(Equal(uint16(0x3002)))
			Expect(state.Flags).To(Equal(emu.FlagNegative))
			Expect(state.Memory[0x3001]).To(Equal(uint16(haltWord)))
		})
	})
})
