package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lc3sim/emu"
)

var _ = Describe("ALU instructions", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator()
	})

	step := func(words ...uint16) emu.StepResult {
		Expect(e.LoadProgram(0x3000, words)).To(Succeed())
		return e.Step()
	}

	Describe("ADD", func() {
		It("should add a negative immediate into a zeroed register", func() {
			result := step(encodeADDImm(1, 0, -1))

			Expect(result.Err).To(BeNil())
			Expect(result.Halted).To(BeFalse())
			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(0xFFFF)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagNegative))
			Expect(e.RegFile().PC).To(Equal(uint16(0x3001)))
		})

		It("should add two registers", func() {
			e.RegFile().SetReg(3, 10)
			e.RegFile().SetReg(4, 32)

			step(encodeADDReg(2, 3, 4))

			Expect(e.RegFile().ReadReg(2)).To(Equal(uint16(42)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagPositive))
		})

		It("should wrap modulo 2^16", func() {
			e.RegFile().SetReg(0, 0xFFFF)

			step(encodeADDImm(0, 0, 1))

			Expect(e.RegFile().ReadReg(0)).To(Equal(uint16(0)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagZero))
		})

		It("should sign-extend the largest positive immediate", func() {
			step(encodeADDImm(0, 0, 15))

			Expect(e.RegFile().ReadReg(0)).To(Equal(uint16(15)))
		})

		It("should set flags from the result even when writing R0", func() {
			e.RegFile().SetReg(1, 0x8000)

			step(encodeADDImm(0, 1, 0))

			Expect(e.RegFile().Flags()).To(Equal(emu.FlagNegative))
		})
	})

	Describe("AND", func() {
		It("should AND disjoint registers to zero", func() {
			e.RegFile().SetReg(0, 0x00F0)
			e.RegFile().SetReg(1, 0x000F)

			step(encodeANDReg(2, 0, 1))

			Expect(e.RegFile().ReadReg(2)).To(Equal(uint16(0)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagZero))
		})

		It("should AND with a sign-extended immediate", func() {
			e.RegFile().SetReg(5, 0xABCD)

			step(encodeANDImm(5, 5, -16)) // 0xFFF0

			Expect(e.RegFile().ReadReg(5)).To(Equal(uint16(0xABC0)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagNegative))
		})
	})

	Describe("NOT", func() {
		It("should complement the source", func() {
			e.RegFile().SetReg(2, 0x00FF)

			step(encodeNOT(3, 2))

			Expect(e.RegFile().ReadReg(3)).To(Equal(uint16(0xFF00)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagNegative))
		})

		It("should set Zero when complementing all ones", func() {
			e.RegFile().SetReg(2, 0xFFFF)

			step(encodeNOT(2, 2))

			Expect(e.RegFile().ReadReg(2)).To(Equal(uint16(0)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagZero))
		})
	})

	Describe("SHF", func() {
		It("should shift left", func() {
			e.RegFile().SetReg(2, 0x0003)

			step(encodeSHF(1, 2, 0b00, 4))

			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(0x0030)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagPositive))
		})

		It("should shift right logically", func() {
			e.RegFile().SetReg(2, 0x8000)

			step(encodeSHF(1, 2, 0b01, 15))

			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(0x0001)))
		})

		It("should shift right arithmetically", func() {
			e.RegFile().SetReg(2, 0x8000)

			step(encodeSHF(1, 2, 0b11, 3))

			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(0xF000)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagNegative))
		})

		It("should copy the source for a zero shift", func() {
			e.RegFile().SetReg(2, 0x1234)

			step(encodeSHF(1, 2, 0b11, 0))

			Expect(e.RegFile().ReadReg(1)).To(Equal(uint16(0x1234)))
		})

		It("should set Zero when bits shift out", func() {
			e.RegFile().SetReg(2, 0x8000)

			step(encodeSHF(2, 2, 0b00, 1))

			Expect(e.RegFile().ReadReg(2)).To(Equal(uint16(0)))
			Expect(e.RegFile().Flags()).To(Equal(emu.FlagZero))
		})
	})
})
