package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lc3sim/emu"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	Describe("Classify", func() {
		It("should classify zero, negative and positive values", func() {
			Expect(emu.Classify(0)).To(Equal(emu.FlagZero))
			Expect(emu.Classify(0x8000)).To(Equal(emu.FlagNegative))
			Expect(emu.Classify(0xFFFF)).To(Equal(emu.FlagNegative))
			Expect(emu.Classify(1)).To(Equal(emu.FlagPositive))
			Expect(emu.Classify(0x7FFF)).To(Equal(emu.FlagPositive))
		})
	})

	It("should report Zero before any flag-setting write", func() {
		Expect(regFile.Flags()).To(Equal(emu.FlagZero))
	})

	It("should set flags from the value written, not the register index", func() {
		values := []uint16{0, 1, 2, 0x7FFF, 0x8000, 0xFFFF, 0x1234, 0xBEEF}
		for reg := uint8(0); reg < emu.NumRegs; reg++ {
			for _, v := range values {
				regFile.WriteReg(reg, v)
				Expect(regFile.ReadReg(reg)).To(Equal(v))
				Expect(regFile.Flags()).To(Equal(emu.Classify(v)),
					"R%d <- %#04x", reg, v)
			}
		}
	})

	It("should set Zero when writing zero to a nonzero register index", func() {
		regFile.WriteReg(5, 0x0001)
		Expect(regFile.Flags()).To(Equal(emu.FlagPositive))

		regFile.WriteReg(5, 0)
		Expect(regFile.Flags()).To(Equal(emu.FlagZero))
	})

	It("should leave flags alone on SetReg", func() {
		regFile.WriteReg(0, 0x8000)
		regFile.SetReg(7, 0x3001)

		Expect(regFile.ReadReg(7)).To(Equal(uint16(0x3001)))
		Expect(regFile.Flags()).To(Equal(emu.FlagNegative))
	})

	It("should ignore SetFlags values that are not a single flag", func() {
		regFile.SetFlags(emu.FlagPositive)
		regFile.SetFlags(emu.FlagNegative | emu.FlagZero)

		Expect(regFile.Flags()).To(Equal(emu.FlagPositive))
	})

	It("should name flags", func() {
		Expect(emu.FlagNegative.String()).To(Equal("N"))
		Expect(emu.FlagZero.String()).To(Equal("Z"))
		Expect(emu.FlagPositive.String()).To(Equal("P"))
	})
})
