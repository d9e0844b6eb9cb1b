package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lc3sim/insts"
)

var _ = Describe("Bit-field utilities", func() {
	Describe("SignExtend", func() {
		It("should leave non-negative fields unchanged for widths 5 through 11", func() {
			for w := uint(5); w <= 11; w++ {
				top := uint16(1) << (w - 1)
				for v := uint16(0); v < top; v++ {
					Expect(insts.SignExtend(v, w)).To(Equal(v), "width %d value %#x", w, v)
				}
			}
		})

		It("should fill every upper bit when the field's sign bit is set", func() {
			for w := uint(5); w <= 11; w++ {
				top := uint16(1) << (w - 1)
				upper := ^(uint16(1)<<w - 1)
				for v := top; v < top<<1; v++ {
					got := insts.SignExtend(v, w)
					Expect(got & upper).To(Equal(upper), "width %d value %#x", w, v)
					Expect(got &^ upper).To(Equal(v))
				}
			}
		})

		It("should decode the common immediates", func() {
			Expect(insts.SignExtend(0x1F, 5)).To(Equal(uint16(0xFFFF)))
			Expect(int16(insts.SignExtend(0x10, 5))).To(Equal(int16(-16)))
			Expect(int16(insts.SignExtend(0x20, 6))).To(Equal(int16(-32)))
			Expect(int16(insts.SignExtend(0x1FF, 9))).To(Equal(int16(-1)))
			Expect(int16(insts.SignExtend(0x400, 11))).To(Equal(int16(-1024)))
			Expect(insts.SignExtend(0x0FF, 9)).To(Equal(uint16(0x00FF)))
		})

		It("should ignore bits above the field", func() {
			Expect(insts.SignExtend(0xFFE1, 5)).To(Equal(uint16(0x0001)))
		})
	})

	Describe("ExtractField", func() {
		It("should extract the opcode nibble", func() {
			Expect(insts.ExtractField(0xF025, 12, 4)).To(Equal(uint16(0xF)))
		})

		It("should extract register fields", func() {
			// ADD R3, R5, R6
			word := uint16(0x1000 | 3<<9 | 5<<6 | 6)
			Expect(insts.ExtractField(word, 9, 3)).To(Equal(uint16(3)))
			Expect(insts.ExtractField(word, 6, 3)).To(Equal(uint16(5)))
			Expect(insts.ExtractField(word, 0, 3)).To(Equal(uint16(6)))
		})

		It("should return the field unsigned", func() {
			Expect(insts.ExtractField(0x01FF, 0, 9)).To(Equal(uint16(0x1FF)))
		})
	})
})
