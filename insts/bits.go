package insts

// SignExtend treats the low bitWidth bits of value as a two's-complement
// field and extends its sign bit through bit 15.
func SignExtend(value uint16, bitWidth uint) uint16 {
	if bitWidth == 0 || bitWidth >= 16 {
		return value
	}

	mask := uint16(1)<<bitWidth - 1
	value &= mask
	if (value>>(bitWidth-1))&1 == 1 {
		value |= ^mask
	}
	return value
}

// ExtractField returns the unsigned width-bit field of word starting at bit shift.
func ExtractField(word uint16, shift, width uint) uint16 {
	if width >= 16 {
		return word >> shift
	}
	return (word >> shift) & (uint16(1)<<width - 1)
}
