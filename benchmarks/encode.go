package benchmarks

// Helper functions for building LC-3 programs. Offsets and immediates are
// truncated to their field width.

// BuildProgram collects instruction words into a program.
func BuildProgram(words ...uint16) []uint16 {
	return words
}

// EncodeADDImm encodes ADD DR, SR1, #imm5.
func EncodeADDImm(dr, sr1 uint8, imm int) uint16 {
	return 0x1000 | uint16(dr&7)<<9 | uint16(sr1&7)<<6 | 1<<5 | uint16(imm)&0x1F
}

// EncodeADDReg encodes ADD DR, SR1, SR2.
func EncodeADDReg(dr, sr1, sr2 uint8) uint16 {
	return 0x1000 | uint16(dr&7)<<9 | uint16(sr1&7)<<6 | uint16(sr2&7)
}

// EncodeANDImm encodes AND DR, SR1, #imm5.
func EncodeANDImm(dr, sr1 uint8, imm int) uint16 {
	return 0x5000 | uint16(dr&7)<<9 | uint16(sr1&7)<<6 | 1<<5 | uint16(imm)&0x1F
}

// EncodeNOT encodes NOT DR, SR.
func EncodeNOT(dr, sr uint8) uint16 {
	return 0x9000 | uint16(dr&7)<<9 | uint16(sr&7)<<6 | 0x3F
}

// EncodeSHF encodes SHF DR, SR with mode bits [5:4] and a 4-bit amount.
func EncodeSHF(dr, sr, mode, amount uint8) uint16 {
	return 0xD000 | uint16(dr&7)<<9 | uint16(sr&7)<<6 | uint16(mode&3)<<4 | uint16(amount&0xF)
}

// EncodeBR encodes BR with the given condition mask and PCoffset9.
func EncodeBR(n, z, p bool, offset int) uint16 {
	var word uint16
	if n {
		word |= 1 << 11
	}
	if z {
		word |= 1 << 10
	}
	if p {
		word |= 1 << 9
	}
	return word | uint16(offset)&0x1FF
}

// EncodeJSR encodes JSR PCoffset11.
func EncodeJSR(offset int) uint16 {
	return 0x4800 | uint16(offset)&0x7FF
}

// EncodeRET encodes RET (JMP R7).
func EncodeRET() uint16 {
	return 0xC1C0
}

func encodePCRel(op uint16, reg uint8, offset int) uint16 {
	return op<<12 | uint16(reg&7)<<9 | uint16(offset)&0x1FF
}

// EncodeLD encodes LD DR, PCoffset9.
func EncodeLD(dr uint8, offset int) uint16 { return encodePCRel(0x2, dr, offset) }

// EncodeST encodes ST SR, PCoffset9.
func EncodeST(sr uint8, offset int) uint16 { return encodePCRel(0x3, sr, offset) }

// EncodeLDI encodes LDI DR, PCoffset9.
func EncodeLDI(dr uint8, offset int) uint16 { return encodePCRel(0xA, dr, offset) }

// EncodeSTI encodes STI SR, PCoffset9.
func EncodeSTI(sr uint8, offset int) uint16 { return encodePCRel(0xB, sr, offset) }

// EncodeLEA encodes LEA DR, PCoffset9.
func EncodeLEA(dr uint8, offset int) uint16 { return encodePCRel(0xE, dr, offset) }

// EncodeLDR encodes LDR DR, BaseR, offset6.
func EncodeLDR(dr, baseR uint8, offset int) uint16 {
	return 0x6000 | uint16(dr&7)<<9 | uint16(baseR&7)<<6 | uint16(offset)&0x3F
}

// EncodeSTR encodes STR SR, BaseR, offset6.
func EncodeSTR(sr, baseR uint8, offset int) uint16 {
	return 0x7000 | uint16(sr&7)<<9 | uint16(baseR&7)<<6 | uint16(offset)&0x3F
}

// EncodeHALT encodes TRAP x25.
func EncodeHALT() uint16 {
	return 0xF025
}
