package emu_test

// Instruction encoding helpers for tests.

func encodeADDImm(rd, rs1 uint8, imm int) uint16 {
	return 0x1000 | uint16(rd)<<9 | uint16(rs1)<<6 | 1<<5 | uint16(imm)&0x1F
}

func encodeADDReg(rd, rs1, rs2 uint8) uint16 {
	return 0x1000 | uint16(rd)<<9 | uint16(rs1)<<6 | uint16(rs2)
}

func encodeANDImm(rd, rs1 uint8, imm int) uint16 {
	return 0x5000 | uint16(rd)<<9 | uint16(rs1)<<6 | 1<<5 | uint16(imm)&0x1F
}

func encodeANDReg(rd, rs1, rs2 uint8) uint16 {
	return 0x5000 | uint16(rd)<<9 | uint16(rs1)<<6 | uint16(rs2)
}

func encodeNOT(rd, rs uint8) uint16 {
	return 0x903F | uint16(rd)<<9 | uint16(rs)<<6
}

func encodeSHF(rd, rs uint8, mode uint8, amount uint8) uint16 {
	return 0xD000 | uint16(rd)<<9 | uint16(rs)<<6 | uint16(mode&3)<<4 | uint16(amount&0xF)
}

func encodeBR(n, z, p bool, offset int) uint16 {
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

func encodeJMP(baseR uint8) uint16 {
	return 0xC000 | uint16(baseR)<<6
}

func encodeJSR(offset int) uint16 {
	return 0x4800 | uint16(offset)&0x7FF
}

func encodeJSRR(baseR uint8) uint16 {
	return 0x4000 | uint16(baseR)<<6
}

func encodePCRel(opcode uint16, r uint8, offset int) uint16 {
	return opcode<<12 | uint16(r)<<9 | uint16(offset)&0x1FF
}

func encodeLD(rd uint8, offset int) uint16  { return encodePCRel(0x2, rd, offset) }
func encodeST(sr uint8, offset int) uint16  { return encodePCRel(0x3, sr, offset) }
func encodeLDI(rd uint8, offset int) uint16 { return encodePCRel(0xA, rd, offset) }
func encodeSTI(sr uint8, offset int) uint16 { return encodePCRel(0xB, sr, offset) }
func encodeLEA(rd uint8, offset int) uint16 { return encodePCRel(0xE, rd, offset) }

func encodeLDR(rd, baseR uint8, offset int) uint16 {
	return 0x6000 | uint16(rd)<<9 | uint16(baseR)<<6 | uint16(offset)&0x3F
}

func encodeSTR(sr, baseR uint8, offset int) uint16 {
	return 0x7000 | uint16(sr)<<9 | uint16(baseR)<<6 | uint16(offset)&0x3F
}

func encodeTRAP(vector uint8) uint16 {
	return 0xF000 | uint16(vector)
}

const haltWord = 0xF025
