// Package insts provides LC-3 instruction definitions and decoding.
package insts

import "fmt"

// Op represents an LC-3 opcode. Its value is the instruction's top nibble.
type Op uint8

// LC-3 opcodes.
const (
	OpBR      Op = 0b0000
	OpADD     Op = 0b0001
	OpLD      Op = 0b0010
	OpST      Op = 0b0011
	OpJSR     Op = 0b0100 // JSR and JSRR
	OpAND     Op = 0b0101
	OpLDR     Op = 0b0110
	OpSTR     Op = 0b0111
	OpInvalid Op = 0b1000 // reserved, no handler
	OpNOT     Op = 0b1001
	OpLDI     Op = 0b1010
	OpSTI     Op = 0b1011
	OpJMP     Op = 0b1100 // JMP and RET
	OpSHF     Op = 0b1101
	OpLEA     Op = 0b1110
	OpTRAP    Op = 0b1111
)

var opNames = [16]string{
	"BR", "ADD", "LD", "ST", "JSR", "AND", "LDR", "STR",
	"INVALID", "NOT", "LDI", "STI", "JMP", "SHF", "LEA", "TRAP",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// ShiftMode selects the SHF operation.
type ShiftMode uint8

// Shift modes, encoded in SHF bits [5:4].
const (
	ShiftLeft            ShiftMode = 0b00
	ShiftRightLogical    ShiftMode = 0b01
	ShiftRightArithmetic ShiftMode = 0b11
)

// Instruction represents a decoded LC-3 instruction.
//
// Only the fields used by Op are meaningful; the others are left as
// extracted from the raw word.
type Instruction struct {
	Word uint16 // Raw instruction word
	Op   Op     // Operation code

	// Register fields
	Rd    uint8 // DR, or SR for ST/STI/STR (bits [11:9])
	Rs1   uint8 // SR1 for ADD/AND, SR for NOT and SHF (bits [8:6])
	Rs2   uint8 // SR2 for register-mode ADD/AND (bits [2:0])
	BaseR uint8 // Base register for LDR/STR/JMP/JSRR (bits [8:6])

	// Immediate operand
	ImmMode bool   // ADD/AND bit 5: use Imm instead of Rs2
	Imm     uint16 // Sign-extended imm5

	// Offset is the sign-extended offset6, PCoffset9 or PCoffset11.
	Offset int16

	// Branch fields
	N, Z, P bool // BR condition bits [11:9]
	Long    bool // JSR bit 11: PC-relative target instead of BaseR

	// Shift fields
	Shift       ShiftMode
	ShiftAmount uint8

	TrapVector uint8
}

// Decoder decodes LC-3 machine words into instructions.
type Decoder struct{}

// NewDecoder creates a new LC-3 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 16-bit LC-3 instruction word. Decoding never fails: an
// opcode without a handler decodes to OpInvalid.
func (d *Decoder) Decode(word uint16) *Instruction {
	inst := &Instruction{
		Word:  word,
		Op:    Op(ExtractField(word, 12, 4)),
		Rd:    uint8(ExtractField(word, 9, 3)),
		Rs1:   uint8(ExtractField(word, 6, 3)),
		Rs2:   uint8(ExtractField(word, 0, 3)),
		BaseR: uint8(ExtractField(word, 6, 3)),
	}

	switch inst.Op {
	case OpADD, OpAND:
		d.decodeOperate(word, inst)
	case OpBR:
		inst.N = ExtractField(word, 11, 1) == 1
		inst.Z = ExtractField(word, 10, 1) == 1
		inst.P = ExtractField(word, 9, 1) == 1
		inst.Offset = pcOffset(word, 9)
	case OpLD, OpLDI, OpST, OpSTI, OpLEA:
		inst.Offset = pcOffset(word, 9)
	case OpLDR, OpSTR:
		inst.Offset = pcOffset(word, 6)
	case OpJSR:
		inst.Long = ExtractField(word, 11, 1) == 1
		if inst.Long {
			inst.Offset = pcOffset(word, 11)
		}
	case OpSHF:
		d.decodeShift(word, inst)
	case OpTRAP:
		inst.TrapVector = uint8(ExtractField(word, 0, 8))
	case OpNOT, OpJMP, OpInvalid:
		// Register fields only.
	}

	return inst
}

// decodeOperate decodes ADD/AND.
// Format: opcode | DR | SR1 | 0 | 00 | SR2  or  opcode | DR | SR1 | 1 | imm5
func (d *Decoder) decodeOperate(word uint16, inst *Instruction) {
	inst.ImmMode = ExtractField(word, 5, 1) == 1
	if inst.ImmMode {
		inst.Imm = SignExtend(ExtractField(word, 0, 5), 5)
	}
}

// decodeShift decodes SHF.
// Format: 1101 | DR | SR | mode(2) | amount4
// Mode 0b10 has no distinct meaning and shifts left.
func (d *Decoder) decodeShift(word uint16, inst *Instruction) {
	mode := ShiftMode(ExtractField(word, 4, 2))
	if mode == 0b10 {
		mode = ShiftLeft
	}
	inst.Shift = mode
	inst.ShiftAmount = uint8(ExtractField(word, 0, 4))
}

func pcOffset(word uint16, width uint) int16 {
	return int16(SignExtend(ExtractField(word, 0, width), width))
}
