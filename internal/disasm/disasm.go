// Package disasm implements a disassembler for the Odin32K's CMOS opcode
// map, adapted from the teacher's disassemble.Step. It never interprets
// control flow (a JMP target is printed, not followed) and always reads two
// bytes past the opcode so the caller's memory must have them mapped.
package disasm

import "fmt"

type addrMode int

const (
	modeImplied addrMode = iota
	modeImmediate
	modeZP
	modeZPX
	modeZPY
	modeIndirectX
	modeIndirectY
	modeIndirectZP
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX65
	modeRelative
)

// Bus is the read-only slice of memory the disassembler needs.
type Bus interface {
	Read(addr uint16) uint8
}

// Step disassembles the instruction at pc and returns its text plus the
// number of bytes it occupies (1, 2, or 3).
func Step(pc uint16, b Bus) (string, int) {
	o := b.Read(pc)
	pc1 := b.Read(pc + 1)
	pc2 := b.Read(pc + 2)
	rel := pc + uint16(int16(int8(pc1))) + 2

	op, mode := decode(o)

	count := 1
	var operand string
	switch mode {
	case modeImplied:
	case modeImmediate:
		operand, count = fmt.Sprintf("#$%02X", pc1), 2
	case modeZP:
		operand, count = fmt.Sprintf("$%02X", pc1), 2
	case modeZPX:
		operand, count = fmt.Sprintf("$%02X,X", pc1), 2
	case modeZPY:
		operand, count = fmt.Sprintf("$%02X,Y", pc1), 2
	case modeIndirectX:
		operand, count = fmt.Sprintf("($%02X,X)", pc1), 2
	case modeIndirectY:
		operand, count = fmt.Sprintf("($%02X),Y", pc1), 2
	case modeIndirectZP:
		operand, count = fmt.Sprintf("($%02X)", pc1), 2
	case modeAbsolute:
		operand, count = fmt.Sprintf("$%02X%02X", pc2, pc1), 3
	case modeAbsoluteX:
		operand, count = fmt.Sprintf("$%02X%02X,X", pc2, pc1), 3
	case modeAbsoluteY:
		operand, count = fmt.Sprintf("$%02X%02X,Y", pc2, pc1), 3
	case modeIndirect:
		operand, count = fmt.Sprintf("($%02X%02X)", pc2, pc1), 3
	case modeIndirectX65:
		operand, count = fmt.Sprintf("($%02X%02X,X)", pc2, pc1), 3
	case modeRelative:
		operand, count = fmt.Sprintf("$%02X ($%04X)", pc1, rel), 2
	}

	line := fmt.Sprintf("%04X %02X ", pc, o)
	if operand != "" {
		line += fmt.Sprintf("%s %s", op, operand)
	} else {
		line += op
	}
	return line, count
}

func decode(o uint8) (string, addrMode) {
	switch o {
	case 0x02:
		return "HLT", modeImplied
	case 0x69:
		return "ADC", modeImmediate
	case 0x65:
		return "ADC", modeZP
	case 0x75:
		return "ADC", modeZPX
	case 0x6D:
		return "ADC", modeAbsolute
	case 0x7D:
		return "ADC", modeAbsoluteX
	case 0x79:
		return "ADC", modeAbsoluteY
	case 0x61:
		return "ADC", modeIndirectX
	case 0x71:
		return "ADC", modeIndirectY
	case 0x72:
		return "ADC", modeIndirectZP
	case 0x29:
		return "AND", modeImmediate
	case 0x25:
		return "AND", modeZP
	case 0x35:
		return "AND", modeZPX
	case 0x2D:
		return "AND", modeAbsolute
	case 0x3D:
		return "AND", modeAbsoluteX
	case 0x39:
		return "AND", modeAbsoluteY
	case 0x21:
		return "AND", modeIndirectX
	case 0x31:
		return "AND", modeIndirectY
	case 0x32:
		return "AND", modeIndirectZP
	case 0x0A:
		return "ASL", modeImplied
	case 0x06:
		return "ASL", modeZP
	case 0x16:
		return "ASL", modeZPX
	case 0x0E:
		return "ASL", modeAbsolute
	case 0x1E:
		return "ASL", modeAbsoluteX
	case 0x90:
		return "BCC", modeRelative
	case 0xB0:
		return "BCS", modeRelative
	case 0xF0:
		return "BEQ", modeRelative
	case 0x30:
		return "BMI", modeRelative
	case 0xD0:
		return "BNE", modeRelative
	case 0x10:
		return "BPL", modeRelative
	case 0x50:
		return "BVC", modeRelative
	case 0x70:
		return "BVS", modeRelative
	case 0x24:
		return "BIT", modeZP
	case 0x2C:
		return "BIT", modeAbsolute
	case 0x00:
		return "BRK", modeImplied
	case 0x18:
		return "CLC", modeImplied
	case 0xD8:
		return "CLD", modeImplied
	case 0x58:
		return "CLI", modeImplied
	case 0xB8:
		return "CLV", modeImplied
	case 0x38:
		return "SEC", modeImplied
	case 0xF8:
		return "SED", modeImplied
	case 0x78:
		return "SEI", modeImplied
	case 0xC9:
		return "CMP", modeImmediate
	case 0xC5:
		return "CMP", modeZP
	case 0xD5:
		return "CMP", modeZPX
	case 0xCD:
		return "CMP", modeAbsolute
	case 0xDD:
		return "CMP", modeAbsoluteX
	case 0xD9:
		return "CMP", modeAbsoluteY
	case 0xC1:
		return "CMP", modeIndirectX
	case 0xD1:
		return "CMP", modeIndirectY
	case 0xD2:
		return "CMP", modeIndirectZP
	case 0xE0:
		return "CPX", modeImmediate
	case 0xE4:
		return "CPX", modeZP
	case 0xEC:
		return "CPX", modeAbsolute
	case 0xC0:
		return "CPY", modeImmediate
	case 0xC4:
		return "CPY", modeZP
	case 0xCC:
		return "CPY", modeAbsolute
	case 0xC6:
		return "DEC", modeZP
	case 0xD6:
		return "DEC", modeZPX
	case 0xCE:
		return "DEC", modeAbsolute
	case 0xDE:
		return "DEC", modeAbsoluteX
	case 0xCA:
		return "DEX", modeImplied
	case 0x88:
		return "DEY", modeImplied
	case 0x49:
		return "EOR", modeImmediate
	case 0x45:
		return "EOR", modeZP
	case 0x55:
		return "EOR", modeZPX
	case 0x4D:
		return "EOR", modeAbsolute
	case 0x5D:
		return "EOR", modeAbsoluteX
	case 0x59:
		return "EOR", modeAbsoluteY
	case 0x41:
		return "EOR", modeIndirectX
	case 0x51:
		return "EOR", modeIndirectY
	case 0x52:
		return "EOR", modeIndirectZP
	case 0xE6:
		return "INC", modeZP
	case 0xF6:
		return "INC", modeZPX
	case 0xEE:
		return "INC", modeAbsolute
	case 0xFE:
		return "INC", modeAbsoluteX
	case 0xE8:
		return "INX", modeImplied
	case 0xC8:
		return "INY", modeImplied
	case 0x4C:
		return "JMP", modeAbsolute
	case 0x6C:
		return "JMP", modeIndirect
	case 0x7C:
		return "JMP", modeIndirectX65
	case 0x20:
		return "JSR", modeAbsolute
	case 0xA9:
		return "LDA", modeImmediate
	case 0xA5:
		return "LDA", modeZP
	case 0xB5:
		return "LDA", modeZPX
	case 0xAD:
		return "LDA", modeAbsolute
	case 0xBD:
		return "LDA", modeAbsoluteX
	case 0xB9:
		return "LDA", modeAbsoluteY
	case 0xA1:
		return "LDA", modeIndirectX
	case 0xB1:
		return "LDA", modeIndirectY
	case 0xB2:
		return "LDA", modeIndirectZP
	case 0xA2:
		return "LDX", modeImmediate
	case 0xA6:
		return "LDX", modeZP
	case 0xB6:
		return "LDX", modeZPY
	case 0xAE:
		return "LDX", modeAbsolute
	case 0xBE:
		return "LDX", modeAbsoluteY
	case 0xA0:
		return "LDY", modeImmediate
	case 0xA4:
		return "LDY", modeZP
	case 0xB4:
		return "LDY", modeZPX
	case 0xAC:
		return "LDY", modeAbsolute
	case 0xBC:
		return "LDY", modeAbsoluteX
	case 0x4A:
		return "LSR", modeImplied
	case 0x46:
		return "LSR", modeZP
	case 0x56:
		return "LSR", modeZPX
	case 0x4E:
		return "LSR", modeAbsolute
	case 0x5E:
		return "LSR", modeAbsoluteX
	case 0xEA:
		return "NOP", modeImplied
	case 0x09:
		return "ORA", modeImmediate
	case 0x05:
		return "ORA", modeZP
	case 0x15:
		return "ORA", modeZPX
	case 0x0D:
		return "ORA", modeAbsolute
	case 0x1D:
		return "ORA", modeAbsoluteX
	case 0x19:
		return "ORA", modeAbsoluteY
	case 0x01:
		return "ORA", modeIndirectX
	case 0x11:
		return "ORA", modeIndirectY
	case 0x12:
		return "ORA", modeIndirectZP
	case 0x48:
		return "PHA", modeImplied
	case 0x08:
		return "PHP", modeImplied
	case 0x68:
		return "PLA", modeImplied
	case 0x28:
		return "PLP", modeImplied
	case 0x2A:
		return "ROL", modeImplied
	case 0x26:
		return "ROL", modeZP
	case 0x36:
		return "ROL", modeZPX
	case 0x2E:
		return "ROL", modeAbsolute
	case 0x3E:
		return "ROL", modeAbsoluteX
	case 0x6A:
		return "ROR", modeImplied
	case 0x66:
		return "ROR", modeZP
	case 0x76:
		return "ROR", modeZPX
	case 0x6E:
		return "ROR", modeAbsolute
	case 0x7E:
		return "ROR", modeAbsoluteX
	case 0x40:
		return "RTI", modeImplied
	case 0x60:
		return "RTS", modeImplied
	case 0xE9:
		return "SBC", modeImmediate
	case 0xE5:
		return "SBC", modeZP
	case 0xF5:
		return "SBC", modeZPX
	case 0xED:
		return "SBC", modeAbsolute
	case 0xFD:
		return "SBC", modeAbsoluteX
	case 0xF9:
		return "SBC", modeAbsoluteY
	case 0xE1:
		return "SBC", modeIndirectX
	case 0xF1:
		return "SBC", modeIndirectY
	case 0xF2:
		return "SBC", modeIndirectZP
	case 0x85:
		return "STA", modeZP
	case 0x95:
		return "STA", modeZPX
	case 0x8D:
		return "STA", modeAbsolute
	case 0x9D:
		return "STA", modeAbsoluteX
	case 0x99:
		return "STA", modeAbsoluteY
	case 0x81:
		return "STA", modeIndirectX
	case 0x91:
		return "STA", modeIndirectY
	case 0x92:
		return "STA", modeIndirectZP
	case 0x86:
		return "STX", modeZP
	case 0x96:
		return "STX", modeZPY
	case 0x8E:
		return "STX", modeAbsolute
	case 0x84:
		return "STY", modeZP
	case 0x94:
		return "STY", modeZPX
	case 0x8C:
		return "STY", modeAbsolute
	case 0xAA:
		return "TAX", modeImplied
	case 0xA8:
		return "TAY", modeImplied
	case 0xBA:
		return "TSX", modeImplied
	case 0x8A:
		return "TXA", modeImplied
	case 0x9A:
		return "TXS", modeImplied
	case 0x98:
		return "TYA", modeImplied
	case 0x80, 0x82, 0x89, 0xC2, 0xE2:
		return "NOP", modeImmediate
	case 0x04, 0x44, 0x64:
		return "NOP", modeZP
	case 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4:
		return "NOP", modeZPX
	case 0x0C, 0x1C, 0x3C, 0x5C, 0xDC, 0xFC:
		return "NOP", modeAbsolute
	}
	return "NOP", modeImplied
}
