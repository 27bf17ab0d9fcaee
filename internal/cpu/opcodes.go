package cpu

// dispatch decodes c.op (latched on opTick 1) and drives its instruction
// handler one tick further, returning true once the instruction has
// retired. Slots the Odin32K's ROMs never use are wired to one of the
// classified NOP handlers in instructions.go instead of real undocumented
// 6502 behavior; ten NMOS illegal-opcode slots are reassigned to the
// custom HALT and to the 65C02 additions this build actually implements
// ($02, the eight "(zp)" indirect ops, and JMP (a,x) at $7C).
func (c *Chip) dispatch() (bool, error) {
	switch c.op {
	case HaltOpcode: // $02 - custom HALT, not NMOS JAM
		c.halted = true
		return true, nil

	// --- ADC ---
	case 0x69:
		return c.loadInstruction(c.addrImmediate, c.iADC)
	case 0x65:
		return c.loadInstruction(c.addrZP, c.iADC)
	case 0x75:
		return c.loadInstruction(c.addrZPX, c.iADC)
	case 0x6D:
		return c.loadInstruction(c.addrAbsolute, c.iADC)
	case 0x7D:
		return c.loadInstruction(c.addrAbsoluteX, c.iADC)
	case 0x79:
		return c.loadInstruction(c.addrAbsoluteY, c.iADC)
	case 0x61:
		return c.loadInstruction(c.addrIndirectX, c.iADC)
	case 0x71:
		return c.loadInstruction(c.addrIndirectY, c.iADC)
	case 0x72: // 65C02 ADC (zp)
		return c.loadInstruction(c.addrIndirectZP, c.iADC)

	// --- AND ---
	case 0x29:
		return c.loadInstruction(c.addrImmediate, c.iAND)
	case 0x25:
		return c.loadInstruction(c.addrZP, c.iAND)
	case 0x35:
		return c.loadInstruction(c.addrZPX, c.iAND)
	case 0x2D:
		return c.loadInstruction(c.addrAbsolute, c.iAND)
	case 0x3D:
		return c.loadInstruction(c.addrAbsoluteX, c.iAND)
	case 0x39:
		return c.loadInstruction(c.addrAbsoluteY, c.iAND)
	case 0x21:
		return c.loadInstruction(c.addrIndirectX, c.iAND)
	case 0x31:
		return c.loadInstruction(c.addrIndirectY, c.iAND)
	case 0x32: // 65C02 AND (zp)
		return c.loadInstruction(c.addrIndirectZP, c.iAND)

	// --- ASL ---
	case 0x0A:
		return c.iASLAcc()
	case 0x06:
		return c.rmwInstruction(c.addrZP, c.iASL)
	case 0x16:
		return c.rmwInstruction(c.addrZPX, c.iASL)
	case 0x0E:
		return c.rmwInstruction(c.addrAbsolute, c.iASL)
	case 0x1E:
		return c.rmwInstruction(c.addrAbsoluteX, c.iASL)

	// --- branches ---
	case 0x90:
		return c.iBCC()
	case 0xB0:
		return c.iBCS()
	case 0xF0:
		return c.iBEQ()
	case 0x30:
		return c.iBMI()
	case 0xD0:
		return c.iBNE()
	case 0x10:
		return c.iBPL()
	case 0x50:
		return c.iBVC()
	case 0x70:
		return c.iBVS()

	// --- BIT ---
	case 0x24:
		return c.loadInstruction(c.addrZP, c.iBIT)
	case 0x2C:
		return c.loadInstruction(c.addrAbsolute, c.iBIT)

	// --- BRK ---
	case 0x00:
		return c.iBRK()

	// --- flags ---
	case 0x18:
		return c.iCLC()
	case 0xD8:
		return c.iCLD()
	case 0x58:
		return c.iCLI()
	case 0xB8:
		return c.iCLV()
	case 0x38:
		return c.iSEC()
	case 0xF8:
		return c.iSED()
	case 0x78:
		return c.iSEI()

	// --- CMP/CPX/CPY ---
	case 0xC9:
		return c.loadInstruction(c.addrImmediate, c.iCMP)
	case 0xC5:
		return c.loadInstruction(c.addrZP, c.iCMP)
	case 0xD5:
		return c.loadInstruction(c.addrZPX, c.iCMP)
	case 0xCD:
		return c.loadInstruction(c.addrAbsolute, c.iCMP)
	case 0xDD:
		return c.loadInstruction(c.addrAbsoluteX, c.iCMP)
	case 0xD9:
		return c.loadInstruction(c.addrAbsoluteY, c.iCMP)
	case 0xC1:
		return c.loadInstruction(c.addrIndirectX, c.iCMP)
	case 0xD1:
		return c.loadInstruction(c.addrIndirectY, c.iCMP)
	case 0xD2: // 65C02 CMP (zp)
		return c.loadInstruction(c.addrIndirectZP, c.iCMP)
	case 0xE0:
		return c.loadInstruction(c.addrImmediate, c.iCPX)
	case 0xE4:
		return c.loadInstruction(c.addrZP, c.iCPX)
	case 0xEC:
		return c.loadInstruction(c.addrAbsolute, c.iCPX)
	case 0xC0:
		return c.loadInstruction(c.addrImmediate, c.iCPY)
	case 0xC4:
		return c.loadInstruction(c.addrZP, c.iCPY)
	case 0xCC:
		return c.loadInstruction(c.addrAbsolute, c.iCPY)

	// --- DEC/DEX/DEY ---
	case 0xC6:
		return c.rmwInstruction(c.addrZP, c.iDEC)
	case 0xD6:
		return c.rmwInstruction(c.addrZPX, c.iDEC)
	case 0xCE:
		return c.rmwInstruction(c.addrAbsolute, c.iDEC)
	case 0xDE:
		return c.rmwInstruction(c.addrAbsoluteX, c.iDEC)
	case 0xCA:
		return c.iDEX()
	case 0x88:
		return c.iDEY()

	// --- EOR ---
	case 0x49:
		return c.loadInstruction(c.addrImmediate, c.iEOR)
	case 0x45:
		return c.loadInstruction(c.addrZP, c.iEOR)
	case 0x55:
		return c.loadInstruction(c.addrZPX, c.iEOR)
	case 0x4D:
		return c.loadInstruction(c.addrAbsolute, c.iEOR)
	case 0x5D:
		return c.loadInstruction(c.addrAbsoluteX, c.iEOR)
	case 0x59:
		return c.loadInstruction(c.addrAbsoluteY, c.iEOR)
	case 0x41:
		return c.loadInstruction(c.addrIndirectX, c.iEOR)
	case 0x51:
		return c.loadInstruction(c.addrIndirectY, c.iEOR)
	case 0x52: // 65C02 EOR (zp)
		return c.loadInstruction(c.addrIndirectZP, c.iEOR)

	// --- INC/INX/INY ---
	case 0xE6:
		return c.rmwInstruction(c.addrZP, c.iINC)
	case 0xF6:
		return c.rmwInstruction(c.addrZPX, c.iINC)
	case 0xEE:
		return c.rmwInstruction(c.addrAbsolute, c.iINC)
	case 0xFE:
		return c.rmwInstruction(c.addrAbsoluteX, c.iINC)
	case 0xE8:
		return c.iINX()
	case 0xC8:
		return c.iINY()

	// --- JMP/JSR ---
	case 0x4C:
		return c.iJMP()
	case 0x6C:
		return c.iJMPIndirect()
	case 0x7C: // 65C02 JMP (a,x)
		return c.iJMPIndirectX()
	case 0x20:
		return c.iJSR()

	// --- LDA/LDX/LDY ---
	case 0xA9:
		return c.loadInstruction(c.addrImmediate, c.iLDA)
	case 0xA5:
		return c.loadInstruction(c.addrZP, c.iLDA)
	case 0xB5:
		return c.loadInstruction(c.addrZPX, c.iLDA)
	case 0xAD:
		return c.loadInstruction(c.addrAbsolute, c.iLDA)
	case 0xBD:
		return c.loadInstruction(c.addrAbsoluteX, c.iLDA)
	case 0xB9:
		return c.loadInstruction(c.addrAbsoluteY, c.iLDA)
	case 0xA1:
		return c.loadInstruction(c.addrIndirectX, c.iLDA)
	case 0xB1:
		return c.loadInstruction(c.addrIndirectY, c.iLDA)
	case 0xB2: // 65C02 LDA (zp)
		return c.loadInstruction(c.addrIndirectZP, c.iLDA)
	case 0xA2:
		return c.loadInstruction(c.addrImmediate, c.iLDX)
	case 0xA6:
		return c.loadInstruction(c.addrZP, c.iLDX)
	case 0xB6:
		return c.loadInstruction(c.addrZPY, c.iLDX)
	case 0xAE:
		return c.loadInstruction(c.addrAbsolute, c.iLDX)
	case 0xBE:
		return c.loadInstruction(c.addrAbsoluteY, c.iLDX)
	case 0xA0:
		return c.loadInstruction(c.addrImmediate, c.iLDY)
	case 0xA4:
		return c.loadInstruction(c.addrZP, c.iLDY)
	case 0xB4:
		return c.loadInstruction(c.addrZPX, c.iLDY)
	case 0xAC:
		return c.loadInstruction(c.addrAbsolute, c.iLDY)
	case 0xBC:
		return c.loadInstruction(c.addrAbsoluteX, c.iLDY)

	// --- LSR ---
	case 0x4A:
		return c.iLSRAcc()
	case 0x46:
		return c.rmwInstruction(c.addrZP, c.iLSR)
	case 0x56:
		return c.rmwInstruction(c.addrZPX, c.iLSR)
	case 0x4E:
		return c.rmwInstruction(c.addrAbsolute, c.iLSR)
	case 0x5E:
		return c.rmwInstruction(c.addrAbsoluteX, c.iLSR)

	// --- NOP (documented) ---
	case 0xEA:
		return c.nop1()

	// --- ORA ---
	case 0x09:
		return c.loadInstruction(c.addrImmediate, c.iORA)
	case 0x05:
		return c.loadInstruction(c.addrZP, c.iORA)
	case 0x15:
		return c.loadInstruction(c.addrZPX, c.iORA)
	case 0x0D:
		return c.loadInstruction(c.addrAbsolute, c.iORA)
	case 0x1D:
		return c.loadInstruction(c.addrAbsoluteX, c.iORA)
	case 0x19:
		return c.loadInstruction(c.addrAbsoluteY, c.iORA)
	case 0x01:
		return c.loadInstruction(c.addrIndirectX, c.iORA)
	case 0x11:
		return c.loadInstruction(c.addrIndirectY, c.iORA)
	case 0x12: // 65C02 ORA (zp)
		return c.loadInstruction(c.addrIndirectZP, c.iORA)

	// --- stack ---
	case 0x48:
		return c.iPHA()
	case 0x08:
		return c.iPHP()
	case 0x68:
		return c.iPLA()
	case 0x28:
		return c.iPLP()

	// --- ROL/ROR ---
	case 0x2A:
		return c.iROLAcc()
	case 0x26:
		return c.rmwInstruction(c.addrZP, c.iROL)
	case 0x36:
		return c.rmwInstruction(c.addrZPX, c.iROL)
	case 0x2E:
		return c.rmwInstruction(c.addrAbsolute, c.iROL)
	case 0x3E:
		return c.rmwInstruction(c.addrAbsoluteX, c.iROL)
	case 0x6A:
		return c.iRORAcc()
	case 0x66:
		return c.rmwInstruction(c.addrZP, c.iROR)
	case 0x76:
		return c.rmwInstruction(c.addrZPX, c.iROR)
	case 0x6E:
		return c.rmwInstruction(c.addrAbsolute, c.iROR)
	case 0x7E:
		return c.rmwInstruction(c.addrAbsoluteX, c.iROR)

	// --- RTI/RTS ---
	case 0x40:
		return c.iRTI()
	case 0x60:
		return c.iRTS()

	// --- SBC ---
	case 0xE9:
		return c.loadInstruction(c.addrImmediate, c.iSBC)
	case 0xE5:
		return c.loadInstruction(c.addrZP, c.iSBC)
	case 0xF5:
		return c.loadInstruction(c.addrZPX, c.iSBC)
	case 0xED:
		return c.loadInstruction(c.addrAbsolute, c.iSBC)
	case 0xFD:
		return c.loadInstruction(c.addrAbsoluteX, c.iSBC)
	case 0xF9:
		return c.loadInstruction(c.addrAbsoluteY, c.iSBC)
	case 0xE1:
		return c.loadInstruction(c.addrIndirectX, c.iSBC)
	case 0xF1:
		return c.loadInstruction(c.addrIndirectY, c.iSBC)
	case 0xF2: // 65C02 SBC (zp)
		return c.loadInstruction(c.addrIndirectZP, c.iSBC)

	// --- STA/STX/STY ---
	case 0x85:
		return c.storeInstruction(c.addrZP, c.A)
	case 0x95:
		return c.storeInstruction(c.addrZPX, c.A)
	case 0x8D:
		return c.storeInstruction(c.addrAbsolute, c.A)
	case 0x9D:
		return c.storeInstruction(c.addrAbsoluteX, c.A)
	case 0x99:
		return c.storeInstruction(c.addrAbsoluteY, c.A)
	case 0x81:
		return c.storeInstruction(c.addrIndirectX, c.A)
	case 0x91:
		return c.storeInstruction(c.addrIndirectY, c.A)
	case 0x92: // 65C02 STA (zp)
		return c.storeInstruction(c.addrIndirectZP, c.A)
	case 0x86:
		return c.storeInstruction(c.addrZP, c.X)
	case 0x96:
		return c.storeInstruction(c.addrZPY, c.X)
	case 0x8E:
		return c.storeInstruction(c.addrAbsolute, c.X)
	case 0x84:
		return c.storeInstruction(c.addrZP, c.Y)
	case 0x94:
		return c.storeInstruction(c.addrZPX, c.Y)
	case 0x8C:
		return c.storeInstruction(c.addrAbsolute, c.Y)

	// --- transfers ---
	case 0xAA:
		return c.iTAX()
	case 0xA8:
		return c.iTAY()
	case 0xBA:
		return c.iTSX()
	case 0x8A:
		return c.iTXA()
	case 0x9A:
		return c.iTXS()
	case 0x98:
		return c.iTYA()

	// --- classified NOPs: 2-byte/2-cycle immediate-style ---
	case 0x80, 0x82, 0x89, 0xC2, 0xE2:
		return c.nop2Imm()

	// --- classified NOPs: 2-byte/3-cycle zero-page-style ---
	case 0x04, 0x44, 0x64:
		return c.nop2ZP()

	// --- classified NOPs: 2-byte/4-cycle zero-page,X-style ---
	case 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4:
		return c.nop2ZPX()

	// --- classified NOPs: 3-byte/4-cycle absolute-style (no index) ---
	case 0x0C:
		return c.nop3Abs()

	// --- classified NOPs: 3-byte/4-cycle fixed absolute,X-style ---
	case 0x1C, 0x3C, 0xDC, 0xFC:
		return c.nop3AbsX()

	// --- classified NOP: the one 3-byte/8-cycle special case ---
	case 0x5C:
		return c.nop5C()
	}

	// Every remaining opcode, including the former NMOS JAM slots this build
	// doesn't repurpose, is a plain 1-byte/2-cycle implied no-op. The $x3/$xB
	// reserved column never gets here: Tick retires it in a single cycle
	// before dispatch is ever reached.
	return c.nop1()
}

// isReservedSingleCycle reports whether op is one of the 65C02's 32
// reserved opcodes ($03,$0B,$13,$1B,...,$F3,$FB) that retire in the single
// cycle that fetches them rather than costing a second, discarded read.
func isReservedSingleCycle(op uint8) bool {
	n := op & 0x0F
	return n == 0x03 || n == 0x0B
}
