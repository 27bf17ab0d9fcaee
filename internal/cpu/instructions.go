package cpu

// pushStack writes val to $0100+S and decrements S, wrapping mod 256.
func (c *Chip) pushStack(val uint8) {
	c.bus.Write(0x0100|uint16(c.S), val)
	c.S--
}

// popStack increments S and reads $0100+S, wrapping mod 256.
func (c *Chip) popStack() uint8 {
	c.S++
	return c.bus.Read(0x0100 | uint16(c.S))
}

// runInterrupt drives BRK, IRQ and NMI entry. All three push PC/P and load PC
// from the given vector; the B bit is the sole distinguishing bit, set in
// the pushed P only when irq is false (a real BRK instruction).
// CMOS additionally clears the D flag on any interrupt entry (NMOS leaves it
// alone), matching the Odin32K's chosen variant.
func (c *Chip) runInterrupt(vector uint16, irq bool) (bool, error) {
	switch c.opTick {
	case 1, 2:
		return false, nil
	case 3:
		c.pushStack(uint8(c.PC >> 8))
		return false, nil
	case 4:
		c.pushStack(uint8(c.PC))
		return false, nil
	case 5:
		p := c.P | PAlwaysOne
		p &^= PBreak
		if !irq {
			p |= PBreak
		}
		c.pushStack(p)
		c.P |= PInterrupt
		c.P &^= PDecimal
		return false, nil
	case 6:
		c.opVal = c.bus.Read(vector)
		return false, nil
	case 7:
		c.PC = uint16(c.bus.Read(vector+1))<<8 | uint16(c.opVal)
		return true, nil
	}
	return true, InvalidState{"runInterrupt: bad tick"}
}

// iBRK is the software-interrupt opcode; PC is advanced past the signature
// byte before entry so RTI returns two bytes past the BRK opcode itself.
func (c *Chip) iBRK() (bool, error) {
	if c.opTick == 2 {
		c.PC++
	}
	return c.runInterrupt(IRQVector, false)
}

func (c *Chip) iJMP() (bool, error) {
	switch c.opTick {
	case 2:
		c.opAddr = uint16(c.opVal)
		c.PC++
		return false, nil
	case 3:
		hi := c.bus.Read(c.PC)
		c.PC = uint16(hi)<<8 | c.opAddr
		return true, nil
	}
	return true, InvalidState{"iJMP: bad tick"}
}

// iJMPIndirect is JMP (a). The CMOS fix for the NMOS page-wrap bug costs one
// extra tick: real silicon re-reads the pointer's high byte with the low
// byte correctly carried into the next page instead of wrapping within it.
func (c *Chip) iJMPIndirect() (bool, error) {
	switch c.opTick {
	case 2:
		c.opAddr = uint16(c.opVal)
		c.PC++
		return false, nil
	case 3:
		hi := c.bus.Read(c.PC)
		c.opAddr |= uint16(hi) << 8
		return false, nil
	case 4:
		_ = c.bus.Read(c.opAddr)
		return false, nil
	case 5:
		c.opVal = c.bus.Read(c.opAddr)
		return false, nil
	case 6:
		hi := c.bus.Read(c.opAddr + 1)
		c.PC = uint16(hi)<<8 | uint16(c.opVal)
		return true, nil
	}
	return true, InvalidState{"iJMPIndirect: bad tick"}
}

// iJMPIndirectX is the 65C02's JMP (a,x), opcode $7C: the pointer address is
// formed from the operand plus X before the two-byte indirection, so it
// never suffers the page-wrap bug iJMPIndirect works around.
func (c *Chip) iJMPIndirectX() (bool, error) {
	switch c.opTick {
	case 2:
		c.opAddr = uint16(c.opVal)
		c.PC++
		return false, nil
	case 3:
		hi := c.bus.Read(c.PC)
		c.PC++
		c.opAddr = (c.opAddr | uint16(hi)<<8) + uint16(c.X)
		return false, nil
	case 4:
		_ = c.bus.Read(c.opAddr)
		return false, nil
	case 5:
		c.opVal = c.bus.Read(c.opAddr)
		return false, nil
	case 6:
		hi := c.bus.Read(c.opAddr + 1)
		c.PC = uint16(hi)<<8 | uint16(c.opVal)
		return true, nil
	}
	return true, InvalidState{"iJMPIndirectX: bad tick"}
}

func (c *Chip) iJSR() (bool, error) {
	switch c.opTick {
	case 2:
		c.opAddr = uint16(c.opVal)
		c.PC++
		return false, nil
	case 3:
		// Internal operation; real silicon reads the stack at the current S
		// here and discards it, with the low address byte already latched.
		_ = c.bus.Read(0x0100 | uint16(c.S))
		return false, nil
	case 4:
		c.pushStack(uint8(c.PC >> 8))
		return false, nil
	case 5:
		c.pushStack(uint8(c.PC))
		return false, nil
	case 6:
		hi := c.bus.Read(c.PC)
		c.PC = uint16(hi)<<8 | c.opAddr
		return true, nil
	}
	return true, InvalidState{"iJSR: bad tick"}
}

func (c *Chip) iRTS() (bool, error) {
	switch c.opTick {
	case 2:
		// Tick's universal second-cycle read already fetched and discarded
		// this byte; nothing left to do here.
		return false, nil
	case 3:
		_ = c.bus.Read(0x0100 | uint16(c.S))
		return false, nil
	case 4:
		c.opVal = c.popStack()
		return false, nil
	case 5:
		hi := c.popStack()
		c.PC = uint16(hi)<<8 | uint16(c.opVal)
		return false, nil
	case 6:
		_ = c.bus.Read(c.PC)
		c.PC++
		return true, nil
	}
	return true, InvalidState{"iRTS: bad tick"}
}

func (c *Chip) iRTI() (bool, error) {
	switch c.opTick {
	case 2:
		// Tick's universal second-cycle read already fetched and discarded
		// this byte; nothing left to do here.
		return false, nil
	case 3:
		_ = c.bus.Read(0x0100 | uint16(c.S))
		return false, nil
	case 4:
		c.P = (c.popStack() | PAlwaysOne) &^ PBreak
		return false, nil
	case 5:
		c.opVal = c.popStack()
		return false, nil
	case 6:
		hi := c.popStack()
		c.PC = uint16(hi)<<8 | uint16(c.opVal)
		return true, nil
	}
	return true, InvalidState{"iRTI: bad tick"}
}

func (c *Chip) iPHA() (bool, error) { return c.pushReg(c.A) }
func (c *Chip) iPHP() (bool, error) { return c.pushReg(c.P | PAlwaysOne | PBreak) }

func (c *Chip) pushReg(val uint8) (bool, error) {
	if c.opTick == 2 {
		return false, nil
	}
	c.pushStack(val)
	return true, nil
}

func (c *Chip) iPLA() (bool, error) {
	done, err := c.pullCommon()
	if done {
		c.A = c.opVal
		c.zeroCheck(c.A)
		c.negativeCheck(c.A)
	}
	return done, err
}

func (c *Chip) iPLP() (bool, error) {
	done, err := c.pullCommon()
	if done {
		c.P = (c.opVal | PAlwaysOne) &^ PBreak
	}
	return done, err
}

func (c *Chip) pullCommon() (bool, error) {
	switch c.opTick {
	case 2:
		return false, nil
	case 3:
		_ = c.bus.Read(0x0100 | uint16(c.S))
		return false, nil
	case 4:
		c.opVal = c.popStack()
		return true, nil
	}
	return true, InvalidState{"pullCommon: bad tick"}
}

// loadRegister is the shared body for every implied-mode register load
// (INX/INY/DEX/DEY/transfers): one dummy read of PC, then the register
// update.
func (c *Chip) loadRegister(reg *uint8, compute func(uint8) uint8) (bool, error) {
	if c.opTick < 2 {
		return false, nil
	}
	*reg = compute(*reg)
	c.zeroCheck(*reg)
	c.negativeCheck(*reg)
	return true, nil
}

func (c *Chip) iINX() (bool, error) { return c.loadRegister(&c.X, func(v uint8) uint8 { return v + 1 }) }
func (c *Chip) iINY() (bool, error) { return c.loadRegister(&c.Y, func(v uint8) uint8 { return v + 1 }) }
func (c *Chip) iDEX() (bool, error) { return c.loadRegister(&c.X, func(v uint8) uint8 { return v - 1 }) }
func (c *Chip) iDEY() (bool, error) { return c.loadRegister(&c.Y, func(v uint8) uint8 { return v - 1 }) }

func (c *Chip) iTAX() (bool, error) { return c.loadRegister(&c.X, func(uint8) uint8 { return c.A }) }
func (c *Chip) iTAY() (bool, error) { return c.loadRegister(&c.Y, func(uint8) uint8 { return c.A }) }
func (c *Chip) iTXA() (bool, error) { return c.loadRegister(&c.A, func(uint8) uint8 { return c.X }) }
func (c *Chip) iTYA() (bool, error) { return c.loadRegister(&c.A, func(uint8) uint8 { return c.Y }) }
func (c *Chip) iTSX() (bool, error) { return c.loadRegister(&c.X, func(uint8) uint8 { return c.S }) }

// iTXS moves X into S without touching any flag.
func (c *Chip) iTXS() (bool, error) {
	if c.opTick < 2 {
		return false, nil
	}
	c.S = c.X
	return true, nil
}

func (c *Chip) flagOp(f func()) (bool, error) {
	if c.opTick < 2 {
		return false, nil
	}
	f()
	return true, nil
}

func (c *Chip) iCLC() (bool, error) { return c.flagOp(func() { c.P &^= PCarry }) }
func (c *Chip) iSEC() (bool, error) { return c.flagOp(func() { c.P |= PCarry }) }
func (c *Chip) iCLI() (bool, error) { return c.flagOp(func() { c.P &^= PInterrupt }) }
func (c *Chip) iSEI() (bool, error) { return c.flagOp(func() { c.P |= PInterrupt }) }
func (c *Chip) iCLD() (bool, error) { return c.flagOp(func() { c.P &^= PDecimal }) }
func (c *Chip) iSED() (bool, error) { return c.flagOp(func() { c.P |= PDecimal }) }
func (c *Chip) iCLV() (bool, error) { return c.flagOp(func() { c.P &^= POverflow }) }

// iADC implements binary-only addition; the Odin32K's chosen CMOS variant
// never runs in decimal mode so there is no BCD correction path at all.
func (c *Chip) iADC() (bool, error) {
	carry := uint16(0)
	if c.P&PCarry != 0 {
		carry = 1
	}
	res := uint16(c.A) + uint16(c.opVal) + carry
	c.overflowCheck(c.A, c.opVal, uint8(res))
	c.carryCheck(res)
	c.A = uint8(res)
	c.zeroCheck(c.A)
	c.negativeCheck(c.A)
	return true, nil
}

func (c *Chip) iSBC() (bool, error) {
	carry := uint16(1)
	if c.P&PCarry != 0 {
		carry = 0
	}
	inv := ^c.opVal
	res := uint16(c.A) + uint16(inv) + (1 - carry)
	c.overflowCheck(c.A, inv, uint8(res))
	c.carryCheck(res)
	c.A = uint8(res)
	c.zeroCheck(c.A)
	c.negativeCheck(c.A)
	return true, nil
}

func (c *Chip) iAND() (bool, error) { return c.logical(func(v uint8) uint8 { return c.A & v }) }
func (c *Chip) iORA() (bool, error) { return c.logical(func(v uint8) uint8 { return c.A | v }) }
func (c *Chip) iEOR() (bool, error) { return c.logical(func(v uint8) uint8 { return c.A ^ v }) }

func (c *Chip) logical(f func(uint8) uint8) (bool, error) {
	c.A = f(c.opVal)
	c.zeroCheck(c.A)
	c.negativeCheck(c.A)
	return true, nil
}

func (c *Chip) iLDA() (bool, error) { return c.loadInto(&c.A) }
func (c *Chip) iLDX() (bool, error) { return c.loadInto(&c.X) }
func (c *Chip) iLDY() (bool, error) { return c.loadInto(&c.Y) }

func (c *Chip) loadInto(reg *uint8) (bool, error) {
	*reg = c.opVal
	c.zeroCheck(*reg)
	c.negativeCheck(*reg)
	return true, nil
}

func (c *Chip) iBIT() (bool, error) {
	c.zeroCheck(c.A & c.opVal)
	c.P &^= PNegative | POverflow
	c.P |= c.opVal & (PNegative | POverflow)
	return true, nil
}

func (c *Chip) compareWith(reg uint8) (bool, error) {
	res := uint16(reg) - uint16(c.opVal)
	c.P &^= PCarry
	if reg >= c.opVal {
		c.P |= PCarry
	}
	c.zeroCheck(uint8(res))
	c.negativeCheck(uint8(res))
	return true, nil
}

func (c *Chip) iCMP() (bool, error) { return c.compareWith(c.A) }
func (c *Chip) iCPX() (bool, error) { return c.compareWith(c.X) }
func (c *Chip) iCPY() (bool, error) { return c.compareWith(c.Y) }

func (c *Chip) aluRMW(f func(uint8) uint8) (bool, error) {
	c.opVal = f(c.opVal)
	c.zeroCheck(c.opVal)
	c.negativeCheck(c.opVal)
	return true, nil
}

func (c *Chip) iINC() (bool, error) { return c.aluRMW(func(v uint8) uint8 { return v + 1 }) }
func (c *Chip) iDEC() (bool, error) { return c.aluRMW(func(v uint8) uint8 { return v - 1 }) }

func (c *Chip) iASL() (bool, error) {
	return c.aluRMW(func(v uint8) uint8 {
		c.P &^= PCarry
		if v&0x80 != 0 {
			c.P |= PCarry
		}
		return v << 1
	})
}

func (c *Chip) iLSR() (bool, error) {
	return c.aluRMW(func(v uint8) uint8 {
		c.P &^= PCarry
		if v&0x01 != 0 {
			c.P |= PCarry
		}
		return v >> 1
	})
}

func (c *Chip) iROL() (bool, error) {
	return c.aluRMW(func(v uint8) uint8 {
		carryIn := uint8(0)
		if c.P&PCarry != 0 {
			carryIn = 1
		}
		c.P &^= PCarry
		if v&0x80 != 0 {
			c.P |= PCarry
		}
		return v<<1 | carryIn
	})
}

func (c *Chip) iROR() (bool, error) {
	return c.aluRMW(func(v uint8) uint8 {
		carryIn := uint8(0)
		if c.P&PCarry != 0 {
			carryIn = 0x80
		}
		c.P &^= PCarry
		if v&0x01 != 0 {
			c.P |= PCarry
		}
		return v>>1 | carryIn
	})
}

// accumulatorOp runs an RMW-shaped ALU function directly against A on the
// implied-mode (accumulator) encodings, which take only two ticks total.
func (c *Chip) accumulatorOp(f func(uint8) uint8) (bool, error) {
	if c.opTick < 2 {
		return false, nil
	}
	c.A = f(c.A)
	c.zeroCheck(c.A)
	c.negativeCheck(c.A)
	return true, nil
}

func (c *Chip) iASLAcc() (bool, error) {
	return c.accumulatorOp(func(v uint8) uint8 {
		c.P &^= PCarry
		if v&0x80 != 0 {
			c.P |= PCarry
		}
		return v << 1
	})
}

func (c *Chip) iLSRAcc() (bool, error) {
	return c.accumulatorOp(func(v uint8) uint8 {
		c.P &^= PCarry
		if v&0x01 != 0 {
			c.P |= PCarry
		}
		return v >> 1
	})
}

func (c *Chip) iROLAcc() (bool, error) {
	return c.accumulatorOp(func(v uint8) uint8 {
		carryIn := uint8(0)
		if c.P&PCarry != 0 {
			carryIn = 1
		}
		c.P &^= PCarry
		if v&0x80 != 0 {
			c.P |= PCarry
		}
		return v<<1 | carryIn
	})
}

func (c *Chip) iRORAcc() (bool, error) {
	return c.accumulatorOp(func(v uint8) uint8 {
		carryIn := uint8(0)
		if c.P&PCarry != 0 {
			carryIn = 0x80
		}
		c.P &^= PCarry
		if v&0x01 != 0 {
			c.P |= PCarry
		}
		return v>>1 | carryIn
	})
}

// performBranch is shared by all eight conditional branches. Ticks 3 and 4
// only happen when the branch is actually taken; a taken branch also arms
// skipInterrupt so an interrupt pending right after it is deferred one
// instruction, matching the documented NMOS/CMOS quirk.
func (c *Chip) performBranch(taken bool) (bool, error) {
	switch c.opTick {
	case 2:
		c.PC++
		if !taken {
			return true, nil
		}
		return false, nil
	case 3:
		_ = c.bus.Read(c.PC)
		base := c.PC
		rel := int8(c.opVal)
		target := uint16(int32(base) + int32(rel))
		c.opAddr = target
		if target&0xFF00 == base&0xFF00 {
			c.PC = target
			c.skipInterrupt = true
			return true, nil
		}
		return false, nil
	case 4:
		_ = c.bus.Read((c.PC & 0xFF00) | (c.opAddr & 0x00FF))
		c.PC = c.opAddr
		c.skipInterrupt = true
		return true, nil
	}
	return true, InvalidState{"performBranch: bad tick"}
}

func (c *Chip) iBPL() (bool, error) { return c.performBranch(c.P&PNegative == 0) }
func (c *Chip) iBMI() (bool, error) { return c.performBranch(c.P&PNegative != 0) }
func (c *Chip) iBVC() (bool, error) { return c.performBranch(c.P&POverflow == 0) }
func (c *Chip) iBVS() (bool, error) { return c.performBranch(c.P&POverflow != 0) }
func (c *Chip) iBCC() (bool, error) { return c.performBranch(c.P&PCarry == 0) }
func (c *Chip) iBCS() (bool, error) { return c.performBranch(c.P&PCarry != 0) }
func (c *Chip) iBNE() (bool, error) { return c.performBranch(c.P&PZero == 0) }
func (c *Chip) iBEQ() (bool, error) { return c.performBranch(c.P&PZero != 0) }

// --- classified NOPs ---
//
// Every opcode slot the Odin32K's ROMs never use is implemented here as a
// size- and cycle-accurate no-op rather than the real chip's undocumented
// behavior, bucketed the way the memory map's timing table enumerates them.

// nop1 is the 1-byte/2-cycle bucket: implied mode, nothing but the PC-read.
func (c *Chip) nop1() (bool, error) {
	if c.opTick < 2 {
		return false, nil
	}
	return true, nil
}

// nop2Imm is the 2-byte/2-cycle bucket: immediate-style, operand byte read
// and discarded on tick 2, no further bus activity.
func (c *Chip) nop2Imm() (bool, error) {
	c.PC++
	return true, nil
}

// nop2ZP is the 2-byte/3-cycle bucket: one extra zero-page read.
func (c *Chip) nop2ZP() (bool, error) {
	switch c.opTick {
	case 2:
		c.opAddr = uint16(c.opVal)
		c.PC++
		return false, nil
	case 3:
		_ = c.bus.Read(c.opAddr)
		return true, nil
	}
	return true, InvalidState{"nop2ZP: bad tick"}
}

// nop2ZPX is the 2-byte/4-cycle bucket: zero-page,X addressing with its
// characteristic dummy read at the unindexed address.
func (c *Chip) nop2ZPX() (bool, error) {
	switch c.opTick {
	case 2:
		c.opAddr = uint16(c.opVal)
		c.PC++
		return false, nil
	case 3:
		_ = c.bus.Read(c.opAddr)
		c.opAddr = uint16(uint8(c.opVal + c.X))
		return false, nil
	case 4:
		_ = c.bus.Read(c.opAddr)
		return true, nil
	}
	return true, InvalidState{"nop2ZPX: bad tick"}
}

// nop3Abs is the 3-byte/4-cycle bucket for the one illegal absolute-mode
// slot ($0C): a full operand fetch with a single discarded read, no index.
func (c *Chip) nop3Abs() (bool, error) {
	switch c.opTick {
	case 2:
		c.opAddr = uint16(c.opVal)
		c.PC++
		return false, nil
	case 3:
		hi := c.bus.Read(c.PC)
		c.PC++
		c.opAddr |= uint16(hi) << 8
		return false, nil
	case 4:
		_ = c.bus.Read(c.opAddr)
		return true, nil
	}
	return true, InvalidState{"nop3Abs: bad tick"}
}

// nop3AbsX is the 3-byte/4-cycle bucket used for the handful of illegal
// absolute,X slots the Odin32K's timing table fixes at 4 cycles regardless
// of page crossing, unlike every real load/store addressing mode.
func (c *Chip) nop3AbsX() (bool, error) {
	switch c.opTick {
	case 2:
		c.opAddr = uint16(c.opVal)
		c.PC++
		return false, nil
	case 3:
		hi := c.bus.Read(c.PC)
		c.PC++
		c.opAddr |= uint16(hi) << 8
		return false, nil
	case 4:
		_ = c.bus.Read(c.opAddr + uint16(c.X))
		return true, nil
	}
	return true, InvalidState{"nop3AbsX: bad tick"}
}

// nop5C is the lone 3-byte/8-cycle special case ($5C): it fetches a full
// absolute operand like a normal 3-byte instruction but then burns five
// additional cycles that never address memory at all.
func (c *Chip) nop5C() (bool, error) {
	switch c.opTick {
	case 2:
		c.opAddr = uint16(c.opVal)
		c.PC++
		return false, nil
	case 3:
		hi := c.bus.Read(c.PC)
		c.PC++
		c.opAddr |= uint16(hi) << 8
		return false, nil
	case 4, 5, 6, 7:
		c.bus.IdleCycles(1)
		return false, nil
	case 8:
		c.bus.IdleCycles(1)
		return true, nil
	}
	return true, InvalidState{"nop5C: bad tick"}
}
