// Package cpu implements the Odin32K's 65C02-family execution engine: the
// tick-driven fetch/decode/execute loop, its addressing-mode bus-access
// patterns, and the ALU/stack microcode. The core loop is adapted from the
// teacher's Tick()/TickDone() design (github.com/jmchacon/6502/cpu), trimmed
// to a single CMOS-style chip with no BCD and no undocumented-opcode
// semantics: every opcode the Odin32K's ROMs don't use is instead a
// size-and-cycle-accurate NOP, and opcode $02 is the emulator's custom HALT.
package cpu

import (
	"fmt"

	"github.com/poppyemu/poppyemu/internal/irq"
)

const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)

	// Status flag bits.
	PNegative  = uint8(0x80)
	POverflow  = uint8(0x40)
	PAlwaysOne = uint8(0x20)
	PBreak     = uint8(0x10)
	PDecimal   = uint8(0x08)
	PInterrupt = uint8(0x04)
	PZero      = uint8(0x02)
	PCarry     = uint8(0x01)

	// HaltOpcode is the emulator's non-standard extension: opcode $02
	// terminates the main loop cleanly instead of acting as an illegal
	// KIL/JAM instruction.
	HaltOpcode = uint8(0x02)
)

// Bus is everything the executor needs from the memory subsystem. Every
// access, real or dummy, costs exactly one cycle; satisfied by *memory.Bus.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	IdleCycles(n int)
}

// InvalidState reports an internal precondition failure in the tick state
// machine (a bug in the executor, not something guest code can trigger).
type InvalidState struct {
	Reason string
}

func (e InvalidState) Error() string { return fmt.Sprintf("invalid cpu state: %s", e.Reason) }

// Halted is returned once the HALT opcode has executed; it is a normal,
// expected termination rather than a fault.
type Halted struct {
	Opcode uint8
}

func (e Halted) Error() string { return fmt.Sprintf("halt opcode 0x%02X executed", e.Opcode) }

type irqKind int

const (
	irqNone irqKind = iota
	irqIRQ
	irqNMI
)

// Chip is the Odin32K's register file plus the tick state needed to resume
// an in-flight instruction. The executor is the exclusive owner and mutator
// of every field; nothing outside this package writes to a Chip.
type Chip struct {
	A, X, Y uint8
	S       uint8
	P       uint8
	PC      uint16

	bus Bus
	irq irq.Sender
	nmi irq.Sender

	tickDone bool

	op     uint8
	opVal  uint8
	opAddr uint16
	opTick int

	opDone   bool
	addrDone bool

	resetting bool

	skipInterrupt     bool
	prevSkipInterrupt bool
	irqRaised         irqKind
	runningInterrupt  bool

	halted     bool
	haltOpcode uint8
}

// Def configures a new Chip.
type Def struct {
	Bus Bus
	Irq irq.Sender
	Nmi irq.Sender
}

// New creates a Chip wired to the given bus and optional interrupt sources,
// and drives it through the reset sequence so PC is loaded from the reset
// vector before the first Tick.
func New(d Def) (*Chip, error) {
	if d.Bus == nil {
		return nil, InvalidState{"bus must not be nil"}
	}
	c := &Chip{bus: d.Bus, irq: d.Irq, nmi: d.Nmi, tickDone: true}
	for {
		done, err := c.Reset()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return c, nil
}

// Reset drives the 65C02 reset sequence: six ticks that disable interrupts,
// walk the stack pointer down by three as if PC/P had been pushed (without
// actually writing, matching real silicon), and load PC from the reset
// vector. SP is left at whatever value this produces; the real chip leaves
// it architecturally undefined and guest code is expected to set it with
// LDX #$FF; TXS.
func (c *Chip) Reset() (bool, error) {
	if !c.resetting {
		c.resetting = true
		c.opTick = 0
	}
	c.opTick++
	switch {
	case c.opTick < 1 || c.opTick > 6:
		return true, InvalidState{fmt.Sprintf("reset: bad tick %d", c.opTick)}
	case c.opTick == 1:
		_ = c.bus.Read(c.PC)
		c.P |= PInterrupt
		c.P |= PAlwaysOne
		c.halted = false
		c.haltOpcode = 0
		c.irqRaised = irqNone
		return false, nil
	case c.opTick >= 2 && c.opTick <= 4:
		c.S--
		return false, nil
	case c.opTick == 5:
		c.opVal = c.bus.Read(ResetVector)
		return false, nil
	}
	// tick 6
	c.PC = uint16(c.bus.Read(ResetVector+1))<<8 | uint16(c.opVal)
	c.resetting = false
	c.opTick = 0
	return true, nil
}

// InstructionDone reports whether the instruction that finished on the last
// Tick call has fully completed (always true right after a completed Tick;
// exposed for callers that want to check without relying on Tick's return).
func (c *Chip) InstructionDone() bool { return c.opDone }

// Halted reports whether the HALT opcode has executed.
func (c *Chip) Halted() bool { return c.halted }

// Tick runs one clock cycle. It returns nil while the current instruction is
// still in flight, Halted once the HALT opcode completes (every subsequent
// Tick call returns the same error without doing further work), and
// InvalidState if the tick bookkeeping detects an internal bug.
func (c *Chip) Tick() error {
	if !c.tickDone {
		c.opDone = true
		return InvalidState{"Tick called again before TickDone"}
	}
	c.tickDone = false

	if c.halted {
		c.opDone = true
		return Halted{c.haltOpcode}
	}

	c.opTick++

	var irqLine, nmiLine bool
	if c.irq != nil && c.P&PInterrupt == 0 {
		irqLine = c.irq.Raised()
	}
	if c.nmi != nil {
		nmiLine = c.nmi.Raised()
	}
	if irqLine || nmiLine {
		switch c.irqRaised {
		case irqNone:
			c.irqRaised = irqIRQ
			if nmiLine {
				c.irqRaised = irqNMI
			}
		case irqIRQ:
			if nmiLine {
				c.irqRaised = irqNMI
			}
		}
	}

	switch {
	case c.opTick == 1:
		c.op = c.bus.Read(c.PC)
		c.opDone = false
		c.addrDone = false
		if c.irqRaised == irqNone || c.skipInterrupt {
			c.PC++
			c.runningInterrupt = false
		}
		if c.irqRaised != irqNone && !c.skipInterrupt {
			c.runningInterrupt = true
		}
		if !c.runningInterrupt && isReservedSingleCycle(c.op) {
			// The 65C02 reserved-opcode column ($x3/$xB) retires in the
			// single cycle that fetches it; it never reaches a second tick,
			// so the skipInterrupt consume normally done on tick 2 has to
			// happen here instead.
			c.prevSkipInterrupt = false
			if c.skipInterrupt {
				c.skipInterrupt = false
				c.prevSkipInterrupt = true
			}
			c.opDone = true
			c.opTick = 0
			c.tickDone = true
			return nil
		}
		c.tickDone = true
		return nil
	case c.opTick == 2:
		// Every opcode's second cycle reads the byte after the opcode. Most
		// addressing-mode handlers reuse this value instead of re-reading;
		// implied/accumulator-mode opcodes just discard it, matching the
		// spec's "1 dummy read of PC (no increment)" row.
		c.opVal = c.bus.Read(c.PC)
		c.prevSkipInterrupt = false
		if c.skipInterrupt {
			c.skipInterrupt = false
			c.prevSkipInterrupt = true
		}
	case c.opTick > 8:
		c.opDone = true
		c.tickDone = true
		return InvalidState{fmt.Sprintf("opTick %d exceeds max instruction length", c.opTick)}
	}

	var err error
	if c.runningInterrupt {
		addr := IRQVector
		if c.irqRaised == irqNMI {
			addr = NMIVector
		}
		c.opDone, err = c.runInterrupt(addr, true)
	} else {
		c.opDone, err = c.dispatch()
	}

	if c.halted {
		c.haltOpcode = c.op
		c.opDone = true
		c.tickDone = true
		return Halted{c.op}
	}
	if err != nil {
		c.haltOpcode = c.op
		c.halted = true
		c.opDone = true
		c.tickDone = true
		return err
	}
	if c.opDone {
		c.opTick = 0
		if c.runningInterrupt {
			c.irqRaised = irqNone
		}
		c.runningInterrupt = false
	}
	c.tickDone = true
	return nil
}

// RunInstruction ticks the chip until the current instruction completes
// (or an error/halt occurs), a convenience for callers that don't need
// cycle-by-cycle control.
func (c *Chip) RunInstruction() error {
	for {
		if err := c.Tick(); err != nil {
			return err
		}
		if c.opDone {
			return nil
		}
	}
}

func (c *Chip) zeroCheck(v uint8) {
	c.P &^= PZero
	if v == 0 {
		c.P |= PZero
	}
}

func (c *Chip) negativeCheck(v uint8) {
	c.P &^= PNegative
	if v&PNegative != 0 {
		c.P |= PNegative
	}
}

func (c *Chip) carryCheck(res uint16) {
	c.P &^= PCarry
	if res >= 0x100 {
		c.P |= PCarry
	}
}

func (c *Chip) overflowCheck(a, b, res uint8) {
	c.P &^= POverflow
	if (a^res)&(b^res)&0x80 != 0 {
		c.P |= POverflow
	}
}
