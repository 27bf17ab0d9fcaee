// Package memory implements the Odin32K memory bus: address decode across
// SysRAM, the two ROM banks, the stubbed I/O window, and the unmapped
// open-bus region, with every access ticking the clock pacer exactly once.
package memory

import (
	"fmt"
	"math/rand"

	"github.com/poppyemu/poppyemu/internal/clock"
)

const (
	sysRAMSize = 32 * 1024
	romSize    = 8 * 1024

	// OpenBusValue is the fixed placeholder returned for unmapped reads and
	// the I/O stubs. Deliberately neither 0x00 nor 0xFF so tests can tell a
	// mapped-zero byte apart from open bus.
	OpenBusValue = uint8(0x5A)
)

// RAMInit selects how SysRAM is initialized at boot.
type RAMInit int

const (
	// RAMZero zeroes SysRAM at boot.
	RAMZero RAMInit = iota
	// RAMRandom randomizes SysRAM at boot.
	RAMRandom
)

// Bank is a single addressable region. Addr is the full 16-bit bus address;
// implementations mask it down to their own backing size.
type Bank interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// Bus maps the full 16-bit Odin32K address space and owns every backing
// array. It is the only component allowed to touch RAM/ROM storage
// directly; every other component goes through Read/Write.
type Bus struct {
	ram  [sysRAMSize]uint8
	rom0 [romSize]uint8 // mapped $E000-$FFFF
	rom1 [romSize]uint8 // mapped $C000-$DFFF

	ramInit RAMInit
	pacer   *clock.Pacer

	// lastBus is the most recent byte to cross the bus in either direction,
	// reported by DatabusVal. Open-bus reads do not use it.
	lastBus uint8
	openBus func() uint8
}

// New creates a Bus ticking the given pacer on every access. ramInit selects
// the SysRAM power-on state; PowerOn must be called once before use.
func New(p *clock.Pacer, ramInit RAMInit) *Bus {
	return &Bus{
		pacer:   p,
		ramInit: ramInit,
		openBus: func() uint8 { return OpenBusValue },
	}
}

// PowerOn resets SysRAM per the configured RAMInit. ROM contents are left
// untouched; load them with LoadROM0/LoadROM1 before or after PowerOn.
func (b *Bus) PowerOn() {
	switch b.ramInit {
	case RAMRandom:
		for i := range b.ram {
			b.ram[i] = uint8(rand.Intn(256))
		}
	default:
		for i := range b.ram {
			b.ram[i] = 0
		}
	}
}

// LoadROM0 copies data into the ROM0 bank ($E000-$FFFF), zero-padding short
// images and truncating oversized ones to 8192 bytes.
func (b *Bus) LoadROM0(data []byte) { copyROM(b.rom0[:], data) }

// LoadROM1 copies data into the ROM1 bank ($C000-$DFFF). If never called the
// bank stays zero-filled.
func (b *Bus) LoadROM1(data []byte) { copyROM(b.rom1[:], data) }

func copyROM(dst []byte, src []byte) {
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, src)
}

// UseDeterministicOpenBus makes open-bus reads (the $B000-$BFFF window and
// the I/O stubs) return val instead of the default fixed OpenBusValue.
func (b *Bus) UseDeterministicOpenBus(val uint8) {
	b.openBus = func() uint8 { return val }
}

// Read decodes addr and returns the byte stored there, ticking the pacer by
// one cycle. This is the only read path; every bus access, real or dummy,
// must come through here so cycle counts stay exact.
func (b *Bus) Read(addr uint16) uint8 {
	v := b.readRaw(addr)
	b.lastBus = v
	if b.pacer != nil {
		b.pacer.Advance(1)
	}
	return v
}

// Write decodes addr and stores val if the region is writable, ticking the
// pacer by one cycle regardless (writes to ROM/stub regions are discarded
// but still cost a cycle).
func (b *Bus) Write(addr uint16, val uint8) {
	b.lastBus = val
	switch addr >> 12 {
	case 0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7:
		b.ram[addr] = val
	default:
		// I/O stubs, unmapped region, and both ROM banks discard writes.
	}
	if b.pacer != nil {
		b.pacer.Advance(1)
	}
}

func (b *Bus) readRaw(addr uint16) uint8 {
	switch addr >> 12 {
	case 0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7:
		return b.ram[addr]
	case 0x8, 0x9, 0xA, 0xB:
		// I/O ctrl, Serial0, Serial1, and the unmapped gap all read as
		// open bus in this revision.
		return b.openBus()
	case 0xC, 0xD:
		return b.rom1[addr&0x1FFF]
	default: // 0xE, 0xF
		return b.rom0[addr&0x1FFF]
	}
}

// Peek decodes addr like Read but never ticks the pacer or updates the
// open-bus databus-capacitance value; for tooling that observes the bus
// without participating in it (the trace emitter's instruction disassembly).
func (b *Bus) Peek(addr uint16) uint8 { return b.readRaw(addr) }

// IdleCycles advances the pacer by n cycles without touching any backing
// array. A handful of 65C02 NOP encodings (notably $5C) burn extra cycles
// that never address memory at all; this is how those get charged.
func (b *Bus) IdleCycles(n int) {
	if b.pacer != nil {
		b.pacer.Advance(n)
	}
}

// DatabusVal returns the last byte observed crossing the bus. Open-bus reads
// do not consult it; they return the fixed open-bus byte.
func (b *Bus) DatabusVal() uint8 { return b.lastBus }

// ROMVectors describes the fixed interrupt/reset vector tail of ROM0.
type ROMVectors struct {
	NMI   uint16
	Reset uint16
	IRQ   uint16
}

// Vectors reads the NMI/Reset/IRQ vector pairs out of ROM0's last six
// bytes without charging any bus cycles (used by tooling, not the executor).
func (b *Bus) Vectors() ROMVectors {
	read := func(lo, hi uint16) uint16 {
		return uint16(b.rom0[lo]) | uint16(b.rom0[hi])<<8
	}
	return ROMVectors{
		NMI:   read(0x1FFA, 0x1FFB),
		Reset: read(0x1FFC, 0x1FFD),
		IRQ:   read(0x1FFE, 0x1FFF),
	}
}

// String renders the memory map for diagnostics.
func (b *Bus) String() string {
	return fmt.Sprintf("Bus{ram=%dB rom1=%dB rom0=%dB}", len(b.ram), len(b.rom1), len(b.rom0))
}
