package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// flatBus is a 64KB flat address space satisfying the Bus interface, styled
// on the teacher's flatMemory test harness but extended with IdleCycles.
type flatBus struct {
	mem   [65536]uint8
	idled int
}

func (b *flatBus) Read(addr uint16) uint8       { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, val uint8) { b.mem[addr] = val }
func (b *flatBus) IdleCycles(n int)             { b.idled += n }

func (b *flatBus) setVector(vector, target uint16) {
	b.mem[vector] = uint8(target)
	b.mem[vector+1] = uint8(target >> 8)
}

func newTestChip(t *testing.T, resetVector uint16) (*Chip, *flatBus) {
	t.Helper()
	b := &flatBus{}
	b.setVector(ResetVector, resetVector)
	c, err := New(Def{Bus: b})
	require.NoError(t, err)
	return c, b
}

func step(t *testing.T, c *Chip) int {
	t.Helper()
	cycles := 0
	for {
		err := c.Tick()
		cycles++
		if c.InstructionDone() {
			require.NoError(t, err)
			return cycles
		}
		if err != nil {
			t.Fatalf("unexpected error mid-instruction: %v", err)
		}
	}
}

func TestResetLoadsVector(t *testing.T) {
	c, _ := newTestChip(t, 0x1234)
	require.Equal(t, uint16(0x1234), c.PC)
	require.NotZero(t, c.P&PInterrupt)
}

func TestLDAImmediate(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0xA9 // LDA #
	b.mem[0x0201] = 0x00
	cycles := step(t, c)
	require.Equal(t, 2, cycles)
	require.Equal(t, uint8(0x00), c.A)
	require.NotZero(t, c.P&PZero)
}

func TestSTAAbsoluteXAlwaysFiveCycles(t *testing.T) {
	for _, tc := range []struct {
		name string
		x    uint8
		base uint16
	}{
		{"no page cross", 0x01, 0x0200},
		{"page cross", 0xFF, 0x0201},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, b := newTestChip(t, 0x0300)
			b.mem[0x0300] = 0x9D // STA a,x
			b.mem[0x0301] = uint8(tc.base)
			b.mem[0x0302] = uint8(tc.base >> 8)
			c.X = tc.x
			c.A = 0x42
			cycles := step(t, c)
			require.Equal(t, 5, cycles)
			require.Equal(t, uint8(0x42), b.mem[tc.base+uint16(tc.x)])
		})
	}
}

func TestLDAAbsoluteXPageCrossCosts5(t *testing.T) {
	c, b := newTestChip(t, 0x0300)
	b.mem[0x0300] = 0xBD // LDA a,x
	b.mem[0x0301] = 0xFF
	b.mem[0x0302] = 0x03 // base 0x03FF, +1 crosses into 0x0400
	b.mem[0x0400] = 0x9B
	c.X = 0x01
	cycles := step(t, c)
	require.Equal(t, 5, cycles)
	require.Equal(t, uint8(0x9B), c.A)
}

func TestLDAAbsoluteXNoCrossCosts4(t *testing.T) {
	c, b := newTestChip(t, 0x0300)
	b.mem[0x0300] = 0xBD // LDA a,x
	b.mem[0x0301] = 0x00
	b.mem[0x0302] = 0x04
	b.mem[0x0401] = 0x55
	c.X = 0x01
	cycles := step(t, c)
	require.Equal(t, 4, cycles)
	require.Equal(t, uint8(0x55), c.A)
}

func TestADCCarryAndOverflow(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0x69 // ADC #
	b.mem[0x0201] = 0x01
	c.A = 0x7F // +1 overflows into negative
	step(t, c)
	require.Equal(t, uint8(0x80), c.A)
	require.NotZero(t, c.P&POverflow)
	require.NotZero(t, c.P&PNegative)
	require.Zero(t, c.P&PCarry)
}

func TestSBCNoBorrow(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0xE9 // SBC #
	b.mem[0x0201] = 0x01
	c.A = 0x05
	c.P |= PCarry // carry set means no incoming borrow
	step(t, c)
	require.Equal(t, uint8(0x04), c.A)
	require.NotZero(t, c.P&PCarry)
}

func TestBranchTakenSamePage(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0xF0 // BEQ
	b.mem[0x0201] = 0x02
	c.P |= PZero
	cycles := step(t, c)
	require.Equal(t, 3, cycles)
	require.Equal(t, uint16(0x0204), c.PC)
	require.True(t, c.skipInterrupt)
}

func TestBranchNotTaken(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0xF0 // BEQ
	b.mem[0x0201] = 0x02
	cycles := step(t, c)
	require.Equal(t, 2, cycles)
	require.Equal(t, uint16(0x0202), c.PC)
}

func TestBranchTakenCrossesPage(t *testing.T) {
	c, b := newTestChip(t, 0x02F0)
	b.mem[0x02F0] = 0xF0 // BEQ
	b.mem[0x02F1] = 0x20 // 0x02F2 + 0x20 = 0x0312, crosses page
	c.P |= PZero
	cycles := step(t, c)
	require.Equal(t, 4, cycles)
	require.Equal(t, uint16(0x0312), c.PC)
}

func TestJMPIndirectPageWrapFix(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0x6C // JMP (a)
	b.mem[0x0201] = 0xFF
	b.mem[0x0202] = 0x02 // pointer at 0x02FF
	b.mem[0x02FF] = 0x34
	b.mem[0x0300] = 0x12 // CMOS correctly reads the next page
	cycles := step(t, c)
	require.Equal(t, 6, cycles)
	require.Equal(t, uint16(0x1234), c.PC)
}

func TestHaltOpcode(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = HaltOpcode
	// Fetch cycle, then the implied-mode PC read on which HALT retires; the
	// retiring tick already reports Halted.
	require.NoError(t, c.Tick())
	require.False(t, c.InstructionDone())
	err := c.Tick()
	require.True(t, c.InstructionDone())
	require.True(t, c.Halted())
	var halted Halted
	require.ErrorAs(t, err, &halted)
	err = c.Tick()
	require.ErrorAs(t, err, &halted)
}

func TestBRKPushesPCPlusTwoAndSetsB(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0x00 // BRK
	b.mem[0x0201] = 0xAA // signature byte, skipped
	b.setVector(IRQVector, 0x9000)
	c.S = 0xFF
	cycles := step(t, c)
	require.Equal(t, 7, cycles)
	require.Equal(t, uint16(0x9000), c.PC)
	pushedP := b.mem[0x0100|uint16(c.S+1)]
	require.NotZero(t, pushedP&PBreak)
	pcl := b.mem[0x0100|uint16(c.S+2)]
	pch := b.mem[0x0100|uint16(c.S+3)]
	require.Equal(t, uint16(0x0202), uint16(pch)<<8|uint16(pcl))
}

func TestIRQDoesNotSetB(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0xEA // NOP, something innocuous to run first
	b.setVector(IRQVector, 0x9100)
	c.S = 0xFF
	c.P &^= PInterrupt
	line := &testIRQ{}
	c.irq = line
	step(t, c) // NOP retires
	line.raised = true
	cycles := step(t, c)
	require.Equal(t, 7, cycles)
	require.Equal(t, uint16(0x9100), c.PC)
	pushedP := b.mem[0x0100|uint16(c.S+1)]
	require.Zero(t, pushedP&PBreak)
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0x20 // JSR $0300
	b.mem[0x0201] = 0x00
	b.mem[0x0202] = 0x03
	b.mem[0x0300] = 0x60 // RTS
	c.S = 0xFD
	c.A, c.X, c.Y, c.P = 0x11, 0x22, 0x33, 0x44
	savedS := c.S

	cycles := step(t, c)
	require.Equal(t, 6, cycles)
	require.Equal(t, uint16(0x0300), c.PC)
	require.Equal(t, savedS-2, c.S)

	cycles = step(t, c)
	require.Equal(t, 6, cycles)
	require.Equal(t, uint16(0x0203), c.PC)
	require.Equal(t, savedS, c.S)
	require.Equal(t, uint8(0x11), c.A)
	require.Equal(t, uint8(0x22), c.X)
	require.Equal(t, uint8(0x33), c.Y)
	require.Equal(t, uint8(0x44), c.P)
}

func TestRTIRestoresPCAndP(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0x00 // BRK
	b.mem[0x0201] = 0xAA
	b.setVector(IRQVector, 0x9000)
	b.mem[0x9000] = 0x40 // RTI
	c.S = 0xFF
	c.P = PAlwaysOne | PNegative

	step(t, c) // BRK entry
	require.Equal(t, uint16(0x9000), c.PC)
	savedS := c.S

	cycles := step(t, c) // RTI
	require.Equal(t, 6, cycles)
	require.Equal(t, uint16(0x0202), c.PC)
	require.Equal(t, savedS+3, c.S)
	require.NotZero(t, c.P&PAlwaysOne)
	require.NotZero(t, c.P&PNegative)
	require.Zero(t, c.P&PBreak)
}

func TestADCThenSBCRoundTrip(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0x69 // ADC #$2A
	b.mem[0x0201] = 0x2A
	b.mem[0x0202] = 0xE9 // SBC #$2A
	b.mem[0x0203] = 0x2A
	c.A = 0x50
	c.P |= PCarry

	step(t, c)
	step(t, c)

	require.Equal(t, uint8(0x50), c.A)
	require.NotZero(t, c.P&PCarry)
}

type testIRQ struct{ raised bool }

func (t *testIRQ) Raised() bool { return t.raised }

func TestClassifiedNOPBuckets(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint8
		cycles int
		bytes  uint16
	}{
		{"1-byte implied", 0x1A, 2, 1},
		{"1-byte reserved single-cycle low nibble 3", 0x03, 1, 1},
		{"1-byte reserved single-cycle low nibble B", 0xFB, 1, 1},
		{"2-byte immediate", 0x82, 2, 2},
		{"2-byte zp", 0x44, 3, 2},
		{"2-byte zpx", 0x54, 4, 2},
		{"3-byte abs", 0x0C, 4, 3},
		{"3-byte abs,x fixed", 0xDC, 4, 3},
		{"3-byte 8-cycle special", 0x5C, 8, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, b := newTestChip(t, 0x0200)
			b.mem[0x0200] = tc.opcode
			cycles := step(t, c)
			require.Equal(t, tc.cycles, cycles)
			require.Equal(t, 0x0200+tc.bytes, c.PC)
		})
	}
}

func TestINCZeroPageRMWCycleCount(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0xE6 // INC zp
	b.mem[0x0201] = 0x10
	b.mem[0x0010] = 0xFF
	cycles := step(t, c)
	require.Equal(t, 5, cycles)
	require.Equal(t, uint8(0x00), b.mem[0x0010])
	require.NotZero(t, c.P&PZero)
}

func TestIndirectZPAddressingModeNoIndex(t *testing.T) {
	c, b := newTestChip(t, 0x0200)
	b.mem[0x0200] = 0xB2 // LDA (zp)
	b.mem[0x0201] = 0x20
	b.mem[0x0020] = 0x00
	b.mem[0x0021] = 0x05
	b.mem[0x0500] = 0x77
	cycles := step(t, c)
	require.Equal(t, 5, cycles)
	require.Equal(t, uint8(0x77), c.A)
}
