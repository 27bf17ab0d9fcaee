package machine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
	"github.com/poppyemu/poppyemu/internal/cpu"
	"github.com/poppyemu/poppyemu/internal/memory"
	"github.com/poppyemu/poppyemu/internal/rom"
	"github.com/stretchr/testify/require"
)

// regSnapshot captures every architectural register for a deep-equal
// comparison across independent runs.
type regSnapshot struct {
	A, X, Y, S, P uint8
	PC            uint16
}

func snapshot(c *cpu.Chip) regSnapshot {
	return regSnapshot{A: c.A, X: c.X, Y: c.Y, S: c.S, P: c.P, PC: c.PC}
}

// buildROM0 returns an 8192-byte ROM0 image with prog written starting at
// $E000 (offset 0, since ROM0 is indexed by addr&0x1FFF) and the reset
// vector pointed at $E000.
func buildROM0(prog []byte) [rom.Size]byte {
	var img [rom.Size]byte
	copy(img[:], prog)
	img[rom.Size-4] = 0x00
	img[rom.Size-3] = 0xE0
	return img
}

func newScenarioMachine(t *testing.T, prog []byte) *Machine {
	t.Helper()
	m, err := New(Config{RAMInit: memory.RAMZero}, buildROM0(prog), [rom.Size]byte{}, &bytes.Buffer{}, nil)
	require.NoError(t, err)
	return m
}

// Scenario 1: LDX #$05; DEX; HALT.
func TestScenarioLDXDEXHalt(t *testing.T) {
	m := newScenarioMachine(t, []byte{0xA2, 0x05, 0xCA, 0x02})
	require.NoError(t, m.Run())
	c := m.Chip()
	require.Equal(t, uint8(0x04), c.X)
	require.Zero(t, c.P&cpu.PZero)
	require.Zero(t, c.P&cpu.PNegative)
	require.Equal(t, uint16(0xE000+4), c.PC)
}

// Scenario 2: LDA #$7F; ADC #$01; HALT with initial carry clear.
func TestScenarioADCOverflow(t *testing.T) {
	m := newScenarioMachine(t, []byte{0xA9, 0x7F, 0x69, 0x01, 0x02})
	require.NoError(t, m.Run())
	c := m.Chip()
	require.Equal(t, uint8(0x80), c.A)
	require.NotZero(t, c.P&cpu.PNegative)
	require.Zero(t, c.P&cpu.PZero)
	require.NotZero(t, c.P&cpu.POverflow)
	require.Zero(t, c.P&cpu.PCarry)
}

// Scenario 3: LDA #$FF; ADC #$01; HALT with initial carry clear.
func TestScenarioADCCarryOut(t *testing.T) {
	m := newScenarioMachine(t, []byte{0xA9, 0xFF, 0x69, 0x01, 0x02})
	require.NoError(t, m.Run())
	c := m.Chip()
	require.Equal(t, uint8(0x00), c.A)
	require.NotZero(t, c.P&cpu.PZero)
	require.Zero(t, c.P&cpu.PNegative)
	require.Zero(t, c.P&cpu.POverflow)
	require.NotZero(t, c.P&cpu.PCarry)
}

// Scenario 4: LDX #$FF; TXS; LDA #$AA; PHA; PLA; HALT.
func TestScenarioStackRoundTrip(t *testing.T) {
	m := newScenarioMachine(t, []byte{0xA2, 0xFF, 0x9A, 0xA9, 0xAA, 0x48, 0x68, 0x02})
	require.NoError(t, m.Run())
	c := m.Chip()
	require.Equal(t, uint8(0xFF), c.S)
	require.Equal(t, uint8(0xAA), c.A)
	require.Zero(t, c.P&cpu.PZero)
	require.NotZero(t, c.P&cpu.PNegative)
	require.Equal(t, uint8(0xAA), m.bus.Read(0x01FF))
}

// Scenario 5: JMP $E005; HALT; NOP; HALT — the HALT at $E003 must never
// execute, only the one after the NOP.
func TestScenarioJMPSkipsHalt(t *testing.T) {
	m := newScenarioMachine(t, []byte{0x4C, 0x05, 0xE0, 0x02, 0x00, 0xEA, 0x02})
	require.NoError(t, m.Run())
	c := m.Chip()
	require.Equal(t, uint16(0xE000+7), c.PC)
}

// Scenario 6: JSR $E006; HALT; LDA #$42; RTS — after the round trip A holds
// the value set by the subroutine and SP is back where it started.
func TestScenarioJSRRTSRoundTrip(t *testing.T) {
	m := newScenarioMachine(t, []byte{0x20, 0x06, 0xE0, 0x02, 0x00, 0x00, 0xA9, 0x42, 0x60})
	spBefore := m.Chip().S
	require.NoError(t, m.Run())
	c := m.Chip()
	require.Equal(t, uint8(0x42), c.A)
	require.Equal(t, spBefore, c.S)
	require.Equal(t, uint16(0xE000+4), c.PC)
}

func TestWaitAtBeginPromptsOnce(t *testing.T) {
	in := bytes.NewBufferString("\n")
	var out bytes.Buffer
	m, err := New(Config{RAMInit: memory.RAMZero, WaitAtBegin: true},
		buildROM0([]byte{0x02}), [rom.Size]byte{}, &out, in)
	require.NoError(t, err)
	require.NoError(t, m.Run())
	require.Equal(t, 1, strings.Count(out.String(), "press enter to begin"))
}

func TestStepModePromptsEachInstruction(t *testing.T) {
	in := bytes.NewBufferString("\n\n\n")
	var out bytes.Buffer
	m, err := New(Config{RAMInit: memory.RAMZero, StepMode: true},
		buildROM0([]byte{0xEA, 0xEA, 0x02}), [rom.Size]byte{}, &out, in)
	require.NoError(t, err)
	require.NoError(t, m.Run())
	require.Equal(t, 3, strings.Count(out.String(), "-- pc=$"))
}

// TestDeterministicZeroRAMRunsAreIdentical runs the same program twice from
// a zeroed RAM power-on and requires the final register snapshots to be
// indistinguishable, the way spec.md §5 expects the core to behave: no
// hidden state beyond registers/RAM/pacer deadline should make one run
// diverge from another given identical inputs.
func TestDeterministicZeroRAMRunsAreIdentical(t *testing.T) {
	prog := []byte{0xA9, 0x10, 0x38, 0x69, 0x05, 0x85, 0x00, 0x02}

	m1 := newScenarioMachine(t, prog)
	require.NoError(t, m1.Run())
	snap1 := snapshot(m1.Chip())

	m2 := newScenarioMachine(t, prog)
	require.NoError(t, m2.Run())
	snap2 := snapshot(m2.Chip())

	if diff := deep.Equal(snap1, snap2); diff != nil {
		t.Fatalf("runs diverged: %v\nrun1: %s\nrun2: %s", diff, spew.Sdump(snap1), spew.Sdump(snap2))
	}
}
