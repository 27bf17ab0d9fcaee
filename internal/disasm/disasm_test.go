package disasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeBus [65536]uint8

func (f *fakeBus) Read(addr uint16) uint8 { return f[addr] }

func TestStepLDAImmediate(t *testing.T) {
	b := &fakeBus{}
	b[0x1000] = 0xA9
	b[0x1001] = 0x42
	line, count := Step(0x1000, b)
	require.Equal(t, 2, count)
	require.Contains(t, line, "LDA")
	require.Contains(t, line, "#$42")
}

func TestStepJMPAbsolute(t *testing.T) {
	b := &fakeBus{}
	b[0x2000] = 0x4C
	b[0x2001] = 0x34
	b[0x2002] = 0x12
	line, count := Step(0x2000, b)
	require.Equal(t, 3, count)
	require.Contains(t, line, "JMP")
	require.Contains(t, line, "$1234")
}

func TestStepHalt(t *testing.T) {
	b := &fakeBus{}
	b[0x3000] = 0x02
	line, count := Step(0x3000, b)
	require.Equal(t, 1, count)
	require.Contains(t, line, "HLT")
}

func TestStepRelativeComputesTarget(t *testing.T) {
	b := &fakeBus{}
	b[0x4000] = 0xF0 // BEQ
	b[0x4001] = 0x05
	line, count := Step(0x4000, b)
	require.Equal(t, 2, count)
	require.Contains(t, line, "$4007")
}
