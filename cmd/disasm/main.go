// Command disasm statically disassembles a raw Odin32K ROM0 image without
// running it, mirroring the teacher's standalone disassembler binary
// (disassembler.Disassemble) but over this build's CMOS-only opcode map.
package main

import (
	"fmt"
	"os"

	"github.com/poppyemu/poppyemu/internal/disasm"
	"github.com/poppyemu/poppyemu/internal/rom"
)

// romBus maps a bare 8192-byte ROM0 image at $E000-$FFFF, matching the
// bus's addr&0x1FFF decode, so the disassembler can be pointed at it
// directly without a full Bus/Machine.
type romBus [rom.Size]byte

func (r romBus) Read(addr uint16) uint8 { return r[addr&0x1FFF] }

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: disasm ROM0")
		os.Exit(1)
	}
	img, err := rom.Load(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	v := rom.ReadVectors(img)
	fmt.Printf("; NMI=$%04X RESET=$%04X IRQ=$%04X\n", v.NMI, v.Reset, v.IRQ)

	bus := romBus(img)
	for pc := uint16(0xE000); ; {
		line, n := disasm.Step(pc, bus)
		fmt.Println(line)
		next := pc + uint16(n)
		if next <= pc { // wrapped past $FFFF
			break
		}
		pc = next
	}
}
