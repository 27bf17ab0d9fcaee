// Package rom loads the Odin32K's raw ROM images: fixed 8192-byte banks
// with no header, short reads zero-padded and long ones truncated. Grounded
// on the teacher's small focused binary-munging packages (hand_asm,
// convertprg) rather than anything resembling a general file-format parser.
package rom

import (
	"fmt"
	"os"
)

// Size is the fixed bank size for both ROM0 and ROM1.
const Size = 8192

// Load reads path and returns a Size-byte image: short files are zero-
// padded, oversized ones truncated. A read failure is returned verbatim so
// the caller can report a usage error and exit 1, per spec.
func Load(path string) ([Size]byte, error) {
	var out [Size]byte
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("reading rom %q: %w", path, err)
	}
	copy(out[:], data)
	return out, nil
}

// Vectors are the three 16-bit pointers stored in a ROM0 image's last six
// bytes.
type Vectors struct {
	NMI   uint16
	Reset uint16
	IRQ   uint16
}

// ReadVectors extracts the NMI/Reset/IRQ vectors from a ROM0 image without
// involving the bus or charging any cycles; used by tooling and tests that
// want to inspect a ROM file directly.
func ReadVectors(rom0 [Size]byte) Vectors {
	read := func(lo, hi int) uint16 {
		return uint16(rom0[lo]) | uint16(rom0[hi])<<8
	}
	return Vectors{
		NMI:   read(Size-6, Size-5),
		Reset: read(Size-4, Size-3),
		IRQ:   read(Size-2, Size-1),
	}
}
