// Package machine wires the clock pacer, memory bus, and CPU executor
// together into the Odin32K's reset/boot/run driver (spec.md §4.5's "Reset
// & boot" and §5's state machine), plus the external collaborators that feed
// it: ROM loading, trace emission, and the optional single-step prompt.
// Nothing in this package is architectural state; it is purely orchestration
// over the components internal/cpu, internal/memory, and internal/clock
// already own.
package machine

import (
	"bufio"
	"fmt"
	"io"

	"github.com/poppyemu/poppyemu/internal/clock"
	"github.com/poppyemu/poppyemu/internal/cpu"
	"github.com/poppyemu/poppyemu/internal/irq"
	"github.com/poppyemu/poppyemu/internal/memory"
	"github.com/poppyemu/poppyemu/internal/rom"
	"github.com/poppyemu/poppyemu/internal/trace"
)

// Config collects every spec.md §6 configuration knob the core reads at
// boot. Zero value is a sane default: 4MHz clock with real-time pacing off,
// zeroed RAM, silent trace.
type Config struct {
	ClockHz       int64
	RAMInit       memory.RAMInit
	Verbose       trace.Level
	StepMode      bool
	WaitAtBegin   bool
	PacingEnabled bool
}

// Machine owns the wired-together bus, chip, pacer, and trace emitter for a
// single run. Callers build one with New and drive it with Run.
type Machine struct {
	bus   *tappedBus
	chip  *cpu.Chip
	pacer *clock.Pacer
	trace *trace.Emitter

	irqLine *irq.Line
	nmiLine *irq.Line

	stepMode    bool
	waitAtBegin bool
	in          *bufio.Scanner
	out         io.Writer
}

// New builds a Machine from two ROM images (rom1 may be the zero value if
// the Odin32K has no second bank fitted) and wires it to out for trace
// output and in for the single-step/wait-at-begin prompts.
func New(cfg Config, rom0, rom1 [rom.Size]byte, out io.Writer, in io.Reader) (*Machine, error) {
	pacer := clock.New(clock.Config{ClockHz: cfg.ClockHz, PacingEnabled: cfg.PacingEnabled})
	bus := memory.New(pacer, cfg.RAMInit)
	bus.PowerOn()
	bus.LoadROM0(rom0[:])
	bus.LoadROM1(rom1[:])

	irqLine := &irq.Line{}
	nmiLine := &irq.Line{}
	tb := &tappedBus{bus: bus}

	chip, err := cpu.New(cpu.Def{Bus: tb, Irq: irqLine, Nmi: nmiLine})
	if err != nil {
		return nil, fmt.Errorf("initializing cpu: %w", err)
	}

	m := &Machine{
		bus:         tb,
		chip:        chip,
		pacer:       pacer,
		trace:       trace.New(out, cfg.Verbose),
		irqLine:     irqLine,
		nmiLine:     nmiLine,
		stepMode:    cfg.StepMode,
		waitAtBegin: cfg.WaitAtBegin,
		out:         out,
	}
	m.bus.trace = m.trace
	if in != nil {
		m.in = bufio.NewScanner(in)
	}
	return m, nil
}

// IRQ exposes the machine's level-triggered IRQ line for a future device.
func (m *Machine) IRQ() *irq.Line { return m.irqLine }

// NMI exposes the machine's level-triggered NMI line for a future device.
func (m *Machine) NMI() *irq.Line { return m.nmiLine }

// Chip exposes the underlying register file, mostly for tests that want to
// assert on A/X/Y/P/S/PC after a Run.
func (m *Machine) Chip() *cpu.Chip { return m.chip }

// Run drives the fetch/execute loop to completion: it retires instructions
// one at a time until the chip halts (opcode $02) or reports an invalid
// internal state. A clean halt returns nil, matching spec.md §7's "guest
// halt is a normal termination" rule; InvalidState propagates as an error.
func (m *Machine) Run() error {
	m.trace.Init(fmt.Sprintf("reset pc=$%04X", m.chip.PC))
	if m.waitAtBegin {
		m.prompt("press enter to begin")
	}
	for {
		if m.stepMode {
			m.prompt(fmt.Sprintf("pc=$%04X", m.chip.PC))
			m.pacer.Resync()
		}
		m.trace.Instruction(m.chip.PC, peekBus{m.bus.bus})
		err := m.chip.RunInstruction()
		m.trace.Registers(trace.Regs{
			A: m.chip.A, X: m.chip.X, Y: m.chip.Y, S: m.chip.S, P: m.chip.P, PC: m.chip.PC,
		})
		if err != nil {
			if _, ok := err.(cpu.Halted); ok {
				return nil
			}
			return err
		}
	}
}

// prompt blocks for one line of input on m.in, discarding its contents; a
// nil or exhausted reader is treated as an immediate resume so headless runs
// (no terminal attached) never hang.
func (m *Machine) prompt(msg string) {
	if m.out != nil {
		fmt.Fprintf(m.out, "-- %s --\n", msg)
	}
	if m.in == nil {
		return
	}
	m.in.Scan()
}

// tappedBus adapts *memory.Bus to cpu.Bus while observing every access for
// the trace emitter's Bus-verbosity R/W lines. It never changes what the
// bus actually does; it only taps the value already returned.
type tappedBus struct {
	bus   *memory.Bus
	trace *trace.Emitter
}

func (t *tappedBus) Read(addr uint16) uint8 {
	v := t.bus.Read(addr)
	t.trace.Read(addr, v)
	return v
}

func (t *tappedBus) Write(addr uint16, val uint8) {
	t.bus.Write(addr, val)
	t.trace.Write(addr, val)
}

func (t *tappedBus) IdleCycles(n int) { t.bus.IdleCycles(n) }

// peekBus adapts *memory.Bus to disasm.Bus for trace emission: the trace
// emitter disassembles the instruction about to execute purely to print it,
// and must never itself become a bus participant (no pacer cycles, no
// open-bus databus update, no R trace lines for bytes nothing actually
// read), the same non-ticking pattern cmd/disasm's romBus uses to
// disassemble a ROM image offline.
type peekBus struct{ bus *memory.Bus }

func (p peekBus) Read(addr uint16) uint8 { return p.bus.Peek(addr) }
