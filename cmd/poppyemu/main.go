// Command poppyemu is the Odin32K emulator's entry point: it parses
// command-line configuration, loads one or two ROM images, and drives the
// core to completion. Argument parsing, ROM file loading, and trace output
// live here because spec.md places them out of scope for the core itself;
// this binary is simply their collaborator.
package main

import (
	"fmt"
	"os"

	"github.com/poppyemu/poppyemu/internal/clock"
	"github.com/poppyemu/poppyemu/internal/machine"
	"github.com/poppyemu/poppyemu/internal/memory"
	"github.com/poppyemu/poppyemu/internal/rom"
	"github.com/poppyemu/poppyemu/internal/trace"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "poppyemu",
		Usage:     "cycle-accurate Odin32K emulator",
		UsageText: "poppyemu [options] ROM0 [ROM1]",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "clock-hz",
				Usage: "target CPU frequency in Hz",
				Value: clock.DefaultClockHz,
			},
			&cli.BoolFlag{
				Name:  "pace",
				Usage: "sleep to approximate clock-hz in real time",
			},
			&cli.StringFlag{
				Name:  "ram-init",
				Usage: "SysRAM power-on state: zero or random",
				Value: "zero",
			},
			&cli.IntFlag{
				Name:  "verbose",
				Usage: "trace verbosity 0 (silent) through 3 (full bus log)",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "step",
				Usage: "pause for input at every instruction boundary",
			},
			&cli.BoolFlag{
				Name:  "wait-at-begin",
				Usage: "pause for input once before execution starts",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 || c.NArg() > 2 {
		return cli.Exit("usage: poppyemu [options] ROM0 [ROM1]", 1)
	}

	ramInit, err := parseRAMInit(c.String("ram-init"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	verbose, err := parseVerbosity(c.Int("verbose"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	rom0, err := rom.Load(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}
	var rom1 [rom.Size]byte
	if c.NArg() == 2 {
		rom1, err = rom.Load(c.Args().Get(1))
		if err != nil {
			return cli.Exit(err, 1)
		}
	}

	m, err := machine.New(machine.Config{
		ClockHz:       c.Int64("clock-hz"),
		RAMInit:       ramInit,
		Verbose:       verbose,
		StepMode:      c.Bool("step"),
		WaitAtBegin:   c.Bool("wait-at-begin"),
		PacingEnabled: c.Bool("pace"),
	}, rom0, rom1, os.Stdout, os.Stdin)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := m.Run(); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func parseRAMInit(s string) (memory.RAMInit, error) {
	switch s {
	case "zero":
		return memory.RAMZero, nil
	case "random":
		return memory.RAMRandom, nil
	default:
		return 0, fmt.Errorf("invalid ram-init %q: must be zero or random", s)
	}
}

func parseVerbosity(v int) (trace.Level, error) {
	if v < 0 || v > int(trace.Bus) {
		return 0, fmt.Errorf("invalid verbose %d: must be 0-%d", v, trace.Bus)
	}
	return trace.Level(v), nil
}
