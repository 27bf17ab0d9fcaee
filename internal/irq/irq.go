// Package irq defines the interrupt-source interface consumed by the CPU's
// fetch/execute loop. The Odin32K's current I/O window is entirely stubbed,
// so no device in this revision actually drives one, but the executor polls
// for both lines between instructions so a future device slots in without
// any change to cpu.Chip.
package irq

// Sender is implemented by anything capable of asserting an interrupt line.
// Raised is polled on every CPU cycle, but a held line is only acted on at
// the next instruction boundary; there is no mid-instruction preemption.
type Sender interface {
	// Raised reports whether the interrupt line is currently held.
	Raised() bool
}

// Line is a simple level-triggered Sender a test or a future device can flip
// directly, playing the same role as a discrete interrupt controller.
type Line struct {
	held bool
}

// Raised implements Sender.
func (l *Line) Raised() bool { return l.held }

// Set asserts or clears the line.
func (l *Line) Set(v bool) { l.held = v }
