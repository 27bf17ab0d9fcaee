// Package clock implements the Odin32K's clock pacer: it turns a requested
// cycle count into real-time delay against a monotonic clock. Grounded on
// the teacher's own per-Tick delay loop in cpu.Chip.SetClock/Tick, reworked
// from a busy-loop calibration into an explicit deadline so a consumer can
// resync it after an external pause without losing wall-clock accuracy.
package clock

import "time"

// Config controls pacer behavior.
type Config struct {
	// ClockHz is the target CPU frequency in Hz. Defaults to 4,000,000.
	ClockHz int64
	// PacingEnabled controls whether Advance actually sleeps. When false the
	// deadline still advances but the emulator runs free.
	PacingEnabled bool
}

// DefaultClockHz is the Odin32K's nominal clock rate.
const DefaultClockHz = int64(4_000_000)

// Pacer owns the next-cycle deadline. Nothing but Pacer mutates it.
type Pacer struct {
	cfg      Config
	deadline time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

// New creates a Pacer with the given config, initializing the deadline to
// now. A zero ClockHz is normalized to DefaultClockHz.
func New(cfg Config) *Pacer {
	if cfg.ClockHz <= 0 {
		cfg.ClockHz = DefaultClockHz
	}
	return &Pacer{
		cfg:      cfg,
		deadline: time.Now(),
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// cyclePeriod is the nanosecond duration of a single clock cycle.
func (p *Pacer) cyclePeriod() time.Duration {
	return time.Duration(int64(time.Second) / p.cfg.ClockHz)
}

// Advance accounts for n elapsed cycles, pushing the deadline forward by
// n*cyclePeriod and then, if pacing is enabled, blocking the caller until
// the monotonic clock reaches that deadline. If the deadline is already in
// the past the call returns immediately; the emulator is free-running
// behind schedule rather than trying to catch up in one burst.
func (p *Pacer) Advance(n int) {
	if n <= 0 {
		return
	}
	p.deadline = p.deadline.Add(time.Duration(n) * p.cyclePeriod())
	if !p.cfg.PacingEnabled {
		return
	}
	if d := p.deadline.Sub(p.now()); d > 0 {
		p.sleep(d)
	}
}

// Resync pulls the deadline back to now. Call this when resuming from an
// external pause (e.g. the single-step prompt) so the paused wall-clock
// time isn't charged against the guest program.
func (p *Pacer) Resync() {
	p.deadline = p.now()
}

// Deadline returns the current target completion time of the next cycle,
// mostly useful for tests.
func (p *Pacer) Deadline() time.Time { return p.deadline }
