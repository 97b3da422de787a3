package core

import "time"

// Clock accumulates simulated time in fixed ticks. Time does not accrue
// while paused.
type Clock struct {
	step    float32
	elapsed float32
	ticks   uint64
	paused  bool
}

// NewClock constructs a Clock advancing 1/tps seconds per tick.
func NewClock(tps int) *Clock {
	c := &Clock{}
	c.SetTPS(tps)
	return c
}

// SetTPS changes the tick rate.
func (c *Clock) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	c.step = 1 / float32(tps)
}

// Advance moves the clock forward one tick and reports whether it did.
func (c *Clock) Advance() bool {
	if c.paused {
		return false
	}
	c.elapsed += c.step
	c.ticks++
	return true
}

// Dt is the duration of one tick in seconds.
func (c *Clock) Dt() float32 { return c.step }

// Elapsed is the simulated time in seconds.
func (c *Clock) Elapsed() float32 { return c.elapsed }

// Ticks is the number of ticks advanced since the last reset.
func (c *Clock) Ticks() uint64 { return c.ticks }

// Pause suspends the clock.
func (c *Clock) Pause() { c.paused = true }

// Resume continues a paused clock.
func (c *Clock) Resume() { c.paused = false }

// Paused reports whether the clock is suspended.
func (c *Clock) Paused() bool { return c.paused }

// Reset zeroes elapsed time and the tick count. The pause state is kept.
func (c *Clock) Reset() {
	c.elapsed = 0
	c.ticks = 0
}

// FixedStep helps run simulation updates at a steady ticks-per-second rate
// for hosts that do not schedule frames themselves.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Interval is the wall-clock duration of one tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		// Drop backlog after a stall instead of replaying it in a burst.
		if f.accumulator > 4*f.step {
			f.accumulator = 0
		}
		return true
	}
	return false
}
