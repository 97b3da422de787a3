package core

import (
	"testing"
	"time"

	"cogentcore.org/core/math32"
)

func TestClockDoesNotAccrueWhilePaused(t *testing.T) {
	c := NewClock(50)
	c.Advance()
	c.Pause()
	for i := 0; i < 10; i++ {
		if c.Advance() {
			t.Fatal("paused clock must not advance")
		}
	}
	c.Resume()
	c.Advance()
	if c.Ticks() != 2 {
		t.Fatalf("expected 2 ticks, got %d", c.Ticks())
	}
	if got := c.Elapsed(); math32.Abs(got-0.04) > 1e-6 {
		t.Fatalf("expected 0.04s elapsed, got %f", got)
	}
}

func TestFixedStepReleasesOneTickPerInterval(t *testing.T) {
	fs := NewFixedStep(10)
	now := time.Unix(0, 0)
	fs.now = func() time.Time { return now }

	if !fs.ShouldStep() {
		t.Fatal("first call should step with the primed accumulator")
	}
	if fs.ShouldStep() {
		t.Fatal("no time passed, should not step")
	}
	now = now.Add(100 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("expected a step after one interval")
	}
}

func TestSmoothstepEdges(t *testing.T) {
	if got := Smoothstep(0, 1, 0); got != 0 {
		t.Fatalf("expected 0 at lower edge, got %f", got)
	}
	if got := Smoothstep(0, 1, 1); got != 1 {
		t.Fatalf("expected 1 at upper edge, got %f", got)
	}
	if got := Smoothstep(0, 1, 0.5); math32.Abs(got-0.5) > 1e-6 {
		t.Fatalf("expected 0.5 at midpoint, got %f", got)
	}
	if got := Smoothstep(2, 2, 3); got != 1 {
		t.Fatalf("degenerate edges should step, got %f", got)
	}
}

func TestApproachNeverOvershoots(t *testing.T) {
	v := float32(0)
	for i := 0; i < 500; i++ {
		next := Approach(v, 1, 0.1)
		if next < v || next > 1 {
			t.Fatalf("step %d went from %f to %f", i, v, next)
		}
		v = next
	}
}

func TestGridIndexRoundTrip(t *testing.T) {
	g := NewGrid[int](4, 3)
	for idx := 0; idx < g.Len(); idx++ {
		x, y := g.Coords(idx)
		if g.Index(x, y) != idx {
			t.Fatalf("index %d round-tripped to %d", idx, g.Index(x, y))
		}
	}
	*g.At(3, 2) = 7
	if g.Cells()[11] != 7 {
		t.Fatal("At should address the backing slice")
	}
	if g.In(4, 0) || !g.In(0, 2) {
		t.Fatal("bounds check mismatch")
	}
}

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(9), NewRNG(9)
	for i := 0; i < 32; i++ {
		if a.Range(-3, 5) != b.Range(-3, 5) {
			t.Fatal("same seed must produce the same sequence")
		}
	}
	if got := a.Range(2, 2); got != 2 {
		t.Fatalf("empty range should return lo, got %f", got)
	}
}

type pauser struct{ paused bool }

func (p *pauser) Pause()       { p.paused = true }
func (p *pauser) Resume()      { p.paused = false }
func (p *pauser) Paused() bool { return p.paused }

func TestTogglePause(t *testing.T) {
	p := &pauser{}
	if !TogglePause(p) || !p.paused {
		t.Fatal("first toggle should pause")
	}
	if TogglePause(p) || p.paused {
		t.Fatal("second toggle should resume")
	}
}
