package weather

import (
	"errors"
	"testing"

	"cogentcore.org/core/math32"

	"meadow/internal/core"
)

func TestHeightStaysInBand(t *testing.T) {
	cfg := DefaultConfig()
	s, err := New(cfg, core.NewRNG(5))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	style := Style{Speed: 3, Sway: 0.5, Size: 1}
	for tick := 0; tick < 2000; tick += 7 {
		s.Advance(float32(tick)/60, style)
		s.Each(func(i int, pos math32.Vector3, alpha float32) {
			if pos.Y < cfg.Bottom() || pos.Y > cfg.TopY {
				t.Fatalf("particle %d at y=%f outside [%f,%f]", i, pos.Y, cfg.Bottom(), cfg.TopY)
			}
			if alpha < 0 || alpha > 1 {
				t.Fatalf("particle %d alpha %f outside [0,1]", i, alpha)
			}
		})
	}
}

func TestHeightWrapsContinuously(t *testing.T) {
	const top, box = 10, 20
	prev := Height(top, 9, box, 0, 1, 1)
	wraps := 0
	for i := 1; i < 2000; i++ {
		y := Height(top, 9, box, float32(i)*0.05, 1, 1)
		if y > prev {
			wraps++
			if top-y > 0.1 {
				t.Fatalf("wrap should re-enter at the top, got %f", y)
			}
		} else if prev-y > 0.051 {
			t.Fatalf("discontinuous fall from %f to %f", prev, y)
		}
		prev = y
	}
	if wraps == 0 {
		t.Fatal("expected the fall to wrap at least once")
	}
}

func TestAlphaEdgesAndMiddle(t *testing.T) {
	cfg := DefaultConfig()
	bottom, top := cfg.Bottom(), cfg.TopY
	if a := Alpha(top, bottom, top, cfg.FadeBand); a != 0 {
		t.Fatalf("alpha at top = %f, want 0", a)
	}
	if a := Alpha(bottom, bottom, top, cfg.FadeBand); a != 0 {
		t.Fatalf("alpha at bottom = %f, want 0", a)
	}
	if a := Alpha((top+bottom)/2, bottom, top, cfg.FadeBand); a != 1 {
		t.Fatalf("alpha at mid-band = %f, want 1", a)
	}
}

func TestRecenterTranslatesOnly(t *testing.T) {
	s, _ := New(DefaultConfig(), core.NewRNG(1))
	before := append([]Particle(nil), s.Particles()...)
	s.Advance(3, Style{Speed: 1, Sway: 1})
	p0, _ := s.Position(10)
	s.Recenter(math32.Vec3(500, 3, -200))
	p1, _ := s.Position(10)
	if d := p1.Sub(p0); math32.Abs(d.X-500) > 1e-3 || d.Y != 0 || math32.Abs(d.Z+200) > 1e-3 {
		t.Fatalf("recenter should translate by the player offset, got %v", d)
	}
	for i, p := range s.Particles() {
		if p != before[i] {
			t.Fatalf("particle %d regenerated on recenter", i)
		}
	}
}

func TestSwayDesynchronized(t *testing.T) {
	ax, _ := Sway(0.1, 2, 0.8, 1)
	bx, _ := Sway(0.6, 2, 0.8, 1)
	if ax == bx {
		t.Fatal("different seeds should sway differently")
	}
	if x, z := Sway(0.3, 5, 0.8, 0); x != 0 || z != 0 {
		t.Fatal("zero sway amount must not move particles")
	}
}

func TestPointSizeAttenuates(t *testing.T) {
	near := PointSize(2, 100, 5)
	far := PointSize(2, 100, 50)
	if far >= near {
		t.Fatalf("far particles should be smaller: near=%f far=%f", near, far)
	}
	if PointSize(2, 100, 0) != PointSize(2, 100, 0.1) {
		t.Fatal("depth should clamp near the eye")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 0
	if _, err := New(cfg, core.NewRNG(1)); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	cfg = DefaultConfig()
	cfg.FadeBand = cfg.BoxHeight
	if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for oversized fade band, got %v", err)
	}
	cfg = DefaultConfig()
	cfg.FadeBand = 0
	if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for zero fade band, got %v", err)
	}
}
