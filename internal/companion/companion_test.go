package companion

import (
	"testing"

	"cogentcore.org/core/math32"

	"meadow/internal/visual"
)

func TestHoverFormulasDifferPerVariant(t *testing.T) {
	const tm = 1.7
	f, s, b := Hover(Firefly, tm), Hover(Spirit, tm), Hover(Butterfly, tm)
	if f == s || s == b || f == b {
		t.Fatalf("variants should follow distinct trajectories: %v %v %v", f, s, b)
	}
	if y := Hover(Butterfly, 4.2).Y; y < 0 {
		t.Fatalf("butterfly hover should stay at or above the anchor, got %v", y)
	}
	if got := Hover(Firefly, 0); got.X != 0 || got.Y != 0 || got.Z != 1 {
		t.Fatalf("firefly at t=0 = %+v", got)
	}
}

func TestStepSmoothsTowardAnchor(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg, Firefly)
	player := math32.Vec3(0, 0.8, 0)
	c.Step(player, 0, 1.0/60)
	start := c.Position()
	player = math32.Vec3(20, 0.8, -20)
	target := player.Add(cfg.AnchorOffset).Add(Hover(Firefly, 0))
	prev := start.Sub(target).Length()
	for i := 0; i < 120; i++ {
		c.Step(player, 0, 1.0/60)
		d := c.Position().Sub(target).Length()
		if d > prev+1e-4 {
			t.Fatalf("tick %d: distance grew from %v to %v", i, prev, d)
		}
		prev = d
	}
	if prev > 1 {
		t.Fatalf("companion did not catch up, still %v away", prev)
	}
	look := c.LookAt().Sub(c.Position())
	if math32.Abs(look.Length()-cfg.LookAhead) > 1e-3 {
		t.Fatalf("look-ahead distance %v, want %v", look.Length(), cfg.LookAhead)
	}
	if look.Dot(c.Velocity()) <= 0 {
		t.Fatal("companion should face along its velocity")
	}
}

func TestButterflyWingsFlapMirrored(t *testing.T) {
	c := New(DefaultConfig(), Butterfly)
	var moved bool
	for i := 0; i < 30; i++ {
		c.Step(math32.Vector3{}, float32(i)/60, 1.0/60)
		w := c.Wings()
		if w.Left != -w.Right {
			t.Fatalf("wings not mirrored: %+v", w)
		}
		if math32.Abs(w.Left) > 0.9+1e-5 {
			t.Fatalf("wing angle %v out of range", w.Left)
		}
		if w.Left != 0 {
			moved = true
		}
	}
	if !moved {
		t.Fatal("wings never moved")
	}
	c.SetVariant(Firefly)
	if c.Wings() != (Wings{}) {
		t.Fatal("non-butterfly variants have no wing motion")
	}
}

func TestFlapFrequencyRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		f := FlapFrequency(float32(i) * 0.37)
		if f < 4-1e-4 || f > 12+1e-4 {
			t.Fatalf("flap frequency %v out of [4,12]", f)
		}
	}
}

func TestParseAndCycle(t *testing.T) {
	v, err := Parse("spirit")
	if err != nil || v != Spirit {
		t.Fatalf("Parse(spirit) = %v, %v", v, err)
	}
	if Butterfly.Next() != Firefly {
		t.Fatal("cycle should wrap")
	}
	if _, err := Parse("dragon"); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildPerVariant(t *testing.T) {
	reg := visual.NewRegistry()
	st := Build(Butterfly, reg)
	if _, ok := st.Part("wing-left"); !ok {
		t.Fatal("butterfly should have wing parts")
	}
	st.Destroy()
	st = Build(Firefly, reg)
	if _, ok := st.Part("wing-left"); ok {
		t.Fatal("firefly has no wings")
	}
	st.Destroy()
	if reg.Live() != 0 {
		t.Fatalf("leaked %d handles", reg.Live())
	}
}
