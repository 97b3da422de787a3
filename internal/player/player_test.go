package player

import (
	"testing"

	"cogentcore.org/core/math32"

	"meadow/internal/visual"
)

func TestLateralVelocityApproachesGainWithoutOvershoot(t *testing.T) {
	cfg := DefaultConfig()
	k := New(cfg)
	limit := 0.5 * cfg.TurnGain
	prev := float32(0)
	for i := 0; i < 400; i++ {
		k.Step(Input{Lateral: 0.5, Size: cfg.NeutralSize}, float32(i)/60)
		v := k.State().Velocity.X
		if v > limit {
			t.Fatalf("tick %d: velocity %v exceeded %v", i, v, limit)
		}
		if v < prev {
			t.Fatalf("tick %d: velocity decreased from %v to %v", i, prev, v)
		}
		prev = v
	}
	if math32.Abs(prev-limit) > 1e-3 {
		t.Fatalf("velocity %v did not converge to %v", prev, limit)
	}
}

func TestDepthSpeedDeadzoneAndSign(t *testing.T) {
	const neutral, dz, gain = 0.15, 0.03, 6
	if v := DepthSpeed(0.17, neutral, dz, gain); v != 0 {
		t.Fatalf("inside deadzone expected 0, got %v", v)
	}
	if v := DepthSpeed(0.13, neutral, dz, gain); v != 0 {
		t.Fatalf("inside deadzone expected 0, got %v", v)
	}
	if v := DepthSpeed(0.25, neutral, dz, gain); v <= 0 {
		t.Fatalf("closer hand should move forward, got %v", v)
	}
	if v := DepthSpeed(0.05, neutral, dz, gain); v >= 0 {
		t.Fatalf("farther hand should move backward, got %v", v)
	}
	// Continuous at the deadzone edge.
	if v := DepthSpeed(neutral+dz+1e-4, neutral, dz, gain); v > 1e-3 {
		t.Fatalf("speed should start near zero at the deadzone edge, got %v", v)
	}
}

func TestForwardMovesTowardNegativeZ(t *testing.T) {
	k := New(DefaultConfig())
	for i := 0; i < 30; i++ {
		k.Step(Input{Size: 0.4}, 0)
	}
	if z := k.State().Position.Z; z >= 0 {
		t.Fatalf("expected forward motion toward -Z, got z=%v", z)
	}
}

func TestGameOverFiresOnceAndFreezesPosition(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GameOverRadius = 5
	k := New(cfg)
	fired := 0
	var frozen math32.Vector3
	for i := 0; i < 200; i++ {
		wasOut := k.OutOfBounds()
		over := k.Step(Input{Lateral: 1, Size: cfg.NeutralSize}, float32(i)/60)
		if over && !wasOut {
			fired++
			frozen = k.State().Position
		}
		if wasOut && k.State().Position != frozen {
			t.Fatalf("tick %d: position changed after game over", i)
		}
	}
	if fired != 1 {
		t.Fatalf("expected exactly one game-over transition, got %d", fired)
	}
	if d := math32.Sqrt(frozen.X*frozen.X + frozen.Z*frozen.Z); d <= cfg.GameOverRadius {
		t.Fatalf("game over at distance %v inside radius %v", d, cfg.GameOverRadius)
	}
}

func TestNoGameOverInsideRadius(t *testing.T) {
	cfg := DefaultConfig()
	k := New(cfg)
	for i := 0; i < 1000; i++ {
		lateral := float32(1)
		if (i/50)%2 == 1 {
			lateral = -1
		}
		if k.Step(Input{Lateral: lateral, Size: cfg.NeutralSize}, float32(i)/60) {
			t.Fatalf("tick %d: unexpected game over at %+v", i, k.State().Position)
		}
	}
}

func TestCameraFollowsBehindPlayer(t *testing.T) {
	cfg := DefaultConfig()
	k := New(cfg)
	for i := 0; i < 600; i++ {
		k.Step(Input{Lateral: 0.3, Size: cfg.NeutralSize}, 0)
	}
	p := k.State().Position
	cam := k.Camera()
	want := p.Add(cfg.CameraOffset)
	if cam.Position.Sub(want).Length() > 2.5 {
		t.Fatalf("camera at %+v, expected near %+v", cam.Position, want)
	}
	if cam.Target.Z != p.Z-cfg.LookAhead || cam.Target.X != p.X {
		t.Fatalf("camera target %+v should look ahead of %+v", cam.Target, p)
	}
}

func TestBobIsPureFunctionOfTime(t *testing.T) {
	cfg := DefaultConfig()
	a, b := New(cfg), New(cfg)
	a.Step(Input{}, 1.25)
	for i := 0; i < 10; i++ {
		b.Step(Input{}, float32(i))
	}
	b.Step(Input{}, 1.25)
	if a.State().Position.Y != b.State().Position.Y {
		t.Fatalf("bob should only depend on time: %v vs %v", a.State().Position.Y, b.State().Position.Y)
	}
}

func TestSkinCycleAndParse(t *testing.T) {
	s := SkinMeadow
	seen := map[Skin]bool{}
	for i := 0; i < len(Skins()); i++ {
		seen[s] = true
		s = s.Next()
	}
	if s != SkinMeadow || len(seen) != 3 {
		t.Fatalf("cycle did not return to start: %v %v", s, seen)
	}
	got, err := ParseSkin("frost")
	if err != nil || got != SkinFrost {
		t.Fatalf("ParseSkin(frost) = %v, %v", got, err)
	}
	if _, err := ParseSkin("lava"); err == nil {
		t.Fatal("expected error for unknown skin")
	}
}

func TestBuildAvatarRegistersParts(t *testing.T) {
	reg := visual.NewRegistry()
	st := BuildAvatar(SkinFrost, reg)
	if st.Kind != "avatar:FROST" {
		t.Fatalf("unexpected kind %q", st.Kind)
	}
	if reg.Live() != 2*len(st.Parts) {
		t.Fatalf("expected %d handles, got %d", 2*len(st.Parts), reg.Live())
	}
	st.Destroy()
	if reg.Live() != 0 {
		t.Fatalf("avatar leaked %d handles", reg.Live())
	}
}
