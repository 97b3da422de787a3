package scene

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"

	"cogentcore.org/core/math32"

	"meadow/internal/companion"
	"meadow/internal/field"
	"meadow/internal/player"
	"meadow/internal/signal"
	"meadow/internal/tuning"
	"meadow/internal/visual"
)

func smallTuning() tuning.Tuning {
	tn := tuning.Default()
	tn.Field.Extent = 100
	tn.Field.ChunkSize = 50
	tn.Field.InstancesPerChunk = 16
	tn.Weather.Count = 32
	tn.Shards.Count = 6
	return tn
}

func newScene(t *testing.T, tn tuning.Tuning, hooks Hooks) *Scene {
	t.Helper()
	s, err := New(tn, hooks, nil)
	if err != nil {
		t.Fatalf("new scene: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func steer(s *Scene, lateral float32) Inputs {
	snap := signal.Neutral(s.th)
	snap.Hand.X = lateral
	skin, v := s.Selection().Load()
	return Inputs{Signal: snap, Skin: skin, Companion: v}
}

type fakeAudio struct {
	level  float32
	fist   []bool
	chimes int
}

func (a *fakeAudio) Level() float32  { return a.level }
func (a *fakeAudio) SetFist(on bool) { a.fist = append(a.fist, on) }
func (a *fakeAudio) Chime() error    { a.chimes++; return nil }

func TestNewRejectsBadGrid(t *testing.T) {
	tn := smallTuning()
	tn.Field.ChunkSize = 0
	_, err := New(tn, Hooks{}, nil)
	if !errors.Is(err, field.ErrChunkSize) {
		t.Fatalf("expected ErrChunkSize, got %v", err)
	}
}

func TestGameOverFiresExactlyOnce(t *testing.T) {
	tn := smallTuning()
	tn.Player.GameOverRadius = 4
	fired := 0
	s := newScene(t, tn, Hooks{OnGameOver: func(math32.Vector3) { fired++ }})

	var err error
	for i := 0; i < 500 && err == nil; i++ {
		err = s.Tick(steer(s, 1))
	}
	if !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected game over, got %v", err)
	}
	var at math32.Vector3
	var ticks uint64
	_ = s.Read(func(v View) { at, ticks = v.Player.Position, v.Ticks })
	for i := 0; i < 20; i++ {
		if err := s.Tick(steer(s, 1)); !errors.Is(err, ErrGameOver) {
			t.Fatalf("tick after game over returned %v", err)
		}
	}
	_ = s.Read(func(v View) {
		if v.Player.Position != at || v.Ticks != ticks {
			t.Fatalf("state advanced after game over: %+v ticks %d -> %d", v.Player.Position, ticks, v.Ticks)
		}
		if !v.Over {
			t.Fatal("view should report game over")
		}
	})
	if fired != 1 {
		t.Fatalf("OnGameOver fired %d times", fired)
	}
	if d := math32.Sqrt(at.X*at.X + at.Z*at.Z); d <= tn.Player.GameOverRadius {
		t.Fatalf("game over inside radius at %v", d)
	}

	if err := s.Reset(9); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.GameOver() {
		t.Fatal("reset should clear game over")
	}
	if err := s.Tick(steer(s, 0)); err != nil {
		t.Fatalf("tick after reset: %v", err)
	}
}

func TestNoGameOverInsideRadius(t *testing.T) {
	s := newScene(t, smallTuning(), Hooks{OnGameOver: func(math32.Vector3) { t.Fatal("unexpected game over") }})
	for i := 0; i < 600; i++ {
		if err := s.Tick(steer(s, 0.5)); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
}

func TestPauseStopsTime(t *testing.T) {
	s := newScene(t, smallTuning(), Hooks{})
	_ = s.Tick(steer(s, 1))
	s.Pause()
	var before View
	_ = s.Read(func(v View) { before = v })
	for i := 0; i < 10; i++ {
		if err := s.Tick(steer(s, 1)); err != nil {
			t.Fatal(err)
		}
	}
	_ = s.Read(func(v View) {
		if v.Ticks != before.Ticks || v.Time != before.Time || v.Player.Position != before.Player.Position {
			t.Fatal("paused scene advanced")
		}
		if !v.Paused {
			t.Fatal("view should report paused")
		}
	})
	s.Resume()
	_ = s.Tick(steer(s, 1))
	_ = s.Read(func(v View) {
		if v.Ticks != before.Ticks+1 {
			t.Fatalf("resume should advance one tick, got %d -> %d", before.Ticks, v.Ticks)
		}
	})
}

func TestReselectingCosmeticsIsIdempotent(t *testing.T) {
	s := newScene(t, smallTuning(), Hooks{})
	in := steer(s, 0)
	in.Companion = companion.Butterfly
	in.Skin = player.SkinEmber
	_ = s.Tick(in)
	live := s.Registry().Live()
	var rebuilds int
	_ = s.Read(func(v View) { rebuilds = v.Rebuilds })
	for i := 0; i < 5; i++ {
		_ = s.Tick(in)
	}
	if s.Registry().Live() != live {
		t.Fatalf("re-selecting leaked resources: %d -> %d", live, s.Registry().Live())
	}
	_ = s.Read(func(v View) {
		if v.Rebuilds != rebuilds {
			t.Fatalf("re-selecting rebuilt subtrees: %d -> %d", rebuilds, v.Rebuilds)
		}
		if _, ok := v.Companion.Subtree.Part("wing-left"); !ok {
			t.Fatal("butterfly subtree not active")
		}
		if v.Avatar.Kind != "avatar:EMBER" {
			t.Fatalf("avatar kind %q", v.Avatar.Kind)
		}
	})

	// Switching back releases the butterfly parts.
	in.Companion = companion.Firefly
	in.Skin = player.SkinMeadow
	_ = s.Tick(in)
	want := len(staticResources) +
		2*len(player.BuildAvatar(player.SkinMeadow, visual.NewRegistry()).Parts) +
		2*len(companion.Build(companion.Firefly, visual.NewRegistry()).Parts)
	if got := s.Registry().Live(); got != want {
		t.Fatalf("live resources %d, want %d", got, want)
	}
}

func TestCloseReleasesExactlyOnce(t *testing.T) {
	s, err := New(smallTuning(), Hooks{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	reg := s.Registry()
	initial := reg.Live()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			if err := s.Tick(steer(s, 0.2)); errors.Is(err, ErrClosed) {
				return
			}
		}
	}()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	wg.Wait()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if reg.Live() != 0 || reg.Released() != uint64(initial) {
		t.Fatalf("live=%d released=%d initial=%d", reg.Live(), reg.Released(), initial)
	}
	if err := s.Read(func(View) {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("read after close: %v", err)
	}
	if err := s.Reset(1); !errors.Is(err, ErrClosed) {
		t.Fatalf("reset after close: %v", err)
	}
}

func TestPickupFiresHookAndChime(t *testing.T) {
	var picked []int
	s := newScene(t, smallTuning(), Hooks{OnCollectShard: func(i int) { picked = append(picked, i) }})
	audio := &fakeAudio{level: 0.4}
	latest := &signal.Latest{}
	s.Attach(Sources{Tracking: latest, Audio: audio})

	_ = s.Read(func(v View) { v.Shards.Place(2, v.Player.Position.Add(math32.Vec3(3, 0, 0))) })
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if len(picked) != 1 || picked[0] != 2 {
		t.Fatalf("expected one pickup of slot 2, got %v", picked)
	}
	if audio.chimes != 1 {
		t.Fatalf("expected one chime, got %d", audio.chimes)
	}
	_ = s.Read(func(v View) {
		if v.Collected != 1 || v.LastPickup != 2 {
			t.Fatalf("collected=%d last=%d", v.Collected, v.LastPickup)
		}
	})
}

func TestStepReadsSources(t *testing.T) {
	s := newScene(t, smallTuning(), Hooks{})
	audio := &fakeAudio{level: 1}
	latest := &signal.Latest{}
	latest.Store(signal.Frame{Emotion: "HAPPY", HandPosition: &signal.Hand{X: 0.8}, HandSize: signal.Float(0.15), IsFist: true})
	s.Attach(Sources{Tracking: latest, Audio: audio})
	s.Selection().SetCompanion(companion.Spirit)

	for i := 0; i < 3; i++ {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if len(audio.fist) != 3 || !audio.fist[2] {
		t.Fatalf("fist gesture not forwarded: %v", audio.fist)
	}
	p := s.Parameters()
	if mood, _ := p.Lookup("mood"); mood.Value != "HAPPY" {
		t.Fatalf("mood %q", mood.Value)
	}
	if c, _ := p.Lookup("companion"); c.Value != "SPIRIT" {
		t.Fatalf("companion %q", c.Value)
	}
	_ = s.Read(func(v View) {
		if v.Player.Velocity.X <= 0 {
			t.Fatal("hand position should steer the player")
		}
		if v.Wind <= v.Env.BaseWind {
			t.Fatal("amplitude should raise the wind")
		}
	})
}

func TestSetFloatParameter(t *testing.T) {
	s := newScene(t, smallTuning(), Hooks{})
	if !s.SetFloatParameter(paramLOD, 1000) {
		t.Fatal("lod threshold should be settable")
	}
	if p, _ := s.Parameters().Lookup(paramLOD); p.Value != "300" {
		t.Fatalf("expected clamp to 300, got %s", p.Value)
	}
	if !s.SetFloatParameter(paramTurnGain, 1.5) {
		t.Fatal("turn gain should be settable")
	}
	if s.SetFloatParameter("gravity", 1) {
		t.Fatal("unknown key accepted")
	}
	if err := s.Reset(2); err != nil {
		t.Fatal(err)
	}
	if p, _ := s.Parameters().Lookup(paramTurnGain); p.Value != "1.5" {
		t.Fatalf("live tuning lost across reset: %s", p.Value)
	}
}

func TestLogsLifecycle(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(smallTuning(), Hooks{}, log.New(&buf, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Close()
	out := buf.String()
	if !strings.Contains(out, "scene ready") || !strings.Contains(out, "scene closed") {
		t.Fatalf("unexpected log output:\n%s", out)
	}
}
