package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"meadow/internal/scene"
	"meadow/internal/signal"
)

func smallConfig(t *testing.T, args ...string) *Config {
	t.Helper()
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	base := []string{
		"-mute",
		"-set", "field.extent=100",
		"-set", "field.chunk_size=50",
		"-set", "field.instances_per_chunk=8",
		"-set", "weather.count=16",
		"-set", "shards.count=4",
	}
	if err := fs.Parse(append(base, args...)); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cfg
}

func TestLoadTuningOverrides(t *testing.T) {
	cfg := smallConfig(t, "-seed", "99")
	tn, err := LoadTuning(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tn.Field.Extent != 100 || tn.Shards.Count != 4 || tn.Seed != 99 {
		t.Fatalf("overrides not applied: extent=%v shards=%d seed=%d", tn.Field.Extent, tn.Shards.Count, tn.Seed)
	}

	bad := NewConfig()
	bad.Sets = KVList{"field.extent"}
	if _, err := LoadTuning(bad); err == nil {
		t.Fatalf("override without '=' accepted")
	}
	bad.Sets = KVList{"shards.count=0"}
	if _, err := LoadTuning(bad); err == nil {
		t.Fatalf("invalid shard count accepted")
	}
}

func TestKVList(t *testing.T) {
	var l KVList
	_ = l.Set("a=1")
	_ = l.Set("b=2")
	if l.String() != "a=1,b=2" {
		t.Fatalf("got %q", l.String())
	}
}

func TestManualSteersAndClamps(t *testing.T) {
	th := signal.DefaultThresholds()
	m := NewManual(th)
	var f signal.Frame
	prev := float32(0)
	for i := 0; i < 30; i++ {
		f = m.Frame(Keys{Left: true})
		if f.HandPosition.X > prev {
			t.Fatalf("hand moved right while steering left: %v after %v", f.HandPosition.X, prev)
		}
		prev = f.HandPosition.X
	}
	if prev >= 0 || prev < -1 {
		t.Fatalf("hand x %v, want in [-1, 0)", prev)
	}
	for i := 0; i < 500; i++ {
		f = m.Frame(Keys{Near: true})
	}
	if *f.HandSize > th.NeutralSize+0.15+1e-6 {
		t.Fatalf("hand size %v not clamped", *f.HandSize)
	}

	happy := signal.Happy
	f = m.Frame(Keys{Emotion: &happy, Fist: true})
	if e, err := signal.ParseEmotion(f.Emotion); err != nil || e != signal.Happy || !f.IsFist {
		t.Fatalf("frame %+v", f)
	}
	f = m.Frame(Keys{})
	if e, err := signal.ParseEmotion(f.Emotion); err != nil || e != signal.Happy {
		t.Fatalf("mood did not latch: %q", f.Emotion)
	}
}

func TestSessionKeyboardRecordReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.zst")
	sess, err := Open(smallConfig(t, "-record", path), scene.Hooks{}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !sess.Manual() || sess.Audio != nil {
		t.Fatalf("expected a muted keyboard session")
	}
	sess.Start(context.Background())
	for i := 0; i < 20; i++ {
		sess.Keys(Keys{Right: true})
		if err := sess.Step(); err != nil && !errors.Is(err, scene.ErrGameOver) {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	var x float32
	_ = sess.Scene.Read(func(v scene.View) { x = v.Player.Position.X })
	if x <= 0 {
		t.Fatalf("steering right left the player at x=%v", x)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open trace: %v", err)
	}
	defer f.Close()
	rs, err := signal.NewReplaySource(f, 0)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	defer rs.Close()
	n := 0
	for {
		e, err := rs.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if e.Frame == nil || e.Frame.HandPosition == nil {
			t.Fatalf("entry %d has no hand", n)
		}
		n++
	}
	if n != 20 {
		t.Fatalf("replayed %d entries, want 20", n)
	}

	replay, err := Open(smallConfig(t, "-replay", path, "-pace", "0"), scene.Hooks{}, nil)
	if err != nil {
		t.Fatalf("open replay: %v", err)
	}
	defer replay.Close()
	if replay.Manual() {
		t.Fatalf("replay session fell back to the keyboard")
	}
}

func TestOpenMissingReplay(t *testing.T) {
	_, err := Open(smallConfig(t, "-replay", filepath.Join(t.TempDir(), "nope.zst")), scene.Hooks{}, nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want not-exist", err)
	}
}
