package shard

import (
	"errors"
	"testing"

	"cogentcore.org/core/math32"

	"meadow/internal/core"
)

func newRing(t *testing.T) *Ring {
	t.Helper()
	r, err := New(DefaultConfig(), core.NewRNG(7))
	if err != nil {
		t.Fatalf("new ring: %v", err)
	}
	return r
}

func inBand(t *testing.T, cfg Config, p, center math32.Vector3) {
	t.Helper()
	d := core.PlanarDistance(p, center)
	if d < cfg.BandMin-1e-3 || d > cfg.BandMax+1e-3 {
		t.Fatalf("relocated to distance %v outside [%v,%v]", d, cfg.BandMin, cfg.BandMax)
	}
}

func TestInitialPoolInsideBand(t *testing.T) {
	r := newRing(t)
	if r.Len() != DefaultConfig().Count {
		t.Fatalf("pool size %d", r.Len())
	}
	for i := 0; i < r.Len(); i++ {
		s := r.Shard(i)
		if !s.Visible {
			t.Fatalf("shard %d hidden", i)
		}
		inBand(t, r.Config(), s.Position, math32.Vector3{})
	}
}

func TestPickupFiresOnceAndRelocatesIntoBand(t *testing.T) {
	r := newRing(t)
	player := math32.Vec3(0, 0.8, 0)
	r.Place(3, player.Add(math32.Vec3(5, 0, 0)))
	var events []int
	n := r.Step(player, func(i int) { events = append(events, i) })
	if n != 1 || len(events) != 1 || events[0] != 3 {
		t.Fatalf("expected one pickup on slot 3, got n=%d events=%v", n, events)
	}
	s := r.Shard(3)
	if !s.Visible {
		t.Fatal("shard should stay visible after pickup")
	}
	inBand(t, r.Config(), s.Position, player)

	// The relocated shard is outside the collect radius, so the next tick is quiet.
	events = events[:0]
	r.Step(player, func(i int) { events = append(events, i) })
	if len(events) != 0 {
		t.Fatalf("unexpected repeat pickups %v", events)
	}
	if r.Collected() != 1 {
		t.Fatalf("collected count %d", r.Collected())
	}
	if r.Len() != DefaultConfig().Count {
		t.Fatal("pool size changed")
	}
}

func TestFarShardRelocatesSilently(t *testing.T) {
	r := newRing(t)
	player := math32.Vec3(0, 0.8, 0)
	r.Place(0, math32.Vec3(9000, 0, 0))
	fired := false
	if n := r.Step(player, func(int) { fired = true }); n != 0 || fired {
		t.Fatalf("despawn relocation must not signal pickup (n=%d)", n)
	}
	inBand(t, r.Config(), r.Shard(0).Position, player)
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	bad := []func(*Config){
		func(c *Config) { c.Count = 0 },
		func(c *Config) { c.CollectRadius = 0 },
		func(c *Config) { c.BandMin = 5 },
		func(c *Config) { c.BandMax = 50 },
		func(c *Config) { c.DespawnRadius = 500 },
	}
	for i, mut := range bad {
		c := DefaultConfig()
		mut(&c)
		if err := c.Validate(); !errors.Is(err, ErrConfig) {
			t.Fatalf("case %d: expected ErrConfig, got %v", i, err)
		}
	}
	if _, err := New(Config{}, core.NewRNG(1)); err == nil {
		t.Fatal("New should reject invalid config")
	}
}

func TestPosePhaseOffsetByIndex(t *testing.T) {
	r := newRing(t)
	p0, a0 := r.Pose(0, 2)
	p1, a1 := r.Pose(1, 2)
	if p0.Y == p1.Y || a0 == a1 {
		t.Fatal("neighbouring shards should not animate in unison")
	}
	cfg := r.Config()
	for i := 0; i < r.Len(); i++ {
		p, _ := r.Pose(i, 3.3)
		if math32.Abs(p.Y-cfg.Height) > cfg.BobAmplitude+1e-5 {
			t.Fatalf("shard %d bob out of range: %v", i, p.Y)
		}
	}
}
