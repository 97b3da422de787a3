// Package shard manages the fixed pool of collectible markers around the
// player.
package shard

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"

	"meadow/internal/core"
)

// ErrConfig reports an unusable shard configuration.
var ErrConfig = errors.New("shard: invalid config")

// Config holds pool size, radii and animation constants.
type Config struct {
	Count         int     `yaml:"count"`
	CollectRadius float32 `yaml:"collect_radius"`
	DespawnRadius float32 `yaml:"despawn_radius"`
	BandMin       float32 `yaml:"band_min"`
	BandMax       float32 `yaml:"band_max"`
	Height        float32 `yaml:"height"`
	BobAmplitude  float32 `yaml:"bob_amplitude"`
	BobFrequency  float32 `yaml:"bob_frequency"`
	SpinSpeed     float32 `yaml:"spin_speed"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Count:         24,
		CollectRadius: 10,
		DespawnRadius: 8000,
		BandMin:       80,
		BandMax:       600,
		Height:        1.2,
		BobAmplitude:  0.3,
		BobFrequency:  1.5,
		SpinSpeed:     1.2,
	}
}

// Validate requires the relocation band to sit strictly between the collect
// and despawn radii.
func (c Config) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("%w: count %d", ErrConfig, c.Count)
	}
	if !(0 < c.CollectRadius && c.CollectRadius < c.BandMin && c.BandMin < c.BandMax && c.BandMax < c.DespawnRadius) {
		return fmt.Errorf("%w: need 0 < collect(%g) < band_min(%g) < band_max(%g) < despawn(%g)",
			ErrConfig, c.CollectRadius, c.BandMin, c.BandMax, c.DespawnRadius)
	}
	return nil
}

// Shard is one pool slot. Position holds the ground anchor; the animated
// pose comes from Pose.
type Shard struct {
	Position math32.Vector3
	Visible  bool
}

// Outcome is what happened to a shard during a tick.
type Outcome uint8

const (
	Idle Outcome = iota
	Collected
	Relocated
)

// Ring is the shard pool.
type Ring struct {
	cfg    Config
	rng    *core.RNG
	shards []Shard
	picked uint64
}

// New validates cfg and scatters the pool around the origin.
func New(cfg Config, rng *core.RNG) (*Ring, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Ring{cfg: cfg, rng: rng, shards: make([]Shard, cfg.Count)}
	r.Reset(math32.Vector3{})
	return r, nil
}

// Reset relocates every shard around center and clears the pickup count.
func (r *Ring) Reset(center math32.Vector3) {
	for i := range r.shards {
		r.relocate(i, center)
	}
	r.picked = 0
}

// Config returns the active configuration.
func (r *Ring) Config() Config { return r.cfg }

// Len is the constant pool size.
func (r *Ring) Len() int { return len(r.shards) }

// Shard returns slot i.
func (r *Ring) Shard(i int) Shard { return r.shards[i] }

// Collected is the total number of pickups since Reset.
func (r *Ring) Collected() uint64 { return r.picked }

// Place moves slot i to p. It is used by tests and scripted scenes.
func (r *Ring) Place(i int, p math32.Vector3) {
	r.shards[i].Position = math32.Vec3(p.X, r.cfg.Height, p.Z)
	r.shards[i].Visible = true
}

func (r *Ring) relocate(i int, center math32.Vector3) {
	angle := r.rng.Angle()
	radius := r.rng.Range(r.cfg.BandMin, r.cfg.BandMax)
	s, c := math32.Sincos(angle)
	r.shards[i] = Shard{
		Position: math32.Vec3(center.X+c*radius, r.cfg.Height, center.Z+s*radius),
		Visible:  true,
	}
}

// Step checks every shard once against the player. A collected shard fires
// onCollect and is relocated into the band; a shard beyond the despawn
// radius is relocated silently. Each slot is visited exactly once per call,
// so a relocated shard cannot fire again in the same tick.
func (r *Ring) Step(player math32.Vector3, onCollect func(i int)) (collected int) {
	for i := range r.shards {
		switch r.check(i, player) {
		case Collected:
			collected++
			r.picked++
			r.relocate(i, player)
			if onCollect != nil {
				onCollect(i)
			}
		case Relocated:
			r.relocate(i, player)
		}
	}
	return collected
}

func (r *Ring) check(i int, player math32.Vector3) Outcome {
	d := core.PlanarDistance(r.shards[i].Position, player)
	if d < r.cfg.CollectRadius {
		return Collected
	} else if d > r.cfg.DespawnRadius {
		return Relocated
	}
	return Idle
}

// Pose is the animated position and spin angle of slot i at time t. The
// phase is offset by index so neighbours do not bob in unison.
func (r *Ring) Pose(i int, t float32) (math32.Vector3, float32) {
	phase := float32(i) * 0.7
	p := r.shards[i].Position
	p.Y = r.cfg.Height + math32.Sin(t*r.cfg.BobFrequency+phase)*r.cfg.BobAmplitude
	return p, t*r.cfg.SpinSpeed + phase
}
