package scene

import (
	"cogentcore.org/core/math32"

	"meadow/internal/companion"
	"meadow/internal/environ"
	"meadow/internal/field"
	"meadow/internal/grass"
	"meadow/internal/lod"
	"meadow/internal/player"
	"meadow/internal/shard"
	"meadow/internal/visual"
	"meadow/internal/weather"
)

// CompanionView is the render state of the companion.
type CompanionView struct {
	Variant  companion.Variant
	Position math32.Vector3
	LookAt   math32.Vector3
	Yaw      float32
	Wings    companion.Wings
	Subtree  *visual.Subtree
}

// View is a read-only window onto the scene for renderers. The pointers
// are only valid inside the Read callback.
type View struct {
	Time       float32
	Ticks      uint64
	Paused     bool
	Over       bool
	OverAt     math32.Vector3
	Input      Inputs
	Player     player.State
	Camera     player.Camera
	Skin       player.Skin
	Avatar     *visual.Subtree
	Companion  CompanionView
	Env        environ.Targets
	Wind       float32
	Uniforms   grass.Uniforms
	Grass      grass.Params
	Field      *field.Field
	LOD        *lod.Manager
	Weather    *weather.System
	Shards     *shard.Ring
	Collected  uint64
	// LastPickup is the slot of the most recent pickup, or -1.
	LastPickup int
	Rebuilds   int
}

// Read calls fn with the current state while holding the tick lock. It
// returns ErrClosed once the scene has released its resources.
func (s *Scene) Read(fn func(v View)) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrClosed
	}
	fn(View{
		Time:   s.clock.Elapsed(),
		Ticks:  s.clock.Ticks(),
		Paused: s.clock.Paused(),
		Over:   s.over,
		OverAt: s.overAt,
		Input:  s.last,
		Player: s.player.State(),
		Camera: s.player.Camera(),
		Skin:   s.skin,
		Avatar: s.avatar,
		Companion: CompanionView{
			Variant:  s.variant,
			Position: s.companion.Position(),
			LookAt:   s.companion.LookAt(),
			Yaw:      s.companion.Yaw(),
			Wings:    s.companion.Wings(),
			Subtree:  s.pet,
		},
		Env:        s.env.Current(),
		Wind:       s.env.Wind(),
		Uniforms:   s.uniforms(),
		Grass:      s.tn.Grass,
		Field:      s.field,
		LOD:        s.lod,
		Weather:    s.weather,
		Shards:     s.shards,
		Collected:  s.collected,
		LastPickup: s.lastPickup,
		Rebuilds:   s.rebuilds,
	})
	return nil
}
