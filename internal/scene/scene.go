// Package scene owns the complete meadow simulation state and runs the
// per-tick control flow: environment blend, player kinematics and boundary,
// detail selection, then weather, companion and shards.
package scene

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"cogentcore.org/core/math32"

	"meadow/internal/companion"
	"meadow/internal/core"
	"meadow/internal/environ"
	"meadow/internal/field"
	"meadow/internal/grass"
	"meadow/internal/lod"
	"meadow/internal/player"
	"meadow/internal/shard"
	"meadow/internal/signal"
	"meadow/internal/tuning"
	"meadow/internal/visual"
	"meadow/internal/weather"
)

var (
	// ErrGameOver is returned by the tick that crosses the boundary and by
	// every tick after it until Reset.
	ErrGameOver = errors.New("scene: game over")
	// ErrClosed is returned by ticks after Close.
	ErrClosed = errors.New("scene: closed")
)

var (
	_ core.Sim    = (*Scene)(nil)
	_ core.Pauser = (*Scene)(nil)
)

// Inputs is everything one tick reads from outside the simulation.
type Inputs struct {
	Signal    signal.Snapshot
	Amplitude float32
	Skin      player.Skin
	Companion companion.Variant
}

// Hooks receive simulation events. Nil hooks are skipped. Hooks run on the
// ticking goroutine with the scene locked and must not call back into it.
type Hooks struct {
	OnCollectShard func(index int)
	OnGameOver     func(at math32.Vector3)
}

// Audio is the sound collaborator: a loudness source that reacts to the
// fist gesture and plays pickup chimes.
type Audio interface {
	Level() float32
	SetFist(on bool)
	Chime() error
}

// Sources are polled by Step to build Inputs.
type Sources struct {
	Tracking  *signal.Latest
	Audio     Audio
	Cosmetics *Selection
}

// Scene is the single owner of all mutable simulation state.
type Scene struct {
	tn    tuning.Tuning
	th    signal.Thresholds
	hooks Hooks
	src   Sources
	log   *log.Logger

	mu     sync.Mutex
	closed atomic.Bool

	seed      int64
	clock     *core.Clock
	field     *field.Field
	lod       *lod.Manager
	weather   *weather.System
	player    *player.Kinematics
	companion *companion.Companion
	shards    *shard.Ring
	env       *environ.Blender
	last      Inputs

	reg        *visual.Registry
	avatar     *visual.Subtree
	pet        *visual.Subtree
	skin       player.Skin
	variant    companion.Variant
	rebuilds   int
	over       bool
	overAt     math32.Vector3
	collected  uint64
	chimeErrs  uint64
	lastPickup int
}

// New validates tn, generates the field and builds every component. A nil
// logger discards output.
func New(tn tuning.Tuning, hooks Hooks, logger *log.Logger) (*Scene, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := tn.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	skin, _ := player.ParseSkin(tn.Cosmetics.Skin)
	variant, _ := companion.Parse(tn.Cosmetics.Companion)
	s := &Scene{
		tn:      tn,
		th:      tn.Thresholds(),
		hooks:   hooks,
		log:     logger,
		clock:   core.NewClock(tn.TickRate),
		reg:     visual.NewRegistry(),
		skin:    skin,
		variant: variant,
	}
	if err := s.build(tn.Seed); err != nil {
		return nil, err
	}
	s.src.Cosmetics = NewSelection(skin, variant)
	s.acquireStatic()
	s.avatar = player.BuildAvatar(skin, s.reg)
	s.pet = companion.Build(variant, s.reg)
	s.logf("scene ready: %d chunks, %d blades, %d particles, %d shards, %d resources",
		len(s.field.Chunks()), s.field.InstanceCount(), s.weather.Len(), s.shards.Len(), s.reg.Live())
	return s, nil
}

func (s *Scene) build(seed int64) error {
	f, err := field.Generate(s.tn.Field, seed)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	rng := core.NewRNG(seed ^ 0x5eed)
	w, err := weather.New(s.tn.Weather, rng)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	ring, err := shard.New(s.tn.Shards, rng)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	lodCfg := s.tn.LOD
	if s.lod != nil {
		lodCfg.Threshold = s.lod.Threshold()
	}
	kin := player.New(s.tn.Player)
	if s.player != nil {
		kin.SetTurnGain(s.player.Config().TurnGain)
		kin.SetDepthGain(s.player.Config().DepthGain)
	}
	envCfg := s.tn.Environ
	if s.env != nil {
		envCfg.Rate = s.env.Config().Rate
		envCfg.SoundWindGain = s.env.Config().SoundWindGain
	}
	s.seed = seed
	s.field = f
	s.lod = lod.NewManager(f, lodCfg)
	s.weather = w
	s.shards = ring
	s.player = kin
	s.companion = companion.New(s.tn.Companion, s.variant)
	s.env = environ.NewBlender(envCfg)
	s.clock.Reset()
	s.over = false
	s.overAt = math32.Vector3{}
	s.collected = 0
	s.lastPickup = -1
	s.last = Inputs{Signal: signal.Neutral(s.th), Skin: s.skin, Companion: s.variant}
	s.lod.Update(s.player.Camera().Position)
	s.weather.Recenter(s.player.State().Position)
	s.weather.Advance(0, s.env.Current().Weather)
	return nil
}

// Attach sets the sources polled by Step. A nil Cosmetics keeps the
// scene's own selection.
func (s *Scene) Attach(src Sources) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if src.Cosmetics == nil {
		src.Cosmetics = s.src.Cosmetics
	}
	s.src = src
}

// Selection returns the cosmetic selectors polled by Step.
func (s *Scene) Selection() *Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Cosmetics
}

// Name implements core.Sim.
func (s *Scene) Name() string { return "meadow" }

// Tuning returns the configuration the scene was built from.
func (s *Scene) Tuning() tuning.Tuning { return s.tn }

// Registry exposes the render resource registry.
func (s *Scene) Registry() *visual.Registry { return s.reg }

// Reset regenerates the world from seed and clears the game-over state.
// Cosmetic selections and live-tuned values survive.
func (s *Scene) Reset(seed int64) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.build(seed); err != nil {
		return err
	}
	s.logf("scene reset: seed=%d", seed)
	return nil
}

// Pause suspends ticking. No time accrues while paused.
func (s *Scene) Pause() {
	s.mu.Lock()
	s.clock.Pause()
	s.mu.Unlock()
}

// Resume continues after Pause.
func (s *Scene) Resume() {
	s.mu.Lock()
	s.clock.Resume()
	s.mu.Unlock()
}

// Paused reports the pause state.
func (s *Scene) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Paused()
}

// GameOver reports whether the boundary has been crossed.
func (s *Scene) GameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// Step polls the attached sources and runs one tick.
func (s *Scene) Step() error {
	return s.Tick(s.poll())
}

func (s *Scene) poll() Inputs {
	s.mu.Lock()
	src := s.src
	s.mu.Unlock()
	in := Inputs{Signal: signal.Neutral(s.th), Skin: s.skin, Companion: s.variant}
	if src.Tracking != nil {
		in.Signal = src.Tracking.Snapshot(s.th)
	}
	if src.Audio != nil {
		in.Amplitude = src.Audio.Level()
	}
	if src.Cosmetics != nil {
		in.Skin, in.Companion = src.Cosmetics.Load()
	}
	return in
}

// Tick advances the simulation by one fixed step. It is a no-op while
// paused. The tick that crosses the boundary fires OnGameOver once and
// returns ErrGameOver; later ticks return ErrGameOver without advancing.
func (s *Scene) Tick(in Inputs) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrClosed
	}
	if s.over {
		return ErrGameOver
	}
	if !s.clock.Advance() {
		return nil
	}
	t, dt := s.clock.Elapsed(), s.clock.Dt()
	s.last = in

	s.selectCosmetics(in.Skin, in.Companion)
	if s.src.Audio != nil {
		s.src.Audio.SetFist(in.Signal.IsFist)
	}

	s.env.Step(in.Signal.Emotion, in.Amplitude)

	if s.player.Step(player.Input{Lateral: in.Signal.Hand.X, Size: in.Signal.HandSize}, t) {
		s.over = true
		s.overAt = s.player.State().Position
		s.logf("game over at (%.1f, %.1f) after %d ticks", s.overAt.X, s.overAt.Z, s.clock.Ticks())
		if s.hooks.OnGameOver != nil {
			s.hooks.OnGameOver(s.overAt)
		}
		return ErrGameOver
	}
	pos := s.player.State().Position

	s.lod.Update(s.player.Camera().Position)

	s.weather.Recenter(pos)
	s.weather.Advance(t, s.env.Current().Weather)

	s.companion.Step(pos, t, dt)

	s.shards.Step(pos, s.collect)
	return nil
}

func (s *Scene) collect(i int) {
	s.collected++
	s.lastPickup = i
	if s.src.Audio != nil {
		if err := s.src.Audio.Chime(); err != nil {
			s.chimeErrs++
			if s.chimeErrs == 1 {
				s.logf("chime: %v", err)
			}
		}
	}
	if s.hooks.OnCollectShard != nil {
		s.hooks.OnCollectShard(i)
	}
}

// Close stops future ticks, waits for an in-flight tick and releases every
// render resource exactly once. Later calls are no-ops.
func (s *Scene) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.reg.ReleaseAll()
	s.avatar, s.pet = nil, nil
	s.logf("scene closed: released %d resources", n)
	return nil
}

// Closed reports whether Close has been called.
func (s *Scene) Closed() bool { return s.closed.Load() }

func (s *Scene) logf(format string, args ...any) {
	s.log.Printf(format, args...)
}

// uniforms derives the per-frame grass inputs from the current state.
func (s *Scene) uniforms() grass.Uniforms {
	cur := s.env.Current()
	return grass.Uniforms{
		Time:   s.clock.Elapsed(),
		Player: s.player.State().Position,
		Camera: s.player.Camera().Position,
		Base:   cur.GrassBase,
		Tip:    cur.GrassTip,
		Wind:   s.env.Wind(),
	}
}
