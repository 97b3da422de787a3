// Package weather animates a fixed pool of falling point particles inside a
// box that travels with the player.
package weather

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"

	"meadow/internal/core"
)

// ErrConfig reports an unusable weather volume.
var ErrConfig = errors.New("weather: invalid config")

// Config sizes the particle pool and its bounding volume.
type Config struct {
	Count      int     `yaml:"count"`
	BoxWidth   float32 `yaml:"box_width"`
	BoxDepth   float32 `yaml:"box_depth"`
	BoxHeight  float32 `yaml:"box_height"`
	TopY       float32 `yaml:"top_y"`
	SwayFreq   float32 `yaml:"sway_freq"`
	PointScale float32 `yaml:"point_scale"`
	FadeBand   float32 `yaml:"fade_band"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Count:      1500,
		BoxWidth:   60,
		BoxDepth:   60,
		BoxHeight:  30,
		TopY:       28,
		SwayFreq:   0.8,
		PointScale: 120,
		FadeBand:   3,
	}
}

// Validate checks pool size and volume.
func (c Config) Validate() error {
	switch {
	case c.Count <= 0:
		return fmt.Errorf("%w: count=%d", ErrConfig, c.Count)
	case c.BoxWidth <= 0 || c.BoxDepth <= 0 || c.BoxHeight <= 0:
		return fmt.Errorf("%w: box %gx%gx%g", ErrConfig, c.BoxWidth, c.BoxHeight, c.BoxDepth)
	case c.FadeBand <= 0 || 2*c.FadeBand > c.BoxHeight:
		return fmt.Errorf("%w: fade_band=%g must be positive and fit twice in box_height=%g", ErrConfig, c.FadeBand, c.BoxHeight)
	}
	return nil
}

// Bottom is the lowest Y of the volume.
func (c Config) Bottom() float32 { return c.TopY - c.BoxHeight }

// Style is the blended look of the weather for the current tick.
type Style struct {
	Color math32.Vector3
	Speed float32
	Sway  float32
	Size  float32
}

// Particle is the static state of one pool slot.
type Particle struct {
	Initial math32.Vector3
	Seed    float32
}

// System is the weather pool. Particles are never reallocated; only the
// origin moves.
type System struct {
	cfg       Config
	particles []Particle
	origin    math32.Vector3
	time      float32
	style     Style
}

// New allocates the pool with per-particle seeds drawn once.
func New(cfg Config, rng *core.RNG) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &System{cfg: cfg, particles: make([]Particle, cfg.Count)}
	for i := range s.particles {
		s.particles[i] = Particle{
			Initial: math32.Vec3(
				rng.Range(-cfg.BoxWidth/2, cfg.BoxWidth/2),
				rng.Range(cfg.Bottom(), cfg.TopY),
				rng.Range(-cfg.BoxDepth/2, cfg.BoxDepth/2),
			),
			Seed: rng.Float32(),
		}
	}
	return s, nil
}

// Config returns the pool configuration.
func (s *System) Config() Config { return s.cfg }

// Len is the pool size.
func (s *System) Len() int { return len(s.particles) }

// Particles exposes the static pool.
func (s *System) Particles() []Particle { return s.particles }

// Origin is the current volume origin.
func (s *System) Origin() math32.Vector3 { return s.origin }

// Style is the style applied on the last Advance.
func (s *System) Style() Style { return s.style }

// Recenter moves the volume horizontally under the player.
func (s *System) Recenter(player math32.Vector3) {
	s.origin = math32.Vec3(player.X, 0, player.Z)
}

// Advance sets the animation time and blended style.
func (s *System) Advance(t float32, style Style) {
	s.time = t
	s.style = style
}

// Height is the wrapped fall height of a particle. The fall distance is
// taken modulo the box height, so the drift is continuous and re-enters at
// the top instead of resetting.
func Height(topY, initialY, boxHeight, t, speed, factor float32) float32 {
	fall := (topY - initialY) + t*speed*factor
	fall = math32.Mod(fall, boxHeight)
	if fall < 0 {
		fall += boxHeight
	}
	return topY - fall
}

// SpeedFactor derives the per-particle fall speed multiplier from its seed.
func SpeedFactor(seed float32) float32 { return 0.5 + seed }

// Sway is the lateral offset of a particle from two phase-shifted sines.
func Sway(seed, t, freq, amount float32) (float32, float32) {
	p := seed * 2 * math32.Pi
	q := seed * 11
	x := math32.Sin(t*freq+p)*amount + math32.Sin(t*freq*0.5+q)*0.5*amount
	z := math32.Sin(t*freq+p+math32.Pi/2)*amount + math32.Sin(t*freq*0.5+q+math32.Pi/2)*0.5*amount
	return x, z
}

// Alpha fades a particle near the top and bottom of the volume.
func Alpha(y, bottom, top, band float32) float32 {
	return core.Smoothstep(bottom, bottom+band, y) * (1 - core.Smoothstep(top-band, top, y))
}

// PointSize attenuates the screen-space size with view-space depth.
func PointSize(size, scale, depth float32) float32 {
	if depth < 0.1 {
		depth = 0.1
	}
	return size * scale / depth
}

// Position returns the world position and alpha of particle i.
func (s *System) Position(i int) (math32.Vector3, float32) {
	p := s.particles[i]
	y := Height(s.cfg.TopY, p.Initial.Y, s.cfg.BoxHeight, s.time, s.style.Speed, SpeedFactor(p.Seed))
	dx, dz := Sway(p.Seed, s.time, s.cfg.SwayFreq, s.style.Sway)
	pos := math32.Vec3(s.origin.X+p.Initial.X+dx, y, s.origin.Z+p.Initial.Z+dz)
	return pos, Alpha(y, s.cfg.Bottom(), s.cfg.TopY, s.cfg.FadeBand)
}

// Each visits every particle with its current position and alpha.
func (s *System) Each(fn func(i int, pos math32.Vector3, alpha float32)) {
	for i := range s.particles {
		pos, a := s.Position(i)
		fn(i, pos, a)
	}
}
