// Package environ cross-fades the mood-driven look of the scene: grass
// colors, sun, weather style and halo.
package environ

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"

	"meadow/internal/core"
	"meadow/internal/signal"
	"meadow/internal/weather"
)

// ErrConfig reports an unusable blender configuration.
var ErrConfig = errors.New("environ: invalid config")

// Targets is one complete set of environment parameters.
type Targets struct {
	GrassBase   math32.Vector3 `yaml:"grass_base"`
	GrassTip    math32.Vector3 `yaml:"grass_tip"`
	Sun         math32.Vector3 `yaml:"sun"`
	Weather     weather.Style  `yaml:"weather"`
	HaloColor   math32.Vector3 `yaml:"halo_color"`
	HaloOpacity float32        `yaml:"halo_opacity"`
	BaseWind    float32        `yaml:"base_wind"`
}

// Table maps every emotion to its targets.
type Table struct {
	Happy Targets `yaml:"happy"`
	Calm  Targets `yaml:"calm"`
	Sad   Targets `yaml:"sad"`
}

// For returns the targets of e. Unknown values fall back to Calm.
func (t Table) For(e signal.Emotion) Targets {
	switch e {
	case signal.Happy:
		return t.Happy
	case signal.Sad:
		return t.Sad
	default:
		return t.Calm
	}
}

// DefaultTable returns the standard mood palette.
func DefaultTable() Table {
	return Table{
		Happy: Targets{
			GrassBase:   math32.Vec3(0.18, 0.45, 0.12),
			GrassTip:    math32.Vec3(0.66, 0.92, 0.32),
			Sun:         math32.Vec3(1, 0.92, 0.7),
			Weather:     weather.Style{Color: math32.Vec3(1, 0.82, 0.9), Speed: 1.2, Sway: 0.6, Size: 0.35},
			HaloColor:   math32.Vec3(1, 0.85, 0.5),
			HaloOpacity: 0.6,
			BaseWind:    0.9,
		},
		Calm: Targets{
			GrassBase:   math32.Vec3(0.12, 0.35, 0.15),
			GrassTip:    math32.Vec3(0.45, 0.75, 0.4),
			Sun:         math32.Vec3(0.95, 0.95, 0.9),
			Weather:     weather.Style{Color: math32.Vec3(1, 1, 0.85), Speed: 0.6, Sway: 0.3, Size: 0.25},
			HaloColor:   math32.Vec3(0.9, 0.9, 1),
			HaloOpacity: 0.35,
			BaseWind:    0.5,
		},
		Sad: Targets{
			GrassBase:   math32.Vec3(0.1, 0.2, 0.2),
			GrassTip:    math32.Vec3(0.3, 0.45, 0.5),
			Sun:         math32.Vec3(0.6, 0.65, 0.8),
			Weather:     weather.Style{Color: math32.Vec3(0.6, 0.7, 0.9), Speed: 6, Sway: 0.05, Size: 0.2},
			HaloColor:   math32.Vec3(0.5, 0.55, 0.7),
			HaloOpacity: 0.1,
			BaseWind:    0.3,
		},
	}
}

// Config holds the smoothing rates and the initial mood.
type Config struct {
	Rate          float32        `yaml:"rate"`
	HaloRate      float32        `yaml:"halo_rate"`
	SoundWindGain float32        `yaml:"sound_wind_gain"`
	Initial       signal.Emotion `yaml:"initial"`
	Table         Table          `yaml:"table"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Rate:          0.02,
		HaloRate:      0.05,
		SoundWindGain: 1.2,
		Initial:       signal.Calm,
		Table:         DefaultTable(),
	}
}

// Validate requires both rates in (0,1].
func (c Config) Validate() error {
	if c.Rate <= 0 || c.Rate > 1 {
		return fmt.Errorf("%w: rate %g not in (0,1]", ErrConfig, c.Rate)
	}
	if c.HaloRate <= 0 || c.HaloRate > 1 {
		return fmt.Errorf("%w: halo_rate %g not in (0,1]", ErrConfig, c.HaloRate)
	}
	if c.SoundWindGain < 0 {
		return fmt.Errorf("%w: sound_wind_gain %g", ErrConfig, c.SoundWindGain)
	}
	return nil
}

// Blender holds the live, smoothed environment.
type Blender struct {
	cfg     Config
	current Targets
	target  signal.Emotion
	wind    float32
}

// NewBlender starts fully settled on the initial mood.
func NewBlender(cfg Config) *Blender {
	b := &Blender{cfg: cfg}
	b.Reset()
	return b
}

// Reset snaps the live values to the initial mood.
func (b *Blender) Reset() {
	b.target = b.cfg.Initial
	b.current = b.cfg.Table.For(b.target)
	b.wind = b.current.BaseWind
}

// SetRate adjusts the general smoothing rate at runtime.
func (b *Blender) SetRate(r float32) { b.cfg.Rate = r }

// SetSoundWindGain adjusts the amplitude-to-wind gain at runtime.
func (b *Blender) SetSoundWindGain(g float32) { b.cfg.SoundWindGain = g }

// Config returns the active configuration.
func (b *Blender) Config() Config { return b.cfg }

// Current returns the live values.
func (b *Blender) Current() Targets { return b.current }

// Target returns the mood the blender is moving toward.
func (b *Blender) Target() signal.Emotion { return b.target }

// Wind is the wind strength from the last Step.
func (b *Blender) Wind() float32 { return b.wind }

// Step moves every live value one smoothing step toward the targets for e.
// Wind is the smoothed base plus the instantaneous amplitude contribution.
func (b *Blender) Step(e signal.Emotion, amplitude float32) {
	b.target = e
	tgt := b.cfg.Table.For(e)
	r := b.cfg.Rate
	c := &b.current
	c.GrassBase = core.ApproachVec(c.GrassBase, tgt.GrassBase, r)
	c.GrassTip = core.ApproachVec(c.GrassTip, tgt.GrassTip, r)
	c.Sun = core.ApproachVec(c.Sun, tgt.Sun, r)
	c.Weather.Color = core.ApproachVec(c.Weather.Color, tgt.Weather.Color, r)
	c.Weather.Speed = core.Approach(c.Weather.Speed, tgt.Weather.Speed, r)
	c.Weather.Sway = core.Approach(c.Weather.Sway, tgt.Weather.Sway, r)
	c.Weather.Size = core.Approach(c.Weather.Size, tgt.Weather.Size, r)
	c.HaloColor = core.ApproachVec(c.HaloColor, tgt.HaloColor, r)
	c.HaloOpacity = core.Approach(c.HaloOpacity, tgt.HaloOpacity, b.cfg.HaloRate)
	c.BaseWind = core.Approach(c.BaseWind, tgt.BaseWind, r)
	b.wind = c.BaseWind + math32.Clamp(amplitude, 0, 1)*b.cfg.SoundWindGain
}
