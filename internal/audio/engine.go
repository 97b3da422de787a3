// Package audio synthesizes the ambient soundscape and measures its
// loudness for the wind model.
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// ErrConfig reports an unusable audio configuration.
var ErrConfig = errors.New("audio: invalid config")

// Config holds the synthesis constants.
type Config struct {
	SampleRate    int           `yaml:"sample_rate"`
	Volume        float64       `yaml:"volume"`
	WindGain      float64       `yaml:"wind_gain"`
	WindCutoff    float64       `yaml:"wind_cutoff"`
	GustRate      float64       `yaml:"gust_rate"`
	GustDepth     float64       `yaml:"gust_depth"`
	ChimeFreq     float64       `yaml:"chime_freq"`
	ChimeDuration time.Duration `yaml:"chime_duration"`
	MeterDecay    float64       `yaml:"meter_decay"`
	MeterScale    float64       `yaml:"meter_scale"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:    44100,
		Volume:        0,
		WindGain:      0.25,
		WindCutoff:    0.02,
		GustRate:      0.7,
		GustDepth:     0.8,
		ChimeFreq:     880,
		ChimeDuration: 350 * time.Millisecond,
		MeterDecay:    0.92,
		MeterScale:    3,
	}
}

// Validate checks ranges.
func (c Config) Validate() error {
	var errs []error
	if c.SampleRate < 8000 {
		errs = append(errs, fmt.Errorf("%w: sample_rate %d", ErrConfig, c.SampleRate))
	}
	if c.WindCutoff <= 0 || c.WindCutoff > 1 {
		errs = append(errs, fmt.Errorf("%w: wind_cutoff %g not in (0,1]", ErrConfig, c.WindCutoff))
	}
	if c.GustDepth < 0 || c.GustDepth > 1 {
		errs = append(errs, fmt.Errorf("%w: gust_depth %g not in [0,1]", ErrConfig, c.GustDepth))
	}
	if c.MeterDecay < 0 || c.MeterDecay >= 1 {
		errs = append(errs, fmt.Errorf("%w: meter_decay %g not in [0,1)", ErrConfig, c.MeterDecay))
	}
	if c.ChimeFreq <= 0 || float64(c.SampleRate)/2 <= c.ChimeFreq {
		errs = append(errs, fmt.Errorf("%w: chime_freq %g", ErrConfig, c.ChimeFreq))
	}
	return errors.Join(errs...)
}

// Wind is low-passed noise with an optional gust LFO on its gain.
type Wind struct {
	sr     beep.SampleRate
	gain   float64
	cutoff float64
	rate   float64
	depth  float64

	gusty atomic.Bool
	seed  uint32
	lp    [2]float64
	phase float64
}

// NewWind creates the wind bed.
func NewWind(sr beep.SampleRate, cfg Config) *Wind {
	return &Wind{sr: sr, gain: cfg.WindGain, cutoff: cfg.WindCutoff, rate: cfg.GustRate, depth: cfg.GustDepth, seed: 0x9e3779b9}
}

// SetGusty switches the gust modulation on or off.
func (w *Wind) SetGusty(on bool) { w.gusty.Store(on) }

// Gusty reports whether gust modulation is active.
func (w *Wind) Gusty() bool { return w.gusty.Load() }

func (w *Wind) noise() float64 {
	w.seed ^= w.seed << 13
	w.seed ^= w.seed >> 17
	w.seed ^= w.seed << 5
	return float64(w.seed)/float64(math.MaxUint32)*2 - 1
}

func (w *Wind) Stream(samples [][2]float64) (n int, ok bool) {
	gusty := w.gusty.Load()
	step := w.rate / float64(w.sr)
	for i := range samples {
		g := w.gain
		if gusty {
			g *= 1 - w.depth*0.5*(1-math.Sin(2*math.Pi*w.phase))
			w.phase += step
			w.phase -= math.Floor(w.phase)
		}
		for c := 0; c < 2; c++ {
			w.lp[c] += (w.noise() - w.lp[c]) * w.cutoff
			samples[i][c] = w.lp[c] * g * 4
		}
	}
	return len(samples), true
}

func (w *Wind) Err() error { return nil }

// decay shapes a streamer with a short attack and an exponential tail.
type decay struct {
	s      beep.Streamer
	sr     beep.SampleRate
	pos    int
	attack int
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.s.Stream(samples)
	for i := 0; i < n; i++ {
		env := math.Exp(-float64(d.pos) / float64(d.sr) * 9)
		if d.pos < d.attack {
			env *= float64(d.pos) / float64(d.attack)
		}
		samples[i][0] *= env * 0.3
		samples[i][1] *= env * 0.3
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.s.Err() }

// Engine is the complete mix: wind bed plus pickup chimes behind a master
// volume and a loudness meter.
type Engine struct {
	cfg Config
	sr  beep.SampleRate

	mu      sync.Mutex
	wind    *Wind
	chimes  *beep.Mixer
	mix     *beep.Mixer
	meter   *Meter
	scratch [][2]float64
}

// NewEngine builds the audio graph.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sr := beep.SampleRate(cfg.SampleRate)
	e := &Engine{
		cfg:    cfg,
		sr:     sr,
		wind:   NewWind(sr, cfg),
		chimes: &beep.Mixer{},
		mix:    &beep.Mixer{},
	}
	e.mix.Add(e.wind, e.chimes)
	vol := &effects.Volume{Streamer: e.mix, Base: 2, Volume: cfg.Volume}
	e.meter = NewMeter(vol, cfg.MeterDecay, cfg.MeterScale)
	return e, nil
}

// SampleRate is the engine output rate.
func (e *Engine) SampleRate() beep.SampleRate { return e.sr }

// SetFist drives the gusty wind branch from the fist gesture.
func (e *Engine) SetFist(on bool) { e.wind.SetGusty(on) }

// Gusty reports the wind branch state.
func (e *Engine) Gusty() bool { return e.wind.Gusty() }

// Chime queues a pickup chime.
func (e *Engine) Chime() error {
	tone, err := generators.SineTone(e.sr, e.cfg.ChimeFreq)
	if err != nil {
		return err
	}
	s := beep.Take(e.sr.N(e.cfg.ChimeDuration), &decay{s: tone, sr: e.sr, attack: e.sr.N(5 * time.Millisecond)})
	e.mu.Lock()
	e.chimes.Add(s)
	e.mu.Unlock()
	return nil
}

// ActiveChimes is the number of chimes still sounding.
func (e *Engine) ActiveChimes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chimes.Len()
}

// Level is the metered loudness in [0,1].
func (e *Engine) Level() float32 { return e.meter.Level() }

func (e *Engine) Stream(samples [][2]float64) (n int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.meter.Stream(samples)
}

func (e *Engine) Err() error { return nil }

// Pump advances the graph by n samples without an output device.
func (e *Engine) Pump(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for n > 0 {
		if cap(e.scratch) == 0 {
			e.scratch = make([][2]float64, 512)
		}
		k := min(n, len(e.scratch))
		e.meter.Stream(e.scratch[:k])
		n -= k
	}
}

// PumpFor advances the graph by d of audio time.
func (e *Engine) PumpFor(d time.Duration) { e.Pump(e.sr.N(d)) }
