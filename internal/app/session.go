package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"meadow/internal/audio"
	"meadow/internal/scene"
	"meadow/internal/signal"
	"meadow/internal/tuning"
)

// Session wires a scene to its signal source, audio engine and trace
// recorder. Hosts own the loop; the session owns everything else.
type Session struct {
	Tuning tuning.Tuning
	Scene  *scene.Scene
	Latest *signal.Latest
	// Audio is nil when muted.
	Audio *audio.Engine

	source   signal.Source
	manual   *Manual
	recorder *signal.Recorder
	files    []io.Closer
	log      *log.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	once   sync.Once
}

// LoadTuning reads the tuning file, if any, and applies the overrides.
func LoadTuning(cfg *Config) (tuning.Tuning, error) {
	tn := tuning.Default()
	if cfg.Tuning != "" {
		var err error
		if tn, err = tuning.Load(cfg.Tuning); err != nil {
			return tn, err
		}
	}
	for _, kv := range cfg.Sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return tn, fmt.Errorf("app: override %q is not key=value", kv)
		}
		if err := tn.Set(key, value); err != nil {
			return tn, err
		}
	}
	if cfg.Seed != 0 {
		tn.Seed = cfg.Seed
	}
	return tn, tn.Validate()
}

// Open builds a session from cfg. Nothing runs until Start.
func Open(cfg *Config, hooks scene.Hooks, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	tn, err := LoadTuning(cfg)
	if err != nil {
		return nil, err
	}
	s := &Session{Tuning: tn, Latest: &signal.Latest{}, log: logger}
	if err := s.openSource(cfg); err != nil {
		s.closeFiles()
		return nil, err
	}
	if cfg.Record != "" {
		f, err := os.Create(cfg.Record)
		if err != nil {
			s.closeFiles()
			return nil, err
		}
		s.files = append(s.files, f)
		if s.recorder, err = signal.NewRecorder(f); err != nil {
			s.closeFiles()
			return nil, err
		}
	}
	if !cfg.Mute {
		if s.Audio, err = audio.NewEngine(tn.Audio); err != nil {
			s.closeFiles()
			return nil, err
		}
	}
	if s.Scene, err = scene.New(tn, hooks, logger); err != nil {
		s.closeFiles()
		return nil, err
	}
	src := scene.Sources{Tracking: s.Latest}
	if s.Audio != nil {
		src.Audio = s.Audio
	}
	s.Scene.Attach(src)
	return s, nil
}

func (s *Session) openSource(cfg *Config) error {
	switch {
	case cfg.Replay != "":
		f, err := os.Open(cfg.Replay)
		if err != nil {
			return err
		}
		s.files = append(s.files, f)
		rs, err := signal.NewReplaySource(f, cfg.Pace)
		if err != nil {
			return err
		}
		s.source = rs
		s.log.Printf("signal: replaying %s at %.2fx", cfg.Replay, cfg.Pace)
	case cfg.Tracker != "":
		ws, err := signal.NewWebSocketSource(cfg.Tracker, s.log)
		if err != nil {
			return err
		}
		s.source = ws
		s.log.Printf("signal: tracker %s", cfg.Tracker)
	case cfg.Demo:
		s.source = signal.NewWander(s.Tuning.Seed, s.Tuning.Thresholds())
		s.log.Printf("signal: scripted pilot")
	default:
		s.manual = NewManual(s.Tuning.Thresholds())
		s.log.Printf("signal: keyboard")
	}
	return nil
}

// Manual reports whether the keyboard drives the signal.
func (s *Session) Manual() bool { return s.manual != nil }

// Keys feeds one frame of keyboard state when no source is attached.
func (s *Session) Keys(k Keys) {
	if s.manual == nil {
		return
	}
	s.Latest.Store(s.manual.Frame(k))
}

// Start launches the signal source.
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	if s.source == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.source.Run(ctx, s.Latest); err != nil {
			s.log.Printf("signal: %v", err)
		}
	}()
}

// Step advances the scene one tick and records the signal if it changed.
func (s *Session) Step() error {
	err := s.Scene.Step()
	if s.recorder != nil {
		var t float64
		_ = s.Scene.Read(func(v scene.View) { t = float64(v.Time) })
		if rerr := s.recorder.Observe(t, s.Latest); rerr != nil {
			s.log.Printf("record: %v", rerr)
		}
	}
	return err
}

// Close stops the source and releases the scene, recorder and files.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()
		var errs []error
		if s.Scene != nil {
			errs = append(errs, s.Scene.Close())
		}
		if s.recorder != nil {
			errs = append(errs, s.recorder.Close())
			s.log.Printf("record: %d entries", s.recorder.Len())
		}
		errs = append(errs, s.closeFiles())
		err = errors.Join(errs...)
	})
	return err
}

func (s *Session) closeFiles() error {
	var errs []error
	for i := len(s.files) - 1; i >= 0; i-- {
		errs = append(errs, s.files[i].Close())
	}
	s.files = nil
	return errors.Join(errs...)
}
