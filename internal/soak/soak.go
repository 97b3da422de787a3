// Package soak runs headless meadow sessions under the scripted pilot and
// reports how they went.
package soak

import (
	"errors"
	"fmt"
	"sync"

	"cogentcore.org/core/math32"

	"meadow/internal/core"
	"meadow/internal/scene"
	"meadow/internal/signal"
	"meadow/internal/tuning"
)

// Result summarizes one run.
type Result struct {
	Seed      int64
	Ticks     uint64
	Pickups   uint64
	GameOver  bool
	Distance  float32
	// Leaked counts render resources still live after Close.
	Leaked    int
	Err       error
}

// Run plays one session for at most ticks ticks with the pilot seeded by
// seed. The world seed is tn.Seed + seed.
func Run(tn tuning.Tuning, seed int64, ticks int) Result {
	tn.Seed += seed
	res := Result{Seed: tn.Seed}
	hooks := scene.Hooks{
		OnCollectShard: func(int) { res.Pickups++ },
	}
	s, err := scene.New(tn, hooks, nil)
	if err != nil {
		res.Err = err
		return res
	}

	pilot := signal.NewWander(seed, tn.Thresholds())
	latest := &signal.Latest{}
	s.Attach(scene.Sources{Tracking: latest})
	dt := 1 / float32(tn.TickRate)
	for i := 0; i < ticks; i++ {
		latest.Store(pilot.Frame(float32(i) * dt))
		err := s.Step()
		if errors.Is(err, scene.ErrGameOver) {
			res.GameOver = true
			break
		}
		if err != nil {
			res.Err = err
			break
		}
	}
	_ = s.Read(func(v scene.View) {
		res.Ticks = v.Ticks
		res.Distance = core.PlanarDistance(v.Player.Position, math32.Vector3{})
	})
	if err := s.Close(); err != nil && res.Err == nil {
		res.Err = err
	}
	res.Leaked = s.Registry().Live()
	return res
}

// Sweep runs count sessions with pilot seeds 0..count-1 on up to workers
// goroutines. Results are in seed order.
func Sweep(tn tuning.Tuning, count, ticks, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, count)
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i := 0; i < count; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			results[i] = Run(tn, int64(i), ticks)
			<-sem
		}(i)
	}
	wg.Wait()
	return results
}

// Summary aggregates a sweep.
type Summary struct {
	Runs      int
	Failed    int
	GameOvers int
	Pickups   uint64
	MeanTicks float64
	MaxTicks  uint64
}

// Summarize folds results into a Summary.
func Summarize(rs []Result) Summary {
	var s Summary
	var total uint64
	for _, r := range rs {
		s.Runs++
		if r.Err != nil {
			s.Failed++
			continue
		}
		if r.GameOver {
			s.GameOvers++
		}
		s.Pickups += r.Pickups
		total += r.Ticks
		s.MaxTicks = max(s.MaxTicks, r.Ticks)
	}
	if ok := s.Runs - s.Failed; ok > 0 {
		s.MeanTicks = float64(total) / float64(ok)
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("runs=%d failed=%d game_overs=%d pickups=%d mean_ticks=%.1f max_ticks=%d",
		s.Runs, s.Failed, s.GameOvers, s.Pickups, s.MeanTicks, s.MaxTicks)
}
