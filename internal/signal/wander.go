package signal

import (
	"context"
	"time"

	"cogentcore.org/core/math32"

	"meadow/internal/core"
)

// Wander is a scripted pilot that produces plausible tracker frames as a
// pure function of time. Two pilots with the same seed agree exactly.
type Wander struct {
	th                     Thresholds
	steer, depth, mood, fp float32
}

// NewWander derives the pilot phases from seed.
func NewWander(seed int64, th Thresholds) *Wander {
	rng := core.NewRNG(seed)
	return &Wander{th: th, steer: rng.Angle(), depth: rng.Angle(), mood: rng.Angle(), fp: rng.Angle()}
}

// Frame is the pilot input at time t seconds.
func (w *Wander) Frame(t float32) Frame {
	sin := math32.Sin
	x := 0.6*sin(0.23*t+w.steer) + 0.25*sin(1.1*t)
	size := w.th.NeutralSize + 0.05 + 0.08*sin(0.07*t+w.depth)
	curv := 0.04 * sin(0.05*t+w.mood)
	return Frame{
		MouthCurvature: Float(curv),
		HandPosition:   &Hand{X: math32.Clamp(x, -1, 1), Y: 0.3 * sin(0.5*t)},
		HandSize:       Float(size),
		IsFist:         sin(0.4*t+w.fp) > 0.95,
	}
}

// Run publishes a frame every interval until ctx ends.
func (w *Wander) Run(ctx context.Context, dst *Latest) error {
	const interval = 33 * time.Millisecond
	start := time.Now()
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-tick.C:
			dst.Store(w.Frame(float32(now.Sub(start).Seconds())))
		}
	}
}
