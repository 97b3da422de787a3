package audio

import (
	"math"
	"sync/atomic"

	"github.com/gopxl/beep"
)

// Meter passes a stream through and tracks its loudness.
type Meter struct {
	s     beep.Streamer
	decay float64
	scale float64
	level atomic.Uint64
}

// NewMeter wraps s. Each buffer the level falls by decay unless the buffer
// RMS, multiplied by scale, is louder.
func NewMeter(s beep.Streamer, decay, scale float64) *Meter {
	return &Meter{s: s, decay: decay, scale: scale}
}

// Level is the current loudness in [0,1].
func (m *Meter) Level() float32 {
	return float32(math.Float64frombits(m.level.Load()))
}

func (m *Meter) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = m.s.Stream(samples)
	if n == 0 {
		return n, ok
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += samples[i][0]*samples[i][0] + samples[i][1]*samples[i][1]
	}
	rms := math.Sqrt(sum/float64(2*n)) * m.scale
	lvl := math.Float64frombits(m.level.Load()) * m.decay
	if rms > lvl {
		lvl = rms
	}
	m.level.Store(math.Float64bits(math.Min(lvl, 1)))
	return n, ok
}

func (m *Meter) Err() error { return m.s.Err() }
