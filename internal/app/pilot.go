package app

import (
	"cogentcore.org/core/math32"

	"meadow/internal/signal"
)

// Keys is the keyboard state sampled once per frame.
type Keys struct {
	Left, Right bool
	Near, Far   bool
	Fist        bool
	// Emotion is set when a mood key was pressed this frame.
	Emotion *signal.Emotion
}

// Manual turns held keys into tracker frames for sessions without a
// tracker. The hand eases toward the held direction so steering feels like
// a real hand.
type Manual struct {
	th      signal.Thresholds
	x, size float32
	emotion signal.Emotion
}

// NewManual starts at the neutral pose.
func NewManual(th signal.Thresholds) *Manual {
	return &Manual{th: th, size: th.NeutralSize}
}

// Frame advances the pose by one frame and returns it.
func (m *Manual) Frame(k Keys) signal.Frame {
	const (
		ease     = 0.12
		sizeStep = 0.004
		sizeSpan = 0.15
	)
	target := float32(0)
	if k.Left {
		target--
	}
	if k.Right {
		target++
	}
	m.x += (target - m.x) * ease
	switch {
	case k.Near:
		m.size += sizeStep
	case k.Far:
		m.size -= sizeStep
	default:
		m.size += (m.th.NeutralSize - m.size) * ease
	}
	m.size = math32.Clamp(m.size, m.th.NeutralSize-sizeSpan, m.th.NeutralSize+sizeSpan)
	if k.Emotion != nil {
		m.emotion = *k.Emotion
	}
	return signal.Frame{
		Emotion:      m.emotion.String(),
		HandPosition: &signal.Hand{X: m.x},
		HandSize:     signal.Float(m.size),
		IsFist:       k.Fist,
	}
}
