// Package signal carries tracking input from the face/hand tracker into the
// scene: the wire frame, its neutral-safe normalization, a lock-free latest
// slot and the sources that fill it.
package signal

import (
	"sync/atomic"

	"cogentcore.org/core/math32"
)

// Hand is the tracked hand position in normalized [-1,1] screen space.
type Hand struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Frame is one tracker message. Pointer fields are nil when the tracker saw
// no face or no hand.
type Frame struct {
	Emotion        string   `json:"emotion,omitempty"`
	MouthCurvature *float32 `json:"mouthCurvature,omitempty"`
	HandPosition   *Hand    `json:"handPosition"`
	HandSize       *float32 `json:"handSize"`
	IsFist         bool     `json:"isFist"`
}

// Thresholds holds the tuned classification constants.
type Thresholds struct {
	Smile       float32 `yaml:"smile"`
	Frown       float32 `yaml:"frown"`
	NeutralSize float32 `yaml:"-"`
}

// DefaultThresholds returns the standard thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Smile: 0.02, Frown: -0.015, NeutralSize: 0.15}
}

// Snapshot is the per-tick, fully populated view of the tracker state.
type Snapshot struct {
	Emotion        Emotion
	MouthCurvature float32
	Hand           Hand
	HandSize       float32
	IsFist         bool
	HasFace        bool
	HasHand        bool
}

// Neutral is the idle snapshot used whenever nothing was tracked.
func Neutral(th Thresholds) Snapshot {
	return Snapshot{Emotion: Calm, HandSize: th.NeutralSize}
}

// Classify maps mouth curvature to an emotion.
func Classify(curvature float32, th Thresholds) Emotion {
	switch {
	case curvature > th.Smile:
		return Happy
	case curvature < th.Frown:
		return Sad
	default:
		return Calm
	}
}

// Normalize fills every missing field of f with its neutral value. A nil
// frame yields the neutral snapshot.
func Normalize(f *Frame, th Thresholds) Snapshot {
	s := Neutral(th)
	if f == nil {
		return s
	}
	if f.MouthCurvature != nil {
		s.HasFace = true
		s.MouthCurvature = *f.MouthCurvature
	}
	if e, err := ParseEmotion(f.Emotion); err == nil {
		s.Emotion = e
		s.HasFace = true
	} else if s.HasFace {
		s.Emotion = Classify(s.MouthCurvature, th)
	}
	if f.HandPosition != nil {
		s.HasHand = true
		s.Hand = Hand{
			X: math32.Clamp(f.HandPosition.X, -1, 1),
			Y: math32.Clamp(f.HandPosition.Y, -1, 1),
		}
		if f.HandSize != nil {
			s.HandSize = *f.HandSize
		}
		s.IsFist = f.IsFist
	}
	return s
}

// Latest is the last-write-wins slot between a source goroutine and the
// tick loop.
type Latest struct {
	p       atomic.Pointer[Frame]
	updates atomic.Uint64
}

// Store publishes f.
func (l *Latest) Store(f Frame) {
	l.p.Store(&f)
	l.updates.Add(1)
}

// Clear drops the stored frame so readers see the neutral snapshot.
func (l *Latest) Clear() {
	l.p.Store(nil)
	l.updates.Add(1)
}

// Load returns the last published frame, or nil.
func (l *Latest) Load() *Frame { return l.p.Load() }

// Updates counts Store and Clear calls.
func (l *Latest) Updates() uint64 { return l.updates.Load() }

// Snapshot normalizes the last published frame.
func (l *Latest) Snapshot(th Thresholds) Snapshot { return Normalize(l.Load(), th) }

// Float is a helper for building frames with optional numbers.
func Float(v float32) *float32 { return &v }
