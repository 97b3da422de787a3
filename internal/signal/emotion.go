package signal

import (
	"fmt"
	"strings"
)

// Emotion is the discrete mood reported by the tracker.
type Emotion uint8

const (
	Calm Emotion = iota
	Happy
	Sad
)

// Emotions lists every emotion.
func Emotions() []Emotion { return []Emotion{Happy, Calm, Sad} }

func (e Emotion) String() string {
	switch e {
	case Happy:
		return "HAPPY"
	case Sad:
		return "SAD"
	case Calm:
		return "CALM"
	default:
		return fmt.Sprintf("Emotion(%d)", uint8(e))
	}
}

// ParseEmotion accepts a case-insensitive emotion name.
func ParseEmotion(s string) (Emotion, error) {
	for _, e := range Emotions() {
		if strings.EqualFold(s, e.String()) {
			return e, nil
		}
	}
	return Calm, fmt.Errorf("signal: unknown emotion %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (e Emotion) MarshalText() ([]byte, error) {
	if e > Sad {
		return nil, fmt.Errorf("signal: invalid emotion %d", uint8(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Emotion) UnmarshalText(b []byte) error {
	v, err := ParseEmotion(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
