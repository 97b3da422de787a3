package audio

import (
	"encoding/binary"
	"math"

	"github.com/gopxl/beep"
)

// PCM adapts a streamer to interleaved 16-bit little-endian stereo bytes.
type PCM struct {
	s   beep.Streamer
	buf [][2]float64
}

// NewPCM wraps s.
func NewPCM(s beep.Streamer) *PCM {
	return &PCM{s: s, buf: make([][2]float64, 1024)}
}

// Read fills p with whole frames. A drained streamer produces silence so
// the reader never ends.
func (p *PCM) Read(b []byte) (int, error) {
	frames := len(b) / 4
	written := 0
	for frames > 0 {
		k := min(frames, len(p.buf))
		buf := p.buf[:k]
		n, _ := p.s.Stream(buf)
		for i := n; i < k; i++ {
			buf[i] = [2]float64{}
		}
		for i := 0; i < k; i++ {
			for c := 0; c < 2; c++ {
				v := int16(math.Max(-1, math.Min(1, buf[i][c])) * math.MaxInt16)
				binary.LittleEndian.PutUint16(b[written:], uint16(v))
				written += 2
			}
		}
		frames -= k
	}
	return written, nil
}
