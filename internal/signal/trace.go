package signal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Entry is one recorded frame with its session time in seconds.
type Entry struct {
	T     float64 `json:"t"`
	Frame *Frame  `json:"frame"`
}

// Recorder writes a zstd-compressed JSON-lines trace of tracker input.
type Recorder struct {
	mu   sync.Mutex
	enc  *zstd.Encoder
	w    *bufio.Writer
	last uint64
	n    int
}

// NewRecorder starts a trace on w. Closing the recorder does not close w.
func NewRecorder(w io.Writer) (*Recorder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	return &Recorder{enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Record appends one entry. A nil frame records a tracking gap.
func (r *Recorder) Record(t float64, f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enc == nil {
		return io.ErrClosedPipe
	}
	b, err := json.Marshal(Entry{T: t, Frame: f})
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	r.n++
	return r.w.WriteByte('\n')
}

// Observe records the current frame of l when it changed since the last
// call.
func (r *Recorder) Observe(t float64, l *Latest) error {
	u := l.Updates()
	r.mu.Lock()
	changed := u != r.last
	r.last = u
	r.mu.Unlock()
	if !changed {
		return nil
	}
	return r.Record(t, l.Load())
}

// Len is the number of entries written.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Close flushes and finishes the zstd stream.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enc == nil {
		return nil
	}
	err := r.w.Flush()
	if cerr := r.enc.Close(); err == nil {
		err = cerr
	}
	r.enc, r.w = nil, nil
	return err
}

// ReplaySource plays a recorded trace back. Pace scales recorded time;
// zero means no waiting at all.
type ReplaySource struct {
	Pace float64

	dec *zstd.Decoder
	sc  *bufio.Scanner
	ln  int
}

// NewReplaySource reads a trace from rd.
func NewReplaySource(rd io.Reader, pace float64) (*ReplaySource, error) {
	dec, err := zstd.NewReader(rd)
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &ReplaySource{Pace: pace, dec: dec, sc: sc}, nil
}

// Next returns the following entry, or io.EOF at the end of the trace.
func (p *ReplaySource) Next() (Entry, error) {
	for p.sc.Scan() {
		p.ln++
		line := p.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return Entry{}, fmt.Errorf("signal: trace line %d: %w", p.ln, err)
		}
		return e, nil
	}
	if err := p.sc.Err(); err != nil {
		return Entry{}, err
	}
	return Entry{}, io.EOF
}

// Run publishes every entry into dst at the recorded pace. It returns nil
// at the end of the trace or when ctx ends.
func (p *ReplaySource) Run(ctx context.Context, dst *Latest) error {
	defer p.dec.Close()
	start := time.Now()
	for {
		e, err := p.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if p.Pace > 0 {
			due := start.Add(time.Duration(e.T / p.Pace * float64(time.Second)))
			if wait := time.Until(due); wait > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(wait):
				}
			}
		} else if ctx.Err() != nil {
			return nil
		}
		if e.Frame == nil {
			dst.Clear()
		} else {
			dst.Store(*e.Frame)
		}
	}
}

// Close releases the decoder.
func (p *ReplaySource) Close() { p.dec.Close() }
