package signal

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Source fills a Latest slot until its context ends.
type Source interface {
	Run(ctx context.Context, dst *Latest) error
}

// WebSocketSource reads tracker frames from a websocket endpoint.
type WebSocketSource struct {
	URL         string
	Backoff     time.Duration
	ReadTimeout time.Duration
	Dialer      *websocket.Dialer
	Validator   *Validator
	Logger      *log.Logger

	rejected atomic.Uint64
}

// NewWebSocketSource returns a source with the default timings.
func NewWebSocketSource(url string, logger *log.Logger) (*WebSocketSource, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &WebSocketSource{
		URL:         url,
		Backoff:     2 * time.Second,
		ReadTimeout: 5 * time.Second,
		Dialer:      websocket.DefaultDialer,
		Validator:   v,
		Logger:      logger,
	}, nil
}

// Rejected counts messages dropped by validation.
func (s *WebSocketSource) Rejected() uint64 { return s.rejected.Load() }

// Run connects, reads and reconnects with a fixed backoff. A lost
// connection clears dst so the scene idles on neutral input.
func (s *WebSocketSource) Run(ctx context.Context, dst *Latest) error {
	for {
		err := s.session(ctx, dst)
		if ctx.Err() != nil {
			return nil
		}
		dst.Clear()
		s.Logger.Printf("tracker %s: %v; retrying in %s", s.URL, err, s.Backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.Backoff):
		}
	}
}

func (s *WebSocketSource) session(ctx context.Context, dst *Latest) error {
	conn, _, err := s.Dialer.DialContext(ctx, s.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	s.Logger.Printf("tracker connected: %s", s.URL)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(s.ReadTimeout))
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("closed by peer")
			}
			return err
		}
		if kind != websocket.TextMessage {
			continue
		}
		f, err := s.Validator.Decode(msg)
		if err != nil {
			if s.rejected.Add(1) == 1 {
				s.Logger.Printf("tracker: %v", err)
			}
			continue
		}
		dst.Store(f)
	}
}
