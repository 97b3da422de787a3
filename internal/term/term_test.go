package term

import (
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/gdamore/tcell/v2"

	"meadow/internal/scene"
	"meadow/internal/tuning"
)

func TestRasterRoundTrip(t *testing.T) {
	r := NewRaster(40, 20)
	center := math32.Vec3(7, 0, -3)
	for _, c := range [][2]int{{0, 0}, {39, 19}, {20, 10}, {5, 17}} {
		w := r.World(c[0], c[1], center)
		x, y, ok := r.Cell(w, center)
		if !ok || x != c[0] || y != c[1] {
			t.Fatalf("cell %v -> %v -> (%d, %d, %v)", c, w, x, y, ok)
		}
	}
	if _, _, ok := r.Cell(math32.Vec3(1000, 0, 0), center); ok {
		t.Fatalf("far point mapped onto the raster")
	}
	x, y, ok := r.Cell(center, center)
	if !ok || x != 20 || y != 10 {
		t.Fatalf("center at (%d, %d, %v)", x, y, ok)
	}
}

func TestRasterResize(t *testing.T) {
	r := NewRaster(10, 10)
	r.Resize(4, 3)
	if len(r.Cells) != 12 {
		t.Fatalf("cells %d", len(r.Cells))
	}
	r.Resize(-1, 5)
	if len(r.Cells) != 0 || r.Cols != 0 {
		t.Fatalf("negative size not clamped: %d cols", r.Cols)
	}
}

func TestRasterDrawsPlayer(t *testing.T) {
	tn := tuning.Default()
	tn.Field.Extent = 100
	tn.Field.ChunkSize = 50
	tn.Field.InstancesPerChunk = 8
	tn.Weather.Count = 8
	tn.Shards.Count = 4
	s, err := scene.New(tn, scene.Hooks{}, nil)
	if err != nil {
		t.Fatalf("new scene: %v", err)
	}
	defer s.Close()
	if err := s.Tick(scene.Inputs{}); err != nil {
		t.Fatalf("tick: %v", err)
	}
	r := NewRaster(30, 12)
	_ = s.Read(func(v scene.View) { r.Draw(v) })
	if c := r.At(15, 6); c.Rune != '@' {
		t.Fatalf("center cell %q, want player", c.Rune)
	}
	for i, c := range r.Cells {
		if c.Rune == 0 || c.BG.A != 255 {
			t.Fatalf("cell %d not painted: %+v", i, c)
		}
	}
}

func TestBladeRune(t *testing.T) {
	if bladeRune(0) != '|' || bladeRune(1) != '/' || bladeRune(-1) != '\\' {
		t.Fatalf("blade glyphs wrong")
	}
}

func TestForwardDeliversThenStopsOnDone(t *testing.T) {
	poll := func() tcell.Event { return tcell.NewEventInterrupt(nil) }
	events := make(chan tcell.Event)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		forward(poll, events, done)
		close(exited)
	}()

	select {
	case <-events:
	case <-time.After(time.Second):
		t.Fatalf("no event forwarded")
	}
	close(done)
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatalf("forward blocked on send after done closed")
	}
}

func TestForwardStopsWhenPollEnds(t *testing.T) {
	n := 0
	poll := func() tcell.Event {
		n++
		if n > 3 {
			return nil
		}
		return tcell.NewEventInterrupt(n)
	}
	events := make(chan tcell.Event, 10)
	forward(poll, events, make(chan struct{}))
	if len(events) != 3 {
		t.Fatalf("forwarded %d events, want 3", len(events))
	}
}
