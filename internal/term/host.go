package term

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep/speaker"

	"meadow/internal/app"
	"meadow/internal/core"
	"meadow/internal/scene"
	"meadow/internal/signal"
	"meadow/internal/ui"
)

// holdFor is how long a key counts as held after its last repeat. Terminals
// report presses only, so holds are inferred from key repeat.
const holdFor = 150 * time.Millisecond

// Host runs a session in a tcell screen.
type Host struct {
	sess   *app.Session
	screen tcell.Screen
	raster *Raster
	log    *log.Logger

	held    map[string]time.Time
	emotion *signal.Emotion
	audio   bool
}

// New initializes the screen and, unless the session is muted, the speaker.
func New(sess *app.Session, logger *log.Logger) (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	w, h := screen.Size()
	host := &Host{
		sess:   sess,
		screen: screen,
		raster: NewRaster(w, h-1),
		log:    logger,
		held:   map[string]time.Time{},
	}
	if sess.Audio != nil {
		sr := sess.Audio.SampleRate()
		if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
			logger.Printf("audio: %v", err)
		} else {
			speaker.Play(sess.Audio)
			host.audio = true
		}
	}
	return host, nil
}

// forward moves polled events into events until poll returns nil or done
// closes.
func forward(poll func() tcell.Event, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Run drives the session until Esc, Ctrl-C or ctx ends.
func (h *Host) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go forward(h.screen.PollEvent, events, done)

	step := core.NewFixedStep(h.sess.Tuning.TickRate)
	ticker := time.NewTicker(step.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			quit, err := h.handle(ev)
			if err != nil || quit {
				return err
			}
		case now := <-ticker.C:
			if !step.ShouldStep() {
				continue
			}
			h.sess.Keys(h.keys(now))
			if err := h.sess.Step(); err != nil && !errors.Is(err, scene.ErrGameOver) {
				return err
			}
			h.draw()
		}
	}
}

func (h *Host) handle(ev tcell.Event) (quit bool, err error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, hh := h.screen.Size()
		h.raster.Resize(w, hh-1)
		h.screen.Sync()
	case *tcell.EventKey:
		now := time.Now()
		sc := h.sess.Scene
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true, nil
		case tcell.KeyLeft:
			h.held["left"] = now
		case tcell.KeyRight:
			h.held["right"] = now
		case tcell.KeyUp:
			h.held["near"] = now
		case tcell.KeyDown:
			h.held["far"] = now
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'a':
				h.held["left"] = now
			case 'd':
				h.held["right"] = now
			case 'w':
				h.held["near"] = now
			case 's':
				h.held["far"] = now
			case 'f':
				h.held["fist"] = now
			case '1', '2', '3':
				e := []signal.Emotion{signal.Happy, signal.Calm, signal.Sad}[ev.Rune()-'1']
				h.emotion = &e
			case 'k':
				sc.Selection().CycleSkin()
			case 'c':
				sc.Selection().CycleCompanion()
			case 'p', ' ':
				core.TogglePause(sc)
			case 'r':
				if sc.GameOver() {
					return false, sc.Reset(h.sess.Tuning.Seed)
				}
			case 'q':
				return true, nil
			}
		}
	}
	return false, nil
}

func (h *Host) keys(now time.Time) app.Keys {
	on := func(name string) bool {
		t, ok := h.held[name]
		return ok && now.Sub(t) < holdFor
	}
	k := app.Keys{Left: on("left"), Right: on("right"), Near: on("near"), Far: on("far"), Fist: on("fist"), Emotion: h.emotion}
	h.emotion = nil
	return k
}

func (h *Host) draw() {
	var status, banner string
	_ = h.sess.Scene.Read(func(v scene.View) {
		h.raster.Draw(v)
		status = ui.Status(v)
		banner = ui.Banner(v)
	})
	r := h.raster
	for y := 0; y < r.Rows; y++ {
		for x := 0; x < r.Cols; x++ {
			c := r.At(x, y)
			st := tcell.StyleDefault.Foreground(rgb(c.FG)).Background(rgb(c.BG))
			h.screen.SetContent(x, y, c.Rune, nil, st)
		}
	}
	h.text(0, r.Rows, fmt.Sprintf(" %s ", status), tcell.StyleDefault.Reverse(true))
	if banner != "" {
		h.text((r.Cols-len(banner))/2, r.Rows/2, banner, tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack).Bold(true))
	}
	h.screen.Show()
}

func (h *Host) text(x, y int, s string, st tcell.Style) {
	for _, ch := range s {
		h.screen.SetContent(x, y, ch, nil, st)
		x++
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Close restores the terminal and stops the speaker.
func (h *Host) Close() {
	if h.audio {
		speaker.Close()
	}
	h.screen.Fini()
}
