//go:build ebiten

package app

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"meadow/internal/audio"
	"meadow/internal/core"
	"meadow/internal/render"
	"meadow/internal/scene"
	"meadow/internal/signal"
	"meadow/internal/ui"
)

// Game adapts a meadow session to the ebiten.Game interface.
type Game struct {
	sess    *Session
	builder *render.Builder
	painter *render.Painter
	hud     *ui.HUD
	overlay *ui.Overlay
	player  *ebaudio.Player

	width, height int
	showHUD       bool
}

// New constructs a Game for the session. Audio starts playing immediately
// unless the session is muted.
func New(sess *Session, cfg *Config) (*Game, error) {
	g := &Game{
		sess:    sess,
		builder: render.NewBuilder(),
		painter: render.NewPainter(),
		hud:     ui.NewHUD(sess.Scene, cfg.Panel),
		overlay: ui.NewOverlay(),
		width:   cfg.Width,
		height:  cfg.Height,
		showHUD: cfg.Panel > 0,
	}
	if sess.Audio != nil {
		ctx := ebaudio.NewContext(int(sess.Audio.SampleRate()))
		p, err := ctx.NewPlayer(audio.NewPCM(sess.Audio))
		if err != nil {
			return nil, err
		}
		p.Play()
		g.player = p
	}
	return g, nil
}

// Update handles per-frame input and advances the scene one tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	sc := g.sess.Scene
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		core.TogglePause(sc)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && sc.GameOver() {
		if err := sc.Reset(g.sess.Tuning.Seed); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		sc.Selection().CycleSkin()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		sc.Selection().CycleCompanion()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	g.sess.Keys(readKeys())
	g.overlay.Update()
	if g.showHUD {
		g.hud.Update(g.width)
	}

	if err := g.sess.Step(); err != nil && !errors.Is(err, scene.ErrGameOver) {
		return err
	}
	return nil
}

func readKeys() Keys {
	k := Keys{
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		Near:  ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Far:   ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Fist:  ebiten.IsKeyPressed(ebiten.KeyF),
	}
	for key, e := range map[ebiten.Key]signal.Emotion{
		ebiten.KeyDigit1: signal.Happy,
		ebiten.KeyDigit2: signal.Calm,
		ebiten.KeyDigit3: signal.Sad,
	} {
		if inpututil.IsKeyJustPressed(key) {
			k.Emotion = &e
		}
	}
	return k
}

// Draw renders the current scene state.
func (g *Game) Draw(screen *ebiten.Image) {
	view := screen.SubImage(screen.Bounds().Intersect(image.Rect(0, 0, g.width, g.height))).(*ebiten.Image)
	_ = g.sess.Scene.Read(func(v scene.View) {
		g.painter.Draw(view, g.builder.Build(v, g.width, g.height))
		g.overlay.Draw(view, v)
	})
	if g.showHUD {
		g.hud.Draw(screen, g.width, g.height)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := g.width
	if g.showHUD {
		w += g.hud.Width()
	}
	return w, g.height
}

// Close stops audio playback.
func (g *Game) Close() error {
	if g.player == nil {
		return nil
	}
	return g.player.Close()
}
