//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"meadow/internal/app"
	"meadow/internal/scene"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.New(os.Stderr, "meadow: ", log.LstdFlags)
	sess, err := app.Open(cfg, scene.Hooks{}, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()
	sess.Start(context.Background())

	game, err := app.New(sess, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	w, h := game.Layout(0, 0)
	ebiten.SetWindowTitle("meadow")
	ebiten.SetTPS(sess.Tuning.TickRate)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Print(err)
	}
}
