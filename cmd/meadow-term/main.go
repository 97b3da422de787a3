package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"

	"meadow/internal/app"
	"meadow/internal/scene"
	"meadow/internal/term"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	logPath := flag.String("log", "", "write the session log to this file")
	flag.Parse()

	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}
	logger := log.New(out, "meadow: ", log.LstdFlags)

	sess, err := app.Open(cfg, scene.Hooks{}, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	sess.Start(ctx)

	host, err := term.New(sess, logger)
	if err != nil {
		log.Fatal(err)
	}
	err = host.Run(ctx)
	host.Close()
	if err != nil {
		log.Fatal(err)
	}
}
