package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"meadow/internal/app"
	"meadow/internal/soak"
)

func main() {
	runs := flag.Int("runs", 16, "number of sessions")
	ticks := flag.Int("ticks", 60*60*5, "maximum ticks per session")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel sessions")
	verbose := flag.Bool("v", false, "print every run")
	cfg := app.NewConfig()
	flag.StringVar(&cfg.Tuning, "tuning", "", "YAML tuning file")
	flag.Var(&cfg.Sets, "set", "tuning override in key=value form (repeatable)")
	flag.Int64Var(&cfg.Seed, "seed", 0, "base world seed (0 keeps the tuning seed)")
	flag.Parse()

	tn, err := app.LoadTuning(cfg)
	if err != nil {
		log.Fatal(err)
	}
	results := soak.Sweep(tn, *runs, *ticks, *workers)
	leaks := 0
	for _, r := range results {
		leaks += r.Leaked
		if !*verbose && r.Err == nil {
			continue
		}
		status := "ok"
		switch {
		case r.Err != nil:
			status = r.Err.Error()
		case r.GameOver:
			status = "game over"
		}
		fmt.Printf("seed %d: %d ticks, %d shards, %.1f from origin, %s\n", r.Seed, r.Ticks, r.Pickups, r.Distance, status)
	}
	fmt.Println(soak.Summarize(results))
	if leaks > 0 {
		log.Fatalf("%d render resources leaked", leaks)
	}
}
