package app

import (
	"flag"
	"strings"
)

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

// Set appends one override.
func (l *KVList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Config represents the command-line parameters shared by the hosts.
type Config struct {
	Tuning  string
	Sets    KVList
	Seed    int64
	Tracker string
	Demo    bool
	Record  string
	Replay  string
	Pace    float64
	Mute    bool
	Width   int
	Height  int
	Panel   int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Pace: 1, Width: 960, Height: 600, Panel: 240}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Tuning, "tuning", c.Tuning, "YAML tuning file")
	fs.Var(&c.Sets, "set", "tuning override in key=value form (repeatable)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "world seed (0 keeps the tuning seed)")
	fs.StringVar(&c.Tracker, "tracker", c.Tracker, "websocket URL of the face and hand tracker")
	fs.BoolVar(&c.Demo, "demo", c.Demo, "drive the scene with the scripted pilot")
	fs.StringVar(&c.Record, "record", c.Record, "write a zstd signal trace to this path")
	fs.StringVar(&c.Replay, "replay", c.Replay, "replay a recorded signal trace")
	fs.Float64Var(&c.Pace, "pace", c.Pace, "replay speed multiplier (0 for as fast as possible)")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "disable audio")
	fs.IntVar(&c.Width, "width", c.Width, "view width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "view height in pixels")
	fs.IntVar(&c.Panel, "panel", c.Panel, "parameter panel width (0 hides it)")
}
