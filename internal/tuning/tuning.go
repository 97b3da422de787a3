// Package tuning aggregates every tunable constant of the scene and loads
// overrides from YAML.
package tuning

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"meadow/internal/audio"
	"meadow/internal/companion"
	"meadow/internal/environ"
	"meadow/internal/field"
	"meadow/internal/grass"
	"meadow/internal/lod"
	"meadow/internal/player"
	"meadow/internal/shard"
	"meadow/internal/signal"
	"meadow/internal/weather"
)

// ErrConfig reports top-level tuning problems.
var ErrConfig = errors.New("tuning: invalid config")

// Cosmetics holds the initial cosmetic selection.
type Cosmetics struct {
	Skin      string `yaml:"skin"`
	Companion string `yaml:"companion"`
}

// Tuning is the complete scene configuration.
type Tuning struct {
	TickRate int   `yaml:"tick_rate"`
	Seed     int64 `yaml:"seed"`

	Field     field.Config      `yaml:"field"`
	Grass     grass.Params      `yaml:"grass"`
	LOD       lod.Config        `yaml:"lod"`
	Weather   weather.Config    `yaml:"weather"`
	Player    player.Config     `yaml:"player"`
	Companion companion.Config  `yaml:"companion"`
	Shards    shard.Config      `yaml:"shards"`
	Environ   environ.Config    `yaml:"environ"`
	Signal    signal.Thresholds `yaml:"signal"`
	Audio     audio.Config      `yaml:"audio"`
	Cosmetics Cosmetics         `yaml:"cosmetics"`
}

// Default returns the standard tuning.
func Default() Tuning {
	return Tuning{
		TickRate:  60,
		Seed:      1,
		Field:     field.DefaultConfig(),
		Grass:     grass.DefaultParams(),
		LOD:       lod.DefaultConfig(),
		Weather:   weather.DefaultConfig(),
		Player:    player.DefaultConfig(),
		Companion: companion.DefaultConfig(),
		Shards:    shard.DefaultConfig(),
		Environ:   environ.DefaultConfig(),
		Signal:    signal.DefaultThresholds(),
		Audio:     audio.DefaultConfig(),
		Cosmetics: Cosmetics{Skin: player.SkinMeadow.String(), Companion: companion.Firefly.String()},
	}
}

// Thresholds returns the signal thresholds bound to the player's neutral
// hand size.
func (t Tuning) Thresholds() signal.Thresholds {
	th := t.Signal
	th.NeutralSize = t.Player.NeutralSize
	return th
}

// Validate checks every section and joins all problems.
func (t Tuning) Validate() error {
	var errs []error
	if t.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: tick_rate %d", ErrConfig, t.TickRate))
	}
	if t.LOD.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("%w: lod.threshold %g", ErrConfig, t.LOD.Threshold))
	}
	if t.Signal.Frown >= t.Signal.Smile {
		errs = append(errs, fmt.Errorf("%w: signal.frown %g must be below signal.smile %g", ErrConfig, t.Signal.Frown, t.Signal.Smile))
	}
	if _, err := player.ParseSkin(t.Cosmetics.Skin); err != nil {
		errs = append(errs, err)
	}
	if _, err := companion.Parse(t.Cosmetics.Companion); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs,
		t.Field.Validate(),
		t.Weather.Validate(),
		t.Player.Validate(),
		t.Shards.Validate(),
		t.Environ.Validate(),
		t.Audio.Validate(),
	)
	return errors.Join(errs...)
}

// Decode applies YAML overrides on top of t. Unknown keys are errors.
func (t *Tuning) Decode(raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(t); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}
	return nil
}

// Load reads overrides from path on top of Default and validates the result.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := t.Decode(raw); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, t.Validate()
}

// Set assigns one dotted key such as "player.turn_gain". The value is
// parsed as a YAML scalar.
func (t *Tuning) Set(key, value string) error {
	parts := strings.Split(strings.TrimSpace(key), ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: bad key %q", ErrConfig, key)
		}
	}
	var b strings.Builder
	for i, p := range parts {
		b.WriteString(strings.Repeat("  ", i))
		b.WriteString(p)
		b.WriteString(":")
		if i < len(parts)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
	if err := t.Decode([]byte(b.String())); err != nil {
		return fmt.Errorf("set %s=%s: %w", key, value, err)
	}
	return nil
}

// FromMap applies overrides in key order on top of Default.
func FromMap(kv map[string]string) (Tuning, error) {
	t := Default()
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := t.Set(k, kv[k]); err != nil {
			return t, err
		}
	}
	return t, t.Validate()
}

// Marshal renders t as YAML.
func (t Tuning) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}
