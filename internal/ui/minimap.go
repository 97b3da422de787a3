package ui

import (
	"fmt"

	"cogentcore.org/core/math32"

	"meadow/internal/lod"
	"meadow/internal/scene"
)

// MapPoint maps the world point p into a square map of size pixels showing
// span world units centered on center. North (−Z) is up.
func MapPoint(p, center math32.Vector3, span float32, size int) (x, y float32, ok bool) {
	if span <= 0 || size <= 0 {
		return 0, 0, false
	}
	k := float32(size) / span
	x = float32(size)/2 + (p.X-center.X)*k
	y = float32(size)/2 + (p.Z-center.Z)*k
	ok = x >= 0 && y >= 0 && x < float32(size) && y < float32(size)
	return x, y, ok
}

// LevelIntensity is the minimap tint strength of a chunk level.
func LevelIntensity(l lod.Level) float32 {
	if l == lod.LevelHigh {
		return 1
	}
	return 0.35
}

// Banner is the centered message for the current state, if any.
func Banner(v scene.View) string {
	switch {
	case v.Over:
		return "GAME OVER - press R to restart"
	case v.Paused:
		return "PAUSED"
	}
	return ""
}

// Status is the one-line readout drawn under the minimap.
func Status(v scene.View) string {
	return fmt.Sprintf("%s  shards %d  wind %.2f  %s/%s",
		v.Input.Signal.Emotion, v.Collected, v.Wind, v.Skin, v.Companion.Variant)
}

// Help lists the keyboard bindings.
var Help = []string{
	"Left/Right or A/D  steer",
	"W/S  hand size (depth)",
	"F  fist (gust)",
	"1/2/3  happy/calm/sad",
	"K  skin   C  companion",
	"P/Space  pause   R  reset",
	"H  panel   M  map   ?  help",
	"Esc  quit",
}
