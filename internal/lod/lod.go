// Package lod picks one of two detail levels per field chunk from its
// distance to the camera.
package lod

import (
	"cogentcore.org/core/math32"

	"meadow/internal/field"
)

// Level is a discrete render fidelity.
type Level uint8

const (
	LevelHigh Level = iota
	LevelLow
)

func (l Level) String() string {
	if l == LevelHigh {
		return "high"
	}
	return "low"
}

// Shadow describes how a level takes part in shadowing.
type Shadow struct {
	Cast    bool
	Receive bool
}

// Shadows reports the shadow flags for the level. Low detail chunks still
// receive shadows but never cast them.
func (l Level) Shadows() Shadow {
	return Shadow{Cast: l == LevelHigh, Receive: true}
}

// Config holds the switch distance.
type Config struct {
	Threshold float32 `yaml:"threshold"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Threshold: 70}
}

// Select returns LevelHigh strictly inside the threshold and LevelLow at or
// beyond it. There is no dead-band.
func Select(dist, threshold float32) Level {
	if dist < threshold {
		return LevelHigh
	}
	return LevelLow
}

// Manager tracks the active level and tiled position of every chunk.
type Manager struct {
	field *field.Field
	cfg   Config

	levels  []Level
	offsets []math32.Vector3
	dists   []float32
	high    int
}

// NewManager creates a manager for the given field. Every chunk starts at
// the low level until the first Update.
func NewManager(f *field.Field, cfg Config) *Manager {
	n := len(f.Chunks())
	m := &Manager{
		field:   f,
		cfg:     cfg,
		levels:  make([]Level, n),
		offsets: make([]math32.Vector3, n),
		dists:   make([]float32, n),
	}
	for i := range m.levels {
		m.levels[i] = LevelLow
	}
	return m
}

// SetThreshold changes the switch distance. It applies from the next Update.
func (m *Manager) SetThreshold(v float32) { m.cfg.Threshold = v }

// Threshold returns the switch distance.
func (m *Manager) Threshold() float32 { return m.cfg.Threshold }

// Update re-evaluates every chunk against the camera position.
func (m *Manager) Update(camera math32.Vector3) {
	m.high = 0
	for idx := range m.field.Chunks() {
		c := &m.field.Chunks()[idx]
		off := m.field.TileOffset(c.Center, camera)
		d := c.Center.Add(off).Sub(camera).Length()
		lvl := Select(d, m.cfg.Threshold)
		m.offsets[idx] = off
		m.dists[idx] = d
		m.levels[idx] = lvl
		if lvl == LevelHigh {
			m.high++
		}
	}
}

// Level returns the active level of chunk idx.
func (m *Manager) Level(idx int) Level { return m.levels[idx] }

// Offset returns the tile translation of chunk idx from the last Update.
func (m *Manager) Offset(idx int) math32.Vector3 { return m.offsets[idx] }

// Distance returns the camera distance of chunk idx from the last Update.
func (m *Manager) Distance(idx int) float32 { return m.dists[idx] }

// Counts reports how many chunks sit at each level.
func (m *Manager) Counts() (high, low int) {
	return m.high, len(m.levels) - m.high
}

// View is what a renderer needs to draw one chunk.
type View struct {
	Index    int
	Chunk    *field.Chunk
	Level    Level
	Batch    field.Batch
	Offset   math32.Vector3
	Distance float32
}

// Each visits every chunk with its active batch. Returning false stops
// the walk.
func (m *Manager) Each(fn func(v View) bool) {
	chunks := m.field.Chunks()
	for idx := range chunks {
		c := &chunks[idx]
		batch := c.Low
		if m.levels[idx] == LevelHigh {
			batch = c.High
		}
		if !fn(View{Index: idx, Chunk: c, Level: m.levels[idx], Batch: batch, Offset: m.offsets[idx], Distance: m.dists[idx]}) {
			return
		}
	}
}
