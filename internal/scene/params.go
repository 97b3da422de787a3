package scene

import (
	"cogentcore.org/core/math32"

	"meadow/internal/core"
)

const (
	paramTurnGain  = "turn_gain"
	paramDepthGain = "depth_gain"
	paramWindGain  = "sound_wind_gain"
	paramBlendRate = "blend_rate"
	paramLOD       = "lod_threshold"
)

// Parameters reports the live tuning and scene counters for the HUD.
func (s *Scene) Parameters() core.ParameterSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	pc := s.player.Config()
	ec := s.env.Config()
	high, low := s.lod.Counts()
	pos := s.player.State().Position
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "Motion", Params: []core.Parameter{
			core.FloatParam(paramTurnGain, "Turn gain", float64(pc.TurnGain)),
			core.FloatParam(paramDepthGain, "Depth gain", float64(pc.DepthGain)),
		}},
		{Name: "Environment", Params: []core.Parameter{
			core.FloatParam(paramWindGain, "Sound wind gain", float64(ec.SoundWindGain)),
			core.FloatParam(paramBlendRate, "Blend rate", float64(ec.Rate)),
			core.TextParam("mood", "Mood", s.env.Target().String()),
			core.FloatParam("wind", "Wind", float64(s.env.Wind())),
		}},
		{Name: "Detail", Params: []core.Parameter{
			core.FloatParam(paramLOD, "LOD threshold", float64(s.lod.Threshold())),
			core.IntParam("lod_high", "High chunks", high),
			core.IntParam("lod_low", "Low chunks", low),
		}},
		{Name: "Session", Params: []core.Parameter{
			core.IntParam("seed", "Seed", int(s.seed)),
			core.IntParam("shards", "Shards", int(s.collected)),
			core.FloatParam("distance", "Distance", float64(core.PlanarDistance(pos, math32.Vector3{}))),
			core.TextParam("skin", "Skin", s.skin.String()),
			core.TextParam("companion", "Companion", s.variant.String()),
		}},
	}}
}

// ParameterControls lists the HUD-adjustable values.
func (s *Scene) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: paramTurnGain, Label: "Turn gain", Step: 0.1, Min: 0, Max: 3},
		{Key: paramDepthGain, Label: "Depth gain", Step: 0.5, Min: 0, Max: 20},
		{Key: paramWindGain, Label: "Sound wind", Step: 0.1, Min: 0, Max: 4},
		{Key: paramBlendRate, Label: "Blend rate", Step: 0.005, Min: 0.005, Max: 0.2},
		{Key: paramLOD, Label: "LOD dist", Step: 5, Min: 10, Max: 300},
	}
}

// SetFloatParameter applies a HUD change. Values are clamped to the
// control range.
func (s *Scene) SetFloatParameter(key string, value float64) bool {
	var ctl *core.ParameterControl
	for _, c := range s.ParameterControls() {
		if c.Key == key {
			ctl = &c
			break
		}
	}
	if ctl == nil {
		return false
	}
	v := float32(min(max(value, ctl.Min), ctl.Max))
	s.mu.Lock()
	defer s.mu.Unlock()
	switch key {
	case paramTurnGain:
		s.player.SetTurnGain(v)
	case paramDepthGain:
		s.player.SetDepthGain(v)
	case paramWindGain:
		s.env.SetSoundWindGain(v)
	case paramBlendRate:
		s.env.SetRate(v)
	case paramLOD:
		s.lod.SetThreshold(v)
	}
	return true
}
