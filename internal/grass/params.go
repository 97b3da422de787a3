package grass

import "cogentcore.org/core/math32"

// Params holds the fixed constants of the blade shading model.
type Params struct {
	WindNoiseScale float32 `yaml:"wind_noise_scale"`
	WindNoiseSpeed float32 `yaml:"wind_noise_speed"`
	JitterFreq     float32 `yaml:"jitter_freq"`
	JitterWeight   float32 `yaml:"jitter_weight"`

	InteractRadius float32 `yaml:"interact_radius"`
	PushScale      float32 `yaml:"push_scale"`
	BendDown       float32 `yaml:"bend_down"`

	ColorNoiseScale  float32 `yaml:"color_noise_scale"`
	ColorNoiseAmount float32 `yaml:"color_noise_amount"`

	SunDir   math32.Vector3 `yaml:"sun_dir"`
	Ambient  float32        `yaml:"ambient"`
	FogColor math32.Vector3 `yaml:"fog_color"`
	FogNear  float32        `yaml:"fog_near"`
	FogFar   float32        `yaml:"fog_far"`
}

// DefaultParams returns the standard shading constants.
func DefaultParams() Params {
	return Params{
		WindNoiseScale:   0.06,
		WindNoiseSpeed:   0.35,
		JitterFreq:       3.1,
		JitterWeight:     0.3,
		InteractRadius:   3.5,
		PushScale:        1.4,
		BendDown:         0.35,
		ColorNoiseScale:  0.15,
		ColorNoiseAmount: 0.35,
		SunDir:           math32.Vec3(0.4, 0.8, 0.3).Normal(),
		Ambient:          0.35,
		FogColor:         math32.Vec3(0.72, 0.80, 0.88),
		FogNear:          60,
		FogFar:           140,
	}
}

// Uniforms are the per-frame inputs shared by every blade.
type Uniforms struct {
	Time   float32
	Player math32.Vector3
	Camera math32.Vector3
	Base   math32.Vector3
	Tip    math32.Vector3
	Wind   float32
}
