// Package player integrates gesture input into avatar motion and a
// following camera.
package player

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"

	"meadow/internal/core"
)

// Config holds the motion, camera and boundary constants.
type Config struct {
	TurnGain      float32 `yaml:"turn_gain"`
	DepthGain     float32 `yaml:"depth_gain"`
	NeutralSize   float32 `yaml:"neutral_size"`
	Deadzone      float32 `yaml:"deadzone"`
	VelocityBlend float32 `yaml:"velocity_blend"`
	DistanceScale float32 `yaml:"distance_scale"`

	BaseHeight   float32 `yaml:"base_height"`
	BobAmplitude float32 `yaml:"bob_amplitude"`
	BobFrequency float32 `yaml:"bob_frequency"`

	CameraOffset math32.Vector3 `yaml:"camera_offset"`
	CameraBlend  float32        `yaml:"camera_blend"`
	LookAhead    float32        `yaml:"look_ahead"`

	GameOverRadius float32 `yaml:"game_over_radius"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		TurnGain:       0.9,
		DepthGain:      6,
		NeutralSize:    0.15,
		Deadzone:       0.03,
		VelocityBlend:  0.08,
		DistanceScale:  0.6,
		BaseHeight:     0.8,
		BobAmplitude:   0.12,
		BobFrequency:   2.2,
		CameraOffset:   math32.Vec3(0, 5, 11),
		CameraBlend:    0.08,
		LookAhead:      8,
		GameOverRadius: 10000,
	}
}

// ErrConfig reports an unusable player configuration.
var ErrConfig = errors.New("player: invalid config")

// Validate checks the blend factors and the boundary.
func (c Config) Validate() error {
	var errs []error
	if c.VelocityBlend <= 0 || c.VelocityBlend > 1 {
		errs = append(errs, fmt.Errorf("%w: velocity_blend %g not in (0,1]", ErrConfig, c.VelocityBlend))
	}
	if c.CameraBlend <= 0 || c.CameraBlend > 1 {
		errs = append(errs, fmt.Errorf("%w: camera_blend %g not in (0,1]", ErrConfig, c.CameraBlend))
	}
	if c.Deadzone < 0 {
		errs = append(errs, fmt.Errorf("%w: deadzone %g", ErrConfig, c.Deadzone))
	}
	if c.GameOverRadius <= 0 {
		errs = append(errs, fmt.Errorf("%w: game_over_radius %g", ErrConfig, c.GameOverRadius))
	}
	return errors.Join(errs...)
}

// Input is the gesture signal consumed per tick.
type Input struct {
	Lateral float32
	Size    float32
}

// State is the avatar's kinematic state.
type State struct {
	Position math32.Vector3
	// Velocity holds lateral speed in X and forward speed in Y.
	Velocity math32.Vector2
}

// Camera is the follow camera pose.
type Camera struct {
	Position math32.Vector3
	Target   math32.Vector3
}

// Kinematics owns the player and camera state.
type Kinematics struct {
	cfg    Config
	state  State
	camera Camera
	out    bool
}

// New places the player at the origin with the camera at rest behind it.
func New(cfg Config) *Kinematics {
	k := &Kinematics{cfg: cfg}
	k.Reset()
	return k
}

// Reset returns the player to the origin and clears the boundary flag.
func (k *Kinematics) Reset() {
	k.state = State{Position: math32.Vec3(0, k.cfg.BaseHeight, 0)}
	k.camera = Camera{
		Position: k.state.Position.Add(k.cfg.CameraOffset),
		Target:   k.state.Position.Add(math32.Vec3(0, 0, -k.cfg.LookAhead)),
	}
	k.out = false
}

// Config returns the active configuration.
func (k *Kinematics) Config() Config { return k.cfg }

// SetTurnGain adjusts the lateral gain at runtime.
func (k *Kinematics) SetTurnGain(v float32) { k.cfg.TurnGain = v }

// SetDepthGain adjusts the forward gain at runtime.
func (k *Kinematics) SetDepthGain(v float32) { k.cfg.DepthGain = v }

// State returns the player state.
func (k *Kinematics) State() State { return k.state }

// Camera returns the camera pose.
func (k *Kinematics) Camera() Camera { return k.camera }

// OutOfBounds reports whether the boundary has been crossed.
func (k *Kinematics) OutOfBounds() bool { return k.out }

// DepthSpeed maps the hand size signal to forward speed. Inside the
// deadzone around neutral it is zero; outside it is proportional to the
// excess, positive when the hand is closer (larger) than neutral.
func DepthSpeed(size, neutral, deadzone, gain float32) float32 {
	delta := size - neutral
	if math32.Abs(delta) <= deadzone {
		return 0
	}
	return (delta - math32.Sign(delta)*deadzone) * gain
}

// Bob is the vertical hover offset at time t.
func Bob(t, amplitude, frequency float32) float32 {
	return math32.Sin(t*frequency) * amplitude
}

// Step advances the player by one tick. It reports true when the player is
// out of bounds; in that case the camera is left untouched and later calls
// do not move the player.
func (k *Kinematics) Step(in Input, t float32) bool {
	if k.out {
		return true
	}
	c := k.cfg
	target := math32.Vec2(
		in.Lateral*c.TurnGain,
		DepthSpeed(in.Size, c.NeutralSize, c.Deadzone, c.DepthGain),
	)
	v := k.state.Velocity
	v.X = core.Approach(v.X, target.X, c.VelocityBlend)
	v.Y = core.Approach(v.Y, target.Y, c.VelocityBlend)
	k.state.Velocity = v

	p := k.state.Position
	p.X += v.X * c.DistanceScale
	p.Z -= v.Y * c.DistanceScale
	p.Y = c.BaseHeight + Bob(t, c.BobAmplitude, c.BobFrequency)
	k.state.Position = p

	if math32.Sqrt(p.X*p.X+p.Z*p.Z) > c.GameOverRadius {
		k.out = true
		return true
	}

	k.camera.Position = core.ApproachVec(k.camera.Position, p.Add(c.CameraOffset), c.CameraBlend)
	k.camera.Target = p.Add(math32.Vec3(0, 0, -c.LookAhead))
	return false
}
