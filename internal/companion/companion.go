// Package companion animates the hovering entity that trails the player.
package companion

import (
	"fmt"
	"image/color"
	"strings"

	"cogentcore.org/core/math32"

	"meadow/internal/core"
	"meadow/internal/visual"
)

// Variant selects the companion's geometry and hover trajectory.
type Variant uint8

const (
	Firefly Variant = iota
	Spirit
	Butterfly
	variantCount
)

// Variants lists every variant in cycle order.
func Variants() []Variant { return []Variant{Firefly, Spirit, Butterfly} }

func (v Variant) String() string {
	switch v {
	case Firefly:
		return "FIREFLY"
	case Spirit:
		return "SPIRIT"
	case Butterfly:
		return "BUTTERFLY"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// Next returns the following variant in cycle order.
func (v Variant) Next() Variant { return (v + 1) % variantCount }

// Parse accepts a case-insensitive variant name.
func Parse(name string) (Variant, error) {
	for _, v := range Variants() {
		if strings.EqualFold(name, v.String()) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("companion: unknown variant %q", name)
}

// Config holds the anchor and smoothing constants.
type Config struct {
	AnchorOffset math32.Vector3 `yaml:"anchor_offset"`
	Follow       float32        `yaml:"follow"`
	LookAhead    float32        `yaml:"look_ahead"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		AnchorOffset: math32.Vec3(1.6, 1.4, 0.8),
		Follow:       0.06,
		LookAhead:    1.5,
	}
}

// Hover is the closed-form offset from the anchor at time t.
func Hover(v Variant, t float32) math32.Vector3 {
	sin, cos := math32.Sin, math32.Cos
	switch v {
	case Spirit:
		return math32.Vec3(2.0*sin(0.6*t), 0.4*sin(0.9*t)+0.2*sin(2.3*t), 2.0*cos(0.6*t))
	case Butterfly:
		return math32.Vec3(1.5*sin(0.8*t)+0.3*sin(2.7*t), 0.8*math32.Abs(sin(1.9*t)), 0.9*sin(1.6*t))
	default:
		return math32.Vec3(1.2*sin(1.3*t), 0.6*sin(2.1*t), 1.0*cos(1.7*t))
	}
}

// FlapFrequency is the butterfly wing rate in Hz at time t.
func FlapFrequency(t float32) float32 {
	return 8 + 4*math32.Sin(0.5*t)
}

// Wings holds the hinge angles of the two wing parts.
type Wings struct {
	Left, Right float32
}

// Companion is the live companion state.
type Companion struct {
	cfg      Config
	variant  Variant
	position math32.Vector3
	velocity math32.Vector3
	heading  math32.Vector3
	phase    float32
	placed   bool
}

// New creates a companion of the given variant.
func New(cfg Config, v Variant) *Companion {
	return &Companion{cfg: cfg, variant: v, heading: math32.Vec3(0, 0, -1)}
}

// Variant returns the active variant.
func (c *Companion) Variant() Variant { return c.variant }

// SetVariant switches the trajectory. The smoothed position is kept so the
// new variant eases in from where the old one was.
func (c *Companion) SetVariant(v Variant) {
	c.variant = v
	c.phase = 0
}

// Reset drops the companion state so the next Step snaps to its target.
func (c *Companion) Reset() {
	c.placed = false
	c.velocity = math32.Vector3{}
	c.heading = math32.Vec3(0, 0, -1)
	c.phase = 0
}

// Position is the displayed position.
func (c *Companion) Position() math32.Vector3 { return c.position }

// Velocity is the displacement of the last step.
func (c *Companion) Velocity() math32.Vector3 { return c.velocity }

// LookAt is the point the companion faces, ahead along its own motion.
func (c *Companion) LookAt() math32.Vector3 {
	return c.position.Add(c.heading.MulScalar(c.cfg.LookAhead))
}

// Yaw is the heading angle about the vertical axis.
func (c *Companion) Yaw() float32 {
	return math32.Atan2(c.heading.X, -c.heading.Z)
}

// Wings returns the current wing angles. Non-butterfly variants keep them
// folded at zero.
func (c *Companion) Wings() Wings {
	if c.variant != Butterfly {
		return Wings{}
	}
	a := 0.9 * math32.Sin(c.phase)
	return Wings{Left: a, Right: -a}
}

// Step advances the companion for elapsed time t and tick length dt.
func (c *Companion) Step(player math32.Vector3, t, dt float32) {
	target := player.Add(c.cfg.AnchorOffset).Add(Hover(c.variant, t))
	if !c.placed {
		c.position = target
		c.placed = true
		return
	}
	next := core.ApproachVec(c.position, target, c.cfg.Follow)
	c.velocity = next.Sub(c.position)
	c.position = next
	if c.velocity.Length() > 1e-6 {
		c.heading = c.velocity.Normal()
	}
	if c.variant == Butterfly {
		c.phase = math32.Mod(c.phase+2*math32.Pi*FlapFrequency(t)*dt, 2*math32.Pi)
	}
}

// Build creates the visual subtree for variant v.
func Build(v Variant, reg *visual.Registry) *visual.Subtree {
	var parts []visual.Part
	switch v {
	case Spirit:
		parts = []visual.Part{
			{Name: "core", Shape: visual.ShapeOcta, Scale: math32.Vec3(0.3, 0.45, 0.3), Color: color.NRGBA{R: 180, G: 200, B: 255, A: 230}, Emissive: true},
			{Name: "veil", Shape: visual.ShapeCone, Offset: math32.Vec3(0, -0.4, 0), Scale: math32.Vec3(0.35, 0.6, 0.35), Color: color.NRGBA{R: 200, G: 220, B: 255, A: 120}},
		}
	case Butterfly:
		wing := color.NRGBA{R: 250, G: 170, B: 70, A: 220}
		parts = []visual.Part{
			{Name: "body", Shape: visual.ShapeCone, Scale: math32.Vec3(0.05, 0.3, 0.05), Color: color.NRGBA{R: 40, G: 30, B: 30, A: 255}},
			{Name: "wing-left", Shape: visual.ShapeWing, Offset: math32.Vec3(-0.2, 0, 0), Scale: math32.Vec3(0.35, 0.01, 0.25), Color: wing},
			{Name: "wing-right", Shape: visual.ShapeWing, Offset: math32.Vec3(0.2, 0, 0), Scale: math32.Vec3(0.35, 0.01, 0.25), Color: wing},
		}
	default:
		parts = []visual.Part{
			{Name: "core", Shape: visual.ShapeSphere, Scale: math32.Vec3(0.12, 0.12, 0.12), Color: color.NRGBA{R: 255, G: 240, B: 140, A: 255}, Emissive: true},
			{Name: "glow", Shape: visual.ShapeDisc, Scale: math32.Vec3(0.6, 0.6, 0.6), Color: color.NRGBA{R: 255, G: 230, B: 110, A: 90}, Emissive: true},
		}
	}
	return visual.Build(reg, "companion:"+v.String(), parts)
}
