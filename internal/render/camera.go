// Package render turns a scene view into depth-sorted screen primitives.
// The ebiten build tag adds the GPU backend that draws them.
package render

import (
	"cogentcore.org/core/math32"

	"meadow/internal/player"
)

// Projector is a pinhole camera mapping world points to screen pixels.
type Projector struct {
	Eye     math32.Vector3
	forward math32.Vector3
	right   math32.Vector3
	up      math32.Vector3
	focal   float32
	cx, cy  float32
	Near    float32
	Far     float32
}

// NewProjector builds a projector for the camera pose on a w×h surface with
// a vertical field of view in degrees.
func NewProjector(cam player.Camera, w, h int, fovDeg float32) Projector {
	fwd := cam.Target.Sub(cam.Position).Normal()
	right := fwd.Cross(math32.Vec3(0, 1, 0)).Normal()
	up := right.Cross(fwd)
	half := fovDeg * math32.Pi / 360
	return Projector{
		Eye:     cam.Position,
		forward: fwd,
		right:   right,
		up:      up,
		focal:   float32(h) / 2 / math32.Tan(half),
		cx:      float32(w) / 2,
		cy:      float32(h) / 2,
		Near:    0.2,
		Far:     400,
	}
}

// Forward is the unit view direction.
func (p Projector) Forward() math32.Vector3 { return p.forward }

// Focal is the focal length in pixels.
func (p Projector) Focal() float32 { return p.focal }

// Depth is the view-space depth of w.
func (p Projector) Depth(w math32.Vector3) float32 {
	return w.Sub(p.Eye).Dot(p.forward)
}

// Project maps w to screen coordinates. ok is false for points outside the
// near/far range.
func (p Projector) Project(w math32.Vector3) (x, y, depth float32, ok bool) {
	d := w.Sub(p.Eye)
	depth = d.Dot(p.forward)
	if depth < p.Near || depth > p.Far {
		return 0, 0, depth, false
	}
	x = p.cx + d.Dot(p.right)/depth*p.focal
	y = p.cy - d.Dot(p.up)/depth*p.focal
	return x, y, depth, true
}

// Scale is the pixel size of a world length at depth.
func (p Projector) Scale(length, depth float32) float32 {
	if depth < p.Near {
		depth = p.Near
	}
	return length * p.focal / depth
}

// Horizon is the screen row of the ground plane's vanishing line.
func (p Projector) Horizon() float32 {
	flat := math32.Vec3(p.forward.X, 0, p.forward.Z)
	if flat.Length() < 1e-6 {
		return 0
	}
	far := p.Eye.Add(flat.Normal().MulScalar(p.Far * 0.99))
	far.Y = 0
	d := far.Sub(p.Eye)
	depth := d.Dot(p.forward)
	if depth <= 0 {
		return 0
	}
	return p.cy - d.Dot(p.up)/depth*p.focal
}
