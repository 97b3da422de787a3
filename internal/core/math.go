package core

import "cogentcore.org/core/math32"

// Smoothstep is the Hermite 0→1 ramp between edge0 and edge1 with zero
// derivative at both edges.
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := math32.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Approach applies one step of exponential smoothing:
// current += (target - current) * rate.
func Approach(current, target, rate float32) float32 {
	return current + (target-current)*rate
}

// ApproachVec is Approach applied per component.
func ApproachVec(current, target math32.Vector3, rate float32) math32.Vector3 {
	return math32.Vector3{
		X: Approach(current.X, target.X, rate),
		Y: Approach(current.Y, target.Y, rate),
		Z: Approach(current.Z, target.Z, rate),
	}
}

// PlanarDistance is the distance between a and b on the horizontal XZ plane.
func PlanarDistance(a, b math32.Vector3) float32 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math32.Sqrt(dx*dx + dz*dz)
}
