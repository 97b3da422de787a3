package grass

import (
	"cogentcore.org/core/math32"

	"meadow/internal/core"
	"meadow/internal/field"
)

// Vertex is one deformed blade vertex.
type Vertex struct {
	World  math32.Vector3
	Height float32
}

// Transform places a local blade vertex into the world using the instance
// yaw and scale and the chunk's tile offset.
func Transform(local math32.Vector3, inst field.Instance, offset math32.Vector3) math32.Vector3 {
	s, c := math32.Sincos(inst.Yaw)
	x := local.X*c + local.Z*s
	z := -local.X*s + local.Z*c
	return math32.Vec3(
		inst.Position.X+offset.X+x*inst.Scale,
		inst.Position.Y+offset.Y+local.Y*inst.Scale,
		inst.Position.Z+offset.Z+z*inst.Scale,
	)
}

// Wind returns the horizontal (X, Z) sway of a vertex at world position p.
// A low-frequency noise field carries the gusts and a faster sinusoid adds
// flutter; both grow with height so roots stay planted.
func Wind(p math32.Vector3, height float32, u Uniforms, prm Params) (float32, float32) {
	t := u.Time * prm.WindNoiseSpeed
	nx := Noise2(p.X*prm.WindNoiseScale+t, p.Z*prm.WindNoiseScale+t*0.7)*2 - 1
	nz := Noise2(p.X*prm.WindNoiseScale-t*0.6+41.3, p.Z*prm.WindNoiseScale+t+17.9)*2 - 1
	jitter := math32.Sin(u.Time*prm.JitterFreq + p.X*0.7 + p.Z*1.3)
	w := prm.JitterWeight
	amp := height * u.Wind
	return (nx*(1-w) + jitter*w) * amp, (nz*(1-w) + jitter*w*0.5) * amp
}

// Push is the magnitude of the outward displacement at distance d from the
// player. It falls off as (1 - d/r)^2, reaching exactly zero at the radius.
func Push(d, radius, scale, height float32) float32 {
	if radius <= 0 || d >= radius {
		return 0
	}
	f := 1 - d/radius
	return f * f * scale * height
}

// Deform computes the world position of a blade vertex after wind and
// player interaction.
func Deform(local math32.Vector3, blade *field.Blade, inst field.Instance, offset math32.Vector3, u Uniforms, prm Params) Vertex {
	h := blade.HeightPercent(local)
	p := Transform(local, inst, offset)
	wx, wz := Wind(p, h, u, prm)
	p.X += wx
	p.Z += wz

	d := core.PlanarDistance(p, u.Player)
	if m := Push(d, prm.InteractRadius, prm.PushScale, h); m > 0 {
		dx, dz := p.X-u.Player.X, p.Z-u.Player.Z
		if d > 1e-5 {
			dx /= d
			dz /= d
		} else {
			dx, dz = 1, 0
		}
		p.X += dx * m
		p.Z += dz * m
		p.Y -= m * prm.BendDown
	}
	return Vertex{World: p, Height: h}
}

// Color mixes base to tip along the blade, each perturbed by an independent
// noise sample keyed on the blade root so neighbors differ.
func Color(root math32.Vector3, height float32, u Uniforms, prm Params) math32.Vector3 {
	s := prm.ColorNoiseScale
	nb := (Noise2(root.X*s, root.Z*s)-0.5)*prm.ColorNoiseAmount + 1
	nt := (Noise2(root.X*s+73.1, root.Z*s-29.7)-0.5)*prm.ColorNoiseAmount + 1
	base := u.Base.MulScalar(nb)
	tip := u.Tip.MulScalar(nt)
	return base.Lerp(tip, height)
}

// FaceNormal is the normal of triangle (a, b, c) oriented toward the
// viewer, the CPU counterpart of cross(dFdx(p), dFdy(p)).
func FaceNormal(a, b, c, viewer math32.Vector3) math32.Vector3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() < 1e-12 {
		return math32.Vec3(0, 1, 0)
	}
	n = n.Normal()
	if n.Dot(viewer.Sub(a)) < 0 {
		n = n.MulScalar(-1)
	}
	return n
}

// Lambert is the diffuse term with an ambient floor.
func Lambert(n, sun math32.Vector3, ambient float32) float32 {
	return ambient + (1-ambient)*math32.Max(0, n.Dot(sun))
}

// Fog blends c toward the fog color between the near and far distances.
func Fog(c math32.Vector3, dist float32, prm Params) math32.Vector3 {
	f := core.Smoothstep(prm.FogNear, prm.FogFar, dist)
	return c.Lerp(prm.FogColor, f)
}

// Shade lights an albedo with the face normal and applies distance fog.
func Shade(albedo, normal, world math32.Vector3, u Uniforms, prm Params) math32.Vector3 {
	lit := albedo.MulScalar(Lambert(normal, prm.SunDir, prm.Ambient))
	return Fog(lit, world.Sub(u.Camera).Length(), prm)
}
