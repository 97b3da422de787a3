package render

import (
	"image/color"
	"slices"

	"cogentcore.org/core/math32"

	"meadow/internal/core"
	"meadow/internal/field"
	"meadow/internal/grass"
	"meadow/internal/lod"
	"meadow/internal/scene"
	"meadow/internal/visual"
	"meadow/internal/weather"
)

// Kind tags a primitive.
type Kind uint8

const (
	KindTriangle Kind = iota
	KindDisc
)

// Prim is one screen-space primitive. Discs use the first vertex as center.
type Prim struct {
	Kind   Kind
	X, Y   [3]float32
	Colors [3]color.RGBA
	Radius float32
	Depth  float32
}

// Stats counts what went into a frame.
type Stats struct {
	Chunks   int
	Culled   int
	Blades   int
	Weather  int
	Triangle int
	Discs    int
	Shadows  int
}

// Frame is a built draw list. Prims are sorted far to near. Shadows lie on
// the ground and are drawn before every prim.
type Frame struct {
	Width, Height int
	Sky           Sky
	Shadows       []Prim
	Prims         []Prim
	Stats         Stats
}

// Builder turns scene views into frames. Buffers are reused across calls so
// a single builder must not be shared between goroutines.
type Builder struct {
	FOV float32
	// MaxBlades caps the blades drawn per frame, nearest chunks first. Zero
	// means no cap.
	MaxBlades int

	frame   Frame
	scratch []grass.Vertex
	order   []lod.View
}

// NewBuilder returns a builder with a 60 degree field of view.
func NewBuilder() *Builder {
	return &Builder{FOV: 60}
}

// Build converts v into a frame for a w×h surface. The returned frame is
// owned by the builder and valid until the next call.
func (b *Builder) Build(v scene.View, w, h int) *Frame {
	f := &b.frame
	f.Width, f.Height = w, h
	f.Prims = f.Prims[:0]
	f.Shadows = f.Shadows[:0]
	f.Stats = Stats{}

	proj := NewProjector(v.Camera, w, h, b.FOV)
	proj.Far = v.Grass.FogFar * 1.5

	b.sky(v, proj)
	b.grass(v, proj)
	b.weather(v, proj)
	b.shards(v, proj)
	yaw := math32.Atan2(v.Player.Velocity.X, 1)
	b.shadow(math32.Vec3(v.Player.Position.X, 0, v.Player.Position.Z), 0.8, v, proj)
	b.subtree(v.Avatar, v.Player.Position, yaw, 0, v, proj)
	b.subtree(v.Companion.Subtree, v.Companion.Position, v.Companion.Yaw, v.Companion.Wings.Left, v, proj)

	slices.SortStableFunc(f.Prims, func(a, c Prim) int {
		switch {
		case a.Depth > c.Depth:
			return -1
		case a.Depth < c.Depth:
			return 1
		}
		return 0
	})
	return f
}

func (b *Builder) sky(v scene.View, proj Projector) {
	fog := v.Grass.FogColor
	sky := Sky{
		Top:         fog.Lerp(v.Env.Sun, 0.35).MulScalar(0.85),
		Bottom:      fog,
		Halo:        v.Env.HaloColor,
		HaloOpacity: v.Env.HaloOpacity,
	}
	sun := proj.Eye.Add(v.Grass.SunDir.MulScalar(proj.Far * 0.9))
	if x, y, _, ok := proj.Project(sun); ok {
		sky.HaloX, sky.HaloY = x, y
		sky.HaloRadius = float32(b.frame.Height) * 0.35
		sky.HaloVisible = true
	}
	b.frame.Sky = sky
}

func (b *Builder) grass(v scene.View, proj Projector) {
	if v.LOD == nil || v.Field == nil {
		return
	}
	cfg := v.Field.Config()
	limit := v.Grass.FogFar + cfg.ChunkSize*math32.Sqrt2
	b.order = b.order[:0]
	v.LOD.Each(func(cv lod.View) bool {
		center := cv.Chunk.Center.Add(cv.Offset)
		if cv.Distance > limit || proj.Depth(center) < -cfg.ChunkSize {
			b.frame.Stats.Culled++
			return true
		}
		b.order = append(b.order, cv)
		return true
	})
	slices.SortFunc(b.order, func(a, c lod.View) int {
		switch {
		case a.Distance < c.Distance:
			return -1
		case a.Distance > c.Distance:
			return 1
		}
		return 0
	})
	blades := 0
	for _, cv := range b.order {
		b.frame.Stats.Chunks++
		for _, inst := range cv.Batch.Instances {
			if b.MaxBlades > 0 && blades >= b.MaxBlades {
				return
			}
			b.blade(cv.Batch.Geometry, inst, cv.Offset, v, proj)
			if cv.Level.Shadows().Cast {
				b.shadow(grass.Transform(math32.Vector3{}, inst, cv.Offset), 0.22*inst.Scale, v, proj)
			}
			blades++
		}
	}
}

func (b *Builder) blade(geo *field.Blade, inst field.Instance, offset math32.Vector3, v scene.View, proj Projector) {
	b.scratch = b.scratch[:0]
	for _, local := range geo.Vertices {
		b.scratch = append(b.scratch, grass.Deform(local, geo, inst, offset, v.Uniforms, v.Grass))
	}
	root := grass.Transform(math32.Vector3{}, inst, offset)
	drawn := false
	for _, tri := range geo.Triangles {
		var p Prim
		p.Kind = KindTriangle
		va, vb, vc := b.scratch[tri[0]], b.scratch[tri[1]], b.scratch[tri[2]]
		n := grass.FaceNormal(va.World, vb.World, vc.World, v.Uniforms.Camera)
		ok := true
		for k, vx := range [3]grass.Vertex{va, vb, vc} {
			x, y, d, in := proj.Project(vx.World)
			if !in {
				ok = false
				break
			}
			p.X[k], p.Y[k] = x, y
			p.Depth += d / 3
			albedo := grass.Color(root, vx.Height, v.Uniforms, v.Grass)
			p.Colors[k] = RGBA(grass.Shade(albedo, n, vx.World, v.Uniforms, v.Grass), 1)
		}
		if ok {
			b.push(p)
			drawn = true
		}
	}
	if drawn {
		b.frame.Stats.Blades++
	}
}

func (b *Builder) weather(v scene.View, proj Projector) {
	if v.Weather == nil {
		return
	}
	st := v.Weather.Style()
	v.Weather.Each(func(_ int, pos math32.Vector3, alpha float32) {
		if alpha <= 0 {
			return
		}
		x, y, d, ok := proj.Project(pos)
		if !ok {
			return
		}
		r := weather.PointSize(st.Size, proj.Focal()*0.02, d)
		if r < 0.5 {
			r = 0.5
		}
		b.disc(x, y, r, d, RGBA(st.Color, alpha))
		b.frame.Stats.Weather++
	})
}

var shardColor = math32.Vec3(0.55, 0.95, 1)

func (b *Builder) shards(v scene.View, proj Projector) {
	if v.Shards == nil {
		return
	}
	for i := 0; i < v.Shards.Len(); i++ {
		if !v.Shards.Shard(i).Visible {
			continue
		}
		pos, spin := v.Shards.Pose(i, v.Time)
		b.solid(visual.ShapeOcta, pos, math32.Vec3(0.35, 0.6, 0.35), spin, 0, shardColor, 0.9, true, v, proj)
	}
}

func (b *Builder) subtree(st *visual.Subtree, origin math32.Vector3, yaw, flap float32, v scene.View, proj Projector) {
	if st == nil {
		return
	}
	for _, part := range st.Parts {
		at := origin.Add(rotateY(part.Offset, yaw))
		c := math32.Vec3(float32(part.Color.R)/255, float32(part.Color.G)/255, float32(part.Color.B)/255)
		a := float32(part.Color.A) / 255
		tilt := float32(0)
		if part.Shape == visual.ShapeWing {
			tilt = flap
			if part.Offset.X < 0 {
				tilt = -flap
			}
		}
		b.solid(part.Shape, at, part.Scale, yaw, tilt, c, a, part.Emissive, v, proj)
	}
}

// solid emits one part. Spheres and discs become screen discs; the other
// shapes are tessellated and lit per face.
func (b *Builder) solid(shape visual.Shape, at, scale math32.Vector3, yaw, tilt float32, c math32.Vector3, alpha float32, emissive bool, v scene.View, proj Projector) {
	switch shape {
	case visual.ShapeSphere, visual.ShapeDisc:
		x, y, d, ok := proj.Project(at)
		if !ok {
			return
		}
		b.disc(x, y, proj.Scale(scale.X, d), d, RGBA(c, alpha))
		return
	}
	m := meshes[shape]
	for _, tri := range m.tris {
		var w [3]math32.Vector3
		for k, idx := range tri {
			p := m.verts[idx]
			p = math32.Vec3(p.X*scale.X, p.Y*scale.Y, p.Z*scale.Z)
			p = rotateZ(p, tilt)
			w[k] = at.Add(rotateY(p, yaw))
		}
		col := c
		if !emissive {
			n := grass.FaceNormal(w[0], w[1], w[2], proj.Eye)
			col = c.MulScalar(grass.Lambert(n, v.Grass.SunDir, v.Grass.Ambient))
		}
		var p Prim
		p.Kind = KindTriangle
		ok := true
		for k := range w {
			x, y, d, in := proj.Project(w[k])
			if !in {
				ok = false
				break
			}
			p.X[k], p.Y[k] = x, y
			p.Depth += d / 3
			p.Colors[k] = RGBA(col, alpha)
		}
		if ok {
			b.push(p)
		}
	}
}

// shadow adds a contact shadow at ground point p that fades with the fog.
func (b *Builder) shadow(p math32.Vector3, radius float32, v scene.View, proj Projector) {
	x, y, d, ok := proj.Project(p)
	if !ok {
		return
	}
	fade := 1 - core.Smoothstep(v.Grass.FogNear, v.Grass.FogFar, d)
	if fade <= 0 {
		return
	}
	// Premultiplied: the painter hands shadows to the vector package as is.
	c := color.RGBA{R: uint8(4 * fade), G: uint8(10 * fade), B: uint8(3 * fade), A: uint8(70 * fade)}
	s := Prim{Kind: KindDisc, Radius: proj.Scale(radius, d), Depth: d}
	s.X[0], s.Y[0] = x, y
	s.Colors = [3]color.RGBA{c, c, c}
	b.frame.Shadows = append(b.frame.Shadows, s)
	b.frame.Stats.Shadows++
}

func (b *Builder) push(p Prim) {
	b.frame.Prims = append(b.frame.Prims, p)
	b.frame.Stats.Triangle++
}

func (b *Builder) disc(x, y, r, depth float32, c color.RGBA) {
	p := Prim{Kind: KindDisc, Radius: r, Depth: depth}
	p.X[0], p.Y[0] = x, y
	p.Colors = [3]color.RGBA{c, c, c}
	b.frame.Prims = append(b.frame.Prims, p)
	b.frame.Stats.Discs++
}

func rotateY(p math32.Vector3, a float32) math32.Vector3 {
	s, c := math32.Sincos(a)
	return math32.Vec3(p.X*c+p.Z*s, p.Y, -p.X*s+p.Z*c)
}

func rotateZ(p math32.Vector3, a float32) math32.Vector3 {
	if a == 0 {
		return p
	}
	s, c := math32.Sincos(a)
	return math32.Vec3(p.X*c-p.Y*s, p.X*s+p.Y*c, p.Z)
}

type mesh struct {
	verts []math32.Vector3
	tris  [][3]int
}

var meshes = map[visual.Shape]mesh{
	visual.ShapeOcta: {
		verts: []math32.Vector3{
			{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
		},
		tris: [][3]int{
			{2, 0, 4}, {2, 4, 1}, {2, 1, 5}, {2, 5, 0},
			{3, 4, 0}, {3, 1, 4}, {3, 5, 1}, {3, 0, 5},
		},
	},
	visual.ShapeCone: cone(6),
	visual.ShapeWing: {
		verts: []math32.Vector3{
			{X: 0, Z: -0.4}, {X: 1, Z: -1}, {X: 1, Z: 0.6}, {X: 0, Z: 0.4},
		},
		tris: [][3]int{{0, 1, 2}, {0, 2, 3}},
	},
}

func cone(segments int) mesh {
	m := mesh{verts: []math32.Vector3{{Y: 1}}}
	for i := 0; i < segments; i++ {
		s, c := math32.Sincos(float32(i) / float32(segments) * 2 * math32.Pi)
		m.verts = append(m.verts, math32.Vec3(c, -1, s))
	}
	for i := 0; i < segments; i++ {
		m.tris = append(m.tris, [3]int{0, 1 + i, 1 + (i+1)%segments})
	}
	return m
}
