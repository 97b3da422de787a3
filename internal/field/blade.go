package field

import "cogentcore.org/core/math32"

// Blade is the shared geometry of one grass blade in local space. The root
// sits at the origin and the tip at (0, Height, 0).
type Blade struct {
	Segments  int
	Height    float32
	Vertices  []math32.Vector3
	Triangles [][3]int
}

// NewBlade tessellates a tapered blade into the given number of vertical
// segments. Each segment is a quad except the last, which closes to a tip.
func NewBlade(segments int, width, height float32) *Blade {
	if segments < 1 {
		segments = 1
	}
	b := &Blade{Segments: segments, Height: height}
	half := width / 2
	for s := 0; s < segments; s++ {
		t := float32(s) / float32(segments)
		w := half * (1 - t)
		y := t * height
		b.Vertices = append(b.Vertices,
			math32.Vec3(-w, y, 0),
			math32.Vec3(w, y, 0),
		)
	}
	b.Vertices = append(b.Vertices, math32.Vec3(0, height, 0))
	tip := len(b.Vertices) - 1
	for s := 0; s < segments-1; s++ {
		l0, r0 := 2*s, 2*s+1
		l1, r1 := 2*s+2, 2*s+3
		b.Triangles = append(b.Triangles, [3]int{l0, r0, r1}, [3]int{l0, r1, l1})
	}
	last := 2 * (segments - 1)
	b.Triangles = append(b.Triangles, [3]int{last, last + 1, tip})
	return b
}

// HeightPercent is the normalized height of a local vertex along the blade.
func (b *Blade) HeightPercent(local math32.Vector3) float32 {
	if b.Height <= 0 {
		return 0
	}
	return math32.Clamp(local.Y/b.Height, 0, 1)
}
