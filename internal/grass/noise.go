package grass

import "cogentcore.org/core/math32"

// hash2 maps an integer lattice point to a pseudo-random value in [0, 1).
func hash2(x, y int32) float32 {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float32(h&0x00ffffff) / float32(0x01000000)
}

// Noise2 is smooth value noise in [0, 1].
func Noise2(x, y float32) float32 {
	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	fx := x - x0
	fy := y - y0
	ix, iy := int32(x0), int32(y0)

	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)

	a := hash2(ix, iy)
	b := hash2(ix+1, iy)
	c := hash2(ix, iy+1)
	d := hash2(ix+1, iy+1)
	return math32.Lerp(math32.Lerp(a, b, ux), math32.Lerp(c, d, ux), uy)
}
