package render

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// RGBA converts a linear 0..1 color and alpha to 8-bit RGBA.
func RGBA(c math32.Vector3, alpha float32) color.RGBA {
	return color.RGBA{
		R: channel(c.X),
		G: channel(c.Y),
		B: channel(c.Z),
		A: channel(alpha),
	}
}

func channel(v float32) uint8 {
	return uint8(math32.Round(math32.Clamp(v, 0, 1) * 255))
}

// Sky is the background gradient with the sun halo.
type Sky struct {
	Top, Bottom math32.Vector3
	Halo        math32.Vector3
	HaloX       float32
	HaloY       float32
	HaloRadius  float32
	HaloOpacity float32
	HaloVisible bool
}

// fillSkyRGBA paints the vertical gradient and the additive halo glow into
// an RGBA buffer of w×h pixels.
func fillSkyRGBA(buf []byte, w, h int, sky Sky) {
	if w <= 0 || h <= 0 || len(buf) < 4*w*h {
		return
	}
	for y := 0; y < h; y++ {
		t := float32(y) / float32(max(h-1, 1))
		row := sky.Top.Lerp(sky.Bottom, t)
		for x := 0; x < w; x++ {
			c := row
			if sky.HaloVisible && sky.HaloRadius > 0 {
				dx := float32(x) - sky.HaloX
				dy := float32(y) - sky.HaloY
				d := math32.Sqrt(dx*dx+dy*dy) / sky.HaloRadius
				if d < 1 {
					g := (1 - d) * (1 - d) * sky.HaloOpacity
					c = c.Add(sky.Halo.MulScalar(g))
				}
			}
			base := (y*w + x) * 4
			buf[base+0] = channel(c.X)
			buf[base+1] = channel(c.Y)
			buf[base+2] = channel(c.Z)
			buf[base+3] = 255
		}
	}
}
