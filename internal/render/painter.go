//go:build ebiten

package render

import (
	"image"
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// skyDiv is the downscale factor of the sky image.
const skyDiv = 4

// discSegments is the fan resolution of screen discs.
const discSegments = 10

// maxVertices flushes a batch before uint16 indices overflow.
const maxVertices = 65000

// Painter draws frames onto ebiten images.
type Painter struct {
	sky    *ebiten.Image
	skyBuf []byte
	sw, sh int

	white *ebiten.Image
	verts []ebiten.Vertex
	index []uint16
}

// NewPainter allocates the shared white texture.
func NewPainter() *Painter {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Painter{white: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)}
}

// Draw paints f onto dst.
func (p *Painter) Draw(dst *ebiten.Image, f *Frame) {
	p.drawSky(dst, f)
	for i := range f.Shadows {
		sh := &f.Shadows[i]
		vector.DrawFilledCircle(dst, sh.X[0], sh.Y[0], sh.Radius, sh.Colors[0], true)
	}
	p.verts = p.verts[:0]
	p.index = p.index[:0]
	for i := range f.Prims {
		pr := &f.Prims[i]
		switch pr.Kind {
		case KindTriangle:
			p.reserve(dst, 3)
			base := uint16(len(p.verts))
			for k := 0; k < 3; k++ {
				p.verts = append(p.verts, vertex(pr.X[k], pr.Y[k], pr.Colors[k]))
			}
			p.index = append(p.index, base, base+1, base+2)
		case KindDisc:
			p.reserve(dst, discSegments+1)
			base := uint16(len(p.verts))
			c := pr.Colors[0]
			p.verts = append(p.verts, vertex(pr.X[0], pr.Y[0], c))
			for s := 0; s < discSegments; s++ {
				sn, cs := math32.Sincos(float32(s) / discSegments * 2 * math32.Pi)
				p.verts = append(p.verts, vertex(pr.X[0]+cs*pr.Radius, pr.Y[0]+sn*pr.Radius, c))
			}
			for s := 0; s < discSegments; s++ {
				next := (s + 1) % discSegments
				p.index = append(p.index, base, base+1+uint16(s), base+1+uint16(next))
			}
		}
	}
	p.flush(dst)
}

func (p *Painter) reserve(dst *ebiten.Image, n int) {
	if len(p.verts)+n > maxVertices {
		p.flush(dst)
	}
}

func (p *Painter) flush(dst *ebiten.Image) {
	if len(p.index) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{}
	dst.DrawTriangles(p.verts, p.index, p.white, op)
	p.verts = p.verts[:0]
	p.index = p.index[:0]
}

func (p *Painter) drawSky(dst *ebiten.Image, f *Frame) {
	w, h := f.Width/skyDiv, f.Height/skyDiv
	if w < 1 || h < 1 {
		return
	}
	if p.sky == nil || p.sw != w || p.sh != h {
		p.sky = ebiten.NewImage(w, h)
		p.skyBuf = make([]byte, 4*w*h)
		p.sw, p.sh = w, h
	}
	sky := f.Sky
	sky.HaloX /= skyDiv
	sky.HaloY /= skyDiv
	sky.HaloRadius /= skyDiv
	fillSkyRGBA(p.skyBuf, w, h, sky)
	p.sky.WritePixels(p.skyBuf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(f.Width)/float64(w), float64(f.Height)/float64(h))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(p.sky, op)
}

func vertex(x, y float32, c color.RGBA) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   x,
		DstY:   y,
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(c.R) / 255,
		ColorG: float32(c.G) / 255,
		ColorB: float32(c.B) / 255,
		ColorA: float32(c.A) / 255,
	}
}
