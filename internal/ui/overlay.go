//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"cogentcore.org/core/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"meadow/internal/lod"
	"meadow/internal/scene"
)

// Overlay draws the minimap, wind gauge, banners and help on top of the
// scene.
type Overlay struct {
	showMap  bool
	showHelp bool
	mapSize  int
	mapSpan  float32

	pixel *ebiten.Image
}

// NewOverlay constructs an overlay with the minimap enabled.
func NewOverlay() *Overlay {
	o := &Overlay{showMap: true, mapSize: 140, mapSpan: 240}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the overlay layers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		o.showMap = !o.showMap
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySlash) {
		o.showHelp = !o.showHelp
	}
}

// Draw renders the overlay for view v onto screen.
func (o *Overlay) Draw(screen *ebiten.Image, v scene.View) {
	face := basicfont.Face7x13
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if o.showMap {
		o.drawMap(screen, v)
		text.Draw(screen, Status(v), face, panelPadding, panelPadding+o.mapSize+16, labelColor)
	}
	o.drawWind(screen, float64(w-60), 50, v.Wind)

	if msg := Banner(v); msg != "" {
		b := text.BoundString(face, msg)
		x, y := (w-b.Dx())/2, h/2
		o.drawRect(screen, float64(x-10), float64(y-b.Dy()-8), float64(b.Dx()+20), float64(b.Dy()+16), color.RGBA{A: 160})
		text.Draw(screen, msg, face, x, y, color.White)
	}
	if o.showHelp {
		y := h - panelPadding - len(Help)*readoutHeight
		for _, line := range Help {
			text.Draw(screen, line, face, panelPadding, y, titleColor)
			y += readoutHeight
		}
	}
}

func (o *Overlay) drawMap(screen *ebiten.Image, v scene.View) {
	size := o.mapSize
	ox, oy := float64(panelPadding), float64(panelPadding)
	o.drawRect(screen, ox, oy, float64(size), float64(size), color.RGBA{R: 10, G: 14, B: 12, A: 170})
	center := v.Player.Position
	k := float32(size) / o.mapSpan
	if v.LOD != nil {
		v.LOD.Each(func(cv lod.View) bool {
			minX := (cv.Chunk.Min.X + cv.Offset.X - center.X) * k
			minY := (cv.Chunk.Min.Y + cv.Offset.Z - center.Z) * k
			cw := (cv.Chunk.Max.X - cv.Chunk.Min.X) * k
			ch := (cv.Chunk.Max.Y - cv.Chunk.Min.Y) * k
			x0 := math32.Max(float32(size)/2+minX, 0)
			y0 := math32.Max(float32(size)/2+minY, 0)
			x1 := math32.Min(float32(size)/2+minX+cw, float32(size))
			y1 := math32.Min(float32(size)/2+minY+ch, float32(size))
			if x1 <= x0 || y1 <= y0 {
				return true
			}
			g := LevelIntensity(cv.Level)
			tint := color.RGBA{R: uint8(30 * g), G: uint8(120 * g), B: uint8(50 * g), A: 150}
			o.drawRect(screen, ox+float64(x0)+0.5, oy+float64(y0)+0.5, float64(x1-x0)-1, float64(y1-y0)-1, tint)
			return true
		})
	}
	if v.Shards != nil {
		for i := 0; i < v.Shards.Len(); i++ {
			s := v.Shards.Shard(i)
			if !s.Visible {
				continue
			}
			if x, y, ok := MapPoint(s.Position, center, o.mapSpan, size); ok {
				o.drawPoint(screen, ox+float64(x), oy+float64(y), 3, color.RGBA{R: 140, G: 240, B: 255, A: 255})
			}
		}
	}
	if x, y, ok := MapPoint(v.Companion.Position, center, o.mapSpan, size); ok {
		o.drawPoint(screen, ox+float64(x), oy+float64(y), 3, color.RGBA{R: 255, G: 230, B: 110, A: 255})
	}
	o.drawPoint(screen, ox+float64(size)/2, oy+float64(size)/2, 5, color.White)
}

// drawWind is a gauge arrow whose length follows the wind strength.
func (o *Overlay) drawWind(screen *ebiten.Image, cx, cy float64, wind float32) {
	const maxWind = 3.0
	n := math.Min(math.Max(float64(wind)/maxWind, 0), 1)
	length := 12 + 28*n
	col := interpolateColor(n)
	o.drawLine(screen, cx-length/2, cy, cx+length/2, cy, 2, col)
	head := math.Min(length*0.35, 9)
	o.drawLine(screen, cx+length/2, cy, cx+length/2-head*math.Cos(math.Pi/6), cy-head*math.Sin(math.Pi/6), 2, col)
	o.drawLine(screen, cx+length/2, cy, cx+length/2-head*math.Cos(math.Pi/6), cy+head*math.Sin(math.Pi/6), 2, col)
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	o.drawRect(screen, x-size*0.5, y-size*0.5, size, size, col)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func interpolateColor(t float64) color.RGBA {
	r := uint8(math.Round(80 + 70*t))
	g := uint8(math.Round(170 + 70*t))
	b := uint8(math.Round(230 + 20*t))
	a := uint8(math.Round(150 + 90*t))
	return color.RGBA{R: r, G: g, B: b, A: a}
}
