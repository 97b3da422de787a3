// Package term hosts the meadow in a terminal as a top-down map.
package term

import (
	"image/color"

	"cogentcore.org/core/math32"

	"meadow/internal/grass"
	"meadow/internal/render"
	"meadow/internal/scene"
)

// Cell is one terminal cell.
type Cell struct {
	Rune rune
	FG   color.RGBA
	BG   color.RGBA
}

// Raster samples the scene into a grid of cells centered on the player.
// Terminal cells are about twice as tall as wide, so a row covers two
// world units per column unit.
type Raster struct {
	Cols, Rows int
	// Unit is the world size of one column.
	Unit  float32
	Cells []Cell
}

// NewRaster allocates a cols×rows raster.
func NewRaster(cols, rows int) *Raster {
	r := &Raster{Unit: 1.5}
	r.Resize(cols, rows)
	return r
}

// Resize reallocates the grid when the terminal changes size.
func (r *Raster) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	r.Cols, r.Rows = cols, rows
	if cap(r.Cells) >= cols*rows {
		r.Cells = r.Cells[:cols*rows]
		return
	}
	r.Cells = make([]Cell, cols*rows)
}

// At returns the cell at column x, row y.
func (r *Raster) At(x, y int) Cell { return r.Cells[y*r.Cols+x] }

// World maps a cell to the world point at its center.
func (r *Raster) World(x, y int, center math32.Vector3) math32.Vector3 {
	wx := center.X + (float32(x)-float32(r.Cols)/2+0.5)*r.Unit
	wz := center.Z + (float32(y)-float32(r.Rows)/2+0.5)*r.Unit*2
	return math32.Vec3(wx, 0, wz)
}

// Cell maps a world point to a cell. ok is false off the raster.
func (r *Raster) Cell(p, center math32.Vector3) (x, y int, ok bool) {
	fx := (p.X-center.X)/r.Unit + float32(r.Cols)/2
	fy := (p.Z-center.Z)/(r.Unit*2) + float32(r.Rows)/2
	x, y = int(math32.Floor(fx)), int(math32.Floor(fy))
	return x, y, fx >= 0 && fy >= 0 && x < r.Cols && y < r.Rows
}

var up = math32.Vec3(0, 1, 0)

// Draw fills the raster from v.
func (r *Raster) Draw(v scene.View) {
	center := v.Player.Position
	u, prm := v.Uniforms, v.Grass
	u.Camera = center
	for y := 0; y < r.Rows; y++ {
		for x := 0; x < r.Cols; x++ {
			w := r.World(x, y, center)
			h := 0.5 + 0.5*grass.Noise2(w.X*0.4, w.Z*0.4)
			sway, _ := grass.Wind(w, h, u, prm)
			albedo := grass.Color(w, h, u, prm)
			bg := render.RGBA(grass.Shade(albedo.MulScalar(0.6), up, w, u, prm), 1)
			fg := render.RGBA(grass.Shade(albedo, up, w, u, prm), 1)
			r.Cells[y*r.Cols+x] = Cell{Rune: bladeRune(sway), FG: fg, BG: bg}
		}
	}
	if v.Weather != nil {
		st := v.Weather.Style()
		v.Weather.Each(func(_ int, pos math32.Vector3, alpha float32) {
			if alpha < 0.3 {
				return
			}
			r.put(pos, center, '·', render.RGBA(st.Color, 1))
		})
	}
	if v.Shards != nil {
		for i := 0; i < v.Shards.Len(); i++ {
			if s := v.Shards.Shard(i); s.Visible {
				r.put(s.Position, center, '◆', color.RGBA{R: 140, G: 240, B: 255, A: 255})
			}
		}
	}
	r.put(v.Companion.Position, center, '*', color.RGBA{R: 255, G: 230, B: 110, A: 255})
	r.put(center, center, '@', color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

func (r *Raster) put(p, center math32.Vector3, ch rune, fg color.RGBA) {
	x, y, ok := r.Cell(p, center)
	if !ok {
		return
	}
	c := &r.Cells[y*r.Cols+x]
	c.Rune, c.FG = ch, fg
}

// bladeRune leans the blade glyph with the wind.
func bladeRune(sway float32) rune {
	switch {
	case sway > 0.15:
		return '/'
	case sway < -0.15:
		return '\\'
	}
	return '|'
}
