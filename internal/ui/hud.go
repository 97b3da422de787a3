//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the parameter panel to the right of the scene view.
type HUD struct {
	controls   *Controls
	width      int
	panel      *ebiten.Image
	lastHeight int

	rects        []rowRects
	panelOffsetX int

	pixel *ebiten.Image
}

type rowRects struct {
	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

// NewHUD constructs a HUD for the panel with the given width.
func NewHUD(p Panel, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{controls: NewControls(p), width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.layoutControls()
	return h
}

// Width is the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the cached values and handles clicks.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.controls.Refresh()
	h.handleInput()
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawControls()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) handleInput() {
	if len(h.rects) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i, r := range h.rects {
		if pointInRect(px, my, r.minus) {
			h.controls.Adjust(i, -1)
			return
		}
		if pointInRect(px, my, r.plus) {
			h.controls.Adjust(i, 1)
			return
		}
	}
}

var (
	titleColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	headerColor = color.RGBA{R: 140, G: 190, B: 150, A: 255}
)

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.controls.Title, face, panelPadding, headerY, titleColor)
	if len(h.controls.Rows) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, headerY+infoSpacing, mutedColor)
	}
	for i, row := range h.controls.Rows {
		r := h.rects[i]
		y := r.top + labelBaseline
		text.Draw(h.panel, row.Control.Label, face, panelPadding, y, labelColor)
		valueColor := labelColor
		if !row.HasValue {
			valueColor = mutedColor
		}
		width := text.BoundString(face, row.Text).Dx()
		text.Draw(h.panel, row.Text, face, r.minus.Min.X-buttonGap-width, y, valueColor)
		h.drawButton(r.minus, "-", h.controls.CanAdjust(i, -1))
		h.drawButton(r.plus, "+", h.controls.CanAdjust(i, 1))
	}

	y := controlsTop + len(h.controls.Rows)*lineHeight + readoutGap
	for _, p := range h.controls.Readouts {
		if y > h.lastHeight-panelPadding {
			return
		}
		text.Draw(h.panel, p.Label, face, panelPadding, y, headerColor)
		width := text.BoundString(face, p.Value).Dx()
		text.Draw(h.panel, p.Value, face, h.width-panelPadding-width, y, mutedColor)
		y += readoutHeight
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	h.rects = h.rects[:0]
	if h.width <= 0 {
		return
	}
	for i := range h.controls.Rows {
		top := controlsTop + i*lineHeight
		y := top + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, y, h.width-panelPadding, y+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, y, plus.Min.X-buttonGap, y+buttonSize)
		h.rects = append(h.rects, rowRects{top: top, minus: minus, plus: plus})
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	readoutGap     = 20
	readoutHeight  = 16
	controlsTop    = panelPadding + headerBaseline + 14
)
