package player

import (
	"fmt"
	"image/color"
	"strings"

	"cogentcore.org/core/math32"

	"meadow/internal/visual"
)

// Skin is the cosmetic variant of the avatar.
type Skin uint8

const (
	SkinMeadow Skin = iota
	SkinEmber
	SkinFrost
	skinCount
)

// Skins lists every skin in cycle order.
func Skins() []Skin { return []Skin{SkinMeadow, SkinEmber, SkinFrost} }

func (s Skin) String() string {
	switch s {
	case SkinMeadow:
		return "MEADOW"
	case SkinEmber:
		return "EMBER"
	case SkinFrost:
		return "FROST"
	default:
		return fmt.Sprintf("Skin(%d)", uint8(s))
	}
}

// Next returns the following skin in cycle order.
func (s Skin) Next() Skin { return (s + 1) % skinCount }

// ParseSkin accepts a case-insensitive skin name.
func ParseSkin(name string) (Skin, error) {
	for _, s := range Skins() {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("player: unknown skin %q", name)
}

type skinPalette struct {
	body, trim, glow color.NRGBA
}

func paletteFor(s Skin) skinPalette {
	switch s {
	case SkinEmber:
		return skinPalette{
			body: color.NRGBA{R: 214, G: 92, B: 48, A: 255},
			trim: color.NRGBA{R: 255, G: 196, B: 90, A: 255},
			glow: color.NRGBA{R: 255, G: 140, B: 60, A: 160},
		}
	case SkinFrost:
		return skinPalette{
			body: color.NRGBA{R: 170, G: 210, B: 240, A: 255},
			trim: color.NRGBA{R: 240, G: 250, B: 255, A: 255},
			glow: color.NRGBA{R: 150, G: 200, B: 255, A: 160},
		}
	default:
		return skinPalette{
			body: color.NRGBA{R: 240, G: 236, B: 220, A: 255},
			trim: color.NRGBA{R: 120, G: 170, B: 90, A: 255},
			glow: color.NRGBA{R: 255, G: 250, B: 210, A: 120},
		}
	}
}

// BuildAvatar creates the avatar subtree for a skin, registering its GPU
// resources with reg.
func BuildAvatar(s Skin, reg *visual.Registry) *visual.Subtree {
	pal := paletteFor(s)
	parts := []visual.Part{
		{Name: "glow", Shape: visual.ShapeDisc, Scale: math32.Vec3(1.4, 1.4, 1.4), Color: pal.glow, Emissive: true},
		{Name: "body", Shape: visual.ShapeSphere, Scale: math32.Vec3(0.55, 0.55, 0.55), Color: pal.body},
		{Name: "crest", Shape: visual.ShapeCone, Offset: math32.Vec3(0, 0.6, 0), Scale: math32.Vec3(0.25, 0.4, 0.25), Color: pal.trim},
	}
	switch s {
	case SkinEmber:
		parts = append(parts, visual.Part{Name: "spark", Shape: visual.ShapeOcta, Offset: math32.Vec3(0, 1.1, 0), Scale: math32.Vec3(0.15, 0.15, 0.15), Color: pal.trim, Emissive: true})
	case SkinFrost:
		parts = append(parts,
			visual.Part{Name: "shard-left", Shape: visual.ShapeOcta, Offset: math32.Vec3(-0.5, 0.3, 0), Scale: math32.Vec3(0.12, 0.3, 0.12), Color: pal.trim},
			visual.Part{Name: "shard-right", Shape: visual.ShapeOcta, Offset: math32.Vec3(0.5, 0.3, 0), Scale: math32.Vec3(0.12, 0.3, 0.12), Color: pal.trim},
		)
	}
	return visual.Build(reg, "avatar:"+s.String(), parts)
}
