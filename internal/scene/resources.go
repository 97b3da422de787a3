package scene

import (
	"sync/atomic"

	"meadow/internal/companion"
	"meadow/internal/player"
)

// Selection holds the externally chosen cosmetics. Hosts write it from any
// goroutine; Step reads it once per tick.
type Selection struct {
	skin      atomic.Uint32
	companion atomic.Uint32
}

// NewSelection starts with the given cosmetics.
func NewSelection(skin player.Skin, v companion.Variant) *Selection {
	sel := &Selection{}
	sel.SetSkin(skin)
	sel.SetCompanion(v)
	return sel
}

// SetSkin selects the avatar skin.
func (c *Selection) SetSkin(s player.Skin) { c.skin.Store(uint32(s)) }

// SetCompanion selects the companion variant.
func (c *Selection) SetCompanion(v companion.Variant) { c.companion.Store(uint32(v)) }

// CycleSkin advances to the next skin and returns it.
func (c *Selection) CycleSkin() player.Skin {
	s := player.Skin(c.skin.Load()).Next()
	c.SetSkin(s)
	return s
}

// CycleCompanion advances to the next companion and returns it.
func (c *Selection) CycleCompanion() companion.Variant {
	v := companion.Variant(c.companion.Load()).Next()
	c.SetCompanion(v)
	return v
}

// Load returns the current selection.
func (c *Selection) Load() (player.Skin, companion.Variant) {
	return player.Skin(c.skin.Load()), companion.Variant(c.companion.Load())
}

// staticResources are acquired once at construction and live until Close.
var staticResources = []string{
	"grass/geometry/high",
	"grass/geometry/low",
	"grass/material",
	"ground/geometry",
	"ground/material",
	"weather/points",
	"weather/material",
	"shard/geometry",
	"shard/material",
	"halo/sprite",
	"target/frame",
}

func (s *Scene) acquireStatic() {
	for _, label := range staticResources {
		s.reg.Acquire(label, nil)
	}
}

// selectCosmetics rebuilds a subtree only when its id changes, so repeated
// selection of the same variant is a no-op.
func (s *Scene) selectCosmetics(skin player.Skin, v companion.Variant) {
	if skin != s.skin || s.avatar == nil {
		s.avatar.Destroy()
		s.avatar = player.BuildAvatar(skin, s.reg)
		s.skin = skin
		s.rebuilds++
		s.logf("avatar skin: %s", skin)
	}
	if v != s.variant || s.pet == nil {
		s.pet.Destroy()
		s.pet = companion.Build(v, s.reg)
		s.variant = v
		s.companion.SetVariant(v)
		s.rebuilds++
		s.logf("companion: %s", v)
	}
}
