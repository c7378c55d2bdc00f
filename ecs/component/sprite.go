package component

import "github.com/hajimehoshi/ebiten/v2"

type Sprite struct {
	Image *ebiten.Image
	// OriginX and OriginY are the pixel offsets of the transform origin
	// inside Image.
	OriginX float64
	OriginY float64
	// Layer orders drawing; higher layers draw later.
	Layer  int
	Hidden bool
}

var SpriteComponent = NewComponent[Sprite]()
