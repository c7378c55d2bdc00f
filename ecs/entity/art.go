package entity

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/tilequest/prefabs"
)

// Art produces the images entities are drawn with.
type Art interface {
	// Tile returns a tile image filled with the named color, or nil for an
	// empty palette slot.
	Tile(name string) *ebiten.Image
	// Frame returns frame i of the named animation for a sprite look.
	Frame(look prefabs.LookSpec, animation string, i int) *ebiten.Image
}

// GeneratedArt draws flat colored tiles and sprites with a marker that
// points toward the sprite's heading.
type GeneratedArt struct {
	TileSize int
	tiles    map[string]*ebiten.Image
}

func NewGeneratedArt(tileSize int) *GeneratedArt {
	return &GeneratedArt{TileSize: tileSize, tiles: map[string]*ebiten.Image{}}
}

func (a *GeneratedArt) Tile(name string) *ebiten.Image {
	if name == "" {
		return nil
	}
	if img, ok := a.tiles[name]; ok {
		return img
	}
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		c = colornames.Magenta
	}
	img := ebiten.NewImage(a.TileSize, a.TileSize)
	img.Fill(c)
	edge := float32(a.TileSize)
	vector.StrokeRect(img, 0, 0, edge, edge, 1, color.RGBA{A: 40}, false)
	a.tiles[name] = img
	return img
}

func (a *GeneratedArt) Frame(look prefabs.LookSpec, animation string, i int) *ebiten.Image {
	size := look.Size
	if size <= 0 {
		size = a.TileSize
	}
	img := ebiten.NewImage(size, size)

	inset := float32(size) / 8
	body := float32(size) - 2*inset
	bob := float32(0)
	if i%2 == 1 {
		bob = inset / 2
	}
	vector.FillRect(img, inset, inset-bob, body, body, look.Color.Or(colornames.White), false)

	marker := body / 4
	cx, cy := float32(size)/2-marker/2, float32(size)/2-marker/2-bob
	switch heading(animation) {
	case "up":
		cy = inset - bob
	case "down":
		cy = inset + body - marker - bob
	case "left":
		cx = inset
	case "right":
		cx = inset + body - marker
	}
	vector.FillRect(img, cx, cy, marker, marker, look.Accent.Or(colornames.Black), false)
	return img
}

// heading extracts the direction suffix of names like walk_left.
func heading(animation string) string {
	if i := strings.LastIndex(animation, "_"); i >= 0 {
		return animation[i+1:]
	}
	return ""
}

// frameCount is two for walk cycles and one for everything else.
func frameCount(animation string) int {
	if strings.HasPrefix(animation, "walk_") {
		return 2
	}
	return 1
}
