package component

import "github.com/hajimehoshi/ebiten/v2"

// TileLayer is one drawable layer of a level. Tiles holds Width*Height
// palette indexes in row-major order; zero means empty.
type TileLayer struct {
	Index   int
	Name    string
	Width   int
	Height  int
	Tiles   []int
	Hidden  bool
	Palette []*ebiten.Image
}

// At returns the palette index at x, y or 0 when out of range.
func (l *TileLayer) At(x, y int) int {
	i := y*l.Width + x
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height || i >= len(l.Tiles) {
		return 0
	}
	return l.Tiles[i]
}

var TileLayerComponent = NewComponent[TileLayer]()
