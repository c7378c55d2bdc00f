// Package physics holds tile collision data.
package physics

import (
	"errors"
	"fmt"
	"strings"
)

// Passable is the level of cells with no obstruction. It is also what
// CollideLevel reports outside the map.
const Passable = -1

var (
	ErrOutOfBounds = errors.New("physics: cell out of bounds")
	ErrInvalidSize = errors.New("physics: invalid map size")
)

// CollisionData stores one collide level per tile. A sprite at level L may
// enter a tile whose level is strictly less than L.
type CollisionData struct {
	width  int
	height int
	levels []int
}

// New returns a width x height grid with every cell Passable.
func New(width, height int) (*CollisionData, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	levels := make([]int, width*height)
	for i := range levels {
		levels[i] = Passable
	}
	return &CollisionData{width: width, height: height, levels: levels}, nil
}

func (c *CollisionData) Width() int  { return c.width }
func (c *CollisionData) Height() int { return c.height }

func (c *CollisionData) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// SetCollideLevel sets the level of cell (x, y).
func (c *CollisionData) SetCollideLevel(x, y, level int) error {
	if !c.inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	c.levels[y*c.width+x] = level
	return nil
}

// CollideLevel returns the level of cell (x, y), or Passable when the cell
// is outside the map.
func (c *CollisionData) CollideLevel(x, y int) int {
	if c == nil || !c.inBounds(x, y) {
		return Passable
	}
	return c.levels[y*c.width+x]
}

func (c *CollisionData) String() string {
	var b strings.Builder
	b.WriteString("collision data:\n")
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if x > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%d", c.levels[y*c.width+x])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
