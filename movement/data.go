package movement

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/tilequest/transform"
)

// CollisionLookup reports the collide level of a tile. Tiles outside the map
// report -1.
type CollisionLookup interface {
	CollideLevel(x, y int) int
}

// SpriteData is the payload shared by the movement machine and its
// reactors.
type SpriteData struct {
	// MovingSpeed is in tiles per second.
	MovingSpeed float64
	// MoveQuantization is the length of one step in tiles.
	MoveQuantization float64

	Velocity     mgl64.Vec2
	NextPosition mgl64.Vec2
	Tile         image.Point
	CurrentLevel int

	Transform *transform.Transform
	Collision CollisionLookup

	// Animations names the animation triggered on entering each state.
	Animations map[State]string
	// Source is attached to emitted events so observers can tell sprites
	// apart.
	Source any
}

// Position returns the absolute x/y of the sprite.
func (d *SpriteData) Position() mgl64.Vec2 {
	return d.Transform.AbsoluteTranslation().Vec2()
}

func (d *SpriteData) animation(s State) string {
	if name, ok := d.Animations[s]; ok {
		return name
	}
	return s.String()
}

// Step advances the transform toward NextPosition by one frame of Velocity.
// When the remaining distance is no longer than a frame's worth of movement
// the transform snaps onto NextPosition and Step returns None and true.
func Step(d *SpriteData, delta float64) (Transition, bool) {
	pos := d.Position()
	frame := d.Velocity.Mul(delta)
	if d.NextPosition.Sub(pos).Len() > frame.Len() {
		d.Transform.Translate2D(frame)
		return None, false
	}
	d.Transform.Translate2D(d.NextPosition.Sub(pos))
	return None, true
}
