package component

import "github.com/milk9111/tilequest/movement"

var MovementComponent = NewComponent[movement.SpriteMovement]()
