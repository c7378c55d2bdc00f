package component

import "github.com/milk9111/tilequest/physics"

// CollisionComponent holds the collide levels of the loaded map. A world
// has at most one.
var CollisionComponent = NewComponent[physics.CollisionData]()
