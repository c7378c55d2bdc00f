package component

import "github.com/milk9111/tilequest/transform"

// TransformComponent places an entity in the scene graph. Positions are in
// tiles with y pointing up.
var TransformComponent = NewComponent[transform.Transform]()
