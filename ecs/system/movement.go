package system

import (
	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/movement"
)

// MovementSystem subscribes every sprite to the world's events, starts its
// machine the first time it is seen and ticks it once per update.
type MovementSystem struct {
	observed map[*movement.SpriteMovement]struct{}
}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{observed: map[*movement.SpriteMovement]struct{}{}}
}

func (m *MovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	seen := make(map[*movement.SpriteMovement]struct{}, len(m.observed))
	ecs.ForEach(w, component.MovementComponent.Kind(), func(_ ecs.Entity, s *movement.SpriteMovement) {
		seen[s] = struct{}{}
		if _, ok := m.observed[s]; !ok {
			w.Observe(s)
			m.observed[s] = struct{}{}
			if !s.Machine().Running() {
				s.Start()
			}
		}
	})
	for s := range m.observed {
		if _, ok := seen[s]; !ok {
			w.Unobserve(s)
			delete(m.observed, s)
		}
	}

	ecs.ForEach(w, component.MovementComponent.Kind(), func(_ ecs.Entity, s *movement.SpriteMovement) {
		s.Update(w.Delta())
	})
}

// Observed returns the number of sprites currently subscribed.
func (m *MovementSystem) Observed() int {
	return len(m.observed)
}
