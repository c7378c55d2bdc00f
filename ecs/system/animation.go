package system

import (
	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/event"
	"github.com/milk9111/tilequest/movement"
)

// AnimationSystem switches animations on AnimationTrigger events and
// advances frames by game time.
type AnimationSystem struct {
	bus   *event.Bus
	world *ecs.World
}

func NewAnimationSystem() *AnimationSystem {
	a := &AnimationSystem{}
	a.bus = &event.Bus{Now: a.handle}
	return a
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if a.world != w {
		if a.world != nil {
			a.world.Unobserve(a.bus)
		}
		a.world = w
		w.Observe(a.bus)
	}
	a.bus.ProcessEventQueue(a.handle)

	delta := w.Delta()
	ecs.ForEach2(w, component.AnimationComponent.Kind(), component.SpriteComponent.Kind(), func(e ecs.Entity, anim *component.Animation, sprite *component.Sprite) {
		def, ok := anim.Defs[anim.Current]
		if !ok || len(def.Frames) == 0 {
			return
		}

		if anim.Playing && def.FPS > 0 {
			frameTime := 1 / def.FPS
			anim.Elapsed += delta
			for anim.Elapsed >= frameTime {
				anim.Elapsed -= frameTime
				anim.Frame++
				if anim.Frame >= len(def.Frames) {
					if def.Loop {
						anim.Frame = 0
					} else {
						anim.Frame = len(def.Frames) - 1
						anim.Playing = false
						anim.Elapsed = 0
						break
					}
				}
			}
		}

		if anim.Frame >= len(def.Frames) {
			anim.Frame = len(def.Frames) - 1
		}
		sprite.Image = def.Frames[anim.Frame]
	})
}

// handle plays the triggered animation on the entity whose movement
// emitted it. Triggers arrive immediately so the new animation is visible
// in the same frame the state changed.
func (a *AnimationSystem) handle(evt event.Event) {
	if evt.Type != event.AnimationTrigger || a.world == nil {
		return
	}
	p, ok := evt.Payload.(event.AnimationTriggerPayload)
	if !ok {
		return
	}
	source, ok := p.Source.(*movement.SpriteMovement)
	if !ok {
		return
	}
	ecs.ForEach2(a.world, component.MovementComponent.Kind(), component.AnimationComponent.Kind(), func(_ ecs.Entity, s *movement.SpriteMovement, anim *component.Animation) {
		if s == source && anim.Current != p.Animation {
			anim.Play(p.Animation)
		}
	})
}
