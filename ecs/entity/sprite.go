package entity

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/movement"
	"github.com/milk9111/tilequest/prefabs"
	"github.com/milk9111/tilequest/transform"
)

// SpriteOptions places a sprite built from a prefab.
type SpriteOptions struct {
	Tile      image.Point
	Name      string
	Script    string
	Parent    *transform.Transform
	Collision movement.CollisionLookup
	Art       Art
}

// NewSprite builds a moving sprite: transform, movement machine, animation
// and sprite image, plus a script component when the prefab or opts names
// one.
func NewSprite(w *ecs.World, spec *prefabs.SpriteSpec, opts SpriteOptions) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("sprite: nil spec")
	}

	animations := make(map[movement.State]string, len(spec.Animation.States))
	for stateName, anim := range spec.Animation.States {
		s, ok := movement.ParseState(stateName)
		if !ok {
			return 0, fmt.Errorf("sprite %s: unknown movement state %q", spec.Name, stateName)
		}
		animations[s] = anim
	}

	t := transform.New()
	t.Translate2D(mgl64.Vec2{float64(opts.Tile.X), -float64(opts.Tile.Y)})
	if opts.Parent != nil {
		if err := opts.Parent.AddChild(t); err != nil {
			return 0, fmt.Errorf("sprite %s: attach transform: %w", spec.Name, err)
		}
	}

	var e ecs.Entity
	// fail tears down whatever was built so far.
	fail := func(err error) (ecs.Entity, error) {
		if e.Valid() {
			ecs.DestroyEntity(w, e)
		}
		t.Destroy()
		return 0, err
	}

	sm, err := movement.New(movement.Config{
		MovingSpeed:      spec.MovingSpeed,
		MoveQuantization: spec.MoveQuantization,
		CurrentLevel:     spec.CollideLevel,
		Animations:       animations,
		Input:            spec.Input,
	}, t, opts.Collision, w)
	if err != nil {
		return fail(fmt.Errorf("sprite %s: %w", spec.Name, err))
	}

	e = ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), t); err != nil {
		return fail(fmt.Errorf("sprite %s: add transform: %w", spec.Name, err))
	}
	if err := ecs.Add(w, e, component.MovementComponent.Kind(), sm); err != nil {
		return fail(fmt.Errorf("sprite %s: add movement: %w", spec.Name, err))
	}

	name := opts.Name
	if name == "" {
		name = spec.Name
	}
	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		return fail(fmt.Errorf("sprite %s: add name: %w", spec.Name, err))
	}

	anim := buildAnimation(spec, opts.Art)
	sprite := &component.Sprite{Layer: spec.Sprite.Layer}
	if def, ok := anim.Defs[anim.Current]; ok && len(def.Frames) > 0 {
		sprite.Image = def.Frames[0]
		if sprite.Image != nil {
			b := sprite.Image.Bounds()
			sprite.OriginX = float64(b.Dx()) / 2
			sprite.OriginY = float64(b.Dy()) / 2
		}
	}
	if err := ecs.Add(w, e, component.AnimationComponent.Kind(), anim); err != nil {
		return fail(fmt.Errorf("sprite %s: add animation: %w", spec.Name, err))
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), sprite); err != nil {
		return fail(fmt.Errorf("sprite %s: add sprite: %w", spec.Name, err))
	}

	scriptName := opts.Script
	if scriptName == "" {
		scriptName = spec.Script
	}
	if scriptName != "" {
		src, err := prefabs.LoadScript(scriptName)
		if err != nil {
			return fail(fmt.Errorf("sprite %s: load script: %w", spec.Name, err))
		}
		if err := ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{
			Path:     scriptName,
			Source:   src,
			Interval: spec.ScriptInterval,
		}); err != nil {
			return fail(fmt.Errorf("sprite %s: add script: %w", spec.Name, err))
		}
	}

	return e, nil
}

func buildAnimation(spec *prefabs.SpriteSpec, art Art) *component.Animation {
	anim := &component.Animation{Defs: map[string]component.AnimationDef{}}
	for _, name := range spec.Animation.States {
		if _, ok := anim.Defs[name]; ok {
			continue
		}
		def := component.AnimationDef{Name: name, FPS: spec.Animation.FPS, Loop: true}
		for i := 0; i < frameCount(name); i++ {
			def.Frames = append(def.Frames, art.Frame(spec.Sprite, name, i))
		}
		anim.Defs[name] = def
	}
	// Sprites start facing down.
	if name, ok := spec.Animation.States[movement.FaceDown.String()]; ok {
		anim.Current = name
	}
	return anim
}
