package entity

import (
	"fmt"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/levels"
	"github.com/milk9111/tilequest/physics"
	"github.com/milk9111/tilequest/prefabs"
	"github.com/milk9111/tilequest/transform"
)

// LevelOptions configures LoadLevelToWorld.
type LevelOptions struct {
	Art Art
	// PlayerPrefab overrides the prefab of player spawns without a prefab
	// prop.
	PlayerPrefab string
	Camera       *prefabs.CameraSpec
}

// Loaded lists what LoadLevelToWorld created.
type Loaded struct {
	Root      ecs.Entity
	Player    ecs.Entity
	NPCs      []ecs.Entity
	Camera    ecs.Entity
	Collision *physics.CollisionData
}

// LoadLevelToWorld creates the collision map, one entity per tile layer
// and the spawns of lvl. Sprites hang off a root transform so destroying
// the root entity tears the scene graph down with it.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level, opts LevelOptions) (*Loaded, error) {
	if opts.Art == nil {
		return nil, fmt.Errorf("level %s: no art", lvl.Name)
	}
	if opts.PlayerPrefab == "" {
		opts.PlayerPrefab = "player.yaml"
	}

	collision, err := levels.BuildCollision(lvl)
	if err != nil {
		return nil, fmt.Errorf("level %s: collision: %w", lvl.Name, err)
	}

	out := &Loaded{Collision: collision}
	rootTransform := transform.New()
	out.Root = ecs.CreateEntity(w)
	if err := ecs.Add(w, out.Root, component.TransformComponent.Kind(), rootTransform); err != nil {
		return nil, err
	}
	if err := ecs.Add(w, out.Root, component.CollisionComponent.Kind(), collision); err != nil {
		return nil, err
	}
	if err := ecs.Add(w, out.Root, component.NameComponent.Kind(), &component.Name{Value: lvl.Name}); err != nil {
		return nil, err
	}

	palette := make([]*ebiten.Image, len(lvl.Palette))
	for i, name := range lvl.Palette {
		palette[i] = opts.Art.Tile(name)
	}
	for i, tiles := range lvl.Layers {
		hidden := i < len(lvl.LayerMeta) && lvl.LayerMeta[i].Hidden
		layer := &component.TileLayer{
			Index:   i,
			Name:    lvl.LayerName(i),
			Width:   lvl.Width,
			Height:  lvl.Height,
			Tiles:   tiles,
			Hidden:  hidden,
			Palette: palette,
		}
		if err := ecs.Add(w, ecs.CreateEntity(w), component.TileLayerComponent.Kind(), layer); err != nil {
			return nil, err
		}
	}

	sprite := func(spawn levels.Entity, prefab string) (ecs.Entity, error) {
		spec, err := prefabs.LoadSpriteSpec(spawn.Prop("prefab", prefab))
		if err != nil {
			return 0, err
		}
		return NewSprite(w, spec, SpriteOptions{
			Tile:      image.Pt(spawn.X, spawn.Y),
			Name:      spawn.Prop("name", ""),
			Script:    spawn.Prop("script", ""),
			Parent:    rootTransform,
			Collision: collision,
			Art:       opts.Art,
		})
	}

	for _, spawn := range lvl.Entities {
		switch spawn.Type {
		case "player":
			if out.Player.Valid() {
				return nil, fmt.Errorf("level %s: more than one player spawn", lvl.Name)
			}
			e, err := sprite(spawn, opts.PlayerPrefab)
			if err != nil {
				return nil, fmt.Errorf("level %s: player: %w", lvl.Name, err)
			}
			if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
				return nil, err
			}
			out.Player = e
		case "npc":
			e, err := sprite(spawn, "npc.yaml")
			if err != nil {
				return nil, fmt.Errorf("level %s: npc at (%d,%d): %w", lvl.Name, spawn.X, spawn.Y, err)
			}
			if err := ecs.Add(w, e, component.NPCTagComponent.Kind(), &component.NPCTag{}); err != nil {
				return nil, err
			}
			out.NPCs = append(out.NPCs, e)
		case "camera":
			e, err := NewCamera(w, opts.Camera, spawn.Prop("target", "player"), spawn.X, spawn.Y)
			if err != nil {
				return nil, fmt.Errorf("level %s: %w", lvl.Name, err)
			}
			out.Camera = e
		default:
			log.Printf("level %s: skipping unknown spawn type %q", lvl.Name, spawn.Type)
		}
	}

	if !out.Camera.Valid() && out.Player.Valid() {
		t, _ := ecs.Get(w, out.Player, component.TransformComponent.Kind())
		pos := t.AbsoluteTranslation()
		e, err := NewCamera(w, opts.Camera, "player", int(pos.X()), int(-pos.Y()))
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", lvl.Name, err)
		}
		out.Camera = e
	}
	return out, nil
}
