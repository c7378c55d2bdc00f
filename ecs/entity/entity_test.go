package entity

import (
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/levels"
	"github.com/milk9111/tilequest/movement"
	"github.com/milk9111/tilequest/physics"
	"github.com/milk9111/tilequest/prefabs"
	"github.com/milk9111/tilequest/transform"
)

// blankArt records requests without allocating GPU images.
type blankArt struct {
	tiles  []string
	frames map[string]int
}

func (a *blankArt) Tile(name string) *ebiten.Image {
	a.tiles = append(a.tiles, name)
	return nil
}

func (a *blankArt) Frame(_ prefabs.LookSpec, animation string, i int) *ebiten.Image {
	if a.frames == nil {
		a.frames = map[string]int{}
	}
	a.frames[animation]++
	return nil
}

func TestNewSprite(t *testing.T) {
	w := ecs.NewWorld()
	spec, err := prefabs.LoadSpriteSpec("player.yaml")
	if err != nil {
		t.Fatal(err)
	}
	c, err := physics.New(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	art := &blankArt{}

	e, err := NewSprite(w, spec, SpriteOptions{Tile: image.Pt(1, 2), Collision: c, Art: art})
	if err != nil {
		t.Fatalf("NewSprite: %v", err)
	}

	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t.Fatal("expected transform")
	}
	if pos := tr.AbsoluteTranslation(); pos.X() != 1 || pos.Y() != -2 {
		t.Fatalf("expected world position (1,-2), got %v", pos)
	}

	sm, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	if !ok {
		t.Fatal("expected movement")
	}
	if tile := sm.Data().Tile; tile != image.Pt(1, 2) {
		t.Fatalf("expected tile (1,2), got %v", tile)
	}

	name, _ := ecs.Get(w, e, component.NameComponent.Kind())
	if name.Value != spec.Name {
		t.Fatalf("expected name %q, got %q", spec.Name, name.Value)
	}

	anim, _ := ecs.Get(w, e, component.AnimationComponent.Kind())
	if anim.Current != spec.Animation.States[movement.FaceDown.String()] {
		t.Fatalf("expected to start on the face down animation, got %q", anim.Current)
	}
	if art.frames["walk_up"] != 2 {
		t.Fatalf("expected two walk_up frames, got %d", art.frames["walk_up"])
	}
	if ecs.Has(w, e, component.ScriptComponent.Kind()) {
		t.Fatal("player prefab should not carry a script")
	}
}

func TestNewSpriteRejectsUnknownState(t *testing.T) {
	w := ecs.NewWorld()
	c, _ := physics.New(2, 2)
	spec := &prefabs.SpriteSpec{
		Name:             "broken",
		MovingSpeed:      1,
		MoveQuantization: 1,
		Animation:        prefabs.AnimationSpec{States: map[string]string{"dance": "dance"}},
	}
	if _, err := NewSprite(w, spec, SpriteOptions{Collision: c, Art: &blankArt{}}); err == nil {
		t.Fatal("expected an error for an unknown movement state")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("expected no entities after a failed build, got %d", n)
	}
}

func TestNewSpriteCleansUpAfterFailure(t *testing.T) {
	w := ecs.NewWorld()
	spec, err := prefabs.LoadSpriteSpec("player.yaml")
	if err != nil {
		t.Fatal(err)
	}
	c, _ := physics.New(2, 2)
	root := transform.New()

	_, err = NewSprite(w, spec, SpriteOptions{
		Script:    "missing.tengo",
		Parent:    root,
		Collision: c,
		Art:       &blankArt{},
	})
	if err == nil {
		t.Fatal("expected an error for a missing script")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("expected the half-built sprite to be destroyed, got %d entities", n)
	}
	if n := root.TreeSize(); n != 1 {
		t.Fatalf("expected the sprite transform to leave the parent, tree size %d", n)
	}
}

func TestLoadLevelToWorld(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("town")
	if err != nil {
		t.Fatal(err)
	}
	w := ecs.NewWorld()
	art := &blankArt{}

	loaded, err := LoadLevelToWorld(w, lvl, LevelOptions{Art: art})
	if err != nil {
		t.Fatalf("LoadLevelToWorld: %v", err)
	}

	if !loaded.Player.Valid() || !ecs.Has(w, loaded.Player, component.PlayerTagComponent.Kind()) {
		t.Fatal("expected a tagged player")
	}
	if len(loaded.NPCs) != 2 {
		t.Fatalf("expected 2 npcs, got %d", len(loaded.NPCs))
	}
	for _, npc := range loaded.NPCs {
		if !ecs.Has(w, npc, component.ScriptComponent.Kind()) {
			t.Fatalf("npc %v has no script", npc)
		}
	}
	if !loaded.Camera.Valid() {
		t.Fatal("expected a camera")
	}
	cam, _ := ecs.Get(w, loaded.Camera, component.CameraComponent.Kind())
	if cam.TargetName != "player" {
		t.Fatalf("expected camera to follow the player, got %q", cam.TargetName)
	}

	if n := ecs.Count(w, component.TileLayerComponent.Kind()); n != len(lvl.Layers) {
		t.Fatalf("expected %d tile layers, got %d", len(lvl.Layers), n)
	}
	if len(art.tiles) != len(lvl.Palette) {
		t.Fatalf("expected one tile per palette entry, got %d", len(art.tiles))
	}
	if c, ok := ecs.Get(w, loaded.Root, component.CollisionComponent.Kind()); !ok || c != loaded.Collision {
		t.Fatal("expected the collision map on the root entity")
	}

	root, _ := ecs.Get(w, loaded.Root, component.TransformComponent.Kind())
	if got, want := root.TreeSize(), 1+1+len(loaded.NPCs); got != want {
		t.Fatalf("expected %d transforms under the root, got %d", want, got)
	}

	// Moving the root moves every sprite with it.
	player, _ := ecs.Get(w, loaded.Player, component.TransformComponent.Kind())
	before := player.AbsoluteTranslation()
	root.Translate2D([2]float64{3, 0})
	if after := player.AbsoluteTranslation(); after.X() != before.X()+3 {
		t.Fatalf("expected the player to follow the root, %v -> %v", before, after)
	}

	ecs.DestroyEntity(w, loaded.Root)
	if player.Parent() != nil {
		t.Fatal("expected destroying the root to detach the player transform")
	}
}

func TestLoadLevelToWorldAddsDefaultCamera(t *testing.T) {
	lvl := &levels.Level{
		Name:      "tiny",
		Width:     3,
		Height:    3,
		Palette:   []string{"", "forestgreen"},
		Layers:    [][]int{{1, 1, 1, 1, 1, 1, 1, 1, 1}},
		Collision: make([]int, 9),
		Entities:  []levels.Entity{{Type: "player", X: 1, Y: 1}},
	}
	w := ecs.NewWorld()
	loaded, err := LoadLevelToWorld(w, lvl, LevelOptions{Art: &blankArt{}})
	if err != nil {
		t.Fatal(err)
	}
	tr, ok := ecs.Get(w, loaded.Camera, component.TransformComponent.Kind())
	if !ok {
		t.Fatal("expected a default camera")
	}
	if pos := tr.AbsoluteTranslation(); pos.X() != 1 || pos.Y() != -1 {
		t.Fatalf("expected the camera on the player, got %v", pos)
	}
}

func TestLoadLevelToWorldRejectsTwoPlayers(t *testing.T) {
	lvl := &levels.Level{
		Name:      "twins",
		Width:     2,
		Height:    1,
		Layers:    [][]int{{0, 0}},
		Collision: []int{0, 0},
		Entities:  []levels.Entity{{Type: "player"}, {Type: "player", X: 1}},
	}
	if _, err := LoadLevelToWorld(ecs.NewWorld(), lvl, LevelOptions{Art: &blankArt{}}); err == nil {
		t.Fatal("expected an error for two player spawns")
	}
}
