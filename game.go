package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/tilequest/config"
	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/ecs/entity"
	"github.com/milk9111/tilequest/ecs/system"
	"github.com/milk9111/tilequest/event"
	"github.com/milk9111/tilequest/levels"
	"github.com/milk9111/tilequest/prefabs"
)

type Game struct {
	cfg   *config.Config
	world *ecs.World
	art   entity.Art

	scripts *system.ScriptSystem
	render  *system.RenderSystem

	// bus receives LoadMap and WindowExit from the world subject.
	bus     *event.Bus
	watcher *prefabs.Watcher
	ui      *ebitenui.UI

	level  string
	loaded *entity.Loaded
	paused bool
	quit   bool
}

// NewGame builds the world, its systems and the configured level. A nil
// art draws with generated images.
func NewGame(cfg *config.Config, art entity.Art) (*Game, error) {
	if art == nil {
		art = entity.NewGeneratedArt(cfg.TileSize)
	}

	g := &Game{
		cfg:     cfg,
		world:   ecs.NewWorld(),
		art:     art,
		scripts: system.NewScriptSystem(),
		render:  system.NewRenderSystem(cfg.TileSize),
		bus:     &event.Bus{},
	}
	g.render.Debug = cfg.Debug

	g.world.AddSystem(system.NewInputSystem())
	g.world.AddSystem(g.scripts)
	g.world.AddSystem(system.NewMovementSystem())
	g.world.AddSystem(system.NewAnimationSystem())
	g.world.AddSystem(system.NewCameraSystem())
	g.world.AddSystem(system.NewLayerToggleSystem())
	g.world.AddSystem(g.render)
	g.world.Observe(g.bus)

	if err := g.LoadLevel(cfg.Level); err != nil {
		return nil, err
	}

	if cfg.HotReload {
		if err := g.watch(); err != nil {
			log.Printf("hot reload disabled: %v", err)
		}
	}
	return g, nil
}

// LoadLevel replaces the world's entities with the named level.
func (g *Game) LoadLevel(name string) error {
	lvl, err := levels.LoadLevelFromFS(name)
	if err != nil {
		return err
	}

	camera, err := prefabs.LoadCameraSpec()
	if err != nil {
		return err
	}
	if g.cfg.CameraFollowDuration > 0 {
		camera.FollowDuration = g.cfg.CameraFollowDuration
	}

	g.world.Clear()
	loaded, err := entity.LoadLevelToWorld(g.world, lvl, entity.LevelOptions{
		Art:          g.art,
		PlayerPrefab: g.cfg.PlayerPrefab,
		Camera:       camera,
	})
	if err != nil {
		g.world.Clear()
		return fmt.Errorf("load level %s: %w", name, err)
	}
	g.level = lvl.Name
	g.loaded = loaded
	log.Printf("loaded level %s: %d npcs", lvl.Name, len(loaded.NPCs))
	return nil
}

func (g *Game) watch() error {
	dir := g.cfg.PrefabDir
	if dir == "" {
		return errors.New("no prefab dir")
	}
	dirs := []string{dir}
	if info, err := os.Stat(filepath.Join(dir, "scripts")); err == nil && info.IsDir() {
		dirs = append(dirs, filepath.Join(dir, "scripts"))
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}

	g.reload()

	if g.paused {
		if g.ui == nil {
			g.ui = NewPauseUI(g)
		}
		g.ui.Update()
	} else {
		g.world.Update(g.cfg.Delta())
	}

	g.bus.ProcessEventQueue(g.handle)
	if g.quit {
		g.Close()
		return ebiten.Termination
	}
	return nil
}

func (g *Game) handle(evt event.Event) {
	switch evt.Type {
	case event.LoadMap:
		p, ok := evt.Payload.(event.LoadMapPayload)
		if !ok {
			return
		}
		if err := g.LoadLevel(p.Name); err != nil {
			log.Printf("load map: %v", err)
			// A failed load may have cleared the world.
			if err := g.LoadLevel(g.level); err != nil {
				log.Printf("load map: restore %s: %v", g.level, err)
			}
			return
		}
		g.paused = false
	case event.WindowExit:
		g.quit = true
	}
}

// reload applies files changed on disk. Scripts swap their source in place;
// a changed prefab reloads the level so every sprite is rebuilt from it.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	reloadLevel := false
	for _, path := range g.watcher.Drain() {
		if !prefabs.IsScript(path) {
			reloadLevel = true
			continue
		}
		name := filepath.Base(path)
		src, err := prefabs.LoadScript(name)
		if err != nil {
			log.Printf("reload %s: %v", name, err)
			continue
		}
		ecs.ForEach(g.world, component.ScriptComponent.Kind(), func(_ ecs.Entity, sc *component.Script) {
			if filepath.Base(sc.Path) == name {
				sc.Source = src
			}
		})
		log.Printf("reloaded script %s", name)
	}
	if reloadLevel {
		if err := g.LoadLevel(g.level); err != nil {
			log.Printf("reload level %s: %v", g.level, err)
		}
	}
}

// NextLevel names the embedded level after the current one, wrapping
// around.
func (g *Game) NextLevel() string {
	names, err := levels.List()
	if err != nil || len(names) == 0 {
		return g.level
	}
	for i, name := range names {
		if name == g.level {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Draw(screen)
	if g.paused && g.ui != nil {
		g.ui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

// Close stops the file watcher.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
}
