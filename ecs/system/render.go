package system

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/event"
	"github.com/milk9111/tilequest/movement"
	"github.com/milk9111/tilequest/transform"
)

// RenderSystem draws tile layers and sprites through the camera. World
// units are tiles with y up; TileSize converts them to pixels.
type RenderSystem struct {
	TileSize float64
	Debug    bool

	bus   *event.Bus
	world *ecs.World
	face  ebtext.Face
}

func NewRenderSystem(tileSize int) *RenderSystem {
	r := &RenderSystem{
		TileSize: float64(tileSize),
		face:     ebtext.NewGoXFace(basicfont.Face7x13),
	}
	r.bus = &event.Bus{}
	return r
}

// Update only listens for the debug toggle; drawing happens in Draw.
func (r *RenderSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if r.world != w {
		if r.world != nil {
			r.world.Unobserve(r.bus)
		}
		r.world = w
		w.Observe(r.bus)
	}
	r.bus.ProcessEventQueue(func(evt event.Event) {
		if evt.Type == event.ToggleDebug {
			r.Debug = !r.Debug
		}
	})
}

// view maps world coordinates onto the screen.
type view struct {
	cam    mgl64.Vec2
	scale  float64
	width  float64
	height float64
}

func (v view) toScreen(p mgl64.Vec2) (float64, float64) {
	return (p.X()-v.cam.X())*v.scale + v.width/2, -(p.Y()-v.cam.Y())*v.scale + v.height/2
}

func (r *RenderSystem) view(w *ecs.World, screen *ebiten.Image) view {
	b := screen.Bounds()
	v := view{scale: r.TileSize, width: float64(b.Dx()), height: float64(b.Dy())}
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return v
	}
	if t, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		v.cam = t.AbsoluteTranslation().Vec2()
	}
	if cam, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind()); ok && cam.Zoom > 0 {
		v.scale *= cam.Zoom
	}
	return v
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(colornames.Black)
	v := r.view(w, screen)

	r.drawLayers(w, screen, v)
	r.drawSprites(w, screen, v)
	if r.Debug {
		r.drawCollision(w, screen, v)
		r.drawHUD(w, screen)
	}
}

func (r *RenderSystem) drawLayers(w *ecs.World, screen *ebiten.Image, v view) {
	var layers []*component.TileLayer
	ecs.ForEach(w, component.TileLayerComponent.Kind(), func(_ ecs.Entity, l *component.TileLayer) {
		layers = append(layers, l)
	})
	sort.SliceStable(layers, func(i, j int) bool { return layers[i].Index < layers[j].Index })

	zoom := v.scale / r.TileSize
	for _, l := range layers {
		if l.Hidden {
			continue
		}
		for y := 0; y < l.Height; y++ {
			for x := 0; x < l.Width; x++ {
				idx := l.At(x, y)
				if idx <= 0 || idx >= len(l.Palette) || l.Palette[idx] == nil {
					continue
				}
				img := l.Palette[idx]
				sx, sy := v.toScreen(mgl64.Vec2{float64(x), -float64(y)})
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Translate(-float64(img.Bounds().Dx())/2, -float64(img.Bounds().Dy())/2)
				op.GeoM.Scale(zoom, zoom)
				op.GeoM.Translate(sx, sy)
				screen.DrawImage(img, op)
			}
		}
	}
}

func (r *RenderSystem) drawSprites(w *ecs.World, screen *ebiten.Image, v view) {
	type drawable struct {
		e      ecs.Entity
		t      *transform.Transform
		sprite *component.Sprite
	}
	var items []drawable
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.SpriteComponent.Kind(), func(e ecs.Entity, t *transform.Transform, s *component.Sprite) {
		if s.Image != nil && !s.Hidden {
			items = append(items, drawable{e: e, t: t, sprite: s})
		}
	})
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].sprite.Layer != items[j].sprite.Layer {
			return items[i].sprite.Layer < items[j].sprite.Layer
		}
		return uint64(items[i].e) < uint64(items[j].e)
	})

	for _, it := range items {
		op := &ebiten.DrawImageOptions{}
		op.GeoM = spriteGeoM(it.t.AbsoluteMatrix(), it.sprite, r.TileSize)
		op.GeoM.Translate(-v.cam.X(), -v.cam.Y())
		op.GeoM.Scale(v.scale, -v.scale)
		op.GeoM.Translate(v.width/2, v.height/2)
		screen.DrawImage(it.sprite.Image, op)
	}
}

// spriteGeoM maps sprite pixels into world space: the origin moves to the
// transform origin, pixels become tiles with y flipped up, then the 2D part
// of the absolute matrix applies.
func spriteGeoM(m mgl64.Mat4, s *component.Sprite, tileSize float64) ebiten.GeoM {
	var local ebiten.GeoM
	local.Translate(-s.OriginX, -s.OriginY)
	local.Scale(1/tileSize, -1/tileSize)

	var abs ebiten.GeoM
	abs.SetElement(0, 0, m[0])
	abs.SetElement(0, 1, m[4])
	abs.SetElement(0, 2, m[12])
	abs.SetElement(1, 0, m[1])
	abs.SetElement(1, 1, m[5])
	abs.SetElement(1, 2, m[13])

	local.Concat(abs)
	return local
}

func (r *RenderSystem) drawCollision(w *ecs.World, screen *ebiten.Image, v view) {
	e, ok := ecs.First(w, component.CollisionComponent.Kind())
	if !ok {
		return
	}
	c, _ := ecs.Get(w, e, component.CollisionComponent.Kind())
	size := float32(v.scale)
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			level := c.CollideLevel(x, y)
			if level < 0 {
				continue
			}
			sx, sy := v.toScreen(mgl64.Vec2{float64(x), -float64(y)})
			fill := color.RGBA{R: 255, A: 48}
			if level > 0 {
				fill = color.RGBA{R: 255, G: 128, A: 64}
			}
			vector.FillRect(screen, float32(sx)-size/2, float32(sy)-size/2, size, size, fill, false)
			vector.StrokeRect(screen, float32(sx)-size/2, float32(sy)-size/2, size, size, 1, colornames.Red, false)
		}
	}
}

func (r *RenderSystem) drawHUD(w *ecs.World, screen *ebiten.Image) {
	lines := []string{fmt.Sprintf("fps %.0f  tps %.0f", ebiten.ActualFPS(), ebiten.ActualTPS())}
	if player, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		if s, ok := ecs.Get(w, player, component.MovementComponent.Kind()); ok {
			lines = append(lines, describeSprite(s))
		}
	}

	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(colornames.Lightgreen)
	ebtext.Draw(screen, strings.Join(lines, "\n"), r.face, op)
}

func describeSprite(s *movement.SpriteMovement) string {
	d := s.Data()
	return fmt.Sprintf("%s tile=(%d,%d) pos=(%.2f,%.2f)", s.State(), d.Tile.X, d.Tile.Y, d.Position().X(), d.Position().Y())
}
