package system

import (
	"image"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/event"
	"github.com/milk9111/tilequest/movement"
	"github.com/milk9111/tilequest/physics"
	"github.com/milk9111/tilequest/transform"
)

type fakeKeys struct {
	pressed  map[ebiten.Key]bool
	released map[ebiten.Key]bool
}

func (f *fakeKeys) JustPressed(k ebiten.Key) bool  { return f.pressed[k] }
func (f *fakeKeys) JustReleased(k ebiten.Key) bool { return f.released[k] }

func (f *fakeKeys) set(pressed, released []ebiten.Key) {
	f.pressed = map[ebiten.Key]bool{}
	f.released = map[ebiten.Key]bool{}
	for _, k := range pressed {
		f.pressed[k] = true
	}
	for _, k := range released {
		f.released[k] = true
	}
}

func newCollision(t *testing.T) *physics.CollisionData {
	t.Helper()
	c, err := physics.New(10, 10)
	if err != nil {
		t.Fatalf("physics.New: %v", err)
	}
	return c
}

func spawnSprite(t *testing.T, w *ecs.World, at mgl64.Vec2, cfg movement.Config) (ecs.Entity, *movement.SpriteMovement) {
	t.Helper()
	e := ecs.CreateEntity(w)
	tr := transform.New()
	tr.Translate2D(at)
	s, err := movement.New(cfg, tr, newCollision(t), w)
	if err != nil {
		t.Fatalf("movement.New: %v", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), tr); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.MovementComponent.Kind(), s); err != nil {
		t.Fatal(err)
	}
	return e, s
}

func TestInputSystemEmitsKeysAndHotkeys(t *testing.T) {
	w := ecs.NewWorld()
	keys := &fakeKeys{}
	w.AddSystem(NewInputSystemWithSource(keys))

	var got []event.Type
	bus := &event.Bus{}
	w.Observe(bus)

	keys.set([]ebiten.Key{ebiten.KeyF}, []ebiten.Key{ebiten.KeyD})
	w.Update(0)
	bus.ProcessEventQueue(func(evt event.Event) { got = append(got, evt.Type) })

	want := []event.Type{event.KeyUp, event.KeyDown, event.ToggleFreeCamera}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestMovementSystemMovesPlayerFromKeys(t *testing.T) {
	w := ecs.NewWorld()
	keys := &fakeKeys{}
	movementSystem := NewMovementSystem()
	w.AddSystem(NewInputSystemWithSource(keys))
	w.AddSystem(movementSystem)

	e, s := spawnSprite(t, w, mgl64.Vec2{2, -2}, movement.Config{MovingSpeed: 1, MoveQuantization: 1, Input: true})

	keys.set(nil, nil)
	w.Update(0)
	if movementSystem.Observed() != 1 || !s.Machine().Running() {
		t.Fatalf("sprite should be observed and started")
	}

	keys.set([]ebiten.Key{ebiten.KeyD}, nil)
	w.Update(0.25)
	if s.State() != movement.MoveRight {
		t.Fatalf("expected MoveRight, got %v", s.State())
	}

	keys.set(nil, []ebiten.Key{ebiten.KeyD})
	for i := 0; i < 3; i++ {
		w.Update(0.25)
	}
	if s.State() != movement.FaceRight {
		t.Fatalf("expected FaceRight, got %v", s.State())
	}
	if s.Data().Tile != image.Pt(3, 2) {
		t.Fatalf("expected tile (3,2), got %v", s.Data().Tile)
	}
	if pos := s.Data().Position(); pos != (mgl64.Vec2{3, -2}) {
		t.Fatalf("expected (3,-2), got %v", pos)
	}

	ecs.DestroyEntity(w, e)
	keys.set(nil, nil)
	w.Update(0.25)
	if movementSystem.Observed() != 0 {
		t.Fatalf("destroyed sprite should be unsubscribed")
	}
}

func TestAnimationSystemPlaysTriggeredAnimation(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewMovementSystem())
	w.AddSystem(NewAnimationSystem())

	e, s := spawnSprite(t, w, mgl64.Vec2{}, movement.Config{MovingSpeed: 1})
	walk := []*ebiten.Image{{}, {}}
	idle := []*ebiten.Image{{}}
	anim := &component.Animation{
		Defs: map[string]component.AnimationDef{
			"move_right": {Name: "move_right", Frames: walk, FPS: 10, Loop: true},
			"face_right": {Name: "face_right", Frames: idle},
			"face_down":  {Name: "face_down", Frames: idle},
		},
		Current: "face_down",
	}
	sprite := &component.Sprite{}
	if err := ecs.Add(w, e, component.AnimationComponent.Kind(), anim); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), sprite); err != nil {
		t.Fatal(err)
	}

	w.Update(0)
	if sprite.Image != idle[0] {
		t.Fatalf("expected the idle frame")
	}

	s.Push(movement.Right)
	if anim.Current != "move_right" || !anim.Playing {
		t.Fatalf("expected move_right to play immediately, got %q", anim.Current)
	}

	w.Update(0.1)
	if anim.Frame != 1 || sprite.Image != walk[1] {
		t.Fatalf("expected the second walk frame, got frame %d", anim.Frame)
	}
	w.Update(0.1)
	if anim.Frame != 0 {
		t.Fatalf("expected a looping animation to wrap, got frame %d", anim.Frame)
	}

	for i := 0; i < 10 && s.State() != movement.FaceRight; i++ {
		w.Update(0.1)
	}
	if anim.Current != "face_right" || sprite.Image != idle[0] {
		t.Fatalf("expected face_right after the step, got %q", anim.Current)
	}
}

func TestCameraFollowsAndToggles(t *testing.T) {
	w := ecs.NewWorld()
	camera := NewCameraSystem()
	w.AddSystem(NewMovementSystem())
	w.AddSystem(camera)

	player, s := spawnSprite(t, w, mgl64.Vec2{1, -1}, movement.Config{MovingSpeed: 2, Input: true})
	if err := ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		t.Fatal(err)
	}

	camEntity := ecs.CreateEntity(w)
	camTransform := transform.New()
	if err := ecs.Add(w, camEntity, component.TransformComponent.Kind(), camTransform); err != nil {
		t.Fatal(err)
	}
	cam := &component.Camera{TargetName: "player", Zoom: 1, FollowDuration: 0.5, PanSpeed: 2}
	if err := ecs.Add(w, camEntity, component.CameraComponent.Kind(), cam); err != nil {
		t.Fatal(err)
	}

	camPos := func() mgl64.Vec2 { return camTransform.AbsoluteTranslation().Vec2() }

	w.Update(0)
	if camPos() != (mgl64.Vec2{1, -1}) {
		t.Fatalf("camera should snap to the player, got %v", camPos())
	}

	s.Push(movement.Right)
	w.Update(0.25)
	if x := camPos().X(); x <= 1 || x >= 2 {
		t.Fatalf("camera should be tweening toward x=2, got %v", x)
	}
	w.Update(0.25)
	w.Update(0.25)
	if !camPos().ApproxEqualThreshold(mgl64.Vec2{2, -1}, 1e-4) {
		t.Fatalf("camera should settle on (2,-1), got %v", camPos())
	}

	w.Notify(event.Event{Type: event.ToggleFreeCamera})
	w.Update(0)
	if camera.Mode() != CameraFree {
		t.Fatalf("expected free camera, got %v", camera.Mode())
	}
	if s.Active() {
		t.Fatalf("player input should be suspended in free camera mode")
	}

	w.Notify(event.NewKeyDown(event.KeyArrowUp))
	w.Update(0.5)
	if got := camPos().Y(); math.Abs(got-0) > 1e-4 {
		t.Fatalf("expected the camera to pan to y=0, got %v", got)
	}
	w.Notify(event.NewKeyUp(event.KeyArrowUp))

	w.Notify(event.Event{Type: event.ToggleFreeCamera})
	w.Update(0)
	if camera.Mode() != CameraFollow || !s.Active() {
		t.Fatalf("expected follow mode with player input restored")
	}
	if !camPos().ApproxEqualThreshold(mgl64.Vec2{2, -1}, 1e-4) {
		t.Fatalf("camera should snap back to the player, got %v", camPos())
	}
}

func TestScriptSystemDrivesSprite(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewMovementSystem())
	w.AddSystem(NewScriptSystem())

	e, s := spawnSprite(t, w, mgl64.Vec2{5, -5}, movement.Config{MovingSpeed: 1})
	src := `
update := func(engine, memory) {
	if memory.runs == undefined {
		memory.runs = 0
	}
	memory.runs += 1
	if memory.runs == 1 {
		engine.move("left")
	}
}
`
	if err := ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: "inline", Source: []byte(src)}); err != nil {
		t.Fatal(err)
	}

	w.Update(0)
	if s.State() != movement.MoveLeft {
		t.Fatalf("expected the script to start a step left, got %v", s.State())
	}
	if s.Data().Tile != image.Pt(4, 5) {
		t.Fatalf("expected tile (4,5), got %v", s.Data().Tile)
	}

	for i := 0; i < 8; i++ {
		w.Update(0.25)
	}
	if s.State() != movement.FaceLeft {
		t.Fatalf("second run should not move again, got %v", s.State())
	}
}

func TestScriptSystemSurvivesBadScript(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewMovementSystem())
	w.AddSystem(NewScriptSystem())

	e, s := spawnSprite(t, w, mgl64.Vec2{}, movement.Config{MovingSpeed: 1})
	if err := ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: "broken", Source: []byte("update := func(")}); err != nil {
		t.Fatal(err)
	}
	w.Update(0.1)
	w.Update(0.1)
	if s.State() != movement.FaceDown {
		t.Fatalf("broken script should leave the sprite alone, got %v", s.State())
	}
}

func TestLayerToggleSystem(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewLayerToggleSystem())

	layers := make([]*component.TileLayer, 3)
	for i := range layers {
		layers[i] = &component.TileLayer{Index: i, Name: "layer"}
		if err := ecs.Add(w, ecs.CreateEntity(w), component.TileLayerComponent.Kind(), layers[i]); err != nil {
			t.Fatal(err)
		}
	}
	hidden := func() []bool {
		out := make([]bool, len(layers))
		for i, l := range layers {
			out[i] = l.Hidden
		}
		return out
	}
	toggle := func(layer int) {
		w.Notify(event.Event{Type: event.ToggleLayer, Payload: event.ToggleLayerPayload{Layer: layer}})
		w.Update(0)
	}

	w.Update(0)
	toggle(1)
	if h := hidden(); !h[1] || h[0] || h[2] {
		t.Fatalf("expected only layer 1 hidden, got %v", h)
	}
	toggle(1)
	if h := hidden(); h[1] {
		t.Fatalf("expected layer 1 shown again, got %v", h)
	}

	cycle := [][]bool{
		{true, false, false},
		{false, true, false},
		{false, false, true},
		{false, false, false},
	}
	for i, want := range cycle {
		toggle(-1)
		got := hidden()
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("cycle step %d: expected %v, got %v", i, want, got)
			}
		}
	}
}

func TestSpriteGeoM(t *testing.T) {
	sprite := &component.Sprite{OriginX: 8, OriginY: 8}

	cases := []struct {
		name   string
		rotate float64
		px, py float64
		want   mgl64.Vec2
	}{
		{"origin", 0, 8, 8, mgl64.Vec2{2, 3}},
		{"right_edge", 0, 16, 8, mgl64.Vec2{2.5, 3}},
		{"top_edge_is_up", 0, 8, 0, mgl64.Vec2{2, 3.5}},
		{"quarter_turn", math.Pi / 2, 16, 8, mgl64.Vec2{2, 3.5}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			node := transform.New()
			node.Translate2D(mgl64.Vec2{2, 3})
			node.Rotate(c.rotate, mgl64.Vec3{0, 0, 1})
			g := spriteGeoM(node.AbsoluteMatrix(), sprite, 16)
			x, y := g.Apply(c.px, c.py)
			if !(mgl64.Vec2{x, y}).ApproxEqualThreshold(c.want, 1e-9) {
				t.Fatalf("expected %v, got (%v,%v)", c.want, x, y)
			}
		})
	}
}
