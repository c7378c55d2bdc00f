package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/event"
	"github.com/milk9111/tilequest/fsm"
	"github.com/milk9111/tilequest/movement"
	"github.com/milk9111/tilequest/transform"
)

// CameraMode is the state of the camera machine.
type CameraMode int

const (
	CameraFollow CameraMode = iota
	CameraFree
)

func (m CameraMode) String() string {
	if m == CameraFree {
		return "free"
	}
	return "follow"
}

type cameraSignal int

const cameraToggle cameraSignal = iota

type cameraData struct {
	camera    *component.Camera
	transform *transform.Transform
	target    *transform.Transform
	sprite    *movement.SpriteMovement

	tweenX *gween.Tween
	tweenY *gween.Tween
	pan    map[event.Key]bool
}

type cameraMachine = fsm.FSM[cameraData, CameraMode, cameraSignal]

// CameraSystem keeps the camera on its target. The camera follows the
// target's steps with a tween, and a toggle switches it to a free camera
// panned with the arrow keys while the target's input is suspended.
type CameraSystem struct {
	bus       *event.Bus
	world     *ecs.World
	camEntity ecs.Entity
	data      *cameraData
	machine   *cameraMachine
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{bus: &event.Bus{}}
}

// Mode returns the current camera mode.
func (cs *CameraSystem) Mode() CameraMode {
	if cs.machine == nil {
		return CameraFollow
	}
	return cs.machine.Current()
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if cs.world != w {
		if cs.world != nil {
			cs.world.Unobserve(cs.bus)
		}
		cs.world = w
		cs.machine = nil
		w.Observe(cs.bus)
	}

	if !cs.bind(w) {
		cs.bus.ProcessEventQueue(func(event.Event) {})
		return
	}
	cs.bus.ProcessEventQueue(cs.handle)
	cs.machine.Update(w.Delta())
}

// bind locates the camera and its target and builds the machine on first
// sight of a new camera entity.
func (cs *CameraSystem) bind(w *ecs.World) bool {
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		cs.machine = nil
		return false
	}
	cam, _ := ecs.Get(w, camEntity, component.CameraComponent.Kind())
	camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind())
	if !ok {
		return false
	}

	if cs.machine == nil || cs.camEntity != camEntity {
		data := &cameraData{pan: map[event.Key]bool{}}
		m, err := newCameraMachine(data, w)
		if err != nil {
			log.Printf("camera: build machine: %v", err)
			return false
		}
		cs.camEntity = camEntity
		cs.data = data
		cs.machine = m
		m.Start()
	}
	cs.data.camera = cam
	cs.data.transform = camTransform

	target, ok := findTarget(w, cam.TargetName)
	if !ok {
		cs.data.target = nil
		cs.data.sprite = nil
		return true
	}
	first := cs.data.target == nil
	cs.data.target, _ = ecs.Get(w, target, component.TransformComponent.Kind())
	cs.data.sprite, _ = ecs.Get(w, target, component.MovementComponent.Kind())
	if first && cs.machine.Current() == CameraFollow {
		setPosition(camTransform, cs.data.target.AbsoluteTranslation().Vec2())
	}
	return true
}

func (cs *CameraSystem) handle(evt event.Event) {
	d := cs.data
	switch evt.Type {
	case event.ToggleFreeCamera:
		cs.machine.Transition(cameraToggle)
	case event.KeyDown, event.KeyUp:
		if p, ok := evt.Payload.(event.KeyPayload); ok {
			d.pan[p.Key] = evt.Type == event.KeyDown
		}
	case event.SpriteMove:
		p, ok := evt.Payload.(event.SpriteMovePayload)
		if !ok || d.sprite == nil || p.Source != d.sprite || cs.machine.Current() != CameraFollow {
			return
		}
		from := d.transform.AbsoluteTranslation()
		duration := float32(d.camera.FollowDuration)
		if duration <= 0 {
			setPosition(d.transform, p.NextPosition)
			return
		}
		d.tweenX = gween.New(float32(from.X()), float32(p.NextPosition.X()), duration, ease.OutQuad)
		d.tweenY = gween.New(float32(from.Y()), float32(p.NextPosition.Y()), duration, ease.OutQuad)
	}
}

func newCameraMachine(data *cameraData, n fsm.Notifier) (*cameraMachine, error) {
	b := fsm.NewBuilder[cameraData, CameraMode, cameraSignal]()
	b.RegisterFuncs(CameraFollow, func(d *cameraData, n fsm.Notifier) *fsm.Funcs[cameraData, CameraMode, cameraSignal] {
		return &fsm.Funcs[cameraData, CameraMode, cameraSignal]{
			OnEnter: func() {
				if d.target != nil {
					setPosition(d.transform, d.target.AbsoluteTranslation().Vec2())
				}
				if d.sprite != nil {
					n.NotifyNow(event.Event{Type: event.SetActive, Payload: event.SetActivePayload{Target: d.sprite, Active: true}})
				}
			},
			OnUpdate: func(delta float64) (cameraSignal, bool) {
				followStep(d, delta)
				return 0, false
			},
			OnReact: func(s cameraSignal) CameraMode {
				if s == cameraToggle {
					return CameraFree
				}
				return CameraFollow
			},
		}
	})
	b.RegisterFuncs(CameraFree, func(d *cameraData, n fsm.Notifier) *fsm.Funcs[cameraData, CameraMode, cameraSignal] {
		return &fsm.Funcs[cameraData, CameraMode, cameraSignal]{
			OnEnter: func() {
				d.tweenX, d.tweenY = nil, nil
				if d.sprite != nil {
					n.NotifyNow(event.Event{Type: event.SetActive, Payload: event.SetActivePayload{Target: d.sprite, Active: false}})
				}
			},
			OnUpdate: func(delta float64) (cameraSignal, bool) {
				panStep(d, delta)
				return 0, false
			},
			OnReact: func(s cameraSignal) CameraMode {
				if s == cameraToggle {
					return CameraFollow
				}
				return CameraFree
			},
		}
	})
	return b.Build(data, CameraFollow, n)
}

func followStep(d *cameraData, delta float64) {
	if d.tweenX == nil || d.tweenY == nil || d.transform == nil {
		return
	}
	x, doneX := d.tweenX.Update(float32(delta))
	y, doneY := d.tweenY.Update(float32(delta))
	setPosition(d.transform, mgl64.Vec2{float64(x), float64(y)})
	if doneX && doneY {
		d.tweenX, d.tweenY = nil, nil
	}
}

func panStep(d *cameraData, delta float64) {
	if d.transform == nil || d.camera == nil {
		return
	}
	var dir mgl64.Vec2
	if d.pan[event.KeyArrowUp] {
		dir[1]++
	}
	if d.pan[event.KeyArrowDown] {
		dir[1]--
	}
	if d.pan[event.KeyArrowLeft] {
		dir[0]--
	}
	if d.pan[event.KeyArrowRight] {
		dir[0]++
	}
	if dir.Len() == 0 {
		return
	}
	d.transform.Translate2D(dir.Normalize().Mul(d.camera.PanSpeed * delta))
}

// setPosition moves t so that its absolute x/y equals pos.
func setPosition(t *transform.Transform, pos mgl64.Vec2) {
	if t == nil {
		return
	}
	t.Translate2D(pos.Sub(t.AbsoluteTranslation().Vec2()))
}

// findTarget resolves a camera target by Name component, with "player"
// also matching the player tag.
func findTarget(w *ecs.World, name string) (ecs.Entity, bool) {
	if name == "" {
		return 0, false
	}
	var found ecs.Entity
	ecs.ForEach2(w, component.NameComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, n *component.Name, _ *transform.Transform) {
		if !found.Valid() && n.Value == name {
			found = e
		}
	})
	if found.Valid() {
		return found, true
	}
	if name == "player" {
		if e, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok && ecs.Has(w, e, component.TransformComponent.Kind()) {
			return e, true
		}
	}
	return 0, false
}
