package event

import "github.com/go-gl/mathgl/mgl64"

// Type identifies an event kind.
type Type int

const (
	KeyDown Type = iota
	KeyUp
	KeyRepeat
	CharacterTyped
	MouseCursor
	MouseScroll
	MouseButton
	CursorEnter
	CursorLeave
	AnimationTrigger
	SpriteMove
	SpriteStop
	SetActive
	ToggleFreeCamera
	ToggleLayer
	ToggleDebug
	LoadMap
	WindowExit
)

var typeNames = map[Type]string{
	KeyDown:          "key_down",
	KeyUp:            "key_up",
	KeyRepeat:        "key_repeat",
	CharacterTyped:   "character_typed",
	MouseCursor:      "mouse_cursor",
	MouseScroll:      "mouse_scroll",
	MouseButton:      "mouse_button",
	CursorEnter:      "cursor_enter",
	CursorLeave:      "cursor_leave",
	AnimationTrigger: "animation_trigger",
	SpriteMove:       "sprite_move",
	SpriteStop:       "sprite_stop",
	SetActive:        "set_active",
	ToggleFreeCamera: "toggle_free_camera",
	ToggleLayer:      "toggle_layer",
	ToggleDebug:      "toggle_debug",
	LoadMap:          "load_map",
	WindowExit:       "window_exit",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is a tagged payload. Payload holds one of the structs below, or nil.
type Event struct {
	Type    Type
	Payload any
}

// Key identifies a logical key independent of the input backend.
type Key int

const (
	KeyUnknown Key = iota
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeyF
	KeyL
	KeyEscape
	KeyF3
)

// KeyPayload accompanies KeyDown, KeyUp and KeyRepeat.
type KeyPayload struct {
	Key Key
}

// AnimationTriggerPayload names the animation a sprite should switch to.
type AnimationTriggerPayload struct {
	Source    any
	Animation string
}

// SpriteMovePayload is emitted when a sprite starts a step toward NextPosition.
type SpriteMovePayload struct {
	Source       any
	Velocity     mgl64.Vec2
	NextPosition mgl64.Vec2
}

// SpriteStopPayload is emitted when a sprite settles on a tile.
type SpriteStopPayload struct {
	Source   any
	Position mgl64.Vec2
}

// SetActivePayload toggles an entity or component on or off.
type SetActivePayload struct {
	Target any
	Active bool
}

// ToggleLayerPayload names a tile layer by index.
type ToggleLayerPayload struct {
	Layer int
}

// LoadMapPayload names a level to load.
type LoadMapPayload struct {
	Name string
}

func NewKeyDown(k Key) Event { return Event{Type: KeyDown, Payload: KeyPayload{Key: k}} }
func NewKeyUp(k Key) Event   { return Event{Type: KeyUp, Payload: KeyPayload{Key: k}} }

func NewAnimationTrigger(source any, animation string) Event {
	return Event{Type: AnimationTrigger, Payload: AnimationTriggerPayload{Source: source, Animation: animation}}
}

func NewSpriteMove(source any, velocity, next mgl64.Vec2) Event {
	return Event{Type: SpriteMove, Payload: SpriteMovePayload{Source: source, Velocity: velocity, NextPosition: next}}
}

func NewSpriteStop(source any, position mgl64.Vec2) Event {
	return Event{Type: SpriteStop, Payload: SpriteStopPayload{Source: source, Position: position}}
}

func NewLoadMap(name string) Event { return Event{Type: LoadMap, Payload: LoadMapPayload{Name: name}} }
func NewWindowExit() Event         { return Event{Type: WindowExit} }
