package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/event"
)

// KeySource reports key edges for the current tick.
type KeySource interface {
	JustPressed(k ebiten.Key) bool
	JustReleased(k ebiten.Key) bool
}

type ebitenKeys struct{}

func (ebitenKeys) JustPressed(k ebiten.Key) bool  { return inpututil.IsKeyJustPressed(k) }
func (ebitenKeys) JustReleased(k ebiten.Key) bool { return inpututil.IsKeyJustReleased(k) }

var keyMap = []struct {
	ebiten ebiten.Key
	key    event.Key
}{
	{ebiten.KeyArrowUp, event.KeyArrowUp},
	{ebiten.KeyArrowDown, event.KeyArrowDown},
	{ebiten.KeyArrowLeft, event.KeyArrowLeft},
	{ebiten.KeyArrowRight, event.KeyArrowRight},
	{ebiten.KeyW, event.KeyW},
	{ebiten.KeyA, event.KeyA},
	{ebiten.KeyS, event.KeyS},
	{ebiten.KeyD, event.KeyD},
	{ebiten.KeyF, event.KeyF},
	{ebiten.KeyL, event.KeyL},
	{ebiten.KeyF3, event.KeyF3},
}

// InputSystem turns key edges into queued key events and maps the hotkeys
// onto their command events.
type InputSystem struct {
	keys KeySource
}

func NewInputSystem() *InputSystem {
	return &InputSystem{keys: ebitenKeys{}}
}

// NewInputSystemWithSource reads keys from src instead of ebiten.
func NewInputSystemWithSource(src KeySource) *InputSystem {
	return &InputSystem{keys: src}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, m := range keyMap {
		if i.keys.JustPressed(m.ebiten) {
			w.Notify(event.NewKeyDown(m.key))
			if cmd, ok := hotkey(m.key); ok {
				w.Notify(cmd)
			}
		}
		if i.keys.JustReleased(m.ebiten) {
			w.Notify(event.NewKeyUp(m.key))
		}
	}
}

func hotkey(k event.Key) (event.Event, bool) {
	switch k {
	case event.KeyF:
		return event.Event{Type: event.ToggleFreeCamera}, true
	case event.KeyL:
		return event.Event{Type: event.ToggleLayer, Payload: event.ToggleLayerPayload{Layer: -1}}, true
	case event.KeyF3:
		return event.Event{Type: event.ToggleDebug}, true
	}
	return event.Event{}, false
}
