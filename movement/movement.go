// Package movement implements tile-quantized sprite movement as an eight
// state machine: a Move and a Face state for each of the four headings.
package movement

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/milk9111/tilequest/event"
	"github.com/milk9111/tilequest/fsm"
	"github.com/milk9111/tilequest/transform"
)

var (
	ErrNilTransform = errors.New("movement: transform is nil")
	ErrNilCollision = errors.New("movement: collision data is nil")
)

// Config holds the tunables of a sprite.
type Config struct {
	MovingSpeed      float64
	MoveQuantization float64
	CurrentLevel     int
	Animations       map[State]string
	// Input makes the sprite follow key events.
	Input bool
}

// SpriteMovement owns a movement machine and translates held directions
// into transitions. It observes a Subject for key and activation events.
type SpriteMovement struct {
	event.Mailbox

	data    *SpriteData
	machine *Machine
	input   bool
	active  bool
	held    map[Transition]bool
}

// New wires a sprite to t and collision. Events are emitted through n.
func New(cfg Config, t *transform.Transform, collision CollisionLookup, n fsm.Notifier) (*SpriteMovement, error) {
	if t == nil {
		return nil, ErrNilTransform
	}
	if collision == nil {
		return nil, ErrNilCollision
	}
	if cfg.MoveQuantization == 0 {
		cfg.MoveQuantization = 1
	}

	s := &SpriteMovement{
		input:  cfg.Input,
		active: true,
		held:   make(map[Transition]bool, 4),
	}
	s.data = &SpriteData{
		MovingSpeed:      cfg.MovingSpeed,
		MoveQuantization: cfg.MoveQuantization,
		CurrentLevel:     cfg.CurrentLevel,
		Transform:        t,
		Collision:        collision,
		Animations:       cfg.Animations,
		Source:           s,
	}
	pos := s.data.Position()
	s.data.Tile = TileFor(pos.X(), pos.Y())
	s.data.NextPosition = pos

	m, err := NewMachine(s.data, n)
	if err != nil {
		return nil, fmt.Errorf("movement: build machine: %w", err)
	}
	s.machine = m
	return s, nil
}

// TileFor maps a world position to its tile. World y grows upward and tile
// rows grow downward; tile (0,0) sits at the world origin.
func TileFor(x, y float64) image.Point {
	return image.Pt(int(math.Round(x)), int(math.Round(-y)))
}

// Start starts the machine. A standing sprite first re-derives its tile
// from the transform; a step frozen by Stop keeps its target and resumes.
func (s *SpriteMovement) Start() {
	if !s.machine.Current().Moving() {
		pos := s.data.Position()
		s.data.Tile = TileFor(pos.X(), pos.Y())
		s.data.NextPosition = pos
	}
	s.machine.Start()
}

// Stop halts the machine; a step in progress freezes where it is.
func (s *SpriteMovement) Stop() {
	s.machine.Stop()
}

// SetActive enables or disables Update. Deactivating releases every held
// heading.
func (s *SpriteMovement) SetActive(active bool) {
	if !active {
		clear(s.held)
	}
	s.active = active
}

func (s *SpriteMovement) Active() bool           { return s.active }
func (s *SpriteMovement) State() State           { return s.machine.Current() }
func (s *SpriteMovement) Data() *SpriteData      { return s.data }
func (s *SpriteMovement) Machine() *Machine      { return s.machine }
func (s *SpriteMovement) Held(t Transition) bool { return s.held[t] }

// Press marks a heading as held. Held headings start a step whenever the
// sprite is standing still.
func (s *SpriteMovement) Press(t Transition) {
	if t != None {
		s.held[t] = true
	}
}

// Release clears a held heading.
func (s *SpriteMovement) Release(t Transition) {
	delete(s.held, t)
}

// Push feeds t straight into the machine.
func (s *SpriteMovement) Push(t Transition) {
	s.machine.Transition(t)
}

// Update handles queued events, turns the highest priority held heading
// into a transition while standing, then ticks the machine. Held headings
// only start steps on a running machine. An inactive sprite drops its
// queued events.
func (s *SpriteMovement) Update(delta float64) {
	if !s.active {
		s.ProcessEventQueue(func(event.Event) {})
		return
	}
	s.ProcessEventQueue(s.handle)

	if s.machine.Running() && !s.machine.Current().Moving() {
		for _, dir := range directions {
			if s.held[dir.transition] {
				s.machine.Transition(dir.transition)
				break
			}
		}
	}
	s.machine.Update(delta)
}

// OnNotifyNow handles an immediate event in place.
func (s *SpriteMovement) OnNotifyNow(evt event.Event) {
	s.handle(evt)
}

func (s *SpriteMovement) handle(evt event.Event) {
	switch evt.Type {
	case event.KeyDown, event.KeyUp:
		if !s.input {
			return
		}
		p, ok := evt.Payload.(event.KeyPayload)
		if !ok {
			return
		}
		t, ok := keyTransition(p.Key)
		if !ok {
			return
		}
		if evt.Type == event.KeyDown {
			s.Press(t)
		} else {
			s.Release(t)
		}
	case event.SetActive:
		if p, ok := evt.Payload.(event.SetActivePayload); ok && p.Target == s {
			s.SetActive(p.Active)
		}
	}
}

func keyTransition(k event.Key) (Transition, bool) {
	switch k {
	case event.KeyW, event.KeyArrowUp:
		return Up, true
	case event.KeyS, event.KeyArrowDown:
		return Down, true
	case event.KeyA, event.KeyArrowLeft:
		return Left, true
	case event.KeyD, event.KeyArrowRight:
		return Right, true
	}
	return None, false
}

func (s *SpriteMovement) String() string {
	d := s.data
	return fmt.Sprintf("sprite movement: state=%s speed=%g quantization=%g velocity=%v next=%v tile=%v",
		s.machine.Current(), d.MovingSpeed, d.MoveQuantization, d.Velocity, d.NextPosition, d.Tile)
}
