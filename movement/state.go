package movement

import "image"

// State is a sprite movement state.
type State int

const (
	MoveUp State = iota
	FaceUp
	MoveDown
	FaceDown
	MoveLeft
	FaceLeft
	MoveRight
	FaceRight
)

var stateNames = [...]string{
	MoveUp:    "move_up",
	FaceUp:    "face_up",
	MoveDown:  "move_down",
	FaceDown:  "face_down",
	MoveLeft:  "move_left",
	FaceLeft:  "face_left",
	MoveRight: "move_right",
	FaceRight: "face_right",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// ParseState maps a name produced by String back to a State.
func ParseState(name string) (State, bool) {
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return 0, false
}

// Moving reports whether s is one of the Move states.
func (s State) Moving() bool {
	return s == MoveUp || s == MoveDown || s == MoveLeft || s == MoveRight
}

// Transition is the input fed to the movement machine. None signals that a
// step has completed.
type Transition int

const (
	None Transition = iota
	Up
	Down
	Left
	Right
)

var transitionNames = [...]string{
	None:  "none",
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
}

func (t Transition) String() string {
	if t >= 0 && int(t) < len(transitionNames) {
		return transitionNames[t]
	}
	return "unknown"
}

// ParseTransition maps "up", "down", "left", "right" or "none" to a
// Transition.
func ParseTransition(name string) (Transition, bool) {
	for i, n := range transitionNames {
		if n == name {
			return Transition(i), true
		}
	}
	return None, false
}

// direction ties the move and face states of one heading together. World y
// grows upward while tile rows grow downward.
type direction struct {
	move       State
	face       State
	transition Transition
	unit       [2]float64
	tile       image.Point
}

// directions is also the priority order for held keys.
var directions = [...]direction{
	{move: MoveLeft, face: FaceLeft, transition: Left, unit: [2]float64{-1, 0}, tile: image.Pt(-1, 0)},
	{move: MoveRight, face: FaceRight, transition: Right, unit: [2]float64{1, 0}, tile: image.Pt(1, 0)},
	{move: MoveUp, face: FaceUp, transition: Up, unit: [2]float64{0, 1}, tile: image.Pt(0, -1)},
	{move: MoveDown, face: FaceDown, transition: Down, unit: [2]float64{0, -1}, tile: image.Pt(0, 1)},
}

func directionFor(t Transition) (direction, bool) {
	for _, d := range directions {
		if d.transition == t {
			return d, true
		}
	}
	return direction{}, false
}
