package component

import "github.com/hajimehoshi/ebiten/v2"

type AnimationDef struct {
	Name   string
	Frames []*ebiten.Image
	FPS    float64
	Loop   bool
}

type Animation struct {
	Defs    map[string]AnimationDef
	Current string
	Frame   int
	// Elapsed is the time in seconds spent on the current frame.
	Elapsed float64
	Playing bool
}

// Play switches to name from its first frame. Unknown names are ignored.
func (a *Animation) Play(name string) bool {
	if _, ok := a.Defs[name]; !ok {
		return false
	}
	a.Current = name
	a.Frame = 0
	a.Elapsed = 0
	a.Playing = true
	return true
}

var AnimationComponent = NewComponent[Animation]()
