package movement

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/tilequest/event"
	"github.com/milk9111/tilequest/fsm"
)

// Machine is the sprite movement state machine.
type Machine = fsm.FSM[SpriteData, State, Transition]

type reactor = fsm.Reactor[SpriteData, State, Transition]

// moveReactor walks the sprite one step in its direction.
type moveReactor struct {
	reactor
	dir direction
}

func (r *moveReactor) EnterState() {
	d := r.Data
	unit := mgl64.Vec2{r.dir.unit[0], r.dir.unit[1]}
	d.Velocity = unit.Mul(d.MovingSpeed)
	d.NextPosition = d.Position().Add(unit.Mul(d.MoveQuantization))
	d.Tile = d.Tile.Add(r.dir.tile)

	r.Subject.NotifyNow(event.NewAnimationTrigger(d.Source, d.animation(r.State)))
	r.Subject.Notify(event.NewSpriteMove(d.Source, d.Velocity, d.NextPosition))
}

func (r *moveReactor) UpdateState(delta float64) (Transition, bool) {
	return Step(r.Data, delta)
}

// React keeps moving until the step completes.
func (r *moveReactor) React(t Transition) State {
	if t == None {
		return r.dir.face
	}
	return r.State
}

// faceReactor stands still facing its direction.
type faceReactor struct {
	reactor
	dir direction
}

func (r *faceReactor) EnterState() {
	d := r.Data
	d.Velocity = mgl64.Vec2{}
	d.NextPosition = d.Position()

	r.Subject.NotifyNow(event.NewAnimationTrigger(d.Source, d.animation(r.State)))
	r.Subject.Notify(event.NewSpriteStop(d.Source, d.NextPosition))
}

// React starts a step toward a tile whose collide level is below the
// sprite's, and otherwise turns in place.
func (r *faceReactor) React(t Transition) State {
	to, ok := directionFor(t)
	if !ok {
		return r.State
	}
	d := r.Data
	target := d.Tile.Add(to.tile)
	if d.Collision.CollideLevel(target.X, target.Y) < d.CurrentLevel {
		return to.move
	}
	return to.face
}

func moveFactory(dir direction) fsm.Factory[SpriteData, State, Transition] {
	return func(data *SpriteData, n fsm.Notifier) fsm.StateReactor[SpriteData, State, Transition] {
		return &moveReactor{reactor: fsm.NewReactor[SpriteData, State, Transition](dir.move, data, n), dir: dir}
	}
}

func faceFactory(dir direction) fsm.Factory[SpriteData, State, Transition] {
	return func(data *SpriteData, n fsm.Notifier) fsm.StateReactor[SpriteData, State, Transition] {
		return &faceReactor{reactor: fsm.NewReactor[SpriteData, State, Transition](dir.face, data, n), dir: dir}
	}
}

// NewMachine builds the eight-state movement machine over data, starting in
// FaceDown. The machine is returned stopped.
func NewMachine(data *SpriteData, n fsm.Notifier) (*Machine, error) {
	b := fsm.NewBuilder[SpriteData, State, Transition]()
	for _, dir := range directions {
		b.Register(dir.move, moveFactory(dir))
		b.Register(dir.face, faceFactory(dir))
	}
	return b.Build(data, FaceDown, n)
}
