package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/movement"
)

// scriptDispatch is appended to every script. Scripts define
// update(engine, memory) and may keep state in memory between runs.
const scriptDispatch = `
update(__engine, __memory)
`

type scriptRuntime struct {
	source   string
	compiled *tengo.Compiled
	memory   *tengo.Map
	elapsed  float64
	failed   bool
}

// ScriptSystem runs each Script component on its interval while the
// entity's sprite stands still. Scripts steer the sprite through
// engine.move.
type ScriptSystem struct {
	runtimes map[ecs.Entity]*scriptRuntime
}

func NewScriptSystem() *ScriptSystem {
	return &ScriptSystem{runtimes: map[ecs.Entity]*scriptRuntime{}}
}

func (ss *ScriptSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	live := make(map[ecs.Entity]struct{}, len(ss.runtimes))
	ecs.ForEach2(w, component.ScriptComponent.Kind(), component.MovementComponent.Kind(), func(e ecs.Entity, sc *component.Script, s *movement.SpriteMovement) {
		live[e] = struct{}{}

		rt, err := ss.runtime(e, sc)
		if err != nil {
			log.Printf("script: entity=%s compile %s: %v", e, sc.Path, err)
			return
		}
		if rt.failed {
			return
		}

		rt.elapsed += w.Delta()
		if rt.elapsed < sc.Interval || !s.Active() || s.State().Moving() {
			return
		}
		rt.elapsed = 0

		if err := rt.run(buildScriptEngine(w, s)); err != nil {
			log.Printf("script: entity=%s run %s: %v", e, sc.Path, err)
			rt.failed = true
		}
	})

	for e := range ss.runtimes {
		if _, ok := live[e]; !ok {
			delete(ss.runtimes, e)
		}
	}
}

// Reload drops every compiled script so the next update recompiles from the
// components' current sources.
func (ss *ScriptSystem) Reload() {
	ss.runtimes = map[ecs.Entity]*scriptRuntime{}
}

func (ss *ScriptSystem) runtime(e ecs.Entity, sc *component.Script) (*scriptRuntime, error) {
	src := string(sc.Source)
	if rt, ok := ss.runtimes[e]; ok && rt.source == src {
		return rt, nil
	}

	script := tengo.NewScript([]byte(src + "\n" + scriptDispatch))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__memory", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	rt := &scriptRuntime{
		source:   src,
		compiled: compiled,
		memory:   &tengo.Map{Value: map[string]tengo.Object{}},
	}
	ss.runtimes[e] = rt
	return rt, nil
}

func (rt *scriptRuntime) run(engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__memory", rt.memory); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildScriptEngine(w *ecs.World, s *movement.SpriteMovement) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		t, ok := movement.ParseTransition(strings.ToLower(strings.TrimSpace(objectAsString(args[0]))))
		if !ok || t == movement.None {
			return tengo.FalseValue, nil
		}
		s.Push(t)
		if s.State().Moving() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["tile"] = &tengo.UserFunction{Name: "tile", Value: func(args ...tengo.Object) (tengo.Object, error) {
		tile := s.Data().Tile
		return &tengo.Array{Value: []tengo.Object{&tengo.Int{Value: int64(tile.X)}, &tengo.Int{Value: int64(tile.Y)}}}, nil
	}}

	values["state"] = &tengo.UserFunction{Name: "state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: s.State().String()}, nil
	}}

	values["player_tile"] = &tengo.UserFunction{Name: "player_tile", Value: func(args ...tengo.Object) (tengo.Object, error) {
		player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
		if !ok {
			return tengo.UndefinedValue, nil
		}
		ps, ok := ecs.Get(w, player, component.MovementComponent.Kind())
		if !ok {
			return tengo.UndefinedValue, nil
		}
		tile := ps.Data().Tile
		return &tengo.Array{Value: []tengo.Object{&tengo.Int{Value: int64(tile.X)}, &tengo.Int{Value: int64(tile.Y)}}}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Printf("script: %s", strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
