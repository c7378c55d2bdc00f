package system

import (
	"log"
	"sort"

	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/event"
)

// LayerToggleSystem shows and hides tile layers on ToggleLayer events. A
// negative layer index steps through the layers in order, hiding one at a
// time and then showing them all again.
type LayerToggleSystem struct {
	bus   *event.Bus
	world *ecs.World
	next  int
}

func NewLayerToggleSystem() *LayerToggleSystem {
	return &LayerToggleSystem{bus: &event.Bus{}}
}

func (l *LayerToggleSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if l.world != w {
		if l.world != nil {
			l.world.Unobserve(l.bus)
		}
		l.world = w
		w.Observe(l.bus)
	}
	l.bus.ProcessEventQueue(func(evt event.Event) {
		if evt.Type != event.ToggleLayer {
			return
		}
		p, _ := evt.Payload.(event.ToggleLayerPayload)
		l.toggle(w, p.Layer)
	})
}

func (l *LayerToggleSystem) toggle(w *ecs.World, index int) {
	var layers []*component.TileLayer
	ecs.ForEach(w, component.TileLayerComponent.Kind(), func(_ ecs.Entity, tl *component.TileLayer) {
		layers = append(layers, tl)
	})
	if len(layers) == 0 {
		return
	}
	sort.SliceStable(layers, func(i, j int) bool { return layers[i].Index < layers[j].Index })

	if index >= 0 {
		for _, tl := range layers {
			if tl.Index == index {
				tl.Hidden = !tl.Hidden
				log.Printf("layer: %q hidden=%v", tl.Name, tl.Hidden)
			}
		}
		return
	}

	if l.next >= len(layers) {
		for _, tl := range layers {
			tl.Hidden = false
		}
		l.next = 0
		log.Printf("layer: all layers shown")
		return
	}
	for i, tl := range layers {
		tl.Hidden = i == l.next
	}
	log.Printf("layer: %q hidden", layers[l.next].Name)
	l.next++
}
