package ecs

import "github.com/milk9111/tilequest/ecs/component"

// ForEach calls fn for every live entity that has kind.
func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	sa := w.store(ka.ID(), false)
	for _, e := range snapshot(sa) {
		a, ok := sa.get(e).(*A)
		if ok && IsAlive(w, e) {
			fn(e, a)
		}
	}
}

// ForEach2 calls fn for every live entity that has both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa, sb := w.store(ka.ID(), false), w.store(kb.ID(), false)
	for _, e := range intersect(sa, sb) {
		a, okA := sa.get(e).(*A)
		b, okB := sb.get(e).(*B)
		if okA && okB && IsAlive(w, e) {
			fn(e, a, b)
		}
	}
}

// ForEach3 calls fn for every live entity that has all three kinds.
func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa, sb, sc := w.store(ka.ID(), false), w.store(kb.ID(), false), w.store(kc.ID(), false)
	for _, e := range intersect(sa, sb, sc) {
		a, okA := sa.get(e).(*A)
		b, okB := sb.get(e).(*B)
		c, okC := sc.get(e).(*C)
		if okA && okB && okC && IsAlive(w, e) {
			fn(e, a, b, c)
		}
	}
}

// ForEach4 calls fn for every live entity that has all four kinds.
func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sa, sb, sc, sd := w.store(ka.ID(), false), w.store(kb.ID(), false), w.store(kc.ID(), false), w.store(kd.ID(), false)
	for _, e := range intersect(sa, sb, sc, sd) {
		a, okA := sa.get(e).(*A)
		b, okB := sb.get(e).(*B)
		c, okC := sc.get(e).(*C)
		d, okD := sd.get(e).(*D)
		if okA && okB && okC && okD && IsAlive(w, e) {
			fn(e, a, b, c, d)
		}
	}
}

// First returns the first live entity that has kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := w.store(kind.ID(), false)
	if s == nil {
		return 0, false
	}
	for _, e := range s.denseEntities {
		if IsAlive(w, e) {
			return e, true
		}
	}
	return 0, false
}

// Count returns the number of live entities that have kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	n := 0
	ForEach(w, kind, func(Entity, *T) { n++ })
	return n
}

// snapshot copies the entity list so callbacks may add or remove
// components while iterating.
func snapshot(s *sparseSet) []Entity {
	if s.len() == 0 {
		return nil
	}
	return append([]Entity(nil), s.denseEntities...)
}

// intersect returns the entities present in every set, iterating the
// smallest one.
func intersect(sets ...*sparseSet) []Entity {
	smallest := -1
	for i, s := range sets {
		if s.len() == 0 {
			return nil
		}
		if smallest < 0 || s.len() < sets[smallest].len() {
			smallest = i
		}
	}
	out := make([]Entity, 0, sets[smallest].len())
	for _, e := range sets[smallest].denseEntities {
		inAll := true
		for i, s := range sets {
			if i != smallest && !s.has(e) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, e)
		}
	}
	return out
}
