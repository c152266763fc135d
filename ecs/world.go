package ecs

import "github.com/milk9111/villagesim/ecs/component"

// Time is the world clock advanced once per tick.
type Time struct {
	Delta   float64
	Elapsed float64
	Tick    uint64
}

// World owns entities, components, the tick clock and the per-tick event
// queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	removed  []Entity
	events   EventQueue
	time     Time
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e, invalidates its handle and
// records it as removed for the rest of the tick. It returns false if e was
// already dead.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	w.entities.destroy(e)
	w.removed = append(w.removed, e)
	return true
}

// IsAlive reports whether an entity handle still refers to a live entity.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// Removed returns the entities destroyed since the last EndTick.
func Removed(w *World) []Entity {
	if w == nil || len(w.removed) == 0 {
		return nil
	}
	out := make([]Entity, len(w.removed))
	copy(out, w.removed)
	return out
}

// Advance moves the world clock forward by dt seconds.
func (w *World) Advance(dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.time.Delta = dt
	w.time.Elapsed += dt
	w.time.Tick++
}

// Time returns the current world clock.
func (w *World) Time() Time {
	if w == nil {
		return Time{}
	}
	return w.time
}

// EndTick forgets removed entities and drops undelivered events.
func (w *World) EndTick() {
	if w == nil {
		return
	}
	w.removed = w.removed[:0]
	w.events.flush()
}
