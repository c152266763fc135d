package system

import (
	"log/slog"

	"github.com/milk9111/villagesim/common"
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
	"github.com/milk9111/villagesim/fsm"
)

const maxParentDepth = 8

// ResolvePosition returns the world position of e, following Parent links.
// It reports false when e or any of its parents is gone or has no transform;
// callers treat that as a soft stall, not an error.
func ResolvePosition(w *ecs.World, e ecs.Entity) (common.Vec3, bool) {
	var pos common.Vec3
	for depth := 0; depth < maxParentDepth; depth++ {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return common.Vec3{}, false
		}
		pos = pos.Add(t.Position)

		parent, ok := ecs.Get(w, e, component.ParentComponent.Kind())
		if !ok {
			return pos, true
		}
		e = ecs.Entity(parent.Entity)
	}
	return common.Vec3{}, false
}

func entityOf(r fsm.Ref) ecs.Entity {
	return ecs.Entity(r)
}

func refOf(e ecs.Entity) fsm.Ref {
	return fsm.Ref(e)
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// dropHeld turns wood carried by holder back into an item drop on the ground
// beneath it.
func dropHeld(w *ecs.World, holder ecs.Entity, held fsm.Ref) bool {
	he := entityOf(held)
	if !ecs.IsAlive(w, he) {
		return false
	}
	pos, ok := ResolvePosition(w, holder)
	if !ok {
		pos, ok = ResolvePosition(w, he)
		if !ok {
			return false
		}
	}
	t, ok := ecs.Get(w, he, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	if err := ecs.Add(w, he, component.ItemDropComponent.Kind(), &component.ItemDrop{}); err != nil {
		return false
	}
	t.Position = common.Vec3{X: pos.X, Z: pos.Z}
	ecs.Remove(w, he, component.ParentComponent.Kind())
	return true
}
