package system

import (
	"log/slog"

	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
	"github.com/milk9111/villagesim/fsm"
)

// InterruptSystem forces agents whose target went away back to Idle. It runs
// after the state transition and can only ever produce Idle. Wood an
// interrupted agent was carrying is put down where it stands.
type InterruptSystem struct {
	log *slog.Logger
}

func NewInterruptSystem(log *slog.Logger) *InterruptSystem {
	return &InterruptSystem{log: loggerOr(log)}
}

func (s *InterruptSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	gone := make(map[ecs.Entity]struct{})
	for _, e := range ecs.Removed(w) {
		gone[e] = struct{}{}
	}
	for e := range ecs.DestroyedHarvestables(w) {
		gone[e] = struct{}{}
	}

	removed := func(r fsm.Ref) bool {
		e := entityOf(r)
		if _, ok := gone[e]; ok {
			return true
		}
		return !ecs.IsAlive(w, e)
	}

	ecs.ForEach(w, component.FSMStateComponent.Kind(), func(e ecs.Entity, st *component.FSMState) {
		prev := st.State
		next, interrupted := fsm.Interrupt(prev, removed)
		if !interrupted {
			return
		}
		st.State = next
		if prev.Held != fsm.None {
			dropHeld(w, e, prev.Held)
		}
		s.log.Info("task interrupted", "entity", e.String(), "state", prev.Kind.String(), "target", entityOf(prev.Target).String())
	})
}
