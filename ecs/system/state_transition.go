package system

import (
	"log/slog"

	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
	"github.com/milk9111/villagesim/fsm"
)

// StateTransitionSystem applies each agent's pending decision to its state
// and resets the decision to Continue.
type StateTransitionSystem struct {
	log *slog.Logger
}

func NewStateTransitionSystem(log *slog.Logger) *StateTransitionSystem {
	return &StateTransitionSystem{log: loggerOr(log)}
}

func (s *StateTransitionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Time().Delta

	ecs.ForEach2(w,
		component.FSMStateComponent.Kind(),
		component.PendingDecisionComponent.Kind(),
		func(e ecs.Entity, st *component.FSMState, pending *component.PendingDecision) {
			prev := st.State
			st.State = fsm.Transition(prev, pending.Decision, dt)
			pending.Decision = fsm.Continue

			if prev.Kind != st.State.Kind {
				s.log.Debug("transition", "entity", e.String(), "from", prev.Kind.String(), "to", st.State.Kind.String())
			}
		})
}
