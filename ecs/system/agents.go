package system

import (
	"github.com/milk9111/villagesim/common"
	"github.com/milk9111/villagesim/ecs"
	"github.com/milk9111/villagesim/ecs/component"
	"github.com/milk9111/villagesim/fsm"
)

// agent bundles the components every per-state system works with.
type agent struct {
	Entity    ecs.Entity
	State     fsm.State
	Villager  *component.Villager
	Transform *component.Transform
	Pending   *component.PendingDecision
}

// forAgentsIn calls fn for every villager currently in state kind.
func forAgentsIn(w *ecs.World, kind fsm.Kind, fn func(a agent)) {
	ecs.ForEach3(w,
		component.FSMStateComponent.Kind(),
		component.VillagerComponent.Kind(),
		component.TransformComponent.Kind(),
		func(e ecs.Entity, st *component.FSMState, v *component.Villager, t *component.Transform) {
			if st.State.Kind != kind {
				return
			}
			pending, ok := ecs.Get(w, e, component.PendingDecisionComponent.Kind())
			if !ok {
				return
			}
			fn(agent{Entity: e, State: st.State, Villager: v, Transform: t, Pending: pending})
		})
}

// approach steers a toward its target. ok is false when the target cannot be
// resolved this tick, in which case a holds position.
func approach(w *ecs.World, a agent) (arrived, ok bool) {
	target, ok := ResolvePosition(w, entityOf(a.State.Target))
	if !ok {
		return false, false
	}
	dt := w.Time().Delta
	a.Transform.Position, a.Transform.Yaw = common.Steer(a.Transform.Position, a.Transform.Yaw, target, a.Villager.MoveSpeed, dt)
	return fsm.IsFinished(a.State.Retarget(target), a.Transform.Position), true
}
